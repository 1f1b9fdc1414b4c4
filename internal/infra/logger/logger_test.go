package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"campus_event_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.AppConfig
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{name: "debug in development", cfg: config.AppConfig{LogLevel: "debug", Environment: "development"}, wantLevel: logrus.DebugLevel},
		{name: "production uses json", cfg: config.AppConfig{LogLevel: "warn", Environment: "production"}, wantLevel: logrus.WarnLevel, wantJSON: true},
		{name: "invalid level falls back to info", cfg: config.AppConfig{LogLevel: "loud", Environment: "development"}, wantLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(&tt.cfg)
			assert.Equal(t, tt.wantLevel, Log.GetLevel())
			_, isJSON := Log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}

func TestFormatterFor(t *testing.T) {
	for env, wantJSON := range map[string]bool{
		"production":  true,
		"staging":     true,
		"development": false,
		"":            false,
	} {
		_, isJSON := formatterFor(env).(*logrus.JSONFormatter)
		assert.Equal(t, wantJSON, isJSON, env)
	}
}

func TestFor(t *testing.T) {
	var buf bytes.Buffer
	Init(&config.AppConfig{LogLevel: "info", Environment: "production"})
	Log.SetOutput(&buf)

	For("scheduler").Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "scheduler", line["component"])
	assert.Equal(t, "hello", line["msg"])
}
