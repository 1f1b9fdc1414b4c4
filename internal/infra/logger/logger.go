package logger

import (
	"os"

	"campus_event_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is shared by every component; use For to get a tagged entry.
var Log = logrus.New()

// Init applies the configured level and output format to Log. An unknown level keeps info.
func Init(cfg *config.AppConfig) {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(formatterFor(cfg.Environment))

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	entry := Log.WithFields(logrus.Fields{"level": level.String(), "environment": cfg.Environment})
	if err != nil {
		entry.WithError(err).Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		return
	}
	entry.Debug("Logger configured")
}

// formatterFor picks JSON for deployed environments and readable text elsewhere.
func formatterFor(environment string) logrus.Formatter {
	switch environment {
	case "production", "staging":
		return &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"}
	default:
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"}
	}
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}
