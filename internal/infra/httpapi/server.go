package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"campus_event_bot/internal/app"
	"campus_event_bot/internal/infra/config"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// Deps are the services the API exposes. Nil webhooks are not mounted.
type Deps struct {
	Events          *app.EventService
	Reminders       *app.ReminderService
	Auth            *app.AuthService
	WhatsAppWebhook interface{ RegisterRoutes(e *echo.Echo) }
	TelegramWebhook http.Handler
}

// Server is the dashboard REST API plus the chat webhooks.
type Server struct {
	echo   *echo.Echo
	cfg    *config.AppConfig
	logger *logrus.Entry
}

func NewServer(cfg *config.AppConfig, deps Deps, logger *logrus.Entry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetOutput(io.Discard)
	e.HTTPErrorHandler = jsonErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger(logger))

	h := &handlers{
		events:    deps.Events,
		reminders: deps.Reminders,
		auth:      deps.Auth,
		cfg:       cfg,
		logger:    logger,
	}
	h.registerRoutes(e)

	if deps.WhatsAppWebhook != nil {
		deps.WhatsAppWebhook.RegisterRoutes(e)
	}
	if deps.TelegramWebhook != nil {
		e.POST("/webhook/telegram", echo.WrapHandler(deps.TelegramWebhook))
	}
	if cfg.StaticDir != "" {
		e.Static("/", cfg.StaticDir)
	}

	return &Server{echo: e, cfg: cfg, logger: logger}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	addr := ":" + s.cfg.Port
	s.logger.WithField("addr", addr).Info("HTTP server listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// jsonErrorHandler renders every error as {"success": false, "message": ...}.
func jsonErrorHandler(logger *logrus.Entry) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		message := "Internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		} else {
			logger.WithError(err).WithField("path", c.Path()).Error("Unhandled request error")
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(code)
		} else {
			respErr = c.JSON(code, envelope{"success": false, "message": message})
		}
		if respErr != nil {
			logger.WithError(respErr).Error("Failed to write error response")
		}
	}
}

func requestLogger(logger *logrus.Entry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Render errors here so the logged status is the one the client gets.
			if err := next(c); err != nil {
				c.Error(err)
			}
			logger.WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Request().URL.Path,
				"status": c.Response().Status,
			}).Debug("Request handled")
			return nil
		}
	}
}
