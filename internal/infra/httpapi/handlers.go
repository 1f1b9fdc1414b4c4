package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"campus_event_bot/internal/app"
	"campus_event_bot/internal/domain/eventtime"
	"campus_event_bot/internal/infra/config"
	idb "campus_event_bot/internal/infra/database"
	"campus_event_bot/internal/infra/scheduler"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const upcomingWindow = 7 * 24 * time.Hour

type envelope map[string]any

type handlers struct {
	events    *app.EventService
	reminders *app.ReminderService
	auth      *app.AuthService
	cfg       *config.AppConfig
	logger    *logrus.Entry
}

func (h *handlers) registerRoutes(e *echo.Echo) {
	api := e.Group("/api")

	api.POST("/register", h.register)
	api.POST("/login", h.login)
	api.POST("/forgot-password", h.forgotPassword)

	api.GET("/events", h.listEvents)
	api.POST("/events", h.createEvent)
	api.GET("/events/category/:category", h.eventsByCategory)
	api.GET("/events/:id", h.getEvent)
	api.PUT("/events/:id", h.updateEvent)
	api.DELETE("/events/:id", h.deleteEvent)
	api.GET("/search/:keyword", h.searchEvents)
	api.GET("/upcoming", h.upcomingEvents)

	api.GET("/reminders", h.listReminders)
	api.POST("/reminders/:eventId", h.scheduleReminder)
	api.DELETE("/reminders/:eventId", h.cancelReminder)

	api.GET("/health", h.health)
	api.GET("/config", h.botConfig)
}

func badRequest(format string, args ...any) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// eventError maps event service errors onto HTTP statuses.
func eventError(err error) error {
	switch {
	case errors.Is(err, idb.ErrEventNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	case errors.Is(err, app.ErrInvalidEvent):
		return echo.NewHTTPError(http.StatusBadRequest, strings.TrimPrefix(err.Error(), app.ErrInvalidEvent.Error()+": "))
	default:
		return err
	}
}

func (h *handlers) register(c echo.Context) error {
	var in credentials
	if err := c.Bind(&in); err != nil {
		return badRequest("Invalid request body")
	}
	_, err := h.auth.Register(c.Request().Context(), in.Username, in.Password)
	switch {
	case errors.Is(err, app.ErrMissingCredentials):
		return badRequest("Username and password required")
	case errors.Is(err, app.ErrUsernameTaken):
		return badRequest("Username already exists")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusCreated, envelope{"success": true, "message": "User registered successfully!"})
}

func (h *handlers) login(c echo.Context) error {
	var in credentials
	if err := c.Bind(&in); err != nil {
		return badRequest("Invalid request body")
	}
	u, err := h.auth.Login(c.Request().Context(), in.Username, in.Password)
	switch {
	case errors.Is(err, app.ErrMissingCredentials):
		return badRequest("Username and password required")
	case errors.Is(err, app.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, envelope{
		"success": true,
		"user": envelope{
			"id":       u.ID,
			"username": u.Username,
			"isAdmin":  u.IsAdmin,
		},
	})
}

func (h *handlers) forgotPassword(c echo.Context) error {
	var in credentials
	if err := c.Bind(&in); err != nil {
		return badRequest("Invalid request body")
	}
	_, err := h.auth.RequestPasswordReset(c.Request().Context(), in.Username, h.cfg.DashboardURL)
	switch {
	case errors.Is(err, app.ErrMissingUsername):
		return badRequest("Username required")
	case errors.Is(err, app.ErrUnknownUser):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "message": "Password reset link sent to your email (check server console)"})
}

func (h *handlers) listEvents(c echo.Context) error {
	events, err := h.events.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "events": toEventList(events)})
}

func (h *handlers) createEvent(c echo.Context) error {
	var in eventInput
	if err := c.Bind(&in); err != nil {
		return badRequest("Invalid request body")
	}
	e, err := h.events.Create(c.Request().Context(), in.toEvent())
	if err != nil {
		return eventError(err)
	}
	return c.JSON(http.StatusCreated, envelope{"success": true, "message": "Event added!", "event": toEventJSON(e)})
}

func (h *handlers) getEvent(c echo.Context) error {
	e, err := h.events.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return eventError(err)
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "event": toEventJSON(e)})
}

func (h *handlers) updateEvent(c echo.Context) error {
	var in eventInput
	if err := c.Bind(&in); err != nil {
		return badRequest("Invalid request body")
	}
	e, err := h.events.Update(c.Request().Context(), c.Param("id"), in.toChanges())
	if err != nil {
		return eventError(err)
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "message": "Event updated!", "event": toEventJSON(e)})
}

func (h *handlers) deleteEvent(c echo.Context) error {
	e, err := h.events.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return eventError(err)
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "message": "Event deleted!", "event": toEventJSON(e)})
}

func (h *handlers) searchEvents(c echo.Context) error {
	events, err := h.events.Search(c.Request().Context(), c.Param("keyword"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "events": toEventList(events)})
}

func (h *handlers) eventsByCategory(c echo.Context) error {
	events, err := h.events.ListByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "events": toEventList(events)})
}

func (h *handlers) upcomingEvents(c echo.Context) error {
	upcoming, err := h.events.Upcoming(c.Request().Context(), upcomingWindow)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "events": toScheduledList(upcoming)})
}

func (h *handlers) scheduleReminder(c echo.Context) error {
	var in reminderRequest
	if err := c.Bind(&in); err != nil {
		return badRequest("Invalid request body")
	}
	if in.MinutesBefore < 0 {
		return badRequest("minutesBefore cannot be negative")
	}

	e, job, err := h.reminders.ScheduleEventReminder(c.Request().Context(), c.Param("eventId"), string(in.ChatID), in.MinutesBefore)
	switch {
	case errors.Is(err, idb.ErrEventNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	case errors.Is(err, eventtime.ErrNotParseable):
		return badRequest("Could not parse event date/time")
	case errors.Is(err, scheduler.ErrReminderInPast):
		return badRequest("Reminder time has already passed for this event")
	case errors.Is(err, app.ErrNoRecipient):
		return badRequest("chatId is required")
	case err != nil:
		return err
	}

	h.logger.WithFields(logrus.Fields{"event_id": e.ID, "fires_at": job.FiresAt}).Info("Reminder scheduled via API")
	return c.JSON(http.StatusOK, envelope{
		"success":  true,
		"message":  fmt.Sprintf("Reminder scheduled for %s", e.Title),
		"event":    toEventJSON(e),
		"reminder": toReminderJSON(*job),
	})
}

func (h *handlers) cancelReminder(c echo.Context) error {
	if !h.reminders.CancelReminder(c.Param("eventId")) {
		return echo.NewHTTPError(http.StatusNotFound, "No active reminder found for this event")
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "message": "Reminder cancelled successfully"})
}

func (h *handlers) listReminders(c echo.Context) error {
	jobs := h.reminders.ActiveReminders()
	out := make([]reminderJSON, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toReminderJSON(j))
	}
	return c.JSON(http.StatusOK, envelope{
		"success":   true,
		"active":    h.reminders.ListActiveReminders(),
		"reminders": out,
	})
}

func (h *handlers) health(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope{
		"status":    "Server is running!",
		"timestamp": time.Now().UTC(),
		"database":  h.cfg.DatabaseDriver,
	})
}

func (h *handlers) botConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope{
		"success":      true,
		"telegramLink": h.cfg.TelegramBotLink,
		"whatsappLink": h.cfg.WhatsAppBotLink,
	})
}
