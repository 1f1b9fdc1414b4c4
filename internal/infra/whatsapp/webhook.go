package whatsapp

import (
	"context"
	"net/http"

	"campus_event_bot/internal/domain/messenger"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Responder produces the reply to an incoming WhatsApp text.
type Responder interface {
	WhatsAppMessage(ctx context.Context, text string) string
}

type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value struct {
				Metadata struct {
					PhoneNumberID string `json:"phone_number_id"`
				} `json:"metadata"`
				Messages []incomingMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type incomingMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

// WebhookHandler serves the Cloud API webhook: subscription verification and incoming
// messages.
type WebhookHandler struct {
	verifyToken string
	responder   Responder
	sender      messenger.Sender
	logger      *logrus.Entry
}

func NewWebhookHandler(verifyToken string, responder Responder, sender messenger.Sender, logger *logrus.Entry) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		responder:   responder,
		sender:      sender,
		logger:      logger,
	}
}

// RegisterRoutes mounts the webhook on e.
func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/webhook/whatsapp")
	g.GET("", h.Verify)
	g.POST("", h.Receive)
}

// Verify answers Meta's subscription handshake by echoing hub.challenge when the token matches.
func (h *WebhookHandler) Verify(c echo.Context) error {
	token := c.QueryParam("hub.verify_token")
	if h.verifyToken == "" || token != h.verifyToken {
		h.logger.Warn("WhatsApp webhook verification failed")
		return c.NoContent(http.StatusForbidden)
	}
	return c.String(http.StatusOK, c.QueryParam("hub.challenge"))
}

// Receive answers every text message in the notification. Notifications without messages,
// such as delivery receipts, get 404.
func (h *WebhookHandler) Receive(c echo.Context) error {
	var payload webhookPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid webhook payload")
	}
	if payload.Object == "" {
		return c.NoContent(http.StatusNotFound)
	}

	ctx := c.Request().Context()
	handled := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type != "" && msg.Type != "text" {
					continue
				}
				handled++
				log := h.logger.WithFields(logrus.Fields{
					"from": msg.From,
					"text": msg.Text.Body,
				})
				log.Info("WhatsApp message received")

				reply := h.responder.WhatsAppMessage(ctx, msg.Text.Body)
				if err := h.sender.Send(ctx, msg.From, reply); err != nil {
					log.WithError(err).Error("Failed to answer WhatsApp message")
				}
			}
		}
	}

	if handled == 0 {
		return c.NoContent(http.StatusNotFound)
	}
	return c.NoContent(http.StatusOK)
}
