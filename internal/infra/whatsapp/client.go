package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

// Client sends text messages through the WhatsApp Cloud API. It implements messenger.Sender.
type Client struct {
	apiURL        string
	phoneNumberID string
	token         string
	httpClient    *http.Client
	logger        *logrus.Entry
}

func NewClient(apiURL, phoneNumberID, token string, logger *logrus.Entry) *Client {
	return &Client{
		apiURL:        apiURL,
		phoneNumberID: phoneNumberID,
		token:         token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Send delivers message to a phone number (country code, no plus). HTML markup in message is
// converted to WhatsApp formatting first.
func (c *Client) Send(ctx context.Context, recipient string, message string) error {
	payload, err := json.Marshal(sendRequest{
		MessagingProduct: "whatsapp",
		To:               recipient,
		Type:             "text",
		Text:             textBody{PreviewURL: false, Body: FromHTML(message)},
	})
	if err != nil {
		return fmt.Errorf("failed to encode whatsapp message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.apiURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send to %s failed: %w", recipient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("whatsapp API returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	c.logger.WithField("recipient", recipient).Debug("WhatsApp message sent")
	return nil
}
