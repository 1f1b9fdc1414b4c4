package messenger

import "context"

// Sender delivers a text message to a recipient over some chat channel.
// Message text may contain simple HTML markup (<b>, <i>, <code>); each transport renders it
// in its own dialect.
type Sender interface {
	Send(ctx context.Context, recipient string, message string) error
}

// Channel prefixes understood by Router.
const (
	ChannelTelegram = "telegram"
	ChannelWhatsApp = "whatsapp"
)
