package messenger

import (
	"context"
	"fmt"
	"strings"
)

// Router picks a Sender from the recipient's channel prefix ("telegram:12345",
// "whatsapp:254700000000"). Recipients without a known prefix go to the default channel.
type Router struct {
	senders        map[string]Sender
	defaultChannel string
}

func NewRouter(defaultChannel string) *Router {
	return &Router{
		senders:        make(map[string]Sender),
		defaultChannel: defaultChannel,
	}
}

// Register makes sender handle recipients prefixed with channel.
func (r *Router) Register(channel string, sender Sender) {
	r.senders[channel] = sender
}

// Empty reports whether no sender is registered.
func (r *Router) Empty() bool {
	return len(r.senders) == 0
}

func (r *Router) Send(ctx context.Context, recipient string, message string) error {
	channel, address := r.split(recipient)
	sender, ok := r.senders[channel]
	if !ok {
		return fmt.Errorf("no sender registered for channel %q", channel)
	}
	return sender.Send(ctx, address, message)
}

func (r *Router) split(recipient string) (channel, address string) {
	if prefix, rest, found := strings.Cut(recipient, ":"); found {
		if _, ok := r.senders[prefix]; ok {
			return prefix, rest
		}
	}
	return r.defaultChannel, recipient
}
