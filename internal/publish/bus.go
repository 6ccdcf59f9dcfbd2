// Package publish delivers change notifications to connected clients over
// an in-process message bus. Delivery is best effort: a slow subscriber
// drops messages instead of blocking the publisher.
package publish

import (
	"context"
	"log/slog"
	"sync"
)

// Message is one bus delivery.
type Message struct {
	Channel string
	Payload any
}

// Bus is a channel-keyed fan-out bus. Subscribers receive messages
// published after they subscribe; there is no replay.
type Bus struct {
	log *slog.Logger

	mu   sync.RWMutex
	subs map[string][]chan Message
}

func NewBus(log *slog.Logger) *Bus {
	return &Bus{
		log:  log.With("component", "publish"),
		subs: make(map[string][]chan Message),
	}
}

// Subscribe registers a buffered subscriber on channel and returns the
// receive side plus an unsubscribe func. Unsubscribe closes the channel.
func (b *Bus) Subscribe(channel string) (<-chan Message, func()) {
	ch := make(chan Message, 16)

	b.mu.Lock()
	b.subs[channel] = append(b.subs[channel], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[channel]
		for i, s := range subs {
			if s == ch {
				b.subs[channel] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}

	return ch, cancel
}

// Publish fans payload out to every subscriber of channel. Subscribers
// whose buffers are full miss the message.
func (b *Bus) Publish(ctx context.Context, channel string, payload any) {
	msg := Message{Channel: channel, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[channel] {
		select {
		case ch <- msg:
		default:
			b.log.WarnContext(ctx, "subscriber lagging, message dropped", "channel", channel)
		}
	}
}
