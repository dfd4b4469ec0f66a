package eventbus

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// InMemoryBus is a gochannel-backed EventBus for tests and single-process
// development runs.
type InMemoryBus struct {
	pubsub *gochannel.GoChannel
}

var _ EventBus = (*InMemoryBus)(nil)

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(logger *slog.Logger) *InMemoryBus {
	return &InMemoryBus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewSlogLogger(logger),
		),
	}
}

func (b *InMemoryBus) Publish(topic string, msg *message.Message) error {
	return b.pubsub.Publish(topic, msg)
}

func (b *InMemoryBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *InMemoryBus) Close() error {
	return b.pubsub.Close()
}
