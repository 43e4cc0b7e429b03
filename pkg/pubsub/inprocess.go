package pubsub

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync"
)

// InProcessPublisher delivers packs synchronously to handlers registered in
// the same process. It backs deployments where Kafka is disabled and keeps
// the post-commit event contract observable in tests.
type InProcessPublisher struct {
	handlers *xsync.MapOf[string, []SubscribeHandler]
}

func NewInProcessPublisher() *InProcessPublisher {
	return &InProcessPublisher{handlers: xsync.NewMapOf[[]SubscribeHandler]()}
}

// Register adds a handler for a topic. It is only safe to call during setup,
// before any Publish.
func (p *InProcessPublisher) Register(topic string, handler SubscribeHandler) {
	old, _ := p.handlers.Load(topic)
	p.handlers.Store(topic, append(old, handler))
}

func (p *InProcessPublisher) Publish(ctx context.Context, topic string, pack *Pack) error {
	handlers, ok := p.handlers.Load(topic)
	if !ok {
		return nil
	}

	now := time.Now()
	for _, h := range handlers {
		h(ctx, pack, now)
	}

	return nil
}

func (p *InProcessPublisher) Stop(ctx context.Context) error {
	return nil
}
