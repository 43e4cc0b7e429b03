package testutil

import (
	"context"

	"github.com/dayflow-labs/backend/pkg/pubsub"
)

// MockPublisher records published packs. Set PublishFunc to override.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	Published []*pubsub.Pack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	m.Published = append(m.Published, pack)
	return nil
}

func (m *MockPublisher) Stop(ctx context.Context) error {
	return nil
}
