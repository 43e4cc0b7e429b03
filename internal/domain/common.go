package domain

import (
	"context"

	"github.com/dayflow-labs/backend/internal/domain/event"
	"github.com/dayflow-labs/backend/pkg/pubsub"
	"github.com/dayflow-labs/backend/pkg/xcontext"
)

// publishEvent sends a reward event to the configured topic, keyed by user
// so every event of one user lands on the same partition.
func publishEvent(ctx context.Context, publisher pubsub.Publisher, userID string, ev event.Event) error {
	req, err := event.New(ev)
	if err != nil {
		return err
	}

	b, err := req.Marshal()
	if err != nil {
		return err
	}

	topic := xcontext.Configs(ctx).Kafka.Topic
	return publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(userID), Msg: b})
}
