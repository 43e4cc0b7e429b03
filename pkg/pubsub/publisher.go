package pubsub

import "context"

// Pack is the unit published to a topic. Key determines partitioning (the
// user id for reward events), Msg carries the serialized event.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
	Stop(ctx context.Context) error
}
