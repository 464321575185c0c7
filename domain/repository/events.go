package repository

import "context"

// IEventPublisher publishes catalog mutation events to a pub/sub topic
type IEventPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// IEventBus mirrors mutation events onto a message queue
type IEventBus interface {
	SendMessage(message []byte) error
}
