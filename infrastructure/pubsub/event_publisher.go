package pubsub

import (
	"context"

	"cloud.google.com/go/pubsub"
	"media-catalog/domain/repository"
	"media-catalog/infrastructure/logger"
)

// NewPubSub creates the Pub/Sub client shared across requests
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	return pubsub.NewClient(ctx, projectID)
}

// EventPublisher emits catalog mutation events to a Pub/Sub topic
type EventPublisher struct {
	PubSubClient *pubsub.Client
}

func NewEventPublisher(pubSubClient *pubsub.Client) repository.IEventPublisher {
	return &EventPublisher{
		PubSubClient: pubSubClient,
	}
}

func (p *EventPublisher) Publish(
	ctx context.Context,
	topicName string,
	payload []byte,
) (string, error) {
	msg := &pubsub.Message{
		Data: payload,
	}

	topic := p.PubSubClient.Topic(topicName)

	// Create the topic if it doesn't exist.
	exists, err := topic.Exists(ctx)
	if err != nil {
		return "", err
	}
	if !exists {
		logger.GetLogger().WithField("topic", topicName).Info("Topic doesn't exist - creating it")
		_, err = p.PubSubClient.CreateTopic(ctx, topicName)
		if err != nil {
			return "", err
		}
	}

	serverID, err := topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return "", err
	}

	logger.GetLogger().WithField("server ID", serverID).Info("Mutation event published")
	return serverID, nil
}
