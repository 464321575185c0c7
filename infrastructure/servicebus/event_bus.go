package servicebus

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"media-catalog/domain/repository"
	"media-catalog/infrastructure/logger"
)

// NewServiceBus creates the Service Bus client for the configured namespace
func NewServiceBus(_ context.Context, namespace string) (*azservicebus.Client, error) {
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return azservicebus.NewClient(namespace, credential, nil)
}

// EventBus mirrors catalog mutation events onto a Service Bus queue
type EventBus struct {
	AzservicebusClient *azservicebus.Client
	queue              string
}

func NewEventBus(azServiceBusClient *azservicebus.Client, queue string) repository.IEventBus {
	if queue == "" {
		queue = "catalog-events"
	}
	return &EventBus{AzservicebusClient: azServiceBusClient, queue: queue}
}

func (b *EventBus) SendMessage(message []byte) error {
	sender, err := b.AzservicebusClient.NewSender(b.queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func(sender *azservicebus.Sender, ctx context.Context) {
		err := sender.Close(ctx)
		if err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}(sender, context.Background())

	sbMessage := &azservicebus.Message{
		Body: message,
	}
	err = sender.SendMessage(context.Background(), sbMessage, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}

	return nil
}
