package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/pkg/errors"

	"example.com/motormart/services/showroom/config"
	"example.com/motormart/services/showroom/internal/models"
)

// Publisher emits stock movement events for downstream consumers
// (reporting pipelines, accounting exports). The audit_events row is the
// durable record; publishing is best-effort.
type Publisher interface {
	PublishMovement(ctx context.Context, event *models.AuditEvent) error
	Close() error
}

// AzureServiceBus implements Publisher over an Azure Service Bus queue.
type AzureServiceBus struct {
	client    *azservicebus.Client
	sender    *azservicebus.Sender
	queueName string
}

// NewAzureServiceBus creates a publisher for the configured queue.
func NewAzureServiceBus(cfg config.AzureConfig) (*AzureServiceBus, error) {
	if cfg.QueueConnStr == "" {
		return nil, errors.New("Azure Service Bus connection string is empty")
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.QueueConnStr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Service Bus client")
	}

	sender, err := client.NewSender(cfg.QueueName, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Service Bus sender")
	}

	return &AzureServiceBus{
		client:    client,
		sender:    sender,
		queueName: cfg.QueueName,
	}, nil
}

// PublishMovement sends one movement event to the queue.
func (s *AzureServiceBus) PublishMovement(ctx context.Context, event *models.AuditEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal movement event")
	}

	msg := &azservicebus.Message{
		Body: data,
		ApplicationProperties: map[string]interface{}{
			"source": "showroom-service",
			"status": string(event.Status),
			"time":   time.Now().UTC().Format(time.RFC3339),
		},
	}

	return errors.Wrap(s.sender.SendMessage(ctx, msg, nil), "failed to send movement event")
}

// Close closes the sender and the client.
func (s *AzureServiceBus) Close() error {
	if s.sender != nil {
		if err := s.sender.Close(context.Background()); err != nil {
			return err
		}
	}
	if s.client != nil {
		return s.client.Close(context.Background())
	}
	return nil
}
