package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hemant18-09/pharmacy/internal/config"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
	config   *config.Config
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(cfg *config.Config, logger *zap.Logger) (*KafkaEventPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Retry.Max = cfg.KafkaRetries
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	switch cfg.KafkaAcks {
	case "0":
		saramaConfig.Producer.RequiredAcks = sarama.NoResponse
	case "1":
		saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	default:
		saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	}

	producer, err := sarama.NewSyncProducer(cfg.KafkaBrokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaEventPublisher{
		producer: producer,
		logger:   logger,
		config:   cfg,
	}, nil
}

// Publish publishes an event to Kafka with retries and exponential backoff
func (p *KafkaEventPublisher) Publish(ctx context.Context, event interface{}) error {
	topic, err := p.getTopicForEvent(event)
	if err != nil {
		return fmt.Errorf("failed to determine topic: %w", err)
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(eventJSON),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(p.getEventType(event))},
			{Key: []byte("event-id"), Value: []byte(uuid.New().String())},
			{Key: []byte("timestamp"), Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}

	if partitionKey := p.getPartitionKey(event); partitionKey != "" {
		message.Key = sarama.StringEncoder(partitionKey)
	}

	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		partition, offset, err := p.producer.SendMessage(message)
		if err == nil {
			p.logger.Info("Event published to Kafka",
				zap.String("topic", topic),
				zap.Int32("partition", partition),
				zap.Int64("offset", offset),
				zap.String("event-type", p.getEventType(event)),
				zap.Int("attempt", attempt+1),
			)
			return nil
		}

		p.logger.Warn("Failed to publish event to Kafka, retrying",
			zap.String("topic", topic),
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
		)

		if attempt < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<uint(attempt))
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("failed to publish event to Kafka after %d attempts", maxRetries)
}

// Close closes the Kafka producer
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// getTopicForEvent determines the Kafka topic based on event type
func (p *KafkaEventPublisher) getTopicForEvent(event interface{}) (string, error) {
	switch event.(type) {
	case OrderCreatedEvent, OrderStatusChangedEvent, OrderReadyEvent:
		return p.config.KafkaTopicOrders, nil
	case InventoryItemAddedEvent, InventoryItemDeletedEvent, StockLevelChangedEvent:
		return p.config.KafkaTopicInventory, nil
	default:
		return "", fmt.Errorf("unknown event type: %T", event)
	}
}

// getEventType returns the event type as string
func (p *KafkaEventPublisher) getEventType(event interface{}) string {
	switch event.(type) {
	case OrderCreatedEvent:
		return "OrderCreated"
	case OrderStatusChangedEvent:
		return "OrderStatusChanged"
	case OrderReadyEvent:
		return "OrderReady"
	case InventoryItemAddedEvent:
		return "InventoryItemAdded"
	case InventoryItemDeletedEvent:
		return "InventoryItemDeleted"
	case StockLevelChangedEvent:
		return "StockLevelChanged"
	default:
		return "Unknown"
	}
}

// getPartitionKey returns the partition key for the event so that events
// for the same order or item preserve their relative order.
func (p *KafkaEventPublisher) getPartitionKey(event interface{}) string {
	switch e := event.(type) {
	case OrderCreatedEvent:
		return e.OrderID
	case OrderStatusChangedEvent:
		return e.OrderID
	case OrderReadyEvent:
		return e.OrderID
	case InventoryItemAddedEvent:
		return e.ItemID
	case InventoryItemDeletedEvent:
		return e.ItemID
	case StockLevelChangedEvent:
		return e.ItemID
	}
	return ""
}
