package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is a domain event stored in the outbox for reliable delivery.
// Events are written in the same transaction as the state change that
// produced them and published to Kafka asynchronously.
type Event struct {
	ID            string          `bson:"_id" json:"id"`
	AggregateID   string          `bson:"aggregateId" json:"aggregateId"`
	AggregateType string          `bson:"aggregateType" json:"aggregateType"`
	// PartitionKey groups events that must be consumed in order, typically
	// the supplier ID.
	PartitionKey string          `bson:"partitionKey" json:"partitionKey"`
	EventType    string          `bson:"eventType" json:"eventType"`
	Topic        string          `bson:"topic" json:"topic"`
	Payload      json.RawMessage `bson:"payload" json:"payload"`
	CreatedAt    time.Time       `bson:"createdAt" json:"createdAt"`
	PublishedAt  *time.Time      `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	RetryCount   int             `bson:"retryCount" json:"retryCount"`
	LastError    string          `bson:"lastError,omitempty" json:"lastError,omitempty"`
	MaxRetries   int             `bson:"maxRetries" json:"maxRetries"`
}

// DomainEvent is the minimal interface a domain event must satisfy to be
// stored in the outbox.
type DomainEvent interface {
	EventType() string
}

// NewEvent creates a new outbox event from a domain event
func NewEvent(aggregateID, aggregateType, partitionKey, topic string, event DomainEvent) (*Event, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		PartitionKey:  partitionKey,
		EventType:     event.EventType(),
		Topic:         topic,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
		RetryCount:    0,
		MaxRetries:    10,
	}, nil
}

// IsPublished checks if the event has been published
func (e *Event) IsPublished() bool {
	return e.PublishedAt != nil
}

// ShouldRetry checks if the event should be retried
func (e *Event) ShouldRetry() bool {
	return !e.IsPublished() && e.RetryCount < e.MaxRetries
}
