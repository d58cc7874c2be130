package outbox

import "context"

// Repository defines the interface for outbox event persistence
type Repository interface {
	// Save saves an outbox event
	Save(ctx context.Context, event *Event) error

	// SaveAll saves multiple outbox events in a single operation
	SaveAll(ctx context.Context, events []*Event) error

	// FindUnpublished retrieves unpublished events up to the specified limit,
	// oldest first
	FindUnpublished(ctx context.Context, limit int) ([]*Event, error)

	// MarkPublished marks an event as published
	MarkPublished(ctx context.Context, eventID string) error

	// IncrementRetry increments the retry count and records the last error
	IncrementRetry(ctx context.Context, eventID string, errorMsg string) error

	// FindByAggregateID retrieves all events for a specific aggregate
	FindByAggregateID(ctx context.Context, aggregateID string) ([]*Event, error)
}
