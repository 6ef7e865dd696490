package repository

import (
	"context"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
)

// EventQuery selects events by type and an inclusive timestamp range
type EventQuery struct {
	Types []domain.EventType
	From  int64
	To    int64
	// Descending orders newest first; otherwise oldest first.
	Descending bool
}

// EventRepository defines the interface for event storage operations
type EventRepository interface {
	// InitSchema creates the events table and its indexes if they don't exist
	InitSchema(ctx context.Context) error

	// Reset drops and recreates the events table. Destructive; only the migrate command calls it.
	Reset(ctx context.Context) error

	// Append persists a single event and returns its sequence id
	Append(ctx context.Context, event *domain.Event) (int64, error)

	// Query returns events matching the query ordered by timestamp, then id
	Query(ctx context.Context, query EventQuery) ([]domain.Event, error)

	// CountByType returns lifetime counts keyed by event type
	CountByType(ctx context.Context) (map[domain.EventType]int64, error)

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error
}
