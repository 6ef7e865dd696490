package service

import (
	"context"

	"github.com/jdank417/GroceryBarcodeScanner/internal/consumer"
	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
	"github.com/jdank417/GroceryBarcodeScanner/internal/lookup"
)

// EventRecorder is the fire-and-forget entry point used by request handlers
type EventRecorder interface {
	Record(eventType domain.EventType, subjectKey, detail string)
}

// Aggregations defines the read-side queries behind the dashboard
type Aggregations interface {
	LifetimeCounts(ctx context.Context) (map[domain.EventType]int64, error)
	Summary(ctx context.Context) (*domain.Summary, error)
	BucketedCounts(ctx context.Context, eventType, startDate, endDate string) ([]domain.HourlyCount, error)
	RecentEvents(ctx context.Context, startDate, endDate string) ([]domain.EventView, error)
}

// LookupServicer resolves user input against the item table
type LookupServicer interface {
	Scan(barcode string) (*LookupOutcome, error)
	Lookup(query string) (*LookupOutcome, error)
	ReportClientError(message, details, sku string)
}

// StatsProvider exposes pipeline counters
type StatsProvider interface {
	Stats() RecorderStats
}

// HealthChecker reports whether the event store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Resolver is the memoized barcode lookup
type Resolver interface {
	Resolve(subjectKey string) lookup.Result
}

// ItemSearcher is the read side of the item table
type ItemSearcher interface {
	Lookup(key string) (domain.Item, bool)
	SearchByName(substr string, limit int) []domain.Item
	Keys() []string
}

// Observer receives recorder and worker outcomes
type Observer interface {
	consumer.Observer
	EventRecorded(eventType domain.EventType)
}
