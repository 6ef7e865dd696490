package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
	"github.com/jdank417/GroceryBarcodeScanner/internal/repository"
)

const createEventsTable = `
	CREATE TABLE IF NOT EXISTS events (
		id Int64,
		event_type LowCardinality(String),
		timestamp Int64,
		subject_key Nullable(String),
		detail Nullable(String)
	) ENGINE = MergeTree
	PARTITION BY toYYYYMM(toDateTime(timestamp))
	ORDER BY (event_type, timestamp, id)
	SETTINGS index_granularity = 8192
`

// Repository implements EventRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the events table. The (event_type, timestamp) sort key serves as its index.
func (r *Repository) InitSchema(ctx context.Context) error {
	if err := r.client.Conn().Exec(ctx, createEventsTable); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// Reset drops the events table and recreates it empty
func (r *Repository) Reset(ctx context.Context) error {
	if err := r.client.Conn().Exec(ctx, "DROP TABLE IF EXISTS events"); err != nil {
		return fmt.Errorf("failed to drop events table: %w", err)
	}
	r.log.Warn("Dropped events table")
	return r.InitSchema(ctx)
}

// Append inserts one event with a generated id
func (r *Repository) Append(ctx context.Context, event *domain.Event) (int64, error) {
	id := r.client.NextID()

	err := r.client.Conn().Exec(ctx,
		"INSERT INTO events (id, event_type, timestamp, subject_key, detail) VALUES (?, ?, ?, ?, ?)",
		id,
		string(event.Type),
		event.Timestamp,
		nullable(event.SubjectKey),
		nullable(event.Detail),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	return id, nil
}

// Query returns events of the requested types within [From, To]
func (r *Repository) Query(ctx context.Context, query repository.EventQuery) ([]domain.Event, error) {
	if len(query.Types) == 0 {
		return []domain.Event{}, nil
	}

	types := make([]string, len(query.Types))
	for i, t := range query.Types {
		types[i] = string(t)
	}

	order := "ASC"
	if query.Descending {
		order = "DESC"
	}

	stmt := fmt.Sprintf(`
		SELECT id, event_type, timestamp, subject_key, detail
		FROM events
		WHERE has(?, event_type)
		  AND timestamp >= ?
		  AND timestamp <= ?
		ORDER BY timestamp %s, id %s
	`, order, order)

	rows, err := r.client.Conn().Query(ctx, stmt, types, query.From, query.To)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close event rows", zap.Error(err))
		}
	}(rows)

	events := make([]domain.Event, 0)
	for rows.Next() {
		var (
			event      domain.Event
			eventType  string
			subjectKey *string
			detail     *string
		)
		if err := rows.Scan(&event.ID, &eventType, &event.Timestamp, &subjectKey, &detail); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		event.Type = domain.EventType(eventType)
		if subjectKey != nil {
			event.SubjectKey = *subjectKey
		}
		if detail != nil {
			event.Detail = *detail
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

// CountByType returns lifetime counts per event type
func (r *Repository) CountByType(ctx context.Context) (map[domain.EventType]int64, error) {
	rows, err := r.client.Conn().Query(ctx, "SELECT event_type, count() FROM events GROUP BY event_type")
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close count rows", zap.Error(err))
		}
	}(rows)

	counts := make(map[domain.EventType]int64)
	for rows.Next() {
		var (
			eventType string
			count     uint64
		)
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[domain.EventType(eventType)] = int64(count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}

	return counts, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
