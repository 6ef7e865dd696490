package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
	"github.com/jdank417/GroceryBarcodeScanner/internal/repository"
)

const createEventsTable = `
	CREATE TABLE IF NOT EXISTS events (
		id BIGSERIAL PRIMARY KEY,
		event_type TEXT NOT NULL,
		timestamp BIGINT NOT NULL,
		subject_key TEXT,
		detail TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_events_type_timestamp ON events (event_type, timestamp);
`

// Repository implements EventRepository for Postgres
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new Postgres repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the events table and index if missing
func (r *Repository) InitSchema(ctx context.Context) error {
	if _, err := r.client.Pool().Exec(ctx, createEventsTable); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	r.log.Info("Postgres schema initialized successfully")
	return nil
}

// Reset drops the events table and recreates it empty
func (r *Repository) Reset(ctx context.Context) error {
	if _, err := r.client.Pool().Exec(ctx, "DROP TABLE IF EXISTS events CASCADE"); err != nil {
		return fmt.Errorf("failed to drop events table: %w", err)
	}
	r.log.Warn("Dropped events table")
	return r.InitSchema(ctx)
}

// Append inserts one event and returns its serial id
func (r *Repository) Append(ctx context.Context, event *domain.Event) (int64, error) {
	var id int64
	err := r.client.Pool().QueryRow(ctx,
		"INSERT INTO events (event_type, timestamp, subject_key, detail) VALUES ($1, $2, $3, $4) RETURNING id",
		string(event.Type),
		event.Timestamp,
		nullable(event.SubjectKey),
		nullable(event.Detail),
	).Scan(&id)
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
		WHERE event_type = ANY($1)
		  AND timestamp >= $2
		  AND timestamp <= $3
		ORDER BY timestamp %s, id %s
	`, order, order)

	rows, err := r.client.Pool().Query(ctx, stmt, types, query.From, query.To)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

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
	rows, err := r.client.Pool().Query(ctx, "SELECT event_type, COUNT(*) FROM events GROUP BY event_type")
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	counts := make(map[domain.EventType]int64)
	var (
		eventType string
		count     int64
	)
	_, err = pgx.ForEachRow(rows, []any{&eventType, &count}, func() error {
		counts[domain.EventType(eventType)] = count
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan count rows: %w", err)
	}

	return counts, nil
}

// Ping checks if the pool can reach the server
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Pool().Ping(ctx)
}

// Close closes the pool
func (r *Repository) Close() error {
	return r.client.Close()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
