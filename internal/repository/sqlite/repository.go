package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
	"github.com/jdank417/GroceryBarcodeScanner/internal/repository"
)

//go:embed migrations/001_events.up.sql
var schemaSQL string

// Repository implements EventRepository for SQLite
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new SQLite repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the events table if it does not exist, preserving existing rows
func (r *Repository) InitSchema(ctx context.Context) error {
	if _, err := r.client.Writer().ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	r.log.Info("SQLite schema initialized successfully")
	return nil
}

// Reset drops the events table and recreates it empty
func (r *Repository) Reset(ctx context.Context) error {
	if _, err := r.client.Writer().ExecContext(ctx, "DROP TABLE IF EXISTS events"); err != nil {
		return fmt.Errorf("failed to drop events table: %w", err)
	}
	r.log.Warn("Dropped events table")
	return r.InitSchema(ctx)
}

// Append inserts one event and returns its autoincrement id
func (r *Repository) Append(ctx context.Context, event *domain.Event) (int64, error) {
	res, err := r.client.Writer().ExecContext(ctx,
		"INSERT INTO events (event_type, timestamp, subject_key, detail) VALUES (?, ?, ?, ?)",
		string(event.Type),
		event.Timestamp,
		nullString(event.SubjectKey),
		nullString(event.Detail),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted event id: %w", err)
	}
	return id, nil
}

// Query returns events of the requested types within [From, To]
func (r *Repository) Query(ctx context.Context, query repository.EventQuery) ([]domain.Event, error) {
	if len(query.Types) == 0 {
		return []domain.Event{}, nil
	}

	placeholders := make([]string, len(query.Types))
	args := make([]interface{}, 0, len(query.Types)+2)
	for i, t := range query.Types {
		placeholders[i] = "?"
		args = append(args, string(t))
	}
	args = append(args, query.From, query.To)

	order := "ASC"
	if query.Descending {
		order = "DESC"
	}

	stmt := fmt.Sprintf(`
		SELECT id, event_type, timestamp, subject_key, detail
		FROM events
		WHERE event_type IN (%s)
		  AND timestamp >= ?
		  AND timestamp <= ?
		ORDER BY timestamp %s, id %s
	`, strings.Join(placeholders, ", "), order, order)

	rows, err := r.client.Reader().QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close event rows", zap.Error(err))
		}
	}(rows)

	events := make([]domain.Event, 0)
	for rows.Next() {
		var (
			event      domain.Event
			eventType  string
			subjectKey sql.NullString
			detail     sql.NullString
		)
		if err := rows.Scan(&event.ID, &eventType, &event.Timestamp, &subjectKey, &detail); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		event.Type = domain.EventType(eventType)
		event.SubjectKey = subjectKey.String
		event.Detail = detail.String
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

// CountByType returns lifetime counts per event type
func (r *Repository) CountByType(ctx context.Context) (map[domain.EventType]int64, error) {
	rows, err := r.client.Reader().QueryContext(ctx,
		"SELECT event_type, COUNT(*) FROM events GROUP BY event_type")
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close count rows", zap.Error(err))
		}
	}(rows)

	counts := make(map[domain.EventType]int64)
	for rows.Next() {
		var (
			eventType string
			count     int64
		)
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[domain.EventType(eventType)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}

	return counts, nil
}

// Ping checks if the SQLite file is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Writer().PingContext(ctx)
}

// Close closes the SQLite connections
func (r *Repository) Close() error {
	return r.client.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
