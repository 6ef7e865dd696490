package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
	"github.com/jdank417/GroceryBarcodeScanner/internal/repository"
)

const (
	dateLayout      = "2006-01-02"
	hourLayout      = "2006-01-02 15:00:00"
	timestampLayout = "2006-01-02 15:04:05"
	defaultLookback = 7
)

// Aggregator computes dashboard metrics from the event store at read time.
// Hour buckets and rendered times use loc.
type Aggregator struct {
	repository repository.EventRepository
	loc        *time.Location
	log        *zap.Logger
	now        func() time.Time
}

// NewAggregator creates a new aggregator
func NewAggregator(repo repository.EventRepository, loc *time.Location, log *zap.Logger) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{
		repository: repo,
		loc:        loc,
		log:        log,
		now:        time.Now,
	}
}

// LifetimeCounts returns the count of every event type over the whole store.
// Types with no events are reported as zero.
func (a *Aggregator) LifetimeCounts(ctx context.Context) (map[domain.EventType]int64, error) {
	stored, err := a.repository.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	counts := make(map[domain.EventType]int64, len(domain.AllEventTypes))
	for _, t := range domain.AllEventTypes {
		counts[t] = stored[t]
	}
	return counts, nil
}

// Summary derives combined success/failure totals and the success rate
func (a *Aggregator) Summary(ctx context.Context) (*domain.Summary, error) {
	counts, err := a.LifetimeCounts(ctx)
	if err != nil {
		return nil, err
	}

	success := counts[domain.LookupSuccess] + counts[domain.SearchProductSuccess]
	failure := counts[domain.LookupFailure] + counts[domain.SearchProductFailure]

	return &domain.Summary{
		Counts:          counts,
		CombinedSuccess: success,
		CombinedFailure: failure,
		ScanFailures:    counts[domain.BarcodeScanFailure],
		SuccessRate:     SuccessRate(success, failure),
	}, nil
}

// SuccessRate returns success/(success+failure)*100 rounded to 2 decimals, or 0 with no outcomes
func SuccessRate(success, failure int64) float64 {
	total := success + failure
	if total == 0 {
		return 0
	}
	rate := float64(success) / float64(total) * 100
	return math.Round(rate*100) / 100
}

// BucketedCounts returns per-hour counts of eventType within the inclusive date range.
// Only hours with at least one event are returned, oldest first.
func (a *Aggregator) BucketedCounts(ctx context.Context, eventType, startDate, endDate string) ([]domain.HourlyCount, error) {
	if eventType == "" {
		return nil, ErrMissingEventType
	}
	t := domain.EventType(eventType)
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}

	from, to, err := a.resolveRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	events, err := a.repository.Query(ctx, repository.EventQuery{
		Types: []domain.EventType{t},
		From:  from,
		To:    to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	buckets := make([]domain.HourlyCount, 0)
	for _, e := range events {
		hour := time.Unix(e.Timestamp, 0).In(a.loc).Format(hourLayout)
		if n := len(buckets); n > 0 && buckets[n-1].Hour == hour {
			buckets[n-1].Count++
			continue
		}
		buckets = append(buckets, domain.HourlyCount{Hour: hour, Count: 1})
	}

	a.log.Debug("Computed hourly buckets",
		zap.String("event_type", eventType),
		zap.Int64("from", from),
		zap.Int64("to", to),
		zap.Int("events", len(events)),
		zap.Int("buckets", len(buckets)))

	return buckets, nil
}

// RecentEvents lists every event within the inclusive date range, newest first
func (a *Aggregator) RecentEvents(ctx context.Context, startDate, endDate string) ([]domain.EventView, error) {
	from, to, err := a.resolveRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	events, err := a.repository.Query(ctx, repository.EventQuery{
		Types:      domain.AllEventTypes,
		From:       from,
		To:         to,
		Descending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	views := make([]domain.EventView, 0, len(events))
	for _, e := range events {
		views = append(views, domain.EventView{
			Type:       e.Type,
			Time:       time.Unix(e.Timestamp, 0).In(a.loc).Format(timestampLayout),
			SubjectKey: e.SubjectKey,
			Detail:     e.Detail,
		})
	}
	return views, nil
}

// resolveRange turns optional YYYY-MM-DD bounds into [start of start day, end day + 1d - 1s].
// Missing bounds default to the last seven days ending today.
func (a *Aggregator) resolveRange(startDate, endDate string) (int64, int64, error) {
	today := a.now().In(a.loc)
	if startDate == "" {
		startDate = today.AddDate(0, 0, -defaultLookback).Format(dateLayout)
	}
	if endDate == "" {
		endDate = today.Format(dateLayout)
	}

	start, err := time.ParseInLocation(dateLayout, startDate, a.loc)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: start_date %q", ErrInvalidDate, startDate)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, a.loc)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: end_date %q", ErrInvalidDate, endDate)
	}
	if end.Before(start) {
		return 0, 0, fmt.Errorf("%w: %s > %s", ErrInvalidRange, startDate, endDate)
	}

	end = end.AddDate(0, 0, 1).Add(-time.Second)
	return start.Unix(), end.Unix(), nil
}
