// Package consumer runs the single persistence worker that drains the event queue into the store.
package consumer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
	"github.com/jdank417/GroceryBarcodeScanner/internal/queue"
	"github.com/jdank417/GroceryBarcodeScanner/internal/repository"
)

// WorkerConfig configures the persistence worker
type WorkerConfig struct {
	// DrainTimeout bounds how long queued events are still persisted after cancellation.
	DrainTimeout time.Duration
	// ReconnectInterval is the minimum gap between store probes while the store is down.
	ReconnectInterval time.Duration
	// ExportTimeout bounds each publish. Zero uses defaultExportTimeout.
	ExportTimeout time.Duration
}

const defaultExportTimeout = 5 * time.Second

// Stats is a snapshot of worker counters and persist latency
type Stats struct {
	Persisted    uint64        `json:"persisted"`
	Dropped      uint64        `json:"dropped"`
	StoreHealthy bool          `json:"store_healthy"`
	Samples      int64         `json:"latency_samples"`
	LatencyP50   time.Duration `json:"latency_p50"`
	LatencyP95   time.Duration `json:"latency_p95"`
	LatencyP99   time.Duration `json:"latency_p99"`
	LatencyMax   time.Duration `json:"latency_max"`
}

// Worker appends dequeued events to the repository one at a time.
// Exactly one Worker may consume a given source.
type Worker struct {
	source    EventSource
	repo      repository.EventRepository
	publisher queue.EventPublisher
	observer  Observer
	config    WorkerConfig
	log       *zap.Logger
	now       func() time.Time

	// healthy and lastProbe are only touched by the Run goroutine
	healthy   bool
	lastProbe time.Time

	storeHealthy atomic.Bool
	persisted    atomic.Uint64
	dropped      atomic.Uint64

	mu      sync.Mutex
	latency *hdrhistogram.Histogram
}

// NewWorker creates a worker. publisher and observer may be nil.
func NewWorker(source EventSource, repo repository.EventRepository, publisher queue.EventPublisher, observer Observer, config WorkerConfig, log *zap.Logger) *Worker {
	if observer == nil {
		observer = noopObserver{}
	}
	if config.ExportTimeout <= 0 {
		config.ExportTimeout = defaultExportTimeout
	}
	w := &Worker{
		source:    source,
		repo:      repo,
		publisher: publisher,
		observer:  observer,
		config:    config,
		log:       log,
		now:       time.Now,
		healthy:   true,
		// 1µs to 1min at 3 significant digits
		latency: hdrhistogram.New(1, int64(time.Minute/time.Microsecond), 3),
	}
	w.storeHealthy.Store(true)
	return w
}

// Run persists events until ctx is cancelled, then drains what is left
// for at most DrainTimeout. Events still queued afterwards are dropped and logged.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("Persistence worker started")

	// in-flight appends finish even if ctx is cancelled mid-call
	persistCtx := context.WithoutCancel(ctx)

	for ctx.Err() == nil {
		event, err := w.source.Dequeue(ctx)
		if err != nil {
			break
		}
		w.persist(persistCtx, ctx, &event)
	}

	w.drain(persistCtx)
	w.log.Info("Persistence worker stopped",
		zap.Uint64("persisted", w.persisted.Load()),
		zap.Uint64("dropped", w.dropped.Load()))
}

func (w *Worker) drain(parent context.Context) {
	drainCtx, cancel := context.WithTimeout(parent, w.config.DrainTimeout)
	defer cancel()

	drained := 0
	for drainCtx.Err() == nil {
		event, ok := w.source.TryDequeue()
		if !ok {
			break
		}
		w.persist(drainCtx, drainCtx, &event)
		drained++
	}

	if remaining := w.source.Len(); remaining > 0 {
		w.dropped.Add(uint64(remaining))
		w.observer.EventDropped(DropReasonShutdown, remaining)
		w.log.Warn("Drain window elapsed, dropping queued events",
			zap.Int("drained", drained),
			zap.Int("dropped", remaining),
			zap.Duration("drain_timeout", w.config.DrainTimeout))
		return
	}

	if drained > 0 {
		w.log.Info("Drained queued events", zap.Int("count", drained))
	}
}

// persist appends event under ctx and exports it under exportCtx.
// Appends outlive cancellation; exports do not.
func (w *Worker) persist(ctx, exportCtx context.Context, event *domain.Event) {
	if !w.storeAvailable(ctx) {
		w.drop(DropReasonStoreUnavailable)
		w.log.Warn("Event store unavailable, skipping event",
			zap.String("event_type", string(event.Type)),
			zap.String("subject_key", event.SubjectKey))
		return
	}

	start := w.now()
	id, err := w.repo.Append(ctx, event)
	w.recordLatency(w.now().Sub(start))

	if err != nil {
		w.drop(DropReasonPersistError)
		w.log.Error("Failed to persist event",
			zap.String("event_type", string(event.Type)),
			zap.String("subject_key", event.SubjectKey),
			zap.Error(err))
		if pingErr := w.repo.Ping(ctx); pingErr != nil {
			w.markUnhealthy(pingErr)
		}
		return
	}

	event.ID = id
	w.source.MarkProcessed()
	w.persisted.Add(1)
	w.observer.EventPersisted(event.Type)

	if w.publisher != nil {
		w.export(exportCtx, event)
	}
}

// export publishes a persisted event, bounded by ExportTimeout and by ctx
func (w *Worker) export(ctx context.Context, event *domain.Event) {
	exportCtx, cancel := context.WithTimeout(ctx, w.config.ExportTimeout)
	defer cancel()

	if err := w.publisher.PublishEvent(exportCtx, event); err != nil {
		w.log.Warn("Failed to export event",
			zap.Int64("id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Duration("export_timeout", w.config.ExportTimeout),
			zap.Error(err))
	}
}

// storeAvailable probes a store marked unhealthy at most once per ReconnectInterval
func (w *Worker) storeAvailable(ctx context.Context) bool {
	if w.healthy {
		return true
	}
	if w.now().Sub(w.lastProbe) < w.config.ReconnectInterval {
		return false
	}

	w.lastProbe = w.now()
	if err := w.repo.Ping(ctx); err != nil {
		w.log.Warn("Event store still unreachable",
			zap.Duration("retry_in", w.config.ReconnectInterval),
			zap.Error(err))
		return false
	}

	w.healthy = true
	w.storeHealthy.Store(true)
	w.log.Info("Event store reachable again")
	return true
}

func (w *Worker) markUnhealthy(err error) {
	w.healthy = false
	w.lastProbe = w.now()
	w.storeHealthy.Store(false)
	w.log.Error("Event store unreachable, skipping events until it recovers",
		zap.Duration("retry_in", w.config.ReconnectInterval),
		zap.Error(err))
}

func (w *Worker) drop(reason string) {
	w.dropped.Add(1)
	w.observer.EventDropped(reason, 1)
}

func (w *Worker) recordLatency(d time.Duration) {
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.latency.RecordValue(us); err != nil {
		w.log.Debug("Persist latency out of histogram range", zap.Duration("latency", d))
	}
}

// Stats returns a snapshot safe to call from any goroutine
func (w *Worker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{
		Persisted:    w.persisted.Load(),
		Dropped:      w.dropped.Load(),
		StoreHealthy: w.storeHealthy.Load(),
		Samples:      w.latency.TotalCount(),
		LatencyP50:   time.Duration(w.latency.ValueAtQuantile(50)) * time.Microsecond,
		LatencyP95:   time.Duration(w.latency.ValueAtQuantile(95)) * time.Microsecond,
		LatencyP99:   time.Duration(w.latency.ValueAtQuantile(99)) * time.Microsecond,
		LatencyMax:   time.Duration(w.latency.Max()) * time.Microsecond,
	}
}
