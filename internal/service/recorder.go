package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/internal/config"
	"github.com/jdank417/GroceryBarcodeScanner/internal/consumer"
	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
	"github.com/jdank417/GroceryBarcodeScanner/internal/queue"
	"github.com/jdank417/GroceryBarcodeScanner/internal/repository"
)

var (
	ErrAlreadyStarted = errors.New("recorder already started")
	ErrNotStarted     = errors.New("recorder not started")
)

// RecorderStats combines queue counters with the worker snapshot
type RecorderStats struct {
	Enqueued  uint64 `json:"enqueued"`
	Processed uint64 `json:"processed"`
	Backlog   int    `json:"backlog"`
	consumer.Stats
}

// Recorder owns the event queue and its persistence worker.
// Record may be called from any goroutine once the Recorder exists;
// events are persisted only between Start and Stop.
type Recorder struct {
	queue           *queue.Queue
	worker          *consumer.Worker
	observer        Observer
	shutdownTimeout time.Duration
	log             *zap.Logger
	now             func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRecorder wires a queue and worker in front of repo. publisher and observer may be nil.
func NewRecorder(repo repository.EventRepository, publisher queue.EventPublisher, observer Observer, cfg config.Worker, log *zap.Logger) *Recorder {
	q := queue.New()

	var workerObserver consumer.Observer
	if observer != nil {
		workerObserver = observer
	}

	return &Recorder{
		queue: q,
		worker: consumer.NewWorker(q, repo, publisher, workerObserver, consumer.WorkerConfig{
			DrainTimeout:      cfg.DrainTimeout,
			ReconnectInterval: cfg.ReconnectInterval,
			ExportTimeout:     cfg.ExportTimeout,
		}, log),
		observer:        observer,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             log,
		now:             time.Now,
	}
}

// Start launches the persistence worker
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		r.worker.Run(ctx)
	}(r.done)

	r.log.Info("Event recorder started")
	return nil
}

// Stop closes intake, cancels the worker and waits for its drain to finish.
// The wait is bounded by the configured shutdown timeout and by ctx.
func (r *Recorder) Stop(ctx context.Context) error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if done == nil {
		return ErrNotStarted
	}

	r.queue.CloseIntake()
	cancel()

	waitCtx, waitCancel := context.WithTimeout(ctx, r.shutdownTimeout)
	defer waitCancel()

	select {
	case <-done:
		r.log.Info("Event recorder stopped")
		return nil
	case <-waitCtx.Done():
		r.log.Error("Timed out waiting for persistence worker",
			zap.Int("backlog", r.queue.Len()),
			zap.Duration("shutdown_timeout", r.shutdownTimeout))
		return fmt.Errorf("timed out waiting for persistence worker: %w", waitCtx.Err())
	}
}

// Record enqueues one event stamped with the current time. It never blocks
// and never fails visibly; an event rejected after Stop is logged.
func (r *Recorder) Record(eventType domain.EventType, subjectKey, detail string) {
	event := domain.Event{
		Type:       eventType,
		Timestamp:  r.now().Unix(),
		SubjectKey: subjectKey,
		Detail:     detail,
	}

	if !r.queue.Enqueue(event) {
		r.log.Warn("Event queue closed, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("subject_key", subjectKey))
		return
	}

	if r.observer != nil {
		r.observer.EventRecorded(eventType)
	}
}

// Backlog returns the number of events waiting to be persisted
func (r *Recorder) Backlog() int {
	return r.queue.Len()
}

// Stats returns queue and worker counters
func (r *Recorder) Stats() RecorderStats {
	enq, proc, backlog := r.queue.Metrics()
	return RecorderStats{
		Enqueued:  enq,
		Processed: proc,
		Backlog:   backlog,
		Stats:     r.worker.Stats(),
	}
}
