package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
)

func TestQueue_FIFO(t *testing.T) {
	q := New()
	for i := 0; i < 5; i++ {
		require.True(t, q.Enqueue(domain.Event{Type: domain.LookupSuccess, SubjectKey: fmt.Sprint(i)}))
	}

	for i := 0; i < 5; i++ {
		ev, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprint(i), ev.SubjectKey)
	}

	_, ok := q.TryDequeue()
	assert.False(t, ok)
}

func TestQueue_NonBlockingEnqueue(t *testing.T) {
	q := New()
	for i := 0; i < 10000; i++ {
		require.True(t, q.Enqueue(domain.Event{Type: domain.LookupFailure}))
	}
	assert.Equal(t, 10000, q.Len())
}

func TestQueue_DequeueWaitsForEnqueue(t *testing.T) {
	q := New()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Enqueue(domain.Event{Type: domain.BarcodeScanFailure, SubjectKey: "late"})
	}()

	ev, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "late", ev.SubjectKey)
}

func TestQueue_DequeueCancelled(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Dequeue(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := New()
	const producers, perProducer = 8, 250

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(domain.Event{Type: domain.LookupSuccess, SubjectKey: fmt.Sprintf("%d-%d", p, i)})
			}
		}(p)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seen := make(map[string]bool)
	lastPerProducer := make(map[int]int)
	for len(seen) < producers*perProducer {
		ev, err := q.Dequeue(ctx)
		require.NoError(t, err)
		seen[ev.SubjectKey] = true

		var p, i int
		_, err = fmt.Sscanf(ev.SubjectKey, "%d-%d", &p, &i)
		require.NoError(t, err)
		if last, ok := lastPerProducer[p]; ok {
			assert.Greater(t, i, last, "per-producer order must be preserved")
		}
		lastPerProducer[p] = i
	}
	wg.Wait()

	assert.Equal(t, 0, q.Len())
}

func TestQueue_CloseIntake(t *testing.T) {
	q := New()
	q.CloseIntake()

	assert.True(t, q.IsShuttingDown())
	assert.False(t, q.Enqueue(domain.Event{Type: domain.LookupSuccess}))
	assert.Equal(t, 0, q.Len())
}

func TestQueue_Metrics(t *testing.T) {
	q := New()
	q.Enqueue(domain.Event{Type: domain.LookupSuccess})
	q.Enqueue(domain.Event{Type: domain.LookupSuccess})
	_, _ = q.TryDequeue()
	q.MarkProcessed()

	enq, proc, backlog := q.Metrics()

	assert.Equal(t, uint64(2), enq)
	assert.Equal(t, uint64(1), proc)
	assert.Equal(t, 1, backlog)
}

func TestQueue_CloseIntakeRacingProducers(t *testing.T) {
	for round := 0; round < 20; round++ {
		q := New()

		var (
			wg       sync.WaitGroup
			accepted sync.Map
			start    = make(chan struct{})
		)
		for p := 0; p < 8; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				<-start
				for i := 0; ; i++ {
					if !q.Enqueue(domain.Event{Type: domain.LookupSuccess, SubjectKey: fmt.Sprintf("%d-%d", p, i)}) {
						accepted.Store(p, i)
						return
					}
				}
			}(p)
		}

		close(start)
		time.Sleep(time.Millisecond)
		q.CloseIntake()
		backlogAtClose := q.Len()

		wg.Wait()

		total := 0
		accepted.Range(func(_, v any) bool {
			total += v.(int)
			return true
		})

		require.Equal(t, backlogAtClose, q.Len(), "no event may land after CloseIntake returns")
		enqueued, _, backlog := q.Metrics()
		assert.Equal(t, uint64(total), enqueued)
		assert.Equal(t, total, backlog)
	}
}
