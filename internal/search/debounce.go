package search

import (
	"context"
	"sync"
	"time"

	"neeklo-backend/internal/shared/metrics"
)

// DefaultDebounce is the quiet period before a query is run.
const DefaultDebounce = 150 * time.Millisecond

// Debouncer runs only the latest of a burst of requests. Every Submit bumps a
// sequence counter; a run whose sequence is no longer current is never delivered,
// even if it already finished computing.
type Debouncer[T any] struct {
	delay   time.Duration
	run     func(ctx context.Context, query string) T
	deliver func(seq uint64, query string, result T)

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// NewDebouncer returns a debouncer that calls run after delay and passes current
// results to deliver. deliver is called with the debouncer lock held and must not block.
func NewDebouncer[T any](delay time.Duration, run func(context.Context, string) T, deliver func(uint64, string, T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer[T]{delay: delay, run: run, deliver: deliver}
}

// Submit schedules query, superseding any pending or running request, and
// returns its sequence number. After Close it returns 0.
func (d *Debouncer[T]) Submit(query string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0
	}
	d.seq++
	seq := d.seq
	d.stopLocked()
	d.wg.Add(1)
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq, query) })
	return seq
}

// Seq is the sequence number of the latest request.
func (d *Debouncer[T]) Seq() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

// Close cancels pending work and waits for running requests to finish.
// Nothing is delivered after Close returns.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.stopLocked()
	d.mu.Unlock()
	d.wg.Wait()
}

// stopLocked stops the pending timer and cancels an in-flight run.
func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.timer = nil
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer[T]) fire(seq uint64, query string) {
	defer d.wg.Done()

	d.mu.Lock()
	if d.closed || seq != d.seq {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	result := d.run(ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || seq != d.seq {
		metrics.IncSearchStale()
		return
	}
	d.deliver(seq, query, result)
}
