package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type delivery struct {
	seq   uint64
	query string
	out   string
}

type recorder struct {
	mu  sync.Mutex
	got []delivery
	ch  chan delivery
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan delivery, 16)}
}

func (r *recorder) deliver(seq uint64, q, out string) {
	r.mu.Lock()
	r.got = append(r.got, delivery{seq, q, out})
	r.mu.Unlock()
	r.ch <- delivery{seq, q, out}
}

func (r *recorder) all() []delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]delivery(nil), r.got...)
}

func echo(_ context.Context, q string) string { return "results:" + q }

func TestDebouncerCoalescesBurst(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(20*time.Millisecond, echo, rec.deliver)
	defer d.Close()

	for _, q := range []string{"с", "са", "сай", "сайт"} {
		d.Submit(q)
	}

	select {
	case got := <-rec.ch:
		assert.Equal(t, delivery{seq: 4, query: "сайт", out: "results:сайт"}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, rec.all(), 1)
}

func TestDebouncerDropsStaleResult(t *testing.T) {
	rec := newRecorder()
	started := make(chan string, 4)
	release := make(chan struct{})
	slowFirst := func(ctx context.Context, q string) string {
		started <- q
		if q == "slow" {
			<-release
		}
		return "results:" + q
	}
	d := NewDebouncer(5*time.Millisecond, slowFirst, rec.deliver)
	defer d.Close()

	d.Submit("slow")
	require.Equal(t, "slow", <-started)

	// A newer keystroke arrives while "slow" is still computing.
	d.Submit("fast")
	require.Equal(t, "fast", <-started)
	got := <-rec.ch
	assert.Equal(t, "fast", got.query)

	close(release)
	time.Sleep(30 * time.Millisecond)
	deliveries := rec.all()
	require.Len(t, deliveries, 1)
	assert.Equal(t, uint64(2), deliveries[0].seq)
}

func TestDebouncerCancelsSupersededRun(t *testing.T) {
	rec := newRecorder()
	canceled := make(chan struct{})
	started := make(chan struct{}, 1)
	run := func(ctx context.Context, q string) string {
		if q == "first" {
			started <- struct{}{}
			<-ctx.Done()
			close(canceled)
		}
		return q
	}
	d := NewDebouncer(5*time.Millisecond, run, rec.deliver)
	defer d.Close()

	d.Submit("first")
	<-started
	d.Submit("second")
	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded run was not canceled")
	}
	assert.Equal(t, "second", (<-rec.ch).query)
}

func TestDebouncerCloseStopsPending(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(time.Hour, echo, rec.deliver)
	d.Submit("never")
	d.Close()
	d.Close()

	assert.Equal(t, uint64(0), d.Submit("after close"))
	assert.Empty(t, rec.all())
	assert.Equal(t, uint64(1), d.Seq())
}

func TestDebouncerCloseWaitsForRunning(t *testing.T) {
	rec := newRecorder()
	started := make(chan struct{})
	release := make(chan struct{})
	run := func(ctx context.Context, q string) string {
		close(started)
		<-release
		return q
	}
	d := NewDebouncer(time.Millisecond, run, rec.deliver)
	d.Submit("q")
	<-started

	done := make(chan struct{})
	go func() {
		d.Close()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("Close returned while a run was in flight")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-done
	assert.Empty(t, rec.all())
}

func TestDebouncerDefaultDelay(t *testing.T) {
	d := NewDebouncer(0, echo, func(uint64, string, string) {})
	defer d.Close()
	assert.Equal(t, DefaultDebounce, d.delay)
}
