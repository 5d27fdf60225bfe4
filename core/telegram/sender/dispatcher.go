package sender

import (
	"context"
	"errors"
	"sync"
	"time"

	"menubot/core/logger"

	"log/slog"
)

var (
	// ErrQueueFull is returned when the send queue has no free capacity.
	ErrQueueFull = errors.New("sender: queue full")
	// ErrQueueClosed is returned after Close has been called.
	ErrQueueClosed = errors.New("sender: queue closed")
)

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
	enqueued time.Time
}

// Dispatcher executes Telegram send calls asynchronously on a worker pool
// so handlers do not block on Bot API latency.
type Dispatcher struct {
	queue   chan job
	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool
}

// NewDispatcher starts workers goroutines draining a queue of queueSize.
func NewDispatcher(workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{queue: make(chan job, queueSize)}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.queue {
		start := time.Now()
		err := j.run()
		attrs := []slog.Attr{
			slog.String("action", j.action),
			slog.String("endpoint", j.endpoint),
			slog.Int64("queue_wait_ms", logger.RoundMS(start.Sub(j.enqueued)).Milliseconds()),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
			slog.String("status", logger.Status(err)),
		}
		if err != nil {
			attrs = append(attrs, slog.String("err", err.Error()))
			logger.Warn(j.ctx, "tg.sender", "send.fail", attrs...)
			continue
		}
		if logger.ShouldSampleDebug() {
			logger.Debug(j.ctx, "tg.sender", "send.ok", attrs...)
		}
	}
}

// Enqueue schedules run for asynchronous execution. It never blocks: a full
// queue yields ErrQueueFull so callers can fall back to a synchronous send.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	d.closeMu.Lock()
	if d.closed {
		d.closeMu.Unlock()
		return ErrQueueClosed
	}
	d.closeMu.Unlock()

	select {
	case d.queue <- job{ctx: ctx, action: action, endpoint: endpoint, run: run, enqueued: time.Now()}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting jobs and waits for in-flight sends to finish.
func (d *Dispatcher) Close() {
	d.closeMu.Lock()
	if d.closed {
		d.closeMu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.closeMu.Unlock()
	d.wg.Wait()
}
