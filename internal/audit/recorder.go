// Package audit implements the asynchronous request audit pipeline: handlers
// finish their response, a middleware hands the terminal outcome to the
// Recorder, and a single worker goroutine persists it. The pipeline is pure
// observability — it may drop entries under pressure but must never block,
// delay or fail the request that produced them.
package audit

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/quantabi/investment/internal/domain"
)

// Store is the persistence capability the Recorder needs. Implemented by
// repository.AuditRepository.
type Store interface {
	Insert(ctx context.Context, e *domain.AuditEntry) error
}

// insertTimeout bounds each audit write so a slow store cannot wedge the
// worker behind one entry.
const insertTimeout = 5 * time.Second

// Recorder accepts audit entries on a bounded queue and persists them on a
// background worker. Construct with NewRecorder, call Start once, and Close
// on shutdown to flush whatever is still queued.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	queue   chan *domain.AuditEntry
	done    chan struct{}
	dropped atomic.Int64
	failed  atomic.Int64
}

// NewRecorder creates a Recorder with the given queue capacity.
func NewRecorder(store Store, queueSize int, logger *slog.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Recorder{
		store:  store,
		logger: logger,
		queue:  make(chan *domain.AuditEntry, queueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the worker goroutine. It returns immediately; the worker
// runs until the queue is closed by Close.
func (r *Recorder) Start() {
	go r.run()
}

// Record enqueues one entry, best-effort. When the queue is full the entry is
// dropped (drop-newest) and a warning is emitted; user-facing traffic is never
// stalled by backpressure here.
func (r *Recorder) Record(e *domain.AuditEntry) {
	select {
	case r.queue <- e:
	default:
		n := r.dropped.Add(1)
		r.logger.Warn("audit queue full, entry dropped",
			"endpoint", e.Endpoint, "status", e.StatusCode, "dropped_total", n)
	}
}

// Close stops accepting entries and waits up to timeout for the worker to
// drain the queue. Safe to call once, after all producers have stopped.
func (r *Recorder) Close(timeout time.Duration) {
	close(r.queue)
	select {
	case <-r.done:
	case <-time.After(timeout):
		r.logger.Warn("audit recorder drain timed out", "pending", len(r.queue))
	}
}

// Dropped returns how many entries were discarded because the queue was full.
func (r *Recorder) Dropped() int64 { return r.dropped.Load() }

// run drains the queue until it is closed. Store failures are reported to the
// operational log and otherwise swallowed: the audit path never retries and
// never propagates errors toward the request path.
func (r *Recorder) run() {
	defer close(r.done)
	for e := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		if err := r.store.Insert(ctx, e); err != nil {
			n := r.failed.Add(1)
			r.logger.Error("audit write failed",
				"err", err, "endpoint", e.Endpoint, "status", e.StatusCode, "failed_total", n)
		}
		cancel()
	}
}
