package kv

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/walletbook/walletbook/internal/logger"
)

// Queue accepts fire-and-forget writes. Put and Delete never block on the
// backing store.
type Queue interface {
	Put(key, value string)
	Delete(key string)
}

type pendingOp struct {
	value  string
	remove bool
}

// Writer persists values to a Store from a single background goroutine.
// Pending writes are coalesced per key so only the latest value is written.
// Failures are logged and dropped; in-memory state stays authoritative.
type Writer struct {
	store   Store
	log     zerolog.Logger
	timeout time.Duration

	mu      sync.Mutex
	idle    *sync.Cond
	pending map[string]pendingOp
	order   []string
	busy    bool
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// NewWriter starts the writer goroutine. timeout bounds each store call;
// zero means no bound.
func NewWriter(store Store, log zerolog.Logger, timeout time.Duration) *Writer {
	w := &Writer{
		store:   store,
		log:     logger.Component(log, "kv-writer"),
		timeout: timeout,
		pending: make(map[string]pendingOp),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.idle = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// Put schedules key to be set to value.
func (w *Writer) Put(key, value string) {
	w.enqueue(key, pendingOp{value: value})
}

// Delete schedules key for removal.
func (w *Writer) Delete(key string) {
	w.enqueue(key, pendingOp{remove: true})
}

func (w *Writer) enqueue(key string, op pendingOp) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.log.Warn().Str("key", key).Msg("write after close dropped")
		return
	}
	if _, ok := w.pending[key]; !ok {
		w.order = append(w.order, key)
	}
	w.pending[key] = op
	select {
	case w.wake <- struct{}{}:
	default:
	}
	w.mu.Unlock()
}

// Flush blocks until every write queued so far has reached the store.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.pending) > 0 || w.busy {
		w.idle.Wait()
	}
}

// Close flushes pending writes and stops the goroutine. It does not close
// the underlying store.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.Flush()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.wake)
	w.mu.Unlock()
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)
	for range w.wake {
		w.drain()
	}
}

func (w *Writer) drain() {
	for {
		w.mu.Lock()
		if len(w.pending) == 0 {
			w.busy = false
			w.idle.Broadcast()
			w.mu.Unlock()
			return
		}
		batch, order := w.pending, w.order
		w.pending = make(map[string]pendingOp)
		w.order = nil
		w.busy = true
		w.mu.Unlock()

		for _, key := range order {
			w.apply(key, batch[key])
		}
	}
}

func (w *Writer) apply(key string, op pendingOp) {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	var err error
	if op.remove {
		err = w.store.Remove(ctx, key)
	} else {
		err = w.store.Set(ctx, key, op.value)
	}
	if err != nil {
		w.log.Error().Err(err).Str("key", key).Bool("remove", op.remove).Msg("persisting value failed")
		return
	}
	w.log.Debug().Str("key", key).Bool("remove", op.remove).Int("bytes", len(op.value)).Msg("persisted")
}

var _ Queue = (*Writer)(nil)

// SyncQueue writes straight through to a store on the caller's goroutine.
// Useful for tools that exit right after one mutation.
type SyncQueue struct {
	Store Store
	Log   zerolog.Logger
}

func (q SyncQueue) Put(key, value string) {
	if err := q.Store.Set(context.Background(), key, value); err != nil {
		q.Log.Error().Err(err).Str("key", key).Msg("persisting value failed")
	}
}

func (q SyncQueue) Delete(key string) {
	if err := q.Store.Remove(context.Background(), key); err != nil {
		q.Log.Error().Err(err).Str("key", key).Msg("removing value failed")
	}
}

var _ Queue = SyncQueue{}
