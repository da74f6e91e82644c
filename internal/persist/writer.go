// Package persist runs store writes in the background so the session never
// blocks on storage. Writes are keyed; a newer write for a key replaces an
// older one that has not started yet.
package persist

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/logger"
)

// Op performs one write. Returning an error schedules a retry.
type Op func() error

// Options tunes retry behaviour. Zero values use the package defaults.
type Options struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// OnFailure is called when a write gives up after MaxAttempts.
	OnFailure func(key string, err error)
}

type job struct {
	key       string
	op        Op
	attempts  int
	notBefore time.Time
}

// Writer is a single-worker keyed write queue.
type Writer struct {
	opts Options

	mu      sync.Mutex
	queue   []string // keys in arrival order
	pending map[string]*job
	running string
	wake    chan struct{}
	idle    *sync.Cond
	closed  bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWriter starts the worker goroutine.
func NewWriter(opts Options) *Writer {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = constants.WriterMaxAttempts
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = constants.WriterInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = constants.WriterMaxBackoff
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Writer{
		opts:    opts,
		pending: make(map[string]*job),
		wake:    make(chan struct{}, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	w.idle = sync.NewCond(&w.mu)
	go w.run(ctx)
	return w
}

// Enqueue schedules op under key. It never blocks on the write itself.
// Returns false once the writer is closed.
func (w *Writer) Enqueue(key string, op Op) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return false
	}
	if j, ok := w.pending[key]; ok {
		j.op = op
		j.attempts = 0
		j.notBefore = time.Time{}
	} else {
		w.pending[key] = &job{key: key, op: op}
		w.queue = append(w.queue, key)
	}
	w.mu.Unlock()
	w.signal()
	return true
}

// Cancel drops a queued write that has not started.
func (w *Writer) Cancel(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.pending[key]; !ok {
		return
	}
	delete(w.pending, key)
	w.removeKey(key)
	w.idle.Broadcast()
}

// Pending is the number of writes not yet durably applied.
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := len(w.pending)
	if w.running != "" {
		n++
	}
	return n
}

// Dirty reports whether key has a write waiting or in flight.
func (w *Writer) Dirty(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.pending[key]
	return ok || w.running == key
}

// Flush waits until the queue drains or ctx is done.
func (w *Writer) Flush(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		w.mu.Lock()
		w.idle.Broadcast()
		w.mu.Unlock()
	})
	defer stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.pending) > 0 || w.running != "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.idle.Wait()
	}
	return nil
}

// Close drains outstanding writes until ctx is done, then stops the worker.
// Writes still pending when ctx expires are dropped and logged.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	err := w.Flush(ctx)
	w.cancel()
	<-w.done

	w.mu.Lock()
	for key := range w.pending {
		logger.Warn("Dropping unsaved write on shutdown", "key", key)
	}
	w.pending = map[string]*job{}
	w.queue = nil
	w.mu.Unlock()
	return err
}

func (w *Writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Writer) removeKey(key string) {
	for i, k := range w.queue {
		if k == key {
			w.queue = append(w.queue[:i], w.queue[i+1:]...)
			return
		}
	}
}

// next pops the first job that is ready, or reports how long until one is.
func (w *Writer) next(now time.Time) (*job, time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	wait := time.Duration(-1)
	for _, key := range w.queue {
		j := w.pending[key]
		if d := j.notBefore.Sub(now); d > 0 {
			if wait < 0 || d < wait {
				wait = d
			}
			continue
		}
		delete(w.pending, key)
		w.removeKey(key)
		w.running = key
		return j, 0
	}
	return nil, wait
}

func (w *Writer) run(ctx context.Context) {
	defer close(w.done)
	for {
		j, wait := w.next(time.Now())
		if j != nil {
			w.execute(j)
			continue
		}

		var (
			t     *time.Timer
			retry <-chan time.Time
		)
		if wait > 0 {
			t = time.NewTimer(wait)
			retry = t.C
		}
		select {
		case <-ctx.Done():
			if t != nil {
				t.Stop()
			}
			return
		case <-w.wake:
		case <-retry:
		}
		if t != nil {
			t.Stop()
		}
	}
}

func (w *Writer) execute(j *job) {
	err := j.op()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = ""
	defer w.idle.Broadcast()

	if err == nil {
		return
	}
	j.attempts++
	if _, replaced := w.pending[j.key]; replaced {
		// A newer write for this key supersedes the failed one.
		logger.Debug("Write superseded after failure", "key", j.key, "error", err)
		return
	}
	if j.attempts >= w.opts.MaxAttempts {
		logger.Error("Write failed, giving up", "key", j.key, "attempts", j.attempts, "error", err)
		if w.opts.OnFailure != nil {
			go w.opts.OnFailure(j.key, err)
		}
		return
	}
	backoff := w.backoff(j.attempts)
	logger.Warn("Write failed, retrying", "key", j.key, "attempt", j.attempts, "backoff", backoff, "error", err)
	j.notBefore = time.Now().Add(backoff)
	w.pending[j.key] = j
	w.queue = append(w.queue, j.key)
}

func (w *Writer) backoff(attempt int) time.Duration {
	d := w.opts.InitialBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= w.opts.MaxBackoff {
			return w.opts.MaxBackoff
		}
	}
	return d
}
