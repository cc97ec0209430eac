package fetchstate

import (
	"context"
	"sync"
)

// Ticket identifies one fetch started by Tracker.Begin.
type Ticket struct {
	Key string
	gen uint64
}

// Tracker owns the fetch state of a single view instance. Each Begin starts
// a new generation and cancels the previous one; results carrying an older
// ticket are dropped, so a slow response for a superseded key can never
// overwrite the state of a newer one.
type Tracker[T any] struct {
	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	state    State[T]
	onChange func(State[T])
}

// NewTracker returns a tracker in the Idle state. onChange, if non-nil, is
// called with every applied state while the tracker's lock is held, so
// notifications arrive in order; it must not call back into the tracker.
func NewTracker[T any](onChange func(State[T])) *Tracker[T] {
	return &Tracker[T]{
		state:    Idle[T]{},
		onChange: onChange,
	}
}

// State returns the current state.
func (t *Tracker[T]) State() State[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Begin supersedes any in-flight fetch and moves to Loading for key. The
// returned context is cancelled when a newer fetch begins or Stop is called.
func (t *Tracker[T]) Begin(parent context.Context, key string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	t.cancel = cancel
	t.setLocked(Loading[T]{Key: key})
	return ctx, Ticket{Key: key, gen: t.gen}
}

// Resolve applies the outcome of the fetch identified by tk. It reports
// false, leaving the state untouched, when tk has been superseded.
func (t *Tracker[T]) Resolve(tk Ticket, data T, err error) bool {
	_, ok := t.resolve(tk, data, err)
	return ok
}

func (t *Tracker[T]) resolve(tk Ticket, data T, err error) (State[T], bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tk.gen != t.gen {
		return nil, false
	}
	s := Resolved(tk.Key, data, err)
	t.setLocked(s)
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	return s, true
}

// Run begins a fetch for key, calls fn and resolves the result. It returns
// the applied state, or false when a newer fetch superseded this one.
func (t *Tracker[T]) Run(ctx context.Context, key string, fn func(context.Context) (T, error)) (State[T], bool) {
	fctx, tk := t.Begin(ctx, key)
	data, err := fn(fctx)
	return t.resolve(tk, data, err)
}

// Current reports whether tk is still the newest fetch.
func (t *Tracker[T]) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tk.gen == t.gen
}

// Stop cancels any in-flight fetch and invalidates outstanding tickets.
func (t *Tracker[T]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Tracker[T]) setLocked(s State[T]) {
	t.state = s
	if t.onChange != nil {
		t.onChange(s)
	}
}
