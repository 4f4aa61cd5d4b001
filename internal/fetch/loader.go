// Package fetch holds the async-request state wrappers the session layer
// drives: a single-value loader, a page accumulator and a mutation helper.
// All of them expose the same idle/loading/success/error lifecycle and are
// guarded by a sequence number, so a superseded request can never overwrite
// the state a newer one produced. Starting a new request cancels the context
// of the one still in flight.
package fetch

import (
	"context"
	"sync"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type State[T any] struct {
	Status Status
	Data   T
	Err    error
}

type Loader[T any] struct {
	mu       sync.Mutex
	fn       func(context.Context) (T, error)
	state    State[T]
	seq      uint64
	cancel   context.CancelFunc
	onChange func(State[T])
}

func NewLoader[T any](fn func(context.Context) (T, error)) *Loader[T] {
	return &Loader[T]{
		fn:    fn,
		state: State[T]{Status: StatusIdle},
	}
}

// OnChange registers a single observer notified after every state change.
func (l *Loader[T]) OnChange(fn func(State[T])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

func (l *Loader[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Execute runs the fetch function. It blocks until the request settles or is
// superseded by a later Execute; only the most recent call may write state.
// Previous data is kept while loading so observers can render stale data.
func (l *Loader[T]) Execute(ctx context.Context) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq

	reqCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.state.Status = StatusLoading
	l.state.Err = nil
	l.mu.Unlock()
	l.notify()

	data, err := l.fn(reqCtx)
	cancel()

	l.mu.Lock()
	if l.seq != seq {
		// superseded, a newer request owns the state now
		l.mu.Unlock()
		return
	}
	l.cancel = nil
	if err != nil {
		l.state.Status = StatusError
		l.state.Err = err
	} else {
		l.state.Status = StatusSuccess
		l.state.Data = data
		l.state.Err = nil
	}
	l.mu.Unlock()
	l.notify()
}

// Close cancels any in-flight request and detaches the observer.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++
	l.onChange = nil
}

func (l *Loader[T]) notify() {
	l.mu.Lock()
	onChange := l.onChange
	state := l.state
	l.mu.Unlock()

	if onChange != nil {
		onChange(state)
	}
}
