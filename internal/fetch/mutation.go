package fetch

import (
	"context"
	"sync"
)

// Mutation wraps a write call with the same lifecycle as Loader but without
// accumulation; each Do replaces the previous result.
type Mutation[A, T any] struct {
	mu       sync.Mutex
	fn       func(context.Context, A) (T, error)
	state    State[T]
	seq      uint64
	onChange func(State[T])
}

func NewMutation[A, T any](fn func(context.Context, A) (T, error)) *Mutation[A, T] {
	return &Mutation[A, T]{
		fn:    fn,
		state: State[T]{Status: StatusIdle},
	}
}

func (m *Mutation[A, T]) OnChange(fn func(State[T])) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

func (m *Mutation[A, T]) State() State[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mutation[A, T]) Do(ctx context.Context, arg A) (T, error) {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.state.Status = StatusLoading
	m.state.Err = nil
	m.mu.Unlock()
	m.notify()

	data, err := m.fn(ctx, arg)

	m.mu.Lock()
	if m.seq == seq {
		if err != nil {
			m.state.Status = StatusError
			m.state.Err = err
		} else {
			m.state.Status = StatusSuccess
			m.state.Data = data
			m.state.Err = nil
		}
	}
	m.mu.Unlock()
	m.notify()

	return data, err
}

func (m *Mutation[A, T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.onChange = nil
}

func (m *Mutation[A, T]) notify() {
	m.mu.Lock()
	onChange := m.onChange
	state := m.state
	m.mu.Unlock()

	if onChange != nil {
		onChange(state)
	}
}
