package fetch

import (
	"context"
	"sync"
)

type PageFunc[T any] func(ctx context.Context, page int) ([]T, bool, error)

type PageState[T any] struct {
	Status  Status
	Items   []T
	Page    int
	HasMore bool
	Err     error
}

// Paginated accumulates pages client-side. HasMore comes from the fetcher
// (the backend's hasNext), never from guessing at item counts here.
type Paginated[T any] struct {
	mu       sync.Mutex
	fn       PageFunc[T]
	state    PageState[T]
	seq      uint64
	cancel   context.CancelFunc
	onChange func(PageState[T])
}

func NewPaginated[T any](fn PageFunc[T]) *Paginated[T] {
	return &Paginated[T]{
		fn:    fn,
		state: PageState[T]{Status: StatusIdle, HasMore: true},
	}
}

func (p *Paginated[T]) OnChange(fn func(PageState[T])) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

func (p *Paginated[T]) State() PageState[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// LoadMore fetches the next page and appends it. A call while exhausted is a
// no-op. Like Loader.Execute, only the most recent call may write state.
func (p *Paginated[T]) LoadMore(ctx context.Context) {
	p.mu.Lock()
	if !p.state.HasMore {
		p.mu.Unlock()
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.seq++
	seq := p.seq
	page := p.state.Page + 1

	reqCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.state.Status = StatusLoading
	p.state.Err = nil
	p.mu.Unlock()
	p.notify()

	items, hasNext, err := p.fn(reqCtx, page)
	cancel()

	p.mu.Lock()
	if p.seq != seq {
		p.mu.Unlock()
		return
	}
	p.cancel = nil
	if err != nil {
		p.state.Status = StatusError
		p.state.Err = err
	} else {
		p.state.Status = StatusSuccess
		p.state.Items = append(p.state.Items, items...)
		p.state.Page = page
		p.state.HasMore = hasNext
		p.state.Err = nil
	}
	p.mu.Unlock()
	p.notify()
}

// Reset cancels any in-flight page and drops everything accumulated.
func (p *Paginated[T]) Reset() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.seq++
	p.state = PageState[T]{Status: StatusIdle, HasMore: true}
	p.mu.Unlock()
	p.notify()
}

func (p *Paginated[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.seq++
	p.onChange = nil
}

func (p *Paginated[T]) notify() {
	p.mu.Lock()
	onChange := p.onChange
	state := p.state
	p.mu.Unlock()

	if onChange != nil {
		onChange(state)
	}
}
