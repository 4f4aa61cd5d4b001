package fetch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginatedAccumulatesPages(t *testing.T) {
	p := NewPaginated(func(ctx context.Context, page int) ([]string, bool, error) {
		items := []string{fmt.Sprintf("item-%d-a", page), fmt.Sprintf("item-%d-b", page)}
		return items, page < 3, nil
	})
	defer p.Close()

	state := p.State()
	require.Equal(t, StatusIdle, state.Status)
	require.True(t, state.HasMore)

	p.LoadMore(context.Background())
	state = p.State()
	assert.Equal(t, StatusSuccess, state.Status)
	assert.Equal(t, []string{"item-1-a", "item-1-b"}, state.Items)
	assert.Equal(t, 1, state.Page)
	assert.True(t, state.HasMore)

	p.LoadMore(context.Background())
	p.LoadMore(context.Background())
	state = p.State()
	assert.Len(t, state.Items, 6)
	assert.Equal(t, 3, state.Page)
	assert.False(t, state.HasMore)
}

func TestPaginatedLoadMoreWhileExhaustedIsNoOp(t *testing.T) {
	calls := 0
	p := NewPaginated(func(ctx context.Context, page int) ([]string, bool, error) {
		calls++
		return []string{"only"}, false, nil
	})
	defer p.Close()

	p.LoadMore(context.Background())
	p.LoadMore(context.Background())
	p.LoadMore(context.Background())

	assert.Equal(t, 1, calls)
	assert.Len(t, p.State().Items, 1)
}

func TestPaginatedErrorKeepsAccumulated(t *testing.T) {
	boom := errors.New("boom")
	p := NewPaginated(func(ctx context.Context, page int) ([]string, bool, error) {
		if page == 2 {
			return nil, false, boom
		}
		return []string{"a"}, true, nil
	})
	defer p.Close()

	p.LoadMore(context.Background())
	p.LoadMore(context.Background())

	state := p.State()
	assert.Equal(t, StatusError, state.Status)
	assert.ErrorIs(t, state.Err, boom)
	assert.Equal(t, []string{"a"}, state.Items, "a failed page must not drop loaded items")
	assert.Equal(t, 1, state.Page, "a failed page must not advance the cursor")
}

func TestPaginatedReset(t *testing.T) {
	p := NewPaginated(func(ctx context.Context, page int) ([]string, bool, error) {
		return []string{"x"}, false, nil
	})
	defer p.Close()

	p.LoadMore(context.Background())
	require.False(t, p.State().HasMore)

	p.Reset()

	state := p.State()
	assert.Equal(t, StatusIdle, state.Status)
	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.Page)
	assert.True(t, state.HasMore)

	p.LoadMore(context.Background())
	assert.Len(t, p.State().Items, 1, "a reset pager must fetch from page one again")
}
