package listctl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liora-cosmetic/liora/pkg/notify"
)

type order struct {
	ID        string
	Number    string
	Customer  string
	Status    string
	Total     decimal.Decimal
	CreatedAt time.Time
}

func (o order) SortKey(field string) any {
	switch field {
	case "number":
		return o.Number
	case "status":
		return o.Status
	case "total":
		return o.Total
	case "created_at":
		return o.CreatedAt
	default:
		return nil
	}
}

type fakeSource struct {
	mu     sync.Mutex
	items  []order
	err    error
	calls  []Params
	before func(call int, ctx context.Context) // runs outside the lock
	remote bool
}

func (s *fakeSource) fetch(ctx context.Context, p Params) (Result[order], error) {
	s.mu.Lock()
	s.calls = append(s.calls, p)
	call := len(s.calls)
	hook := s.before
	s.mu.Unlock()
	if hook != nil {
		hook(call, ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Result[order]{}, s.err
	}
	items := append([]order(nil), s.items...)
	if !s.remote {
		return Result[order]{Items: items, TotalCount: len(items)}, nil
	}
	start, end := pageBounds(p.Page, p.PageSize, len(items))
	return Result[order]{Items: items[start:end], TotalCount: len(items)}, nil
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *fakeSource) set(items []order, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.err = err
}

func orderOptions(src *fakeSource) Options[order] {
	return Options[order]{
		Fetch: src.fetch,
		ID:    func(o order) string { return o.ID },
		Columns: []Column[order]{
			{Key: "number", Title: "Mã đơn", Sortable: true},
			{Key: "customer", Title: "Khách hàng", Sortable: true, SortKey: func(o order) any { return o.Customer }},
			{Key: "total", Title: "Tổng tiền", Sortable: true},
			{Key: "note", Title: "Ghi chú"},
		},
		Search: func(o order, term string) bool { return ContainsFold(term, o.Number, o.Customer) },
		Filters: []Filter[order]{
			{Name: "status", Kind: FilterEnum, Value: func(o order) any { return o.Status }},
			{Name: "amount", Kind: FilterRange, Value: func(o order) any { return o.Total }},
			{Name: "to", Kind: FilterDateTo, Time: func(o order) time.Time { return o.CreatedAt }},
		},
		RowActions: []RowAction[order]{
			{Name: "view"},
			{Name: "cancel", Visible: func(o order) bool { return o.Status == "pending" }, Reload: true},
		},
		Location: time.UTC,
	}
}

func makeOrders(n int, pending ...int) []order {
	isPending := map[int]bool{}
	for _, i := range pending {
		isPending[i] = true
	}
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	out := make([]order, n)
	for i := range n {
		status := "delivered"
		if isPending[i] {
			status = "pending"
		}
		out[i] = order{
			ID:        fmt.Sprintf("o-%02d", i),
			Number:    fmt.Sprintf("ORD-%03d", i),
			Customer:  fmt.Sprintf("Khách %d", i%4),
			Status:    status,
			Total:     decimal.NewFromInt(int64((i%7 + 1) * 100000)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func newController(t *testing.T, opts Options[order]) *Controller[order] {
	t.Helper()
	c, err := New(t.Context(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func rowIDs(v View[order]) []string {
	out := make([]string, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.ID
	}
	return out
}

func TestController_Scenarios(t *testing.T) {
	t.Run("Should show one page captioned 1-3 of 3 when a status filter matches three orders", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(25, 2, 9, 17)}
		c := newController(t, orderOptions(src))
		require.NoError(t, c.Load(t.Context()))
		assert.Equal(t, 3, c.View().TotalPages)

		require.NoError(t, c.SetFilter(t.Context(), "status", "pending"))
		v := c.View()
		assert.Equal(t, 3, v.FilteredCount)
		assert.Equal(t, 1, v.TotalPages)
		assert.False(t, v.Pagination.Visible)
		assert.Equal(t, "Hiển thị 1-3 trong tổng số 3", v.Caption.Text)
		assert.Equal(t, []string{"o-02", "o-09", "o-17"}, rowIDs(v))
	})

	t.Run("Should match order numbers by case-insensitive substring", func(t *testing.T) {
		src := &fakeSource{items: []order{
			{ID: "1", Number: "ORD-AB1"},
			{ID: "2", Number: "ORD-XAB9"},
			{ID: "3", Number: "ORD-999"},
		}}
		c := newController(t, orderOptions(src))
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.SetSearchTerm(t.Context(), "AB"))
		assert.Equal(t, []string{"1", "2"}, rowIDs(c.View()))
		require.NoError(t, c.SetSearchTerm(t.Context(), "ab"))
		assert.Equal(t, []string{"1", "2"}, rowIDs(c.View()))
	})

	t.Run("Should sort totals ascending then descending", func(t *testing.T) {
		src := &fakeSource{items: []order{
			{ID: "a", Total: decimal.NewFromInt(500000)},
			{ID: "b", Total: decimal.NewFromInt(100000)},
			{ID: "c", Total: decimal.NewFromInt(300000)},
		}}
		c := newController(t, orderOptions(src))
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.SetSort(t.Context(), "total"))
		assert.Equal(t, []string{"b", "c", "a"}, rowIDs(c.View()))
		assert.Equal(t, SortState{Column: "total", Direction: Asc}, c.View().Sort)
		require.NoError(t, c.SetSort(t.Context(), "total"))
		assert.Equal(t, []string{"a", "c", "b"}, rowIDs(c.View()))
	})
}

func TestController_Paging(t *testing.T) {
	t.Run("Should partition the filtered set into pages no larger than the page size", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(47, 1, 3, 5, 8, 13, 21, 34)}
		opts := orderOptions(src)
		opts.PageSize = 6
		c := newController(t, opts)
		require.NoError(t, c.Load(t.Context()))

		states := []map[string]string{
			{},
			{"status": "pending"},
			{"amount": "200000-500000"},
			{"amount": "600000-"},
			{"status": "pending", "amount": "-300000"},
			{"status": "refunded"},
			{"amount": "garbage"},
		}
		for _, st := range states {
			require.NoError(t, c.ClearFilters(t.Context()))
			for name, value := range st {
				if err := c.SetFilter(t.Context(), name, value); err != nil {
					require.ErrorIs(t, err, ErrValidation)
				}
			}
			v := c.View()
			seen := 0
			for p := 1; p <= v.TotalPages; p++ {
				require.NoError(t, c.GoToPage(t.Context(), p))
				page := c.View()
				assert.LessOrEqual(t, len(page.Rows), 6)
				seen += len(page.Rows)
			}
			assert.Equal(t, v.FilteredCount, seen, "filters %v", st)
		}
	})

	t.Run("Should ignore out of range pages", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(25)}
		c := newController(t, orderOptions(src))
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.GoToPage(t.Context(), 2))
		before := c.View()
		for _, n := range []int{0, -1, 4, 100} {
			require.NoError(t, c.GoToPage(t.Context(), n))
			after := c.View()
			assert.Equal(t, before.Page, after.Page)
			assert.Equal(t, before.Version, after.Version)
		}
	})

	t.Run("Should clamp the page and flag empty results", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(25)}
		c := newController(t, orderOptions(src))
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.GoToPage(t.Context(), 3))
		require.NoError(t, c.SetSearchTerm(t.Context(), "nothing matches this"))
		v := c.View()
		assert.Equal(t, 1, v.Page.Current)
		assert.True(t, v.Empty)
		assert.Equal(t, "Không có dữ liệu", v.EmptyMessage)
		assert.Equal(t, "Hiển thị 0-0 trong tổng số 0", v.Caption.Text)
	})

	t.Run("Should keep the page when sorting", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(25)}
		c := newController(t, orderOptions(src))
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.GoToPage(t.Context(), 2))
		require.NoError(t, c.SetSort(t.Context(), "customer"))
		assert.Equal(t, 2, c.View().Page.Current)
	})
}

func TestController_Filters(t *testing.T) {
	t.Run("Should reproduce a fresh controller after clearing filters and reloading", func(t *testing.T) {
		items := makeOrders(30, 4, 6)
		src := &fakeSource{items: items}
		c := newController(t, orderOptions(src))
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.SetSearchTerm(t.Context(), "Khách 1"))
		require.NoError(t, c.SetFilter(t.Context(), "status", "pending"))
		require.NoError(t, c.SetFilter(t.Context(), "amount", "100000-300000"))
		require.NoError(t, c.ClearFilters(t.Context()))
		require.NoError(t, c.Load(t.Context()))

		fresh := newController(t, orderOptions(&fakeSource{items: items}))
		require.NoError(t, fresh.Load(t.Context()))
		assert.Equal(t, fresh.Filtered(), c.Filtered())
		assert.Equal(t, rowIDs(fresh.View()), rowIDs(c.View()))
		assert.Empty(t, c.View().Filters)
		assert.Empty(t, c.View().Search)
	})

	t.Run("Should reject unknown filters and columns", func(t *testing.T) {
		c := newController(t, orderOptions(&fakeSource{}))
		assert.ErrorIs(t, c.SetFilter(t.Context(), "colour", "red"), ErrValidation)
		assert.ErrorIs(t, c.SetSort(t.Context(), "missing"), ErrValidation)
		assert.ErrorIs(t, c.SetSort(t.Context(), "note"), ErrValidation)
	})

	t.Run("Should keep malformed values as no constraint and report them", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(2, 1, 1)}
		c := newController(t, orderOptions(src))
		require.NoError(t, c.Load(t.Context()))

		err := c.SetFilter(t.Context(), "amount", "abc-xyz")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "range", verr.Field)
		v := c.View()
		assert.Equal(t, "abc-xyz", v.Filters["amount"])
		assert.Equal(t, len(src.items), v.FilteredCount)

		assert.ErrorIs(t, c.SetFilter(t.Context(), "to", "tomorrow"), ErrValidation)
		assert.Equal(t, "tomorrow", c.View().Filters["to"])
		require.NoError(t, c.SetFilter(t.Context(), "to", ""))
		require.NoError(t, c.SetFilter(t.Context(), "amount", ""))
		assert.Empty(t, c.View().Filters)
	})

	t.Run("Should include orders created at midnight of the to day", func(t *testing.T) {
		day := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
		src := &fakeSource{items: []order{
			{ID: "on", CreatedAt: day},
			{ID: "late", CreatedAt: day.Add(24 * time.Hour)},
		}}
		c := newController(t, orderOptions(src))
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.SetFilter(t.Context(), "to", "2024-06-02"))
		assert.Equal(t, []string{"on"}, rowIDs(c.View()))
	})

	t.Run("Should apply debounced search input once typing stops", func(t *testing.T) {
		src := &fakeSource{items: []order{{ID: "1", Number: "ORD-AB1"}, {ID: "2", Number: "ORD-999"}}}
		opts := orderOptions(src)
		opts.SearchDebounce = 20 * time.Millisecond
		c := newController(t, opts)
		require.NoError(t, c.Load(t.Context()))
		for _, term := range []string{"a", "ab", "AB"} {
			c.SearchInput(term)
		}
		require.Eventually(t, func() bool {
			return c.View().Search == "AB"
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, []string{"1"}, rowIDs(c.View()))
	})
}

func TestController_Selection(t *testing.T) {
	t.Run("Should select the current page and clear everything on toggle off", func(t *testing.T) {
		var counts []int
		src := &fakeSource{items: makeOrders(25)}
		opts := orderOptions(src)
		opts.OnSelectionChange = func(n int) { counts = append(counts, n) }
		c := newController(t, opts)
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.ToggleSelectAll(true))
		v := c.View()
		assert.Equal(t, 10, v.SelectedCount)
		assert.True(t, v.PageSelected)

		require.NoError(t, c.GoToPage(t.Context(), 2))
		assert.False(t, c.View().PageSelected)
		require.NoError(t, c.ToggleSelect("o-12"))
		require.NoError(t, c.ToggleSelectAll(false))
		assert.Empty(t, c.Selected())
		assert.Equal(t, []int{0, 10, 11, 0}, counts)
	})

	t.Run("Should report unknown ids", func(t *testing.T) {
		c := newController(t, orderOptions(&fakeSource{items: makeOrders(3)}))
		require.NoError(t, c.Load(t.Context()))
		var nf *NotFoundError
		require.ErrorAs(t, c.ToggleSelect("nope"), &nf)
		assert.Equal(t, "nope", nf.ID)
	})

	t.Run("Should clear the selection on reload", func(t *testing.T) {
		c := newController(t, orderOptions(&fakeSource{items: makeOrders(3)}))
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.ToggleSelect("o-01"))
		require.NoError(t, c.Load(t.Context()))
		assert.Empty(t, c.Selected())
	})
}

func TestController_BulkActions(t *testing.T) {
	bulkOptions := func(src *fakeSource, handler func(context.Context, []string, string) error) Options[order] {
		opts := orderOptions(src)
		opts.BulkActions = []BulkAction{{
			Name: "status",
			Validate: func(input string) error {
				if input == "" {
					return errors.New("status is required")
				}
				return nil
			},
			Handler: handler,
		}}
		return opts
	}

	t.Run("Should clear the selection and reload after success", func(t *testing.T) {
		var gotIDs []string
		var gotInput string
		src := &fakeSource{items: makeOrders(5)}
		queue := notify.NewQueue()
		opts := bulkOptions(src, func(_ context.Context, ids []string, input string) error {
			gotIDs, gotInput = ids, input
			return nil
		})
		opts.Notifier = queue
		c := newController(t, opts)
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.ToggleSelect("o-03"))
		require.NoError(t, c.ToggleSelect("o-01"))

		require.NoError(t, c.RunBulkAction(t.Context(), "status", "shipped"))
		assert.Equal(t, []string{"o-01", "o-03"}, gotIDs)
		assert.Equal(t, "shipped", gotInput)
		assert.Empty(t, c.Selected())
		assert.Equal(t, 2, src.callCount())
		history := queue.History()
		require.Len(t, history, 1)
		assert.Equal(t, notify.LevelSuccess, history[0].Level)
	})

	t.Run("Should succeed when only the reload after the action fails", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(5)}
		queue := notify.NewQueue()
		opts := bulkOptions(src, func(context.Context, []string, string) error {
			src.set(nil, errors.New("connection reset"))
			return nil
		})
		opts.Notifier = queue
		c := newController(t, opts)
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.ToggleSelect("o-02"))

		require.NoError(t, c.RunBulkAction(t.Context(), "status", "shipped"))
		assert.Empty(t, c.Selected())
		assert.Len(t, c.View().Rows, 5)
		history := queue.History()
		require.Len(t, history, 2)
		assert.Equal(t, notify.LevelSuccess, history[0].Level)
		assert.Equal(t, notify.LevelError, history[1].Level)
	})

	t.Run("Should keep the selection when the handler fails", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(5)}
		queue := notify.NewQueue()
		opts := bulkOptions(src, func(context.Context, []string, string) error {
			return NewNetworkError("bulk update", 500, nil)
		})
		opts.Notifier = queue
		c := newController(t, opts)
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.ToggleSelect("o-02"))

		err := c.RunBulkAction(t.Context(), "status", "shipped")
		assert.ErrorIs(t, err, ErrNetwork)
		assert.Equal(t, []string{"o-02"}, c.Selected())
		assert.Equal(t, 1, src.callCount())
		require.Len(t, queue.History(), 1)
		assert.Equal(t, notify.LevelError, queue.History()[0].Level)
	})

	t.Run("Should reject invalid input without calling the handler", func(t *testing.T) {
		called := false
		src := &fakeSource{items: makeOrders(5)}
		c := newController(t, bulkOptions(src, func(context.Context, []string, string) error {
			called = true
			return nil
		}))
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.ToggleSelect("o-02"))
		assert.ErrorIs(t, c.RunBulkAction(t.Context(), "status", ""), ErrValidation)
		assert.False(t, called)
		assert.Equal(t, []string{"o-02"}, c.Selected())
	})

	t.Run("Should do nothing without a selection", func(t *testing.T) {
		called := false
		src := &fakeSource{items: makeOrders(5)}
		c := newController(t, bulkOptions(src, func(context.Context, []string, string) error {
			called = true
			return nil
		}))
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.RunBulkAction(t.Context(), "status", "shipped"))
		assert.False(t, called)
		assert.Equal(t, 1, src.callCount())
	})
}

func TestController_RowActions(t *testing.T) {
	t.Run("Should resolve visible actions per row", func(t *testing.T) {
		c := newController(t, orderOptions(&fakeSource{items: makeOrders(3, 1)}))
		require.NoError(t, c.Load(t.Context()))
		rows := c.View().Rows
		assert.Equal(t, []string{"view"}, rows[0].Actions)
		assert.Equal(t, []string{"view", "cancel"}, rows[1].Actions)
	})

	t.Run("Should run the handler and reload when requested", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(3, 1)}
		opts := orderOptions(src)
		var cancelled string
		opts.RowActions[1].Handler = func(_ context.Context, o order) error {
			cancelled = o.ID
			return nil
		}
		c := newController(t, opts)
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.RunRowAction(t.Context(), "cancel", "o-01"))
		assert.Equal(t, "o-01", cancelled)
		assert.Equal(t, 2, src.callCount())
	})

	t.Run("Should refuse hidden actions and unknown ids", func(t *testing.T) {
		opts := orderOptions(&fakeSource{items: makeOrders(3, 1)})
		opts.RowActions[1].Handler = func(context.Context, order) error { return nil }
		c := newController(t, opts)
		require.NoError(t, c.Load(t.Context()))
		assert.ErrorIs(t, c.RunRowAction(t.Context(), "cancel", "o-00"), ErrValidation)
		assert.ErrorIs(t, c.RunRowAction(t.Context(), "cancel", "o-99"), ErrNotFound)
		assert.ErrorIs(t, c.RunRowAction(t.Context(), "explode", "o-01"), ErrValidation)
	})
}

func TestController_Loading(t *testing.T) {
	t.Run("Should keep the last good view and toast when a load fails", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(12)}
		queue := notify.NewQueue()
		var states []State
		opts := orderOptions(src)
		opts.Notifier = queue
		opts.OnStateChange = func(s State) { states = append(states, s) }
		c := newController(t, opts)
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.SetFilter(t.Context(), "status", "delivered"))
		before := rowIDs(c.View())

		src.set(nil, errors.New("connection refused"))
		err := c.Load(t.Context())
		var nerr *NetworkError
		require.ErrorAs(t, err, &nerr)
		assert.False(t, nerr.Timeout)
		assert.Equal(t, before, rowIDs(c.View()))
		assert.Equal(t, "delivered", c.View().Filters["status"])
		assert.Equal(t, StateIdle, c.State())
		assert.Equal(t, []State{
			StateLoading, StateIdle,
			StateLoading, StateError, StateIdle,
		}, states)
		require.Len(t, queue.History(), 1)
		assert.Contains(t, queue.History()[0].Message, "connection refused")
	})

	t.Run("Should abort slow fetches and raise a slow network notice", func(t *testing.T) {
		src := &fakeSource{
			items: makeOrders(3),
			before: func(_ int, ctx context.Context) {
				<-ctx.Done()
			},
		}
		src.err = context.DeadlineExceeded
		queue := notify.NewQueue()
		opts := orderOptions(src)
		opts.Timeout = 20 * time.Millisecond
		opts.Notifier = queue
		c := newController(t, opts)

		err := c.Load(t.Context())
		var nerr *NetworkError
		require.ErrorAs(t, err, &nerr)
		assert.True(t, nerr.Timeout)
		require.Len(t, queue.History(), 1)
		assert.Equal(t, notify.LevelWarning, queue.History()[0].Level)
		assert.Equal(t, DefaultMessages().SlowNetwork, queue.History()[0].Message)
	})

	t.Run("Should drop a stale response that arrives after a newer one", func(t *testing.T) {
		release := make(chan struct{})
		src := &fakeSource{items: []order{{ID: "old"}}}
		src.before = func(call int, _ context.Context) {
			if call == 1 {
				<-release
			}
		}
		c := newController(t, orderOptions(src))

		done := make(chan error, 1)
		go func() { done <- c.Load(t.Context()) }()
		require.Eventually(t, func() bool { return src.callCount() == 1 }, time.Second, time.Millisecond)

		src.set([]order{{ID: "new"}}, nil)
		require.NoError(t, c.Load(t.Context()))
		src.set([]order{{ID: "old"}}, nil)
		close(release)
		require.NoError(t, <-done)
		assert.Equal(t, []string{"new"}, rowIDs(c.View()))
		assert.Equal(t, StateIdle, c.State())
	})

	t.Run("Should delegate paging to the server when pages fit", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(25), remote: true}
		opts := orderOptions(src)
		opts.RemotePaging = true
		c := newController(t, opts)
		require.NoError(t, c.Load(t.Context()))
		v := c.View()
		assert.Equal(t, 25, v.FilteredCount)
		assert.Equal(t, 3, v.TotalPages)

		require.NoError(t, c.GoToPage(t.Context(), 3))
		assert.Equal(t, []string{"o-20", "o-21", "o-22", "o-23", "o-24"}, rowIDs(c.View()))
		require.NoError(t, c.SetFilter(t.Context(), "status", "pending"))
		assert.Equal(t, 3, src.callCount())
		last := src.calls[len(src.calls)-1]
		assert.Equal(t, 1, last.Page)
		assert.Equal(t, "pending", last.Filters["status"])
	})

	t.Run("Should filter and sort a remote page the server left untouched", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(25), remote: true}
		opts := orderOptions(src)
		opts.RemotePaging = true
		c := newController(t, opts)
		require.NoError(t, c.Load(t.Context()))

		require.NoError(t, c.SetSearchTerm(t.Context(), "khách 1"))
		assert.Equal(t, "khách 1", src.calls[len(src.calls)-1].Search)
		assert.Equal(t, []string{"o-01", "o-05", "o-09"}, rowIDs(c.View()))

		require.NoError(t, c.SetSort(t.Context(), "number"))
		require.NoError(t, c.SetSort(t.Context(), "number"))
		assert.Equal(t, []string{"o-09", "o-05", "o-01"}, rowIDs(c.View()))
	})

	t.Run("Should fall back to client-side paging when the server returns everything", func(t *testing.T) {
		src := &fakeSource{items: makeOrders(25)}
		opts := orderOptions(src)
		opts.RemotePaging = true
		c := newController(t, opts)
		require.NoError(t, c.Load(t.Context()))
		require.NoError(t, c.GoToPage(t.Context(), 2))
		assert.Equal(t, 1, src.callCount())
		assert.Len(t, c.View().Rows, 10)
	})
}

func TestController_Close(t *testing.T) {
	t.Run("Should stop callbacks and refuse further work", func(t *testing.T) {
		renders := 0
		opts := orderOptions(&fakeSource{items: makeOrders(3)})
		opts.OnRender = func(View[order]) { renders++ }
		c, err := New(t.Context(), opts)
		require.NoError(t, err)
		require.NoError(t, c.Load(t.Context()))
		seen := renders

		require.NoError(t, c.Close())
		assert.ErrorIs(t, c.Load(t.Context()), ErrClosed)
		assert.ErrorIs(t, c.ToggleSelect("o-01"), ErrClosed)
		assert.ErrorIs(t, c.SetSearchTerm(t.Context(), "x"), ErrClosed)
		c.SearchInput("x")
		assert.Equal(t, seen, renders)
		assert.Empty(t, c.View().Rows)
		assert.NoError(t, c.Close())
	})

	t.Run("Should require fetch and id functions", func(t *testing.T) {
		_, err := New(t.Context(), Options[order]{})
		assert.ErrorIs(t, err, ErrValidation)
	})
}
