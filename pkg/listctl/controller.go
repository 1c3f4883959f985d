// Package listctl implements a generic controller for paged, filtered,
// sorted and selectable tables over a remote collection.
//
// A Controller owns its search term, filters, sort, page and selection.
// Hosts mutate them only through Controller methods and render the View
// snapshots handed to OnRender. All methods are safe for concurrent use;
// host callbacks run outside the internal lock.
package listctl

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/romdo/go-debounce"

	"github.com/liora-cosmetic/liora/pkg/logger"
	"github.com/liora-cosmetic/liora/pkg/notify"
)

type Controller[T any] struct {
	opts     Options[T]
	msgs     Messages
	log      logger.Logger
	notifier notify.Notifier
	loc      *time.Location
	pageSize int
	timeout  time.Duration

	baseCtx context.Context
	stop    context.CancelFunc
	closed  atomic.Bool

	searchNow    func()
	searchCancel func()

	mu            sync.Mutex
	items         []T
	index         map[string]int
	total         int
	remote        bool
	filtered      []T
	search        string
	pendingSearch string
	filters       FilterState
	sort          SortState
	page          int
	selected      selection
	state         State
	token         uint64
	inflight      context.CancelFunc
	version       uint64
}

// New builds a controller. ctx bounds every fetch the controller issues and
// supplies the default logger.
func New[T any](ctx context.Context, opts Options[T]) (*Controller[T], error) {
	if opts.Fetch == nil {
		return nil, NewValidationError("options", "", "fetch function is required")
	}
	if opts.ID == nil {
		return nil, NewValidationError("options", "", "id function is required")
	}
	c := &Controller[T]{
		opts:     opts,
		msgs:     DefaultMessages(),
		log:      opts.Logger,
		notifier: opts.Notifier,
		loc:      opts.Location,
		pageSize: opts.PageSize,
		timeout:  opts.Timeout,
		index:    map[string]int{},
		filters:  FilterState{},
		page:     1,
		selected: selection{},
		state:    StateIdle,
	}
	if opts.Messages != nil {
		c.msgs = *opts.Messages
	}
	if c.log == nil {
		c.log = logger.FromContext(ctx)
	}
	if c.notifier == nil {
		c.notifier = notify.Discard{}
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	wait := opts.SearchDebounce
	if wait <= 0 {
		wait = DefaultSearchDebounce
	}
	c.baseCtx, c.stop = context.WithCancel(ctx)
	c.searchNow, c.searchCancel = debounce.New(wait, c.flushSearch)
	return c, nil
}

// Load fetches the collection, replaces the cache, returns to page 1 and
// clears the selection. On failure the previous view is kept.
func (c *Controller[T]) Load(ctx context.Context) error {
	return c.fetch(ctx, 1, true)
}

// SetSearchTerm applies a search term immediately
func (c *Controller[T]) SetSearchTerm(ctx context.Context, term string) error {
	return c.mutate(ctx, func() int {
		c.search = strings.TrimSpace(term)
		c.page = 1
		return 1
	})
}

// SearchInput is the free-text path: the term is applied once input has
// been quiet for the debounce interval.
func (c *Controller[T]) SearchInput(term string) {
	if c.closed.Load() {
		return
	}
	c.mu.Lock()
	c.pendingSearch = term
	c.mu.Unlock()
	c.searchNow()
}

func (c *Controller[T]) flushSearch() {
	c.mu.Lock()
	term := c.pendingSearch
	c.mu.Unlock()
	if err := c.SetSearchTerm(c.baseCtx, term); err != nil && !errors.Is(err, ErrClosed) {
		c.log.Debug("Debounced search failed", "term", term, "error", err)
	}
}

// SetFilter sets one filter value; an empty value removes the constraint.
// Malformed range and date values are kept but do not constrain, and the
// parse failure is returned as a ValidationError once the view is updated.
func (c *Controller[T]) SetFilter(ctx context.Context, name, value string) error {
	idx := slices.IndexFunc(c.opts.Filters, func(f Filter[T]) bool { return f.Name == name })
	if idx < 0 {
		return NewValidationError("filter", name, "unknown filter")
	}
	value = strings.TrimSpace(value)
	err := c.mutate(ctx, func() int {
		if value == "" {
			delete(c.filters, name)
		} else {
			c.filters[name] = value
		}
		c.page = 1
		return 1
	})
	if err != nil {
		return err
	}
	return ValidateFilter(c.opts.Filters[idx].Kind, value, c.loc)
}

// ClearFilters resets the search term and every filter. Sort is kept.
func (c *Controller[T]) ClearFilters(ctx context.Context) error {
	return c.mutate(ctx, func() int {
		c.search = ""
		c.pendingSearch = ""
		c.filters = FilterState{}
		c.page = 1
		return 1
	})
}

// SetSort flips the direction when column is already active, otherwise
// sorts ascending by column.
func (c *Controller[T]) SetSort(ctx context.Context, column string) error {
	col := findColumn(c.opts.Columns, column)
	if col == nil {
		return NewValidationError("sort column", column, "unknown column")
	}
	if !col.Sortable {
		return NewValidationError("sort column", column, "column is not sortable")
	}
	return c.mutate(ctx, func() int {
		c.sort = nextSort(c.sort, column)
		return c.page
	})
}

// GoToPage moves to page n; out of range pages leave the state untouched
func (c *Controller[T]) GoToPage(ctx context.Context, n int) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.mu.Lock()
	total := c.totalPagesLocked()
	if n < 1 || n > total {
		c.mu.Unlock()
		return nil
	}
	if c.remote {
		c.mu.Unlock()
		return c.fetch(ctx, n, false)
	}
	c.page = n
	e := c.snapshotLocked(nil, false)
	c.mu.Unlock()
	c.dispatch(e)
	return nil
}

// ToggleSelect flips one id in the selection
func (c *Controller[T]) ToggleSelect(id string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.mu.Lock()
	if _, ok := c.index[id]; !ok && !c.selected.has(id) {
		c.mu.Unlock()
		return &NotFoundError{ID: id}
	}
	c.selected.toggle(id)
	e := c.snapshotLocked(nil, true)
	c.mu.Unlock()
	c.dispatch(e)
	return nil
}

// ToggleSelectAll selects every row of the current page when checked,
// and clears the whole selection otherwise.
func (c *Controller[T]) ToggleSelectAll(checked bool) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.mu.Lock()
	if checked {
		for _, item := range c.pageItemsLocked() {
			c.selected[c.opts.ID(item)] = struct{}{}
		}
	} else {
		c.selected.clear()
	}
	e := c.snapshotLocked(nil, true)
	c.mu.Unlock()
	c.dispatch(e)
	return nil
}

// RunBulkAction applies a bulk action to the selected ids. An empty
// selection is a no-op. Success clears the selection and reloads; failure
// keeps the selection so the user can retry. The returned error reports the
// action only: a reload failing after success is toasted, not returned.
func (c *Controller[T]) RunBulkAction(ctx context.Context, name, input string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	idx := slices.IndexFunc(c.opts.BulkActions, func(a BulkAction) bool { return a.Name == name })
	if idx < 0 {
		return NewValidationError("bulk action", name, "unknown action")
	}
	action := c.opts.BulkActions[idx]
	ids := c.Selected()
	if len(ids) == 0 {
		return nil
	}
	if action.Validate != nil {
		if err := action.Validate(input); err != nil {
			if !errors.Is(err, ErrValidation) {
				err = NewValidationError("input", input, err.Error())
			}
			c.notifier.Notify(notify.LevelError, fmt.Sprintf(c.msgs.BulkFailed, name, err))
			return err
		}
	}
	if action.Handler == nil {
		return NewValidationError("bulk action", name, "no handler")
	}
	log := c.log.With("action", name, "count", len(ids))
	actx, cancel := c.actionContext(ctx)
	err := action.Handler(actx, ids, input)
	cancel()
	if err != nil {
		err = c.classify(actx, "bulk "+name, err)
		log.Warn("Bulk action failed", "error", err)
		c.notifier.Notify(notify.LevelError, fmt.Sprintf(c.msgs.BulkFailed, name, err))
		return err
	}
	log.Info("Bulk action applied")
	c.mu.Lock()
	c.selected.clear()
	e := c.snapshotLocked(nil, true)
	c.mu.Unlock()
	c.dispatch(e)
	c.notifier.Notify(notify.LevelSuccess, fmt.Sprintf(c.msgs.BulkSucceeded, name, len(ids)))
	c.reloadAfter(ctx, "bulk "+name)
	return nil
}

// RunRowAction runs a row action against the cached item with id
func (c *Controller[T]) RunRowAction(ctx context.Context, name, id string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	idx := slices.IndexFunc(c.opts.RowActions, func(a RowAction[T]) bool { return a.Name == name })
	if idx < 0 {
		return NewValidationError("row action", name, "unknown action")
	}
	action := c.opts.RowActions[idx]
	c.mu.Lock()
	pos, ok := c.index[id]
	var item T
	if ok {
		item = c.items[pos]
	}
	c.mu.Unlock()
	if !ok {
		return &NotFoundError{ID: id}
	}
	if action.Visible != nil && !action.Visible(item) {
		return NewValidationError("row action", name, fmt.Sprintf("not available for %s", id))
	}
	if action.Handler == nil {
		return NewValidationError("row action", name, "no handler")
	}
	actx, cancel := c.actionContext(ctx)
	err := action.Handler(actx, item)
	cancel()
	if err != nil {
		err = c.classify(actx, name, err)
		c.log.Warn("Row action failed", "action", name, "id", id, "error", err)
		c.notifier.Notify(notify.LevelError, fmt.Sprintf(c.msgs.ActionFailed, name, err))
		return err
	}
	if !action.Reload {
		return nil
	}
	c.notifier.Notify(notify.LevelSuccess, fmt.Sprintf(c.msgs.ActionSucceeded, name))
	c.reloadAfter(ctx, name)
	return nil
}

// reloadAfter refreshes the list once a mutation has been applied. A failed
// reload is toasted by Load and keeps the last view; the mutation stands.
func (c *Controller[T]) reloadAfter(ctx context.Context, op string) {
	if err := c.Load(ctx); err != nil && !errors.Is(err, ErrClosed) {
		c.log.Warn("Reload after mutation failed", "op", op, "error", err)
	}
}

// View returns the current snapshot
func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Selected returns the selected ids in sorted order
func (c *Controller[T]) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected.ids()
}

// Filtered returns every item passing the current search and filters, in
// sort order, across all pages.
func (c *Controller[T]) Filtered() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.filtered)
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close cancels in-flight work and clears all state. No callback fires
// afterwards and every mutating method returns ErrClosed.
func (c *Controller[T]) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.searchCancel()
	c.stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	c.items = nil
	c.filtered = nil
	c.index = map[string]int{}
	c.filters = FilterState{}
	c.search = ""
	c.pendingSearch = ""
	c.sort = SortState{}
	c.page = 1
	c.total = 0
	c.selected.clear()
	c.state = StateIdle
	return nil
}

// mutate applies a criteria change under the lock. Client-side caches
// recompute in memory; remote pages refetch the page apply returns.
func (c *Controller[T]) mutate(ctx context.Context, apply func() int) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.mu.Lock()
	page := apply()
	if c.remote {
		c.mu.Unlock()
		return c.fetch(ctx, max(page, 1), false)
	}
	c.recomputeLocked()
	e := c.snapshotLocked(nil, false)
	c.mu.Unlock()
	c.dispatch(e)
	return nil
}

func (c *Controller[T]) fetch(ctx context.Context, page int, reset bool) error {
	if c.closed.Load() {
		return ErrClosed
	}
	fctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	stopAfter := context.AfterFunc(c.baseCtx, cancel)
	defer stopAfter()

	c.mu.Lock()
	c.token++
	token := c.token
	if c.inflight != nil {
		c.inflight()
	}
	c.inflight = cancel
	params := Params{
		Page:     page,
		PageSize: c.pageSize,
		Search:   c.search,
		Filters:  c.filters.clone(),
		Sort:     c.sort,
	}
	c.state = StateLoading
	e := c.snapshotLocked([]State{StateLoading}, false)
	c.mu.Unlock()
	c.dispatch(e)

	c.log.Debug("Fetching list", "page", params.Page, "size", params.PageSize, "search", params.Search)
	res, err := c.opts.Fetch(fctx, params)

	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		return ErrClosed
	}
	if token != c.token {
		c.mu.Unlock()
		c.log.Debug("Dropping stale list response", "token", token)
		return nil
	}
	c.inflight = nil
	c.state = StateIdle
	if err != nil {
		e := c.snapshotLocked([]State{StateError, StateIdle}, false)
		c.mu.Unlock()
		if ctx.Err() != nil {
			c.dispatch(e)
			return ctx.Err()
		}
		err = c.classify(fctx, "load", err)
		c.log.Warn("List load failed", "error", err)
		c.dispatch(e)
		var nerr *NetworkError
		if errors.As(err, &nerr) && nerr.Timeout {
			c.notifier.Notify(notify.LevelWarning, c.msgs.SlowNetwork)
		} else {
			c.notifier.Notify(notify.LevelError, fmt.Sprintf(c.msgs.LoadFailed, err))
		}
		return err
	}
	c.applyLocked(res, params, reset)
	e = c.snapshotLocked([]State{StateIdle}, reset)
	c.mu.Unlock()
	c.dispatch(e)
	return nil
}

// classify converts a failure into a NetworkError unless it is already a
// typed list error.
func (c *Controller[T]) classify(ctx context.Context, op string, err error) error {
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) {
		return err
	}
	timedOut := errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
	var nerr *NetworkError
	if errors.As(err, &nerr) {
		if timedOut && !nerr.Timeout {
			cp := *nerr
			cp.Timeout = true
			return &cp
		}
		return err
	}
	return &NetworkError{Op: op, Timeout: timedOut, Cause: err}
}

func (c *Controller[T]) actionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	actx, cancel := context.WithTimeout(ctx, c.timeout)
	stopAfter := context.AfterFunc(c.baseCtx, cancel)
	return actx, func() {
		stopAfter()
		cancel()
	}
}

func (c *Controller[T]) applyLocked(res Result[T], params Params, reset bool) {
	c.items = slices.Clone(res.Items)
	c.index = make(map[string]int, len(c.items))
	for i, item := range c.items {
		c.index[c.opts.ID(item)] = i
	}
	c.total = max(res.TotalCount, len(c.items))
	c.remote = c.opts.RemotePaging && len(c.items) <= c.pageSize
	if reset {
		c.selected.clear()
	}
	c.page = params.Page
	c.recomputeLocked()
}

// recomputeLocked filters and sorts the cache. Remote pages go through the
// same pass so a server ignoring search or filters still shows matching rows.
func (c *Controller[T]) recomputeLocked() {
	preds := compile(c.opts.Filters, c.filters, c.loc, func(name string, err error) {
		c.log.Debug("Ignoring malformed filter value", "filter", name, "error", err)
	})
	matched := apply(c.items, preds, c.opts.Search, c.search)
	var col *Column[T]
	if c.sort.Column != "" {
		col = findColumn(c.opts.Columns, c.sort.Column)
	}
	c.filtered = sortItems(matched, col, c.sort.Direction)
	c.page = ClampPage(c.page, c.totalPagesLocked())
}

func (c *Controller[T]) filteredCountLocked() int {
	if c.remote {
		return c.total
	}
	return len(c.filtered)
}

func (c *Controller[T]) totalPagesLocked() int {
	return TotalPages(c.filteredCountLocked(), c.pageSize)
}

func (c *Controller[T]) pageItemsLocked() []T {
	if c.remote {
		return c.filtered
	}
	start, end := pageBounds(c.page, c.pageSize, len(c.filtered))
	return c.filtered[start:end]
}

func (c *Controller[T]) viewLocked() View[T] {
	items := c.pageItemsLocked()
	rows := make([]Row[T], 0, len(items))
	pageIDs := make([]string, 0, len(items))
	for _, item := range items {
		id := c.opts.ID(item)
		pageIDs = append(pageIDs, id)
		rows = append(rows, Row[T]{
			ID:       id,
			Item:     item,
			Selected: c.selected.has(id),
			Actions:  c.actionsFor(item),
		})
	}
	count := c.filteredCountLocked()
	totalPages := TotalPages(count, c.pageSize)
	return View[T]{
		Version:       c.version,
		Rows:          rows,
		Search:        c.search,
		Filters:       c.filters.clone(),
		Sort:          c.sort,
		Page:          PageState{Current: c.page, Size: c.pageSize},
		TotalPages:    totalPages,
		FilteredCount: count,
		TotalCount:    c.total,
		Pagination:    BuildPagination(c.page, totalPages),
		Caption:       BuildCaption(c.msgs.Caption, c.page, c.pageSize, count),
		Empty:         count == 0,
		EmptyMessage:  c.msgs.Empty,
		SelectedCount: len(c.selected),
		PageSelected:  c.selected.allOf(pageIDs),
		State:         c.state,
	}
}

func (c *Controller[T]) actionsFor(item T) []string {
	var names []string
	for _, a := range c.opts.RowActions {
		if a.Visible == nil || a.Visible(item) {
			names = append(names, a.Name)
		}
	}
	return names
}

type emission[T any] struct {
	view       View[T]
	states     []State
	selected   int
	selChanged bool
}

func (c *Controller[T]) snapshotLocked(states []State, selChanged bool) emission[T] {
	c.version++
	return emission[T]{
		view:       c.viewLocked(),
		states:     states,
		selected:   len(c.selected),
		selChanged: selChanged,
	}
}

func (c *Controller[T]) dispatch(e emission[T]) {
	if c.closed.Load() {
		return
	}
	if c.opts.OnStateChange != nil {
		for _, s := range e.states {
			c.opts.OnStateChange(s)
		}
	}
	if c.opts.OnRender != nil {
		c.opts.OnRender(e.view)
	}
	if e.selChanged && c.opts.OnSelectionChange != nil {
		c.opts.OnSelectionChange(e.selected)
	}
}
