// Package tables defines the admin list types (orders, products, users)
// as list controller options plus the cells used to render them.
package tables

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/liora-cosmetic/liora/cli/api"
	"github.com/liora-cosmetic/liora/pkg/config"
	"github.com/liora-cosmetic/liora/pkg/listctl"
	"github.com/liora-cosmetic/liora/pkg/logger"
	"github.com/liora-cosmetic/liora/pkg/notify"
)

const (
	ActionView   = "view"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionCancel = "cancel"
	ActionBan    = "ban"
	ActionUnban  = "unban"

	BulkStatus = "status"

	dateTimeLayout = "02/01/2006 15:04"
)

// Column is a listctl column with its terminal presentation
type Column[T any] struct {
	Key      string
	Title    string
	Width    int
	Sortable bool
	Cell     func(T) string
}

// Table is one admin list type.
type Table[T any] struct {
	Name        string
	Title       string
	Resource    *api.Resource[T]
	ID          func(T) string
	Columns     []Column[T]
	Filters     []listctl.Filter[T]
	Search      func(item T, term string) bool
	RowActions  []listctl.RowAction[T]
	BulkActions []listctl.BulkAction
	// BulkChoices lists the accepted inputs of each bulk action
	BulkChoices map[string][]string
}

// Deps carries what the table definitions need at runtime
type Deps struct {
	Client   *api.Client
	Config   *config.Config
	Notifier notify.Notifier
	Logger   logger.Logger
	// Show receives the output of the view and edit actions
	Show func(title string, value any)
}

func (d Deps) show(title string, value any) {
	if d.Show != nil {
		d.Show(title, value)
	}
}

// Options builds the controller options for t from the configuration.
func (t *Table[T]) Options(deps Deps) listctl.Options[T] {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	cols := make([]listctl.Column[T], 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, listctl.Column[T]{Key: c.Key, Title: c.Title, Sortable: c.Sortable})
	}
	return listctl.Options[T]{
		Fetch:          t.Resource.Fetcher(cfg.Lists.RemotePaging),
		ID:             t.ID,
		Columns:        cols,
		Search:         t.Search,
		Filters:        t.Filters,
		PageSize:       cfg.Lists.PageSize,
		RowActions:     t.RowActions,
		BulkActions:    t.BulkActions,
		RemotePaging:   cfg.Lists.RemotePaging,
		Timeout:        cfg.API.Timeout,
		SearchDebounce: cfg.Lists.SearchDebounce,
		Location:       cfg.Lists.Location(),
		Notifier:       deps.Notifier,
		Logger:         deps.Logger,
	}
}

func (t *Table[T]) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Title
	}
	return out
}

func (t *Table[T]) Cells(item T) []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Cell(item)
	}
	return out
}

func (t *Table[T]) FilterNames() []string {
	out := make([]string, len(t.Filters))
	for i, f := range t.Filters {
		out[i] = f.Name
	}
	return out
}

// Filter returns the filter called name
func (t *Table[T]) Filter(name string) (listctl.Filter[T], bool) {
	for _, f := range t.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return listctl.Filter[T]{}, false
}

// statusBulk builds a bulk action that patches the status of every selected id
func statusBulk[T any](res *api.Resource[T], choices []string) listctl.BulkAction {
	return listctl.BulkAction{
		Name: BulkStatus,
		Validate: func(input string) error {
			if !slices.Contains(choices, strings.ToUpper(strings.TrimSpace(input))) {
				return fmt.Errorf("must be one of %s", strings.Join(choices, ", "))
			}
			return nil
		},
		Handler: func(ctx context.Context, ids []string, input string) error {
			patch := map[string]any{"status": strings.ToUpper(strings.TrimSpace(input))}
			return res.BulkUpdate(ctx, ids, patch)
		},
	}
}

func viewAction[T any](deps Deps, res *api.Resource[T], id func(T) string) listctl.RowAction[T] {
	return listctl.RowAction[T]{
		Name: ActionView,
		Handler: func(ctx context.Context, item T) error {
			detail, err := res.Get(ctx, id(item))
			if err != nil {
				return err
			}
			deps.show(fmt.Sprintf("%s %s", res.Name(), id(item)), detail)
			return nil
		},
	}
}

func verbAction[T any](name, verb string, res *api.Resource[T], id func(T) string, visible func(T) bool) listctl.RowAction[T] {
	return listctl.RowAction[T]{
		Name:    name,
		Visible: visible,
		Reload:  true,
		Handler: func(ctx context.Context, item T) error {
			return res.Action(ctx, id(item), verb)
		},
	}
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(dateTimeLayout)
}

func location(deps Deps) *time.Location {
	if deps.Config != nil {
		return deps.Config.Lists.Location()
	}
	return time.Local
}
