package listctl

import (
	"context"
	"time"

	"github.com/liora-cosmetic/liora/pkg/logger"
	"github.com/liora-cosmetic/liora/pkg/notify"
)

const (
	DefaultPageSize       = 10
	DefaultTimeout        = 8 * time.Second
	DefaultSearchDebounce = 300 * time.Millisecond
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState is the active sort; an empty Column keeps server order
type SortState struct {
	Column    string    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// FilterState maps filter name to its raw value; empty means unconstrained
type FilterState map[string]string

func (f FilterState) clone() FilterState {
	out := make(FilterState, len(f))
	for k, v := range f {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

type PageState struct {
	Current int `json:"current"`
	Size    int `json:"size"`
}

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateError   State = "error"
)

// Params is what the data source receives on every fetch
type Params struct {
	Page     int
	PageSize int
	Search   string
	Filters  FilterState
	Sort     SortState
}

// Result is a data source response. A source may ignore paging and
// return the whole collection.
type Result[T any] struct {
	Items      []T
	TotalCount int
}

// FetchFunc loads one page (or everything) from the remote collection
type FetchFunc[T any] func(ctx context.Context, params Params) (Result[T], error)

// SortKeyer lets an item provide sort keys without an explicit accessor
type SortKeyer interface {
	SortKey(field string) any
}

type Column[T any] struct {
	Key      string
	Title    string
	Sortable bool
	// SortKey defaults to SortKeyer.SortKey(Key) when the item implements it
	SortKey func(T) any
}

type FilterKind int

const (
	FilterText FilterKind = iota
	FilterEnum
	FilterRange
	FilterDateFrom
	FilterDateTo
	FilterCustom
)

type Filter[T any] struct {
	Name string
	Kind FilterKind
	// Value feeds Text, Enum and Range filters
	Value func(T) any
	// Time feeds DateFrom and DateTo filters
	Time func(T) time.Time
	// Match implements Custom filters
	Match func(item T, value string) bool
	// Options lists the allowed values of an Enum filter, for hosts
	Options []string
}

type RowAction[T any] struct {
	Name    string
	Visible func(T) bool
	Handler func(ctx context.Context, item T) error
	// Reload refetches the list after a successful run
	Reload bool
}

type BulkAction struct {
	Name     string
	Validate func(input string) error
	Handler  func(ctx context.Context, ids []string, input string) error
}

// Messages holds the user-facing toast texts and the caption format
type Messages struct {
	LoadFailed      string
	SlowNetwork     string
	BulkSucceeded   string
	BulkFailed      string
	ActionSucceeded string
	ActionFailed    string
	Caption         string
	Empty           string
}

func DefaultMessages() Messages {
	return Messages{
		LoadFailed:      "Không thể tải dữ liệu: %v",
		SlowNetwork:     "Mạng chậm, vui lòng thử lại sau",
		BulkSucceeded:   "Đã thực hiện %q cho %d mục",
		BulkFailed:      "Thao tác %q thất bại: %v",
		ActionSucceeded: "Đã thực hiện %q",
		ActionFailed:    "Thao tác %q thất bại: %v",
		Caption:         "Hiển thị %d-%d trong tổng số %d",
		Empty:           "Không có dữ liệu",
	}
}

type Options[T any] struct {
	Fetch       FetchFunc[T]
	ID          func(T) string
	Columns     []Column[T]
	Search      func(item T, term string) bool
	Filters     []Filter[T]
	PageSize    int
	RowActions  []RowAction[T]
	BulkActions []BulkAction
	// RemotePaging delegates page, filter and sort to the server; each
	// returned page still goes through the local filter and sort pass.
	RemotePaging   bool
	Timeout        time.Duration
	SearchDebounce time.Duration
	Location       *time.Location
	Messages       *Messages

	Notifier          notify.Notifier
	Logger            logger.Logger
	OnRender          func(View[T])
	OnSelectionChange func(count int)
	OnStateChange     func(State)
}

// Row is one rendered item with its resolved row actions
type Row[T any] struct {
	ID       string
	Item     T
	Selected bool
	Actions  []string
}

// View is an immutable snapshot handed to renderers. Version increases
// with every snapshot so hosts can drop views that arrive late.
type View[T any] struct {
	Version       uint64
	Rows          []Row[T]
	Search        string
	Filters       FilterState
	Sort          SortState
	Page          PageState
	TotalPages    int
	FilteredCount int
	TotalCount    int
	Pagination    Pagination
	Caption       Caption
	Empty         bool
	EmptyMessage  string
	SelectedCount int
	PageSelected  bool
	State         State
}
