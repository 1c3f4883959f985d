package listctl

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type keyKind int

const (
	kindText keyKind = iota
	kindNumber
	kindTime
	kindBool
)

// sortKey is a normalized column value; every raw key maps to exactly one kind
type sortKey struct {
	kind keyKind
	text string
	num  decimal.Decimal
	tm   time.Time
	b    bool
}

func normalizeKey(v any) sortKey {
	switch x := v.(type) {
	case nil:
		return sortKey{kind: kindText}
	case string:
		return sortKey{kind: kindText, text: strings.ToLower(x)}
	case *string:
		if x == nil {
			return sortKey{kind: kindText}
		}
		return sortKey{kind: kindText, text: strings.ToLower(*x)}
	case time.Time:
		return sortKey{kind: kindTime, tm: x}
	case *time.Time:
		if x == nil {
			return sortKey{kind: kindText}
		}
		return sortKey{kind: kindTime, tm: *x}
	case bool:
		return sortKey{kind: kindBool, b: x}
	case decimal.NullDecimal:
		if !x.Valid {
			return sortKey{kind: kindText}
		}
	}
	if d, ok := toDecimal(v); ok {
		return sortKey{kind: kindNumber, num: d}
	}
	return sortKey{kind: kindText, text: strings.ToLower(keyText(v))}
}

// compareKeys orders by kind first so mixed columns stay transitive; nil
// is the empty string and sorts ahead of everything.
func compareKeys(a, b sortKey) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case kindNumber:
		return a.num.Cmp(b.num)
	case kindTime:
		return a.tm.Compare(b.tm)
	case kindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	default:
		return strings.Compare(a.text, b.text)
	}
}

// toDecimal converts numeric values; decimal.Decimal is the wire type for money
func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case *decimal.Decimal:
		if x == nil {
			return decimal.Decimal{}, false
		}
		return *x, true
	case decimal.NullDecimal:
		return x.Decimal, x.Valid
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int32:
		return decimal.NewFromInt32(x), true
	case int64:
		return decimal.NewFromInt(x), true
	case uint:
		return decimal.NewFromUint64(uint64(x)), true
	case uint32:
		return decimal.NewFromUint64(uint64(x)), true
	case uint64:
		return decimal.NewFromUint64(x), true
	case float32:
		return decimal.NewFromFloat32(x), true
	case float64:
		return decimal.NewFromFloat(x), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

// keyText renders a filter value for text and enum matching
func keyText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

func (c Column[T]) key(item T) any {
	if c.SortKey != nil {
		return c.SortKey(item)
	}
	if k, ok := any(item).(SortKeyer); ok {
		return k.SortKey(c.Key)
	}
	return nil
}

// sortItems returns a stably sorted copy. Keys are computed once per item so
// accessors are never called inside the comparator.
func sortItems[T any](items []T, col *Column[T], dir Direction) []T {
	out := slices.Clone(items)
	if col == nil {
		return out
	}
	type keyed struct {
		key  sortKey
		item T
	}
	rows := make([]keyed, len(out))
	for i, item := range out {
		rows[i] = keyed{key: normalizeKey(col.key(item)), item: item}
	}
	slices.SortStableFunc(rows, func(a, b keyed) int {
		c := compareKeys(a.key, b.key)
		if dir == Desc {
			return -c
		}
		return c
	})
	for i := range rows {
		out[i] = rows[i].item
	}
	return out
}

func findColumn[T any](cols []Column[T], key string) *Column[T] {
	idx := slices.IndexFunc(cols, func(c Column[T]) bool { return c.Key == key })
	if idx < 0 {
		return nil
	}
	return &cols[idx]
}

// nextSort flips the direction on the active column, otherwise starts ascending
func nextSort(current SortState, column string) SortState {
	if current.Column == column {
		return SortState{Column: column, Direction: flip(current.Direction)}
	}
	return SortState{Column: column, Direction: Asc}
}

func flip(d Direction) Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}
