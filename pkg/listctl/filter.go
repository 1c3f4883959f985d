package listctl

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when parsing a date filter value
var dateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

// Range is a parsed numeric range filter; an invalid bound is open
type Range struct {
	Min decimal.NullDecimal
	Max decimal.NullDecimal
}

// Contains reports whether v lies within the range, bounds inclusive
func (r Range) Contains(v decimal.Decimal) bool {
	if r.Min.Valid && v.LessThan(r.Min.Decimal) {
		return false
	}
	if r.Max.Valid && v.GreaterThan(r.Max.Decimal) {
		return false
	}
	return true
}

// ParseRange parses "min-max", "min-" and "-max"
func ParseRange(value string) (Range, error) {
	raw := strings.TrimSpace(value)
	minStr, maxStr, found := strings.Cut(raw, "-")
	if !found {
		return Range{}, NewValidationError("range", value, "expected min-max")
	}
	minStr, maxStr = strings.TrimSpace(minStr), strings.TrimSpace(maxStr)
	if minStr == "" && maxStr == "" {
		return Range{}, NewValidationError("range", value, "both bounds are empty")
	}
	var r Range
	if minStr != "" {
		d, err := decimal.NewFromString(minStr)
		if err != nil {
			return Range{}, NewValidationError("range", value, "min is not a number")
		}
		r.Min = decimal.NullDecimal{Decimal: d, Valid: true}
	}
	if maxStr != "" {
		d, err := decimal.NewFromString(maxStr)
		if err != nil {
			return Range{}, NewValidationError("range", value, "max is not a number")
		}
		r.Max = decimal.NullDecimal{Decimal: d, Valid: true}
	}
	if r.Min.Valid && r.Max.Valid && r.Min.Decimal.GreaterThan(r.Max.Decimal) {
		return Range{}, NewValidationError("range", value, "min is greater than max")
	}
	return r, nil
}

// ParseDate parses a calendar day in loc
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	raw := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, NewValidationError("date", value, "expected YYYY-MM-DD")
}

// StartOfDay returns 00:00:00 of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last instant of t's calendar day in loc
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ContainsFold is the standard search policy: case-insensitive substring
// match of term against any of fields.
func ContainsFold(term string, fields ...string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// ValidateFilter checks a raw value against a filter kind without applying it
func ValidateFilter(kind FilterKind, value string, loc *time.Location) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	switch kind {
	case FilterRange:
		_, err := ParseRange(value)
		return err
	case FilterDateFrom, FilterDateTo:
		_, err := ParseDate(value, loc)
		return err
	default:
		return nil
	}
}

// predicate is a compiled filter; nil means the filter does not constrain
type predicate[T any] func(T) bool

// compile turns the active filter values into predicates. Malformed range
// and date values compile to nil and are reported through invalid.
func compile[T any](
	filters []Filter[T],
	state FilterState,
	loc *time.Location,
	invalid func(name string, err error),
) []predicate[T] {
	var preds []predicate[T]
	for i := range filters {
		f := filters[i]
		value := strings.TrimSpace(state[f.Name])
		if value == "" {
			continue
		}
		p, err := compileOne(f, value, loc)
		if err != nil {
			if invalid != nil {
				invalid(f.Name, err)
			}
			continue
		}
		if p != nil {
			preds = append(preds, p)
		}
	}
	return preds
}

func compileOne[T any](f Filter[T], value string, loc *time.Location) (predicate[T], error) {
	switch f.Kind {
	case FilterText:
		if f.Value == nil {
			return nil, nil
		}
		return func(item T) bool {
			return ContainsFold(value, keyText(f.Value(item)))
		}, nil
	case FilterEnum:
		if f.Value == nil {
			return nil, nil
		}
		return func(item T) bool {
			return strings.EqualFold(keyText(f.Value(item)), value)
		}, nil
	case FilterRange:
		r, err := ParseRange(value)
		if err != nil || f.Value == nil {
			return nil, err
		}
		return func(item T) bool {
			d, ok := toDecimal(f.Value(item))
			return ok && r.Contains(d)
		}, nil
	case FilterDateFrom:
		day, err := ParseDate(value, loc)
		if err != nil || f.Time == nil {
			return nil, err
		}
		from := StartOfDay(day, loc)
		return func(item T) bool {
			return !f.Time(item).Before(from)
		}, nil
	case FilterDateTo:
		day, err := ParseDate(value, loc)
		if err != nil || f.Time == nil {
			return nil, err
		}
		to := EndOfDay(day, loc)
		return func(item T) bool {
			return !f.Time(item).After(to)
		}, nil
	case FilterCustom:
		if f.Match == nil {
			return nil, nil
		}
		return func(item T) bool {
			return f.Match(item, value)
		}, nil
	default:
		return nil, fmt.Errorf("unknown filter kind %d", f.Kind)
	}
}

// apply keeps the items matching every predicate and the search term
func apply[T any](items []T, preds []predicate[T], search func(T, string) bool, term string) []T {
	term = strings.TrimSpace(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if term != "" && search != nil && !search(item, term) {
			continue
		}
		ok := true
		for _, p := range preds {
			if !p(item) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, item)
		}
	}
	return out
}
