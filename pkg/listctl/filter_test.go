package listctl

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	t.Run("Should parse a closed range", func(t *testing.T) {
		r, err := ParseRange("100000-500000")
		require.NoError(t, err)
		assert.True(t, r.Min.Decimal.Equal(decimal.NewFromInt(100000)))
		assert.True(t, r.Max.Decimal.Equal(decimal.NewFromInt(500000)))
		assert.True(t, r.Contains(decimal.NewFromInt(100000)))
		assert.True(t, r.Contains(decimal.NewFromInt(500000)))
		assert.False(t, r.Contains(decimal.NewFromInt(99999)))
		assert.False(t, r.Contains(decimal.NewFromInt(500001)))
	})

	t.Run("Should treat a trailing dash as an open upper bound", func(t *testing.T) {
		r, err := ParseRange("1000000-")
		require.NoError(t, err)
		assert.True(t, r.Min.Valid)
		assert.False(t, r.Max.Valid)
		assert.True(t, r.Contains(decimal.NewFromInt(900000000)))
		assert.False(t, r.Contains(decimal.NewFromInt(999999)))
	})

	t.Run("Should treat a leading dash as an upper bound only", func(t *testing.T) {
		r, err := ParseRange("-200")
		require.NoError(t, err)
		assert.False(t, r.Min.Valid)
		assert.True(t, r.Contains(decimal.NewFromInt(0)))
		assert.False(t, r.Contains(decimal.NewFromInt(201)))
	})

	t.Run("Should reject malformed values with a validation error", func(t *testing.T) {
		for _, raw := range []string{"abc", "10-x", "-", "500-100", "100"} {
			_, err := ParseRange(raw)
			assert.ErrorIs(t, err, ErrValidation, raw)
		}
	})
}

func TestParseDate(t *testing.T) {
	t.Run("Should accept ISO and day-first layouts", func(t *testing.T) {
		iso, err := ParseDate("2024-05-10", time.UTC)
		require.NoError(t, err)
		dayFirst, err := ParseDate("10/05/2024", time.UTC)
		require.NoError(t, err)
		assert.True(t, iso.Equal(dayFirst))
	})

	t.Run("Should normalize the end of day", func(t *testing.T) {
		day := time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC)
		end := EndOfDay(day, time.UTC)
		assert.Equal(t, time.Date(2024, 5, 10, 23, 59, 59, 999999999, time.UTC), end)
		assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), StartOfDay(day, time.UTC))
	})
}

func TestContainsFold(t *testing.T) {
	t.Run("Should match case-insensitive substrings of any field", func(t *testing.T) {
		assert.True(t, ContainsFold("ab", "ORD-AB1"))
		assert.True(t, ContainsFold("AB", "x", "ord-xab9"))
		assert.False(t, ContainsFold("AB", "ORD-999"))
		assert.True(t, ContainsFold("  ", "anything"))
	})
}

type dated struct {
	id        string
	amount    int
	createdAt time.Time
	status    string
}

func datedFilters() []Filter[dated] {
	return []Filter[dated]{
		{Name: "amount", Kind: FilterRange, Value: func(d dated) any { return d.amount }},
		{Name: "from", Kind: FilterDateFrom, Time: func(d dated) time.Time { return d.createdAt }},
		{Name: "to", Kind: FilterDateTo, Time: func(d dated) time.Time { return d.createdAt }},
		{Name: "status", Kind: FilterEnum, Value: func(d dated) any { return d.status }},
	}
}

func filterIDs(items []dated, state FilterState) []string {
	preds := compile(datedFilters(), state, time.UTC, nil)
	var out []string
	for _, d := range apply(items, preds, nil, "") {
		out = append(out, d.id)
	}
	return out
}

func TestCompile(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	items := []dated{
		{id: "a", amount: 50000, createdAt: day.Add(-time.Second), status: "pending"},
		{id: "b", amount: 150000, createdAt: day, status: "shipped"},
		{id: "c", amount: 1500000, createdAt: day.Add(24 * time.Hour), status: "PENDING"},
	}

	t.Run("Should include an item created exactly at the start of the to day", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, filterIDs(items, FilterState{"to": "2024-05-10"}))
	})

	t.Run("Should include the whole from day", func(t *testing.T) {
		assert.Equal(t, []string{"b", "c"}, filterIDs(items, FilterState{"from": "2024-05-10"}))
	})

	t.Run("Should AND every active filter", func(t *testing.T) {
		got := filterIDs(items, FilterState{"amount": "100000-", "status": "pending"})
		assert.Equal(t, []string{"c"}, got)
	})

	t.Run("Should ignore malformed values and report them", func(t *testing.T) {
		var reported []string
		preds := compile(datedFilters(), FilterState{"amount": "lots", "to": "yesterday"}, time.UTC,
			func(name string, _ error) { reported = append(reported, name) })
		assert.Empty(t, preds)
		assert.ElementsMatch(t, []string{"amount", "to"}, reported)
		assert.Len(t, apply(items, preds, nil, ""), 3)
	})
}

func TestValidateFilter(t *testing.T) {
	t.Run("Should validate range and date values only", func(t *testing.T) {
		assert.ErrorIs(t, ValidateFilter(FilterRange, "x-y", time.UTC), ErrValidation)
		assert.ErrorIs(t, ValidateFilter(FilterDateTo, "soon", time.UTC), ErrValidation)
		assert.NoError(t, ValidateFilter(FilterText, "anything", time.UTC))
		assert.NoError(t, ValidateFilter(FilterRange, "", time.UTC))
	})
}
