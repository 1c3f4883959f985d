package listctl

import "fmt"

const pageWindowRadius = 2

// Control is a Previous/Next button
type Control struct {
	Page     int  `json:"page"`
	Disabled bool `json:"disabled"`
}

// Pagination describes the page bar. Nothing renders when Visible is false.
type Pagination struct {
	Visible          bool    `json:"visible"`
	Prev             Control `json:"prev"`
	Next             Control `json:"next"`
	Pages            []int   `json:"pages,omitempty"`
	Current          int     `json:"current"`
	ShowFirst        bool    `json:"show_first"`
	LeadingEllipsis  bool    `json:"leading_ellipsis"`
	ShowLast         bool    `json:"show_last"`
	TrailingEllipsis bool    `json:"trailing_ellipsis"`
	Last             int     `json:"last"`
}

// Caption is the "showing X-Y of Z" line
type Caption struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Total int    `json:"total"`
	Text  string `json:"text"`
}

// TotalPages returns at least 1 so an empty list still has a current page
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// ClampPage keeps page within [1, total]
func ClampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if total >= 1 && page > total {
		return total
	}
	return page
}

// BuildPagination computes the page bar for current of total
func BuildPagination(current, total int) Pagination {
	if total <= 1 {
		return Pagination{Current: 1, Last: 1}
	}
	current = ClampPage(current, total)
	start := max(1, current-pageWindowRadius)
	end := min(total, current+pageWindowRadius)
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return Pagination{
		Visible:          true,
		Prev:             Control{Page: current - 1, Disabled: current == 1},
		Next:             Control{Page: current + 1, Disabled: current == total},
		Pages:            pages,
		Current:          current,
		ShowFirst:        start > 1,
		LeadingEllipsis:  start > 1,
		ShowLast:         end < total,
		TrailingEllipsis: end < total,
		Last:             total,
	}
}

// BuildCaption computes the caption for a page over count filtered items
func BuildCaption(format string, current, size, count int) Caption {
	from, to := 0, 0
	if count > 0 {
		from = (current-1)*size + 1
		to = min(current*size, count)
	}
	return Caption{
		From:  from,
		To:    to,
		Total: count,
		Text:  fmt.Sprintf(format, from, to, count),
	}
}

// pageBounds returns the slice bounds of page within count items
func pageBounds(current, size, count int) (int, int) {
	start := (current - 1) * size
	if start > count {
		start = count
	}
	end := min(start+size, count)
	return start, end
}
