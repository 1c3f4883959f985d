package api

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/liora-cosmetic/liora/pkg/listctl"
	"github.com/tidwall/gjson"
)

// envelopes lists the supported list shapes as (items path, total paths)
var envelopes = []struct {
	items  string
	totals []string
}{
	{"content", []string{"totalElements", "page.totalElements"}},
	{"data.content", []string{"data.totalElements"}},
	{"data", []string{"total", "totalCount", "meta.total"}},
	{"items", []string{"total", "totalCount"}},
	{"data.items", []string{"data.total", "data.totalCount"}},
}

// decodePage reads a Spring Data page, a {data, total} envelope or a bare
// array. A missing total falls back to the number of items.
func decodePage[T any](body []byte, loc *time.Location, decode func(gjson.Result, *time.Location) T) (listctl.Result[T], error) {
	if !gjson.ValidBytes(body) {
		return listctl.Result[T]{}, fmt.Errorf("%w: invalid JSON", ErrUnexpectedPayload)
	}
	root := gjson.ParseBytes(body)
	items, total := root, -1
	if !root.IsArray() {
		found := false
		for _, env := range envelopes {
			candidate := root.Get(env.items)
			if !candidate.IsArray() {
				continue
			}
			items, found = candidate, true
			for _, path := range env.totals {
				if v := root.Get(path); v.Exists() {
					total = int(v.Int())
					break
				}
			}
			break
		}
		if !found {
			return listctl.Result[T]{}, fmt.Errorf("%w: no item array found", ErrUnexpectedPayload)
		}
	}
	out := make([]T, 0, len(items.Array()))
	items.ForEach(func(_, value gjson.Result) bool {
		if value.IsObject() {
			out = append(out, decode(value, loc))
		}
		return true
	})
	if total < len(out) {
		total = len(out)
	}
	return listctl.Result[T]{Items: out, TotalCount: total}, nil
}

// listQuery encodes params for a collection request. Local paging asks for
// large pages and leaves search, filters and sort to the client.
func listQuery(params listctl.Params, remote, zeroBased bool) url.Values {
	q := url.Values{}
	if !remote {
		q.Set("page", pageParam(params.Page, zeroBased))
		q.Set("size", strconv.Itoa(maxUnpagedSize))
		return q
	}
	q.Set("page", pageParam(params.Page, zeroBased))
	q.Set("size", strconv.Itoa(params.PageSize))
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	for name, value := range params.Filters {
		if value != "" {
			q.Set(name, value)
		}
	}
	if params.Sort.Column != "" {
		dir := params.Sort.Direction
		if dir == "" {
			dir = listctl.Asc
		}
		q.Set("sort", params.Sort.Column+","+string(dir))
	}
	return q
}

func pageParam(page int, zeroBased bool) string {
	if page < 1 {
		page = 1
	}
	if zeroBased {
		page--
	}
	return strconv.Itoa(page)
}
