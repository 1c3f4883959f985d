package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/liora-cosmetic/liora/pkg/listctl"
	"github.com/liora-cosmetic/liora/pkg/logger"
	"github.com/tidwall/gjson"
)

// Row action verbs sent as PUT {base}/{id}/{verb}
const (
	VerbCancel = "cancel"
	VerbBan    = "ban"
	VerbUnban  = "unban"
)

// Resource is one admin collection endpoint.
type Resource[T any] struct {
	client  *Client
	name    string
	path    string
	decode  func(gjson.Result, *time.Location) T
	details *expirable.LRU[string, T]
}

func newResource[T any](
	c *Client,
	name, path string,
	decode func(gjson.Result, *time.Location) T,
	cacheSize int,
	cacheTTL time.Duration,
) *Resource[T] {
	return &Resource[T]{
		client:  c,
		name:    name,
		path:    path,
		decode:  decode,
		details: expirable.NewLRU[string, T](cacheSize, nil, cacheTTL),
	}
}

func (r *Resource[T]) Name() string {
	return r.name
}

func (r *Resource[T]) Path() string {
	return r.path
}

// EditRoute is the admin page that edits id
func (r *Resource[T]) EditRoute(id string) string {
	return fmt.Sprintf("%s/%s/edit", r.path, url.PathEscape(id))
}

// Fetcher adapts List to a controller data source
func (r *Resource[T]) Fetcher(remote bool) listctl.FetchFunc[T] {
	return func(ctx context.Context, params listctl.Params) (listctl.Result[T], error) {
		return r.List(ctx, params, remote)
	}
}

// List fetches one page, or the whole collection when remote is false.
func (r *Resource[T]) List(ctx context.Context, params listctl.Params, remote bool) (listctl.Result[T], error) {
	if remote {
		return r.fetchPage(ctx, listQuery(params, true, r.client.zeroBasedPages))
	}
	return r.fetchAll(ctx)
}

// fetchAll walks pages of maxUnpagedSize until the reported total is
// reached, an empty page comes back or maxUnpagedPages is hit.
func (r *Resource[T]) fetchAll(ctx context.Context) (listctl.Result[T], error) {
	var all []T
	total := 0
	for page := 1; page <= maxUnpagedPages; page++ {
		res, err := r.fetchPage(ctx, listQuery(listctl.Params{Page: page}, false, r.client.zeroBasedPages))
		if err != nil {
			return listctl.Result[T]{}, err
		}
		all = append(all, res.Items...)
		total = res.TotalCount
		if len(res.Items) == 0 || len(all) >= total {
			break
		}
	}
	if len(all) < total {
		logger.FromContext(ctx).Warn("list truncated", "resource", r.name, "items", len(all), "total", total)
	}
	return listctl.Result[T]{Items: all, TotalCount: max(total, len(all))}, nil
}

func (r *Resource[T]) fetchPage(ctx context.Context, query url.Values) (listctl.Result[T], error) {
	op := fmt.Sprintf("list %s", r.name)
	resp, err := r.client.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(r.path)
	if err := responseError(op, resp, err); err != nil {
		return listctl.Result[T]{}, err
	}
	res, err := decodePage(resp.Body(), r.client.loc, r.decode)
	if err != nil {
		return listctl.Result[T]{}, listctl.NewNetworkError(op, resp.StatusCode(), err)
	}
	logger.FromContext(ctx).Debug("list fetched", "resource", r.name, "items", len(res.Items), "total", res.TotalCount)
	return res, nil
}

// Get returns one record, served from the detail cache while fresh.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	if item, ok := r.details.Get(id); ok {
		return item, nil
	}
	var zero T
	resp, err := r.client.http.R().SetContext(ctx).Get(r.itemPath(id))
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return zero, &listctl.NotFoundError{ID: id}
	}
	if err := responseError(fmt.Sprintf("get %s", r.name), resp, err); err != nil {
		return zero, err
	}
	root := gjson.ParseBytes(resp.Body())
	if data := root.Get("data"); data.IsObject() {
		root = data
	}
	if !root.IsObject() {
		return zero, listctl.NewNetworkError(fmt.Sprintf("get %s", r.name), resp.StatusCode(), ErrUnexpectedPayload)
	}
	item := r.decode(root, r.client.loc)
	r.details.Add(id, item)
	return item, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	resp, err := r.client.http.R().SetContext(ctx).Delete(r.itemPath(id))
	return r.finishMutation(ctx, fmt.Sprintf("delete %s", r.name), resp, err, id)
}

// Action runs PUT {base}/{id}/{verb}
func (r *Resource[T]) Action(ctx context.Context, id, verb string) error {
	resp, err := r.client.http.R().SetContext(ctx).Put(r.itemPath(id) + "/" + url.PathEscape(verb))
	return r.finishMutation(ctx, fmt.Sprintf("%s %s", verb, r.name), resp, err, id)
}

// BulkUpdate applies patch to every id in one request; the batch passes or fails as a whole.
func (r *Resource[T]) BulkUpdate(ctx context.Context, ids []string, patch map[string]any) error {
	body := map[string]any{"ids": ids, "patch": patch}
	resp, err := r.client.http.R().SetContext(ctx).SetBody(body).Put(r.path + "/bulk")
	return r.finishMutation(ctx, fmt.Sprintf("bulk update %s", r.name), resp, err, ids...)
}

func (r *Resource[T]) finishMutation(ctx context.Context, op string, resp *resty.Response, err error, ids ...string) error {
	if err := responseError(op, resp, err); err != nil {
		return err
	}
	for _, id := range ids {
		r.details.Remove(id)
	}
	logger.FromContext(ctx).Info("mutation applied", "op", op, "count", len(ids))
	return nil
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
