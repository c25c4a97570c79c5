package listquery

import (
	"context"
	"net/url"
	"strconv"
)

// Request describes one list fetch: the endpoint path and its query parameters.
type Request struct {
	Endpoint string
	Params   url.Values
}

// URL returns the endpoint joined with the encoded parameters.
func (r Request) URL() string {
	if len(r.Params) == 0 {
		return r.Endpoint
	}
	return r.Endpoint + "?" + r.Params.Encode()
}

// Response is a successful list response. Pagination is kept raw so the
// coordinator can validate it before trusting any of it.
type Response[T any] struct {
	Items      []T
	Pagination []byte
}

// Source fetches one page of a list. Any error, including a non-2xx status,
// fails the fetch.
type Source[T any] interface {
	List(ctx context.Context, req Request) (*Response[T], error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context, req Request) (*Response[T], error)

// List calls f.
func (f SourceFunc[T]) List(ctx context.Context, req Request) (*Response[T], error) {
	return f(ctx, req)
}

// BuildRequest assembles the request for s: fixed sort and page size, the
// page, the query when not blank, and one repeated parameter per filter value.
func BuildRequest[T any](cfg Config[T], s State) Request {
	params := s.Params(cfg.FilterKeys)
	if cfg.SortBy != "" {
		params.Set("sortBy", cfg.SortBy)
	}
	if cfg.SortOrder != "" {
		params.Set("sortOrder", cfg.SortOrder)
	}
	params.Set("limit", strconv.Itoa(cfg.PageSize))
	return Request{Endpoint: cfg.Endpoint, Params: params}
}
