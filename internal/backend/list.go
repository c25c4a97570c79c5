package backend

import (
	"context"
	"fmt"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/listquery"
)

// ListSource is a listquery.Source backed by a list endpoint.
type ListSource[T any] struct {
	client *Client
}

var _ listquery.Source[struct{}] = (*ListSource[struct{}])(nil)

// NewListSource returns a source decoding rows of type T.
func NewListSource[T any](c *Client) *ListSource[T] {
	return &ListSource[T]{client: c}
}

// List fetches one page. The pagination envelope is returned raw for the
// caller to validate.
func (s *ListSource[T]) List(ctx context.Context, req listquery.Request) (*listquery.Response[T], error) {
	env, err := s.client.Get(ctx, req.Endpoint, req.Params)
	if err != nil {
		return nil, err
	}

	items := []T{}
	if err := env.DecodeData(&items); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", req.Endpoint, err)
	}
	return &listquery.Response[T]{Items: items, Pagination: env.Pagination}, nil
}
