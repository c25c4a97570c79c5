package listquery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

var (
	// ErrBusy is reported when a trigger is dropped because a fetch is
	// already in flight.
	ErrBusy = errors.New("list fetch already in flight")

	// ErrDiscarded is reported when a fetch completes after the list was
	// closed; its result is thrown away.
	ErrDiscarded = errors.New("list closed before fetch completed")
)

// Outcome describes what happened to one trigger.
type Outcome struct {
	// Accepted is false when the trigger was dropped by the guard.
	Accepted bool
	// Key is the encoded state the fetch was issued for.
	Key string
	// Requested is the state the fetch was issued for.
	Requested State
	// Pagination is the validated server pagination on success.
	Pagination Pagination
	// Err is the failure that reset the list, ErrBusy or ErrDiscarded.
	// Failures are already recovered when Trigger returns.
	Err error
}

// Result is the fetched data held by a Coordinator.
type Result[T any] struct {
	Items      []T
	Total      int
	TotalPages int
	Page       int
	Limit      int
	Stats      Stats
	Loading    bool
}

// Coordinator issues list fetches with at most one request in flight.
//
// A trigger arriving while a fetch is outstanding is dropped, not queued and
// not cancelling the outstanding one. Failures of any kind reset the result to
// an empty first page, zero the stats and notify once.
type Coordinator[T any] struct {
	cfg      Config[T]
	source   Source[T]
	notifier Notifier
	logger   *slog.Logger

	inFlight atomic.Bool
	gen      atomic.Uint64
	closed   atomic.Bool
	fetched  atomic.Bool

	mu      sync.RWMutex
	result  Result[T]
	lastKey string
	lastErr error
}

// NewCoordinator returns a Coordinator for cfg. cfg must already be validated.
func NewCoordinator[T any](cfg Config[T], source Source[T], notifier Notifier) *Coordinator[T] {
	if notifier == nil {
		notifier = Discard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator[T]{cfg: cfg, source: source, notifier: notifier, logger: logger}
	c.result = c.empty(cfg.PageSize)
	return c
}

// acquire sets the fetch guard. The returned release clears loading and then
// the guard, and must be deferred by the caller.
func (c *Coordinator[T]) acquire() (release func(), ok bool) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, false
	}
	c.mu.Lock()
	c.result.Loading = true
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		c.result.Loading = false
		c.mu.Unlock()
		c.inFlight.Store(false)
	}, true
}

// Trigger fetches the page described by s unless a fetch is already in
// flight. It never panics on fetch failure and always leaves the guard clear.
func (c *Coordinator[T]) Trigger(ctx context.Context, s State) Outcome {
	key := s.Encode(c.cfg.FilterKeys)
	if c.closed.Load() {
		return Outcome{Key: key, Requested: s, Err: ErrDiscarded}
	}

	release, ok := c.acquire()
	if !ok {
		c.logger.Debug("list fetch dropped", "list", c.cfg.Name, "key", key)
		return Outcome{Key: key, Requested: s, Err: ErrBusy}
	}
	defer release()

	gen := c.gen.Add(1)
	c.mu.Lock()
	c.lastKey = key
	c.mu.Unlock()

	out := Outcome{Accepted: true, Key: key, Requested: s}
	req := BuildRequest(c.cfg, s)

	resp, err := c.source.List(ctx, req)
	if c.closed.Load() || c.gen.Load() != gen {
		out.Err = ErrDiscarded
		return out
	}
	if err == nil && resp == nil {
		err = errors.New("empty response")
	}

	var p Pagination
	if err == nil {
		p, err = ParsePagination(resp.Pagination, s.Page, c.cfg.PageSize)
	}
	if err != nil {
		c.fail(req, err)
		out.Err = err
		return out
	}

	items := resp.Items
	if items == nil {
		items = []T{}
	}

	c.mu.Lock()
	c.result = Result[T]{
		Items:      items,
		Total:      p.Total,
		TotalPages: p.DisplayTotalPages(),
		Page:       p.Page,
		Limit:      p.Limit,
		Stats:      c.project(items),
		Loading:    true,
	}
	c.lastErr = nil
	c.mu.Unlock()
	c.fetched.Store(true)

	out.Pagination = p
	return out
}

func (c *Coordinator[T]) fail(req Request, err error) {
	c.logger.Warn("list fetch failed",
		"list", c.cfg.Name,
		"endpoint", req.URL(),
		"error", err,
	)

	c.mu.Lock()
	c.result = c.empty(c.cfg.PageSize)
	c.result.Loading = true
	c.lastErr = err
	c.mu.Unlock()

	c.notifier.Error(c.failureMessage())
}

func (c *Coordinator[T]) failureMessage() string {
	if c.cfg.FailureMessage != "" {
		return c.cfg.FailureMessage
	}
	return fmt.Sprintf("Failed to load %s", c.cfg.Name)
}

func (c *Coordinator[T]) empty(limit int) Result[T] {
	return Result[T]{
		Items:      []T{},
		TotalPages: 1,
		Page:       1,
		Limit:      limit,
		Stats:      c.project(nil),
	}
}

func (c *Coordinator[T]) project(items []T) Stats {
	if c.cfg.Projector == nil {
		return Stats{Counts: map[string]int{}}
	}
	return c.cfg.Projector(items)
}

// Result returns a copy of the current result.
func (c *Coordinator[T]) Result() Result[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r := c.result
	r.Items = slices.Clone(r.Items)
	return r
}

// Fetched reports whether any fetch has completed successfully. Until then
// the result's page count is a placeholder.
func (c *Coordinator[T]) Fetched() bool { return c.fetched.Load() }

// InFlight reports whether the fetch guard is set.
func (c *Coordinator[T]) InFlight() bool { return c.inFlight.Load() }

// Loading reports whether a fetch is outstanding.
func (c *Coordinator[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result.Loading
}

// LastKey returns the encoded state of the last accepted trigger.
func (c *Coordinator[T]) LastKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastKey
}

// Err returns the failure of the last completed fetch, or nil.
func (c *Coordinator[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Close discards the result of any fetch still in flight and rejects further
// triggers.
func (c *Coordinator[T]) Close() {
	c.closed.Store(true)
	c.gen.Add(1)
}
