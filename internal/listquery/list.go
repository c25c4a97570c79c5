package listquery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"sync/atomic"
)

// DefaultPageSize is the page size used when Config.PageSize is zero.
const DefaultPageSize = 10

// FilterStatus is the filter key most lists expose.
const FilterStatus = "status"

var (
	// ErrUnknownFilter is returned when a filter key is not configured for the list.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrWatching is returned when Watch is called twice.
	ErrWatching = errors.New("list already watching")
)

var reservedParams = []string{ParamPage, ParamQuery, "limit", "sortBy", "sortOrder"}

// Config parameterises one list.
type Config[T any] struct {
	// Name identifies the list in logs and failure messages, e.g. "leads".
	Name string
	// Endpoint is the list endpoint path, e.g. "/leads".
	Endpoint string
	// PageSize is the fixed page size sent as limit.
	PageSize int
	// SortBy and SortOrder are sent unchanged with every fetch.
	SortBy    string
	SortOrder string
	// FilterKeys are the multi-valued filters read from and written to the URL.
	FilterKeys []string
	// Projector derives page-local stats; nil disables stats.
	Projector Projector[T]
	// MaxReconcile bounds consecutive server page corrections.
	MaxReconcile int
	// FailureMessage is sent to the Notifier when a fetch fails.
	FailureMessage string
	Logger         *slog.Logger
}

// Validate checks cfg and fills defaults.
func (c *Config[T]) Validate() error {
	if c.Name == "" {
		return errors.New("list name is required")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("list %s: endpoint is required", c.Name)
	}
	if c.PageSize < 0 {
		return fmt.Errorf("list %s: page size must be positive, got %d", c.Name, c.PageSize)
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MaxReconcile <= 0 {
		c.MaxReconcile = DefaultMaxReconcile
	}
	seen := make(map[string]struct{}, len(c.FilterKeys))
	for _, key := range c.FilterKeys {
		if key == "" {
			return fmt.Errorf("list %s: empty filter key", c.Name)
		}
		if slices.Contains(reservedParams, key) {
			return fmt.Errorf("list %s: filter key %q is reserved", c.Name, key)
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("list %s: duplicate filter key %q", c.Name, key)
		}
		seen[key] = struct{}{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return nil
}

// HasFilter reports whether key is a configured filter.
func (c Config[T]) HasFilter(key string) bool {
	return slices.Contains(c.FilterKeys, key)
}

// View is a read-only snapshot of a list for rendering.
type View[T any] struct {
	Items       []T                 `json:"items"`
	Loading     bool                `json:"loading"`
	TotalItems  int                 `json:"totalItems"`
	TotalPages  int                 `json:"totalPages"`
	CurrentPage int                 `json:"currentPage"`
	Query       string              `json:"query"`
	Filters     map[string][]string `json:"filters"`
	Stats       Stats               `json:"stats"`
	URL         string              `json:"url"`
}

// HasPrevious reports whether a previous page exists.
func (v View[T]) HasPrevious() bool { return v.CurrentPage > 1 }

// HasNext reports whether a next page exists.
func (v View[T]) HasNext() bool { return v.CurrentPage < v.TotalPages }

// List keeps one paginated list in sync with a History.
//
// State is always read from the history location. Interaction handlers write
// through the Writer and return immediately; the fetch they cause happens on
// the next Refresh, Load, or, when watching, on a background goroutine.
type List[T any] struct {
	cfg     Config[T]
	history History
	writer  *Writer
	coord   *Coordinator[T]
	rec     *Reconciler

	wg       sync.WaitGroup
	mu       sync.Mutex
	watchCtx context.Context
	watching bool
	running  bool
	pending  bool
	stop     []func()
	closed   atomic.Bool
}

// New returns a List reading its state from h and fetching from source.
// Failures are reported to notifier; nil discards them.
func New[T any](cfg Config[T], source Source[T], h History, notifier Notifier) (*List[T], error) {
	if source == nil {
		return nil, errors.New("list source is required")
	}
	if h == nil {
		return nil, errors.New("list history is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := NewWriter(h, cfg.FilterKeys)
	return &List[T]{
		cfg:     cfg,
		history: h,
		writer:  w,
		coord:   NewCoordinator(cfg, source, notifier),
		rec:     NewReconciler(w, cfg.MaxReconcile, cfg.Logger, cfg.Name),
	}, nil
}

// Config returns the validated configuration.
func (l *List[T]) Config() Config[T] { return l.cfg }

// State reads the current State from the history location.
func (l *List[T]) State() State { return l.writer.Current() }

// Refresh triggers one fetch for the current State. When it succeeds and the
// server answered with a different page, the URL is corrected after the fetch
// guard is released so the follow-up fetch is not dropped.
func (l *List[T]) Refresh(ctx context.Context) Outcome {
	out := l.coord.Trigger(ctx, l.State())
	if out.Accepted && out.Err == nil {
		l.rec.Reconcile(out.Requested, out.Pagination)
	}
	return out
}

// Load fetches the current State and follows server page corrections until
// the URL and the server agree or the reconciliation bound is reached.
// It returns the fetch failure, if any, after it has been recovered.
func (l *List[T]) Load(ctx context.Context) error {
	l.rec.Reset()
	for {
		out := l.Refresh(ctx)
		if out.Err != nil {
			return out.Err
		}
		if l.State().Encode(l.cfg.FilterKeys) == out.Key {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Watch refreshes the list on every history change until ctx is done or the
// list is closed. The current State is fetched immediately. A change that
// arrives while a fetch is in flight is picked up once that fetch finishes;
// a change to a state already fetched is ignored.
func (l *List[T]) Watch(ctx context.Context) error {
	l.mu.Lock()
	if l.watching {
		l.mu.Unlock()
		return ErrWatching
	}
	if l.closed.Load() {
		l.mu.Unlock()
		return ErrDiscarded
	}
	l.watching = true
	l.watchCtx = ctx
	unsubscribe := l.history.Subscribe(func(*url.URL) { l.schedule() })
	stopAfter := context.AfterFunc(ctx, unsubscribe)
	l.stop = append(l.stop, unsubscribe, func() { stopAfter() })
	l.mu.Unlock()

	l.schedule()
	return nil
}

func (l *List[T]) schedule() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed.Load() || l.watchCtx == nil || l.watchCtx.Err() != nil {
		return
	}
	if l.running {
		l.pending = true
		return
	}
	l.running = true
	l.wg.Add(1)
	go l.run(l.watchCtx)
}

func (l *List[T]) run(ctx context.Context) {
	defer l.wg.Done()
	for {
		if ctx.Err() == nil && !l.closed.Load() {
			if l.State().Encode(l.cfg.FilterKeys) != l.coord.LastKey() {
				l.Refresh(ctx)
			}
		}

		l.mu.Lock()
		if !l.pending {
			l.running = false
			l.mu.Unlock()
			return
		}
		l.pending = false
		l.mu.Unlock()
	}
}

// Wait blocks until no background refresh is running.
func (l *List[T]) Wait() { l.wg.Wait() }

// Close stops watching and discards the result of any fetch still in flight.
func (l *List[T]) Close() {
	if l.closed.Swap(true) {
		return
	}
	l.coord.Close()

	l.mu.Lock()
	stop := l.stop
	l.stop = nil
	l.mu.Unlock()
	for _, fn := range stop {
		fn()
	}
}

// GoToNextPage moves to the next page. It reports false on the last page.
func (l *List[T]) GoToNextPage() bool {
	return l.GoToPage(l.State().Page + 1)
}

// GoToPreviousPage moves to the previous page. It reports false on the first page.
func (l *List[T]) GoToPreviousPage() bool {
	return l.GoToPage(l.State().Page - 1)
}

// GoToPage moves to page n. It reports false when n is below 1, or above the
// page count once a fetch has succeeded. Before that any positive page is
// accepted and reconciliation corrects it against the server.
func (l *List[T]) GoToPage(n int) bool {
	if n < 1 || (l.coord.Fetched() && n > l.coord.Result().TotalPages) {
		return false
	}
	l.rec.Reset()
	l.writer.Update(Partial{Page: n})
	return true
}

// OnQueryChange sets the free-text query and resets to the first page.
func (l *List[T]) OnQueryChange(text string) {
	l.rec.Reset()
	l.writer.Update(Partial{Page: 1, Query: &text})
}

// OnStatusesChange replaces the status filter and resets to the first page.
func (l *List[T]) OnStatusesChange(statuses []string) error {
	return l.OnFilterChange(FilterStatus, statuses)
}

// OnFilterChange replaces the values of one filter and resets to the first
// page. An empty values clears the filter.
func (l *List[T]) OnFilterChange(key string, values []string) error {
	if !l.cfg.HasFilter(key) {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, key)
	}
	if values == nil {
		values = []string{}
	}
	l.rec.Reset()
	l.writer.Update(Partial{Page: 1, Filters: map[string][]string{key: values}})
	return nil
}

// UpdateURLParams applies p unchanged. Unlike the handlers above it does not
// reset the page.
func (l *List[T]) UpdateURLParams(p Partial) State {
	l.rec.Reset()
	return l.writer.Update(p)
}

// View returns a snapshot of the list for rendering.
func (l *List[T]) View() View[T] {
	r := l.coord.Result()
	s := l.State()
	filters := make(map[string][]string, len(l.cfg.FilterKeys))
	for _, key := range l.cfg.FilterKeys {
		filters[key] = slices.Clone(s.Filters[key])
	}
	return View[T]{
		Items:       r.Items,
		Loading:     r.Loading,
		TotalItems:  r.Total,
		TotalPages:  r.TotalPages,
		CurrentPage: s.Page,
		Query:       s.Query,
		Filters:     filters,
		Stats:       r.Stats,
		URL:         l.history.Location().String(),
	}
}

// Err returns the failure of the last completed fetch, or nil.
func (l *List[T]) Err() error { return l.coord.Err() }

// InFlight reports whether a fetch is outstanding.
func (l *List[T]) InFlight() bool { return l.coord.InFlight() }
