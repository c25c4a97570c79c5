package listing

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/backend"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/listquery"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/middleware"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/pkg"
)

// Deleter removes one row of a backend list.
type Deleter interface {
	Delete(ctx context.Context, endpoint, id string) error
}

// Lister is the type-erased view of a Handler used by the dashboard overview
// and the CLI.
type Lister interface {
	Name() string
	Title() string
	Path() string
	FilterKeys() []string
	Count(ctx context.Context) (int, error)
	Query(ctx context.Context, p listquery.Partial, notifier listquery.Notifier) (Snapshot, error)
	RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup)
}

// Snapshot is a loaded list in a shape independent of the row type.
type Snapshot struct {
	URL         string              `json:"url"`
	Items       any                 `json:"items"`
	TotalItems  int                 `json:"totalItems"`
	TotalPages  int                 `json:"totalPages"`
	CurrentPage int                 `json:"currentPage"`
	Query       string              `json:"query,omitempty"`
	Filters     map[string][]string `json:"filters,omitempty"`
	Stats       *listquery.Stats    `json:"stats,omitempty"`
}

// Handler serves one Resource: the dashboard page, its htmx table partial,
// a JSON view and row deletion.
type Handler[T any] struct {
	res     Resource[T]
	cfg     listquery.Config[T]
	source  listquery.Source[T]
	deleter Deleter
	logger  *slog.Logger
}

var _ Lister = (*Handler[struct{}])(nil)

// NewHandler validates res and returns its Handler. deleter may be nil when
// res is not deletable.
func NewHandler[T any](res Resource[T], source listquery.Source[T], deleter Deleter, opts Options) (*Handler[T], error) {
	if err := res.validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("resource %s: source is required", res.Name)
	}
	if res.Deletable && deleter == nil {
		return nil, fmt.Errorf("resource %s: deletable resource needs a deleter", res.Name)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := listquery.Config[T]{
		Name:           res.Name,
		Endpoint:       res.Endpoint,
		PageSize:       opts.PageSize,
		SortBy:         res.SortBy,
		SortOrder:      res.SortOrder,
		FilterKeys:     res.FilterKeys(),
		Projector:      res.Projector,
		MaxReconcile:   opts.MaxReconcile,
		FailureMessage: res.FailureMessage,
		Logger:         logger,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler[T]{res: res, cfg: cfg, source: source, deleter: deleter, logger: logger}, nil
}

// NewBackendHandler returns a Handler listing res from the backend API and
// deleting through it.
func NewBackendHandler[T any](res Resource[T], client *backend.Client, opts Options) (*Handler[T], error) {
	if client == nil {
		return nil, fmt.Errorf("resource %s: backend client is required", res.Name)
	}
	var deleter Deleter
	if res.Deletable {
		deleter = client
	}
	return NewHandler(res, backend.NewListSource[T](client), deleter, opts)
}

// Name returns the resource name.
func (h *Handler[T]) Name() string { return h.res.Name }

// Title returns the resource title.
func (h *Handler[T]) Title() string { return h.res.Title }

// Path returns the dashboard page path.
func (h *Handler[T]) Path() string { return h.res.Path() }

// FilterKeys returns the configured filter keys.
func (h *Handler[T]) FilterKeys() []string { return h.res.FilterKeys() }

// RegisterRoutes registers the JSON view on api and the page and delete
// routes on pages.
func (h *Handler[T]) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/"+h.res.Name, h.API)

	pages.GET(h.Path(), h.Page)
	if h.res.Deletable {
		pages.DELETE(h.Path()+"/:id", h.Delete)
	}
}

type result[T any] struct {
	view     listquery.View[T]
	state    listquery.State
	location string
	err      error
}

// load opens a List at u, applies change and loads it until the URL and the
// server agree. The returned error is the fetch failure, already reported to
// notifier.
func (h *Handler[T]) load(ctx context.Context, cfg listquery.Config[T], u *url.URL, notifier listquery.Notifier, change func(*listquery.List[T])) (*result[T], error) {
	hist := listquery.NewMemoryHistory(&url.URL{Path: u.Path, RawQuery: u.RawQuery})
	l, err := listquery.New(cfg, h.source, hist, notifier)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	if change != nil {
		change(l)
	}
	loadErr := l.Load(ctx)

	return &result[T]{
		view:     l.View(),
		state:    l.State(),
		location: hist.Location().RequestURI(),
		err:      loadErr,
	}, nil
}

// TableFragment is the shared template htmx requests render in place of the
// whole page.
const TableFragment = "list-table"

// Page renders the list page, or only the table for htmx requests.
// GET /admin/<resource>
func (h *Handler[T]) Page(c *gin.Context) {
	var toast string
	notifier := listquery.NotifierFunc(func(msg string) { toast = msg })

	res, err := h.load(c.Request.Context(), h.cfg, c.Request.URL, notifier, func(l *listquery.List[T]) {
		h.applyChange(c, l)
	})
	if err != nil {
		h.logger.Error("open list", "list", h.res.Name, "error", err)
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
		return
	}

	data := h.page(res)
	data.CSRFToken = middleware.GetCSRFToken(c)
	if toast != "" {
		data.Toast = toast
		pkg.Toast(c, toast, pkg.ToastTypeError)
	}

	if pkg.IsHTMX(c) {
		pkg.ReplaceURL(c, res.location)
		c.HTML(http.StatusOK, TableFragment, data)
		return
	}
	c.HTML(http.StatusOK, "listing/list.html", data)
}

// applyChange routes the control that issued an htmx request to the matching
// list handler, so a new query or filter selection starts from page 1.
// A trigger naming no configured filter leaves the list unchanged.
func (h *Handler[T]) applyChange(c *gin.Context, l *listquery.List[T]) {
	name := pkg.TriggerName(c)
	var err error
	switch name {
	case "":
		return
	case listquery.ParamQuery:
		l.OnQueryChange(c.Query(listquery.ParamQuery))
	case listquery.FilterStatus:
		err = l.OnStatusesChange(c.QueryArray(name))
	default:
		err = l.OnFilterChange(name, c.QueryArray(name))
	}
	if err != nil {
		h.logger.Debug("list change ignored", "list", h.res.Name, "trigger", name, "error", err)
	}
}

// API returns the list as JSON.
// GET /api/v1/<resource>
func (h *Handler[T]) API(c *gin.Context) {
	res, err := h.load(c.Request.Context(), h.cfg, c.Request.URL, listquery.Discard, nil)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if res.err != nil {
		pkg.Error(c, backend.AsAppError(res.err))
		return
	}
	res.view.URL = h.Path() + "?" + res.state.Encode(h.cfg.FilterKeys)
	pkg.List(c, res.view)
}

// Delete removes one row and asks the table to refresh itself.
// DELETE /admin/<resource>/:id
func (h *Handler[T]) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		pkg.ToastError(c, "Invalid "+strings.ToLower(h.res.singular())+" id")
		return
	}

	if err := h.deleter.Delete(c.Request.Context(), h.res.Endpoint, id); err != nil {
		h.logger.Warn("delete failed", "list", h.res.Name, "id", id, "error", err)
		pkg.ToastError(c, pkg.SafeMessage(backend.AsAppError(err), "Failed to delete "+strings.ToLower(h.res.singular())))
		return
	}

	pkg.Toast(c, h.res.singular()+" deleted", pkg.ToastTypeSuccess)
	pkg.Trigger(c, pkg.EventListRefresh, true)
	c.Status(http.StatusOK)
}

// Count returns the total number of rows the backend reports for the
// unfiltered list, fetching a single row.
func (h *Handler[T]) Count(ctx context.Context) (int, error) {
	cfg := h.cfg
	cfg.PageSize = 1
	cfg.Projector = nil

	res, err := h.load(ctx, cfg, &url.URL{Path: h.Path()}, listquery.Discard, nil)
	if err != nil {
		return 0, err
	}
	if res.err != nil {
		return 0, res.err
	}
	return res.view.TotalItems, nil
}

// Query loads the list after applying p to an empty location.
func (h *Handler[T]) Query(ctx context.Context, p listquery.Partial, notifier listquery.Notifier) (Snapshot, error) {
	res, err := h.load(ctx, h.cfg, &url.URL{Path: h.Path()}, notifier, func(l *listquery.List[T]) {
		l.UpdateURLParams(p)
	})
	if err != nil {
		return Snapshot{}, err
	}

	v := res.view
	snap := Snapshot{
		URL:         res.location,
		Items:       v.Items,
		TotalItems:  v.TotalItems,
		TotalPages:  v.TotalPages,
		CurrentPage: v.CurrentPage,
		Query:       v.Query,
	}
	for key, values := range v.Filters {
		if len(values) == 0 {
			continue
		}
		if snap.Filters == nil {
			snap.Filters = make(map[string][]string, len(v.Filters))
		}
		snap.Filters[key] = values
	}
	if h.cfg.Projector != nil {
		snap.Stats = &v.Stats
	}
	return snap, res.err
}
