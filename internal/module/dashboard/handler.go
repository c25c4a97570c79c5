// Package dashboard renders the admin overview: one card per list with the
// total the backend reports for it.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/middleware"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/pkg"
)

// Unavailable is shown instead of a total that could not be loaded.
const Unavailable = "—"

// maxConcurrentCounts bounds the backend calls one overview issues at once.
const maxConcurrentCounts = 4

// Card is the overview entry of one list.
type Card struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	Total     int    `json:"total"`
	Available bool   `json:"available"`
}

// Display returns the total, or Unavailable.
func (c Card) Display() string {
	if !c.Available {
		return Unavailable
	}
	return strconv.Itoa(c.Total)
}

// Handler serves the overview.
type Handler struct {
	listers []listing.Lister
	logger  *slog.Logger
}

// NewHandler creates a Handler over listers, shown in order.
func NewHandler(listers []listing.Lister, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{listers: listers, logger: logger}
}

// RegisterRoutes registers GET /api/v1/dashboard and GET /admin.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/dashboard", h.API)
	pages.GET("/admin", h.Page)
}

// Totals counts every list concurrently. A list that fails to load is
// marked unavailable; the others are unaffected.
func (h *Handler) Totals(ctx context.Context) []Card {
	cards := make([]Card, len(h.listers))

	var g errgroup.Group
	g.SetLimit(maxConcurrentCounts)
	for i, l := range h.listers {
		cards[i] = Card{Name: l.Name(), Title: l.Title(), Path: l.Path()}
		g.Go(func() error {
			n, err := l.Count(ctx)
			if err != nil {
				h.logger.Warn("dashboard count failed", "list", l.Name(), "error", err)
				return nil
			}
			cards[i].Total, cards[i].Available = n, true
			return nil
		})
	}
	_ = g.Wait()
	return cards
}

// Page renders the overview.
// GET /admin
func (h *Handler) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard/index.html", gin.H{
		"Cards":     h.Totals(c.Request.Context()),
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}

// API returns the overview as JSON.
// GET /api/v1/dashboard
func (h *Handler) API(c *gin.Context) {
	pkg.Success(c, h.Totals(c.Request.Context()))
}
