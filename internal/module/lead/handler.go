package lead

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/backend"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/domain"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/pkg"
)

// Patcher sends partial updates to the backend.
type Patcher interface {
	Patch(ctx context.Context, path string, body any) (*backend.Envelope, error)
}

// StatusHandler changes the pipeline status of a lead from the list page.
type StatusHandler struct {
	client Patcher
	logger *slog.Logger
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(client Patcher, logger *slog.Logger) *StatusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusHandler{client: client, logger: logger}
}

// UpdateStatus handles PATCH /admin/leads/:id/status.
func (h *StatusHandler) UpdateStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		pkg.ToastError(c, "Invalid lead id")
		return
	}

	var req UpdateStatusRequest
	if err := pkg.BindOrToast(c, &req, "Please choose a valid status"); err != nil {
		h.logger.Debug("update lead status: bind error", "id", id, "error", err)
		return
	}

	if _, err := h.patch(c.Request.Context(), id, req); err != nil {
		h.logger.Warn("update lead status failed", "id", id, "status", req.Status, "error", err)
		pkg.ToastError(c, pkg.SafeMessage(backend.AsAppError(err), "Failed to update lead status"))
		return
	}

	pkg.Toast(c, "Lead marked as "+strings.ToLower(listing.Humanize(req.Status)), pkg.ToastTypeSuccess)
	pkg.Trigger(c, pkg.EventListRefresh, true)
	c.Status(http.StatusOK)
}

// UpdateStatusAPI handles PATCH /api/v1/leads/:id/status and answers with the
// updated lead as the backend returned it.
func (h *StatusHandler) UpdateStatusAPI(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "invalid lead id", nil))
		return
	}

	var req UpdateStatusRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	env, err := h.patch(c.Request.Context(), id, req)
	if err != nil {
		h.logger.Warn("update lead status failed", "id", id, "status", req.Status, "error", err)
		pkg.Error(c, backend.AsAppError(err))
		return
	}

	updated := domain.Lead{ID: id, Status: req.Status}
	if err := env.DecodeData(&updated); err != nil {
		h.logger.Warn("update lead status: decode response", "id", id, "error", err)
		pkg.Error(c, domain.NewAppError(domain.CodeUpstream, "backend unavailable", err))
		return
	}
	pkg.Success(c, updated)
}

func (h *StatusHandler) patch(ctx context.Context, id string, req UpdateStatusRequest) (*backend.Envelope, error) {
	return h.client.Patch(ctx, "/leads/"+url.PathEscape(id)+"/status", req)
}
