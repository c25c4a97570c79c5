package lead

import (
	"github.com/gin-gonic/gin"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/backend"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/domain"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
)

// Module serves the leads list and the lead status change.
type Module struct {
	*listing.Handler[domain.Lead]
	status *StatusHandler
}

// NewModule creates the leads module on top of client.
func NewModule(client *backend.Client, opts listing.Options) (*Module, error) {
	h, err := listing.NewBackendHandler(Resource(), client, opts)
	if err != nil {
		return nil, err
	}
	return &Module{Handler: h, status: NewStatusHandler(client, opts.Logger)}, nil
}

// RegisterRoutes registers the list routes and the status change on both
// PATCH /admin/leads/:id/status and PATCH /api/v1/leads/:id/status.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	m.Handler.RegisterRoutes(api, pages)
	pages.PATCH(m.Path()+"/:id/status", m.status.UpdateStatus)
	api.PATCH("/"+m.Name()+"/:id/status", m.status.UpdateStatusAPI)
}
