package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/Retail-api/internal/application/analytics"
	"github.com/jhoicas/Retail-api/internal/application/tenant"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc     *appanalytics.CategorySeriesUseCase
	scopes *tenant.Resolver
	log    zerolog.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.CategorySeriesUseCase, scopes *tenant.Resolver, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, scopes: scopes, log: log}
}

// GetCategorySeries total facturado por categoría del tenant efectivo.
// GET /api/dashboard/category-series
//
// Un super admin sin tenant seleccionado recibe la serie global (scope "global").
// Respuesta: CategorySeriesDTO ordenada por total descendente.
func (h *DashboardHandler) GetCategorySeries(c *fiber.Ctx) error {
	scope, err := resolveScope(c, h.scopes, c.Query("clientId"), tenant.ScopeAllowGlobal)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.GetSeries(c.UserContext(), scope)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
