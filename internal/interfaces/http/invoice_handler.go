package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Retail-api/internal/application/billing"
	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenant"
)

// InvoiceHandler maneja las facturas.
type InvoiceHandler struct {
	uc     *billing.InvoiceUseCase
	scopes *tenant.Resolver
	log    zerolog.Logger
}

// NewInvoiceHandler construye el handler de facturas.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, scopes *tenant.Resolver, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, scopes: scopes, log: log}
}

// Create godoc
// @Summary      Crear factura
// @Description  Crea la factura en el tenant efectivo. Un super admin debe indicar clientId o tener un tenant seleccionado.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "cliente, líneas y abono inicial opcional"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	scope, err := resolveScope(c, h.scopes, in.ClientID, tenant.ScopeRequireTenant)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.CreateInvoice(c.UserContext(), scope, GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Produce      json
// @Param        clientId  query  string  false  "tenant (solo super admin)"
// @Param        limit     query  int     false  "máximo por página"
// @Param        offset    query  int     false  "desplazamiento"
// @Success      200  {object}  dto.InvoiceListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	scope, err := resolveScope(c, h.scopes, c.Query("clientId"), tenant.ScopeAllowGlobal)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ListInvoices(c.UserContext(), scope, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Produce      json
// @Param        id        path   string  true   "ID de la factura"
// @Param        clientId  query  string  false  "tenant (solo super admin)"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	scope, err := resolveScope(c, h.scopes, c.Query("clientId"), tenant.ScopeAllowGlobal)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.GetInvoice(c.UserContext(), scope, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
