package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Retail-api/internal/application/billing"
	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenant"
)

// PaymentHandler maneja abonos y reversiones sobre facturas.
type PaymentHandler struct {
	uc     *billing.PaymentUseCase
	scopes *tenant.Resolver
	log    zerolog.Logger
}

// NewPaymentHandler construye el handler de abonos.
func NewPaymentHandler(uc *billing.PaymentUseCase, scopes *tenant.Resolver, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, scopes: scopes, log: log}
}

// Apply godoc
// @Summary      Registrar abono
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la factura"
// @Param        body  body  dto.ApplyPaymentRequest   true  "monto del abono"
// @Success      200   {object}  dto.ApplyPaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *PaymentHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyPaymentRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	scope, err := resolveScope(c, h.scopes, in.ClientID, tenant.ScopeRequireTenant)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ApplyPayment(c.UserContext(), scope, GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RevertByIndex godoc
// @Summary      Revertir abono por posición
// @Description  Elimina el abono en paymentIndex y restituye su monto al saldo. Los abonos posteriores se desplazan.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RevertPaymentRequest  true  "invoiceId y paymentIndex"
// @Success      200   {object}  dto.RevertPaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/payments/revert [patch]
func (h *PaymentHandler) RevertByIndex(c *fiber.Ctx) error {
	var in dto.RevertPaymentRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	scope, err := resolveScope(c, h.scopes, in.ClientID, tenant.ScopeRequireTenant)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.RevertPaymentAt(c.UserContext(), scope, in.InvoiceID, *in.PaymentIndex)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RevertByID godoc
// @Summary      Revertir abono por id
// @Tags         payments
// @Produce      json
// @Param        id         path   string  true   "ID de la factura"
// @Param        paymentId  path   string  true   "ID del abono"
// @Param        clientId   query  string  false  "tenant (solo super admin)"
// @Success      200  {object}  dto.RevertPaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments/{paymentId} [delete]
func (h *PaymentHandler) RevertByID(c *fiber.Ctx) error {
	scope, err := resolveScope(c, h.scopes, c.Query("clientId"), tenant.ScopeRequireTenant)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.RevertPaymentByID(c.UserContext(), scope, c.Params("id"), c.Params("paymentId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
