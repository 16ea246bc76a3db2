package billing

import (
	"errors"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// Operaciones y resultados reportados al Recorder.
const (
	opCreate      = "create"
	opApply       = "apply"
	opRevertIndex = "revert_index"
	opRevertID    = "revert_id"

	resultOK       = "ok"
	resultRejected = "rejected"
	resultConflict = "conflict"
	resultError    = "error"
)

func resultOf(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, domain.ErrConflict):
		return resultConflict
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
		return resultRejected
	default:
		return resultError
	}
}

// ToInvoiceResponse mapea la factura a su salida pública.
func ToInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			Description: it.Description,
			Category:    it.Category,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	payments := make([]dto.PaymentResponse, 0, len(inv.AdditionalPayment))
	for _, p := range inv.AdditionalPayment {
		payments = append(payments, toPaymentResponse(p))
	}
	return dto.InvoiceResponse{
		ID:                 inv.ID,
		ClientID:           inv.ClientID,
		Number:             inv.Number,
		CustomerName:       inv.CustomerName,
		Items:              items,
		TotalProductAmount: inv.TotalProductAmount,
		RemainingAmount:    inv.RemainingAmount,
		PaymentStatus:      inv.PaymentStatus,
		AdditionalPayment:  payments,
		Version:            inv.Version,
		CreatedBy:          inv.CreatedBy,
		CreatedAt:          inv.CreatedAt,
		UpdatedAt:          inv.UpdatedAt,
	}
}

func toPaymentResponse(p entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:         p.ID,
		Amount:     p.Amount,
		Method:     p.Method,
		Note:       p.Note,
		ReceivedBy: p.ReceivedBy,
		ReceivedAt: p.ReceivedAt,
	}
}
