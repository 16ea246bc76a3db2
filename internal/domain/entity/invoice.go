package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una factura. Se derivan siempre de RemainingAmount y TotalProductAmount.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// InvoiceItem línea de factura. LineTotal = Quantity * UnitPrice, fijado al crear.
type InvoiceItem struct {
	Description string
	Category    string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// Payment abono registrado después de crear la factura. Inmutable una vez agregado;
// solo se elimina revirtiéndolo. ID es estable; la posición en la lista no lo es.
type Payment struct {
	ID         string
	Amount     decimal.Decimal
	Method     string
	Note       string
	ReceivedBy string
	ReceivedAt time.Time
}

// Invoice factura de un tenant con su estado de cobro.
// Invariante: RemainingAmount == TotalProductAmount - suma(AdditionalPayment.Amount).
type Invoice struct {
	ID                 string
	ClientID           string
	Number             string
	CustomerName       string
	Items              []InvoiceItem
	TotalProductAmount decimal.Decimal
	RemainingAmount    decimal.Decimal
	PaymentStatus      string
	AdditionalPayment  []Payment
	Version            int64 // token de concurrencia optimista, crece en cada mutación persistida
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PaidAmount suma de los abonos registrados.
func (inv *Invoice) PaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, p := range inv.AdditionalPayment {
		total = total.Add(p.Amount)
	}
	return total
}
