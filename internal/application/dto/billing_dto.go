package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
// InitialPayment opcional: se registra como primer abono.
type CreateInvoiceRequest struct {
	ClientID       string               `json:"clientId,omitempty" validate:"omitempty,max=64"`
	Number         string               `json:"number,omitempty" validate:"omitempty,max=50"`
	CustomerName   string               `json:"customerName" validate:"required,max=200"`
	Items          []InvoiceItemRequest `json:"items" validate:"required,min=1,max=500,dive"`
	InitialPayment *decimal.Decimal     `json:"initialPayment,omitempty"`
	PaymentMethod  string               `json:"paymentMethod,omitempty" validate:"omitempty,max=50"`
}

// InvoiceItemRequest línea de factura. Quantity > 0 y UnitPrice >= 0 se validan en el caso de uso.
type InvoiceItemRequest struct {
	Description string          `json:"description" validate:"required,max=200"`
	Category    string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// ApplyPaymentRequest body para POST /api/invoices/:id/payments.
type ApplyPaymentRequest struct {
	ClientID string          `json:"clientId,omitempty" validate:"omitempty,max=64"`
	Amount   decimal.Decimal `json:"amount"`
	Method   string          `json:"method,omitempty" validate:"omitempty,max=50"`
	Note     string          `json:"note,omitempty" validate:"omitempty,max=500"`
}

// RevertPaymentRequest body para PATCH /api/invoices/payments/revert.
// PaymentIndex es puntero para distinguir 0 de ausente.
type RevertPaymentRequest struct {
	InvoiceID    string `json:"invoiceId" validate:"required,max=64"`
	PaymentIndex *int   `json:"paymentIndex" validate:"required"`
	ClientID     string `json:"clientId,omitempty" validate:"omitempty,max=64"`
}

// InvoiceItemResponse línea en respuestas.
type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// PaymentResponse abono en respuestas.
type PaymentResponse struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method,omitempty"`
	Note       string          `json:"note,omitempty"`
	ReceivedBy string          `json:"receivedBy,omitempty"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

// InvoiceResponse factura con su estado de cobro.
type InvoiceResponse struct {
	ID                 string                `json:"id"`
	ClientID           string                `json:"clientId"`
	Number             string                `json:"number"`
	CustomerName       string                `json:"customerName"`
	Items              []InvoiceItemResponse `json:"items"`
	TotalProductAmount decimal.Decimal       `json:"totalProductAmount"`
	RemainingAmount    decimal.Decimal       `json:"remainingAmount"`
	PaymentStatus      string                `json:"paymentStatus"`
	AdditionalPayment  []PaymentResponse     `json:"additionalPayment"`
	Version            int64                 `json:"version"`
	CreatedBy          string                `json:"createdBy,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// RevertPaymentResponse resultado de revertir un abono.
type RevertPaymentResponse struct {
	Message            string          `json:"message"`
	RevertedAmount     decimal.Decimal `json:"revertedAmount"`
	NewRemainingAmount decimal.Decimal `json:"newRemainingAmount"`
	PaymentStatus      string          `json:"paymentStatus"`
	Invoice            InvoiceResponse `json:"invoice"`
}

// ApplyPaymentResponse resultado de registrar un abono.
type ApplyPaymentResponse struct {
	Message            string          `json:"message"`
	Payment            PaymentResponse `json:"payment"`
	NewRemainingAmount decimal.Decimal `json:"newRemainingAmount"`
	PaymentStatus      string          `json:"paymentStatus"`
	Invoice            InvoiceResponse `json:"invoice"`
}
