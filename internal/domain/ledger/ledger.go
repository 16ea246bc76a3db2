// Package ledger implementa la máquina de estados de cobro de una factura (servicio de dominio).
//
// Estados: pending (RemainingAmount == TotalProductAmount), partial (0 < Remaining < Total)
// y paid (Remaining == 0). Apply y Revert comparten DeriveStatus y Verify, trabajan sobre
// copias y nunca modifican la factura de entrada.
package ledger

import (
	"errors"
	"fmt"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidIndex    = fmt.Errorf("%w: índice de pago fuera de rango", domain.ErrInvalidInput)
	ErrInvalidAmount   = fmt.Errorf("%w: el monto debe ser mayor que cero", domain.ErrInvalidInput)
	ErrOverpayment     = fmt.Errorf("%w: el monto supera el saldo pendiente", domain.ErrInvalidInput)
	ErrPaymentNotFound = fmt.Errorf("%w: pago no encontrado en la factura", domain.ErrNotFound)

	// ErrInvariantViolation el estado almacenado o calculado rompe el invariante de saldo.
	// Es fatal: nunca se corrige recortando el valor.
	ErrInvariantViolation = errors.New("ledger: invariante de saldo violado")
)

// DeriveStatus calcula el estado de pago a partir del saldo y el total.
// Una factura de total cero se considera pagada.
func DeriveStatus(remaining, total decimal.Decimal) string {
	switch {
	case remaining.IsZero():
		return entity.PaymentStatusPaid
	case remaining.Equal(total):
		return entity.PaymentStatusPending
	default:
		return entity.PaymentStatusPartial
	}
}

// Verify comprueba el invariante completo de la factura.
func Verify(inv *entity.Invoice) error {
	total := inv.TotalProductAmount
	if total.IsNegative() {
		return fmt.Errorf("%w: total negativo %s", ErrInvariantViolation, total)
	}
	paid := decimal.Zero
	for i, p := range inv.AdditionalPayment {
		if !p.Amount.IsPositive() {
			return fmt.Errorf("%w: pago %d con monto %s", ErrInvariantViolation, i, p.Amount)
		}
		paid = paid.Add(p.Amount)
	}
	if inv.RemainingAmount.IsNegative() || inv.RemainingAmount.GreaterThan(total) {
		return fmt.Errorf("%w: saldo %s fuera de [0, %s]", ErrInvariantViolation, inv.RemainingAmount, total)
	}
	if !inv.RemainingAmount.Equal(total.Sub(paid)) {
		return fmt.Errorf("%w: saldo %s != total %s - abonos %s", ErrInvariantViolation, inv.RemainingAmount, total, paid)
	}
	if want := DeriveStatus(inv.RemainingAmount, total); inv.PaymentStatus != want {
		return fmt.Errorf("%w: estado %q, se esperaba %q", ErrInvariantViolation, inv.PaymentStatus, want)
	}
	return nil
}

// Open prepara el estado de cobro de una factura recién creada: sin abonos y saldo igual al total.
func Open(inv entity.Invoice) entity.Invoice {
	out := clone(inv)
	out.AdditionalPayment = nil
	out.RemainingAmount = out.TotalProductAmount
	out.PaymentStatus = DeriveStatus(out.RemainingAmount, out.TotalProductAmount)
	return out
}

// Apply agrega un abono y descuenta el saldo.
func Apply(inv entity.Invoice, p entity.Payment) (entity.Invoice, error) {
	if err := Verify(&inv); err != nil {
		return inv, err
	}
	if !p.Amount.IsPositive() {
		return inv, ErrInvalidAmount
	}
	if p.Amount.GreaterThan(inv.RemainingAmount) {
		return inv, ErrOverpayment
	}
	out := clone(inv)
	out.AdditionalPayment = append(out.AdditionalPayment, p)
	out.RemainingAmount = inv.RemainingAmount.Sub(p.Amount)
	out.PaymentStatus = DeriveStatus(out.RemainingAmount, out.TotalProductAmount)
	if err := Verify(&out); err != nil {
		return inv, err
	}
	return out, nil
}

// RevertAt elimina el abono en la posición index y restituye su monto al saldo.
// Los abonos posteriores se desplazan una posición; los índices previos dejan de ser válidos.
func RevertAt(inv entity.Invoice, index int) (entity.Invoice, decimal.Decimal, error) {
	if index < 0 || index >= len(inv.AdditionalPayment) {
		return inv, decimal.Zero, ErrInvalidIndex
	}
	if err := Verify(&inv); err != nil {
		return inv, decimal.Zero, err
	}
	amount := inv.AdditionalPayment[index].Amount

	out := clone(inv)
	out.AdditionalPayment = append(out.AdditionalPayment[:index:index], inv.AdditionalPayment[index+1:]...)
	out.RemainingAmount = inv.RemainingAmount.Add(amount)
	out.PaymentStatus = DeriveStatus(out.RemainingAmount, out.TotalProductAmount)
	if err := Verify(&out); err != nil {
		return inv, decimal.Zero, err
	}
	return out, amount, nil
}

// RevertByID revierte el abono identificado por su id estable.
func RevertByID(inv entity.Invoice, paymentID string) (entity.Invoice, decimal.Decimal, error) {
	for i, p := range inv.AdditionalPayment {
		if p.ID == paymentID {
			return RevertAt(inv, i)
		}
	}
	return inv, decimal.Zero, ErrPaymentNotFound
}

func clone(inv entity.Invoice) entity.Invoice {
	out := inv
	if inv.Items != nil {
		out.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	}
	if inv.AdditionalPayment != nil {
		out.AdditionalPayment = append([]entity.Payment(nil), inv.AdditionalPayment...)
	}
	return out
}
