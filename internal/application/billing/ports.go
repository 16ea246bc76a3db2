package billing

import "context"

// InvoiceLocker serializa las mutaciones de una misma factura (Redis o mutex local).
// Si la factura sigue ocupada tras la espera configurada devuelve domain.ErrConflict.
type InvoiceLocker interface {
	Lock(ctx context.Context, invoiceID string) (unlock func(), err error)
}

// SeriesInvalidator invalida agregados cacheados de un tenant cuando cambian sus facturas.
type SeriesInvalidator interface {
	InvalidateTenant(ctx context.Context, clientID string)
}

// Recorder contadores de operaciones del libro de abonos.
type Recorder interface {
	LedgerOp(operation, result string)
}

type nopRecorder struct{}

func (nopRecorder) LedgerOp(string, string) {}

type nopInvalidator struct{}

func (nopInvalidator) InvalidateTenant(context.Context, string) {}
