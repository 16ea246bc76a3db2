package repository

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// ListByClient lista facturas de un tenant; clientID vacío lista todas.
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Invoice, error)
	// Replace persiste la factura completa solo si la versión almacenada es expectedVersion.
	// Si coincide, invoice.Version queda en expectedVersion+1. Devuelve domain.ErrConflict
	// si otra escritura ganó la carrera y domain.ErrNotFound si la factura no existe.
	Replace(ctx context.Context, invoice *entity.Invoice, expectedVersion int64) error
}
