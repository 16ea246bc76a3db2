package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// CategoryTotal total facturado por categoría de producto.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Invoices int
}

// AnalyticsRepository consultas agregadas de solo lectura.
type AnalyticsRepository interface {
	// CategorySeries agrega los totales de línea por categoría; clientID vacío agrega todos los tenants.
	CategorySeries(ctx context.Context, clientID string) ([]CategoryTotal, error)
}
