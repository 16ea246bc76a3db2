package dto

import "github.com/shopspring/decimal"

// CategorySeriesDTO respuesta de GET /api/dashboard/category-series.
// Scope es el id del tenant o "global" para la vista de super admin.
type CategorySeriesDTO struct {
	Scope  string             `json:"scope"`
	Series []CategoryPointDTO `json:"series"`
	Cached bool               `json:"cached"`
}

// CategoryPointDTO total facturado de una categoría.
type CategoryPointDTO struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Invoices int             `json:"invoices"`
}
