package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregaciones de solo lectura sobre las facturas en JSONB.
type AnalyticsRepo struct {
	db Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(db Querier) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

// CategorySeries suma lineTotal por categoría. Con clientID vacío agrega todos los tenants.
// Las líneas sin categoría se consolidan en "uncategorized".
func (r *AnalyticsRepo) CategorySeries(ctx context.Context, clientID string) ([]repository.CategoryTotal, error) {
	const query = `
	SELECT
	    COALESCE(NULLIF(item->>'category', ''), 'uncategorized') AS category,
	    SUM((item->>'lineTotal')::NUMERIC)                        AS total,
	    COUNT(DISTINCT d.id)                                      AS invoices
	FROM documents d
	CROSS JOIN LATERAL jsonb_array_elements(COALESCE(d.body->'items', '[]'::jsonb)) AS item
	WHERE d.collection = 'invoices'
	  AND ($1 = '' OR d.body->>'clientId' = $1)
	GROUP BY 1
	ORDER BY total DESC, category ASC`

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("analytics.CategorySeries: %w", err)
	}
	defer rows.Close()

	results := make([]repository.CategoryTotal, 0)
	for rows.Next() {
		var (
			row   repository.CategoryTotal
			total decimal.NullDecimal
			count int64
		)
		if err := rows.Scan(&row.Category, &total, &count); err != nil {
			return nil, fmt.Errorf("analytics.CategorySeries scan: %w", err)
		}
		row.Total = decimal.Zero
		if total.Valid {
			row.Total = total.Decimal
		}
		row.Invoices = int(count)
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.CategorySeries rows: %w", err)
	}
	return results, nil
}
