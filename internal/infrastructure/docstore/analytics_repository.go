package docstore

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agrega en memoria leyendo las facturas del store. Con Postgres se usa
// postgres.AnalyticsRepo, que agrega en SQL.
type AnalyticsRepo struct {
	invoices *InvoiceRepo
}

// NewAnalyticsRepository construye el agregador.
func NewAnalyticsRepository(store repository.DocumentStore) *AnalyticsRepo {
	return &AnalyticsRepo{invoices: NewInvoiceRepository(store)}
}

// CategorySeries suma LineTotal por categoría, ordenado por total descendente.
func (r *AnalyticsRepo) CategorySeries(ctx context.Context, clientID string) ([]repository.CategoryTotal, error) {
	invoices, err := r.invoices.ListByClient(ctx, clientID, 0, 0)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string]*repository.CategoryTotal)
	for _, inv := range invoices {
		seen := make(map[string]bool)
		for _, it := range inv.Items {
			cat := it.Category
			if cat == "" {
				cat = "uncategorized"
			}
			acc, ok := byCategory[cat]
			if !ok {
				acc = &repository.CategoryTotal{Category: cat, Total: decimal.Zero}
				byCategory[cat] = acc
			}
			acc.Total = acc.Total.Add(it.LineTotal)
			if !seen[cat] {
				seen[cat] = true
				acc.Invoices++
			}
		}
	}
	out := make([]repository.CategoryTotal, 0, len(byCategory))
	for _, v := range byCategory {
		out = append(out, *v)
	}
	sortCategoryTotals(out)
	return out, nil
}

func sortCategoryTotals(list []repository.CategoryTotal) {
	sort.Slice(list, func(i, j int) bool {
		if c := list[i].Total.Cmp(list[j].Total); c != 0 {
			return c > 0
		}
		return list[i].Category < list[j].Category
	})
}
