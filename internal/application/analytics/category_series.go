// Package analytics contiene los casos de uso de reportes agregados por tenant.
package analytics

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenant"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

const (
	seriesKeyPrefix = "series:"
	globalKey       = "*"
	globalScope     = "global"
)

// Cache almacenamiento con expiración para agregados (Redis en producción).
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// CategorySeriesUseCase serie de totales por categoría.
//
// El resultado se cachea por tenant con TTL; la creación de una factura invalida la
// clave de su tenant y la de la vista global. Sin caché configurada consulta siempre.
type CategorySeriesUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	cache         Cache
	ttl           time.Duration
	log           zerolog.Logger
}

// NewCategorySeriesUseCase construye el caso de uso. cache puede ser nil.
func NewCategorySeriesUseCase(analyticsRepo repository.AnalyticsRepository, cache Cache, ttl time.Duration, log zerolog.Logger) *CategorySeriesUseCase {
	return &CategorySeriesUseCase{analyticsRepo: analyticsRepo, cache: cache, ttl: ttl, log: log}
}

// GetSeries devuelve la serie del alcance (global para super admin sin tenant).
func (uc *CategorySeriesUseCase) GetSeries(ctx context.Context, scope tenant.Scope) (*dto.CategorySeriesDTO, error) {
	key := seriesKey(scope.FilterClientID())
	label := scope.ClientID
	if scope.Global {
		label = globalScope
	}

	if uc.cache != nil {
		var cached []dto.CategoryPointDTO
		found, err := uc.cache.Get(ctx, key, &cached)
		if err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("caché de series no disponible")
		}
		if found {
			return &dto.CategorySeriesDTO{Scope: label, Series: cached, Cached: true}, nil
		}
	}

	totals, err := uc.analyticsRepo.CategorySeries(ctx, scope.FilterClientID())
	if err != nil {
		return nil, err
	}
	series := make([]dto.CategoryPointDTO, 0, len(totals))
	for _, t := range totals {
		series = append(series, dto.CategoryPointDTO{Category: t.Category, Total: t.Total, Invoices: t.Invoices})
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, series, uc.ttl); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo cachear la serie")
		}
	}
	return &dto.CategorySeriesDTO{Scope: label, Series: series}, nil
}

// InvalidateTenant descarta la serie del tenant y la global.
func (uc *CategorySeriesUseCase) InvalidateTenant(ctx context.Context, clientID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, seriesKey(clientID), seriesKey("")); err != nil {
		uc.log.Warn().Err(err).Str("client_id", clientID).Msg("no se pudo invalidar la caché de series")
	}
}

func seriesKey(clientID string) string {
	if clientID == "" {
		return seriesKeyPrefix + globalKey
	}
	return seriesKeyPrefix + clientID
}
