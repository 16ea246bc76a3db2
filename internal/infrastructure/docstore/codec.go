// Package docstore implementa los repositorios del dominio sobre repository.DocumentStore.
// Cada repositorio mapea su entidad a un documento JSON propio (sin tags en el dominio).
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/Retail-api/internal/domain/repository"
	"golang.org/x/text/cases"
)

// NormalizeEmail forma canónica para comparar emails sin distinguir mayúsculas (case folding Unicode).
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

func encode(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}

// findOne devuelve (false, nil) si no hay coincidencias.
func findOne[T any](ctx context.Context, store repository.DocumentStore, collection string, filter repository.Filter, dst *T) (bool, error) {
	res, err := store.Execute(ctx, collection, repository.Operation{Verb: repository.VerbFindOne, Filter: filter})
	if err != nil {
		return false, fmt.Errorf("findOne %s: %w", collection, err)
	}
	if len(res.Documents) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(res.Documents[0], dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", collection, err)
	}
	return true, nil
}

func find[T any](ctx context.Context, store repository.DocumentStore, collection string, filter repository.Filter, limit, offset int) ([]T, error) {
	res, err := store.Execute(ctx, collection, repository.Operation{
		Verb:   repository.VerbFind,
		Filter: filter,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	out := make([]T, 0, len(res.Documents))
	for _, raw := range res.Documents {
		var d T
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// clientFilter filtro por tenant; clientID vacío no filtra.
func clientFilter(clientID string) repository.Filter {
	if clientID == "" {
		return nil
	}
	return repository.Filter{"clientId": clientID}
}
