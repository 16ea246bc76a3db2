package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}

// containmentFilter serializa el filtro para el operador @> de JSONB. Un filtro vacío es '{}'.
func containmentFilter(f repository.Filter) ([]byte, error) {
	if len(f) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("filtro: %w", err)
	}
	return b, nil
}

// documentID extrae el campo "id" obligatorio del documento.
func documentID(raw json.RawMessage) (string, error) {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", fmt.Errorf("documento: %w", domain.ErrInvalidInput)
	}
	if head.ID == "" {
		return "", fmt.Errorf("documento sin id: %w", domain.ErrInvalidInput)
	}
	return head.ID, nil
}

// pageClause LIMIT/OFFSET con placeholders a partir de next.
func pageClause(limit, offset, next int) (string, []any) {
	var sb strings.Builder
	var args []any
	if limit > 0 {
		fmt.Fprintf(&sb, " LIMIT $%d", next)
		args = append(args, limit)
		next++
	}
	if offset > 0 {
		fmt.Fprintf(&sb, " OFFSET $%d", next)
		args = append(args, offset)
	}
	return sb.String(), args
}
