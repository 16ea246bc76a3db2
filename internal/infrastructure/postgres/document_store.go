package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

// Querier interfaz común de *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ repository.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implementa repository.DocumentStore sobre la tabla documents (JSONB).
// Los filtros se evalúan con contención (body @> filtro).
type DocumentStore struct {
	db Querier
}

// NewDocumentStore construye el store sobre un pool o una transacción.
func NewDocumentStore(db Querier) *DocumentStore {
	return &DocumentStore{db: db}
}

// Execute ejecuta la operación. Cada verbo es una única sentencia SQL.
func (s *DocumentStore) Execute(ctx context.Context, collection string, op repository.Operation) (*repository.OperationResult, error) {
	filter, err := containmentFilter(op.Filter)
	if err != nil {
		return nil, err
	}

	switch op.Verb {
	case repository.VerbFindOne:
		return s.find(ctx, collection, filter, 1, 0)
	case repository.VerbFindAll:
		return s.find(ctx, collection, []byte("{}"), 0, 0)
	case repository.VerbFind:
		return s.find(ctx, collection, filter, op.Limit, op.Offset)
	case repository.VerbInsertOne:
		return s.insert(ctx, collection, op.Document)
	case repository.VerbUpsert:
		return s.upsert(ctx, collection, op.Document)
	case repository.VerbUpdateOne:
		return s.updateOne(ctx, collection, filter, op.Document)
	case repository.VerbDeleteOne:
		return s.deleteOne(ctx, collection, filter)
	default:
		return nil, fmt.Errorf("verbo %q: %w", op.Verb, domain.ErrInvalidInput)
	}
}

func (s *DocumentStore) find(ctx context.Context, collection string, filter []byte, limit, offset int) (*repository.OperationResult, error) {
	page, pageArgs := pageClause(limit, offset, 3)
	query := `SELECT body FROM documents WHERE collection = $1 AND body @> $2::jsonb ORDER BY seq` + page
	args := append([]any{collection, string(filter)}, pageArgs...)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("documents.find %s: %w", collection, err)
	}
	defer rows.Close()

	res := &repository.OperationResult{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("documents.find scan: %w", err)
		}
		res.Documents = append(res.Documents, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("documents.find rows: %w", err)
	}
	res.Matched = int64(len(res.Documents))
	return res, nil
}

func (s *DocumentStore) insert(ctx context.Context, collection string, doc json.RawMessage) (*repository.OperationResult, error) {
	id, err := documentID(doc)
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)`,
		collection, id, string(doc))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("documents.insert %s/%s: %w", collection, id, domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("documents.insert %s: %w", collection, err)
	}
	return &repository.OperationResult{Matched: 1}, nil
}

func (s *DocumentStore) upsert(ctx context.Context, collection string, doc json.RawMessage) (*repository.OperationResult, error) {
	id, err := documentID(doc)
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`,
		collection, id, string(doc))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("documents.upsert %s/%s: %w", collection, id, domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("documents.upsert %s: %w", collection, err)
	}
	return &repository.OperationResult{Matched: 1}, nil
}

// updateOne reemplaza el primer documento que cumple el filtro. El filtro se vuelve a
// evaluar sobre la fila bloqueada, así una escritura condicional por versión no pisa
// a otra concurrente.
func (s *DocumentStore) updateOne(ctx context.Context, collection string, filter []byte, doc json.RawMessage) (*repository.OperationResult, error) {
	id, err := documentID(doc)
	if err != nil {
		return nil, err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE documents SET body = $3::jsonb, updated_at = now()
		WHERE seq = (
			SELECT seq FROM documents
			WHERE collection = $1 AND id = $4 AND body @> $2::jsonb
			ORDER BY seq LIMIT 1
			FOR UPDATE
		)
		AND body @> $2::jsonb`,
		collection, string(filter), string(doc), id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("documents.update %s/%s: %w", collection, id, domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("documents.update %s: %w", collection, err)
	}
	return &repository.OperationResult{Matched: tag.RowsAffected()}, nil
}

func (s *DocumentStore) deleteOne(ctx context.Context, collection string, filter []byte) (*repository.OperationResult, error) {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM documents
		WHERE seq = (
			SELECT seq FROM documents
			WHERE collection = $1 AND body @> $2::jsonb
			ORDER BY seq LIMIT 1
		)`,
		collection, string(filter))
	if err != nil {
		return nil, fmt.Errorf("documents.delete %s: %w", collection, err)
	}
	return &repository.OperationResult{Matched: tag.RowsAffected()}, nil
}
