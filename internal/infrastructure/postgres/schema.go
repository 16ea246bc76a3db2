package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaVersion = "001_documents"

// Todas las colecciones viven en una tabla documental. seq conserva el orden de inserción.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		seq         BIGSERIAL PRIMARY KEY,
		collection  TEXT        NOT NULL,
		id          TEXT        NOT NULL,
		body        JSONB       NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (collection, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_body ON documents USING GIN (body jsonb_path_ops)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_normalized
		ON documents ((body->>'emailNormalized')) WHERE collection = 'users'`,
	`CREATE INDEX IF NOT EXISTS idx_documents_client
		ON documents (collection, (body->>'clientId'))`,
}

// Migrate crea el esquema si no existe. Es idempotente y corre en una sola transacción.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_info (
			key        TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("crear schema_info: %w", err)
	}

	var applied bool
	if err := pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_info WHERE key = $1)`, schemaVersion).Scan(&applied); err != nil {
		return fmt.Errorf("consultar schema_info: %w", err)
	}
	if applied {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", schemaVersion, err)
		}
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_info (key) VALUES ($1) ON CONFLICT DO NOTHING`, schemaVersion); err != nil {
		return fmt.Errorf("registrar migración: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
