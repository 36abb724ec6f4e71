package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/todos"
)

// Migrate creates the app tables if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables todos.Tables) error {
	if err := createItemsTable(ctx, pool, tables.Items); err != nil {
		return fmt.Errorf("migrate up %s: %w", tables.Items, err)
	}
	return nil
}

// DropTables removes the app tables.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables todos.Tables) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{tables.Items}.Sanitize())
	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("migrate down %s: %w", tables.Items, err)
	}
	return nil
}

func createItemsTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexOwnerCreated := pgx.Identifier{fmt.Sprintf("idx_%s_owner_created", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			owner_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			name TEXT NOT NULL,
			due_date TEXT NOT NULL,
			done BOOLEAN NOT NULL DEFAULT FALSE,
			description TEXT NOT NULL DEFAULT '',
			priority_points INTEGER NOT NULL DEFAULT 0,
			attachment_url TEXT,
			PRIMARY KEY (owner_id, item_id)
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (owner_id, created_at);
	`,
		quotedTable,
		indexOwnerCreated, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	return nil
}
