package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/todos"
	"github.com/sagarc03/todos/database/internal"
)

var schemaColumns = []internal.Column{
	{Name: "owner_id", Type: "text"},
	{Name: "item_id", Type: "text"},
	{Name: "created_at", Type: "timestamp with time zone"},
	{Name: "name", Type: "text"},
	{Name: "due_date", Type: "text"},
	{Name: "done", Type: "boolean"},
	{Name: "description", Type: "text"},
	{Name: "priority_points", Type: "integer"},
	{Name: "attachment_url", Type: "text", Nullable: true},
}

// ValidateSchema checks that the items table exists in the public schema and
// has the columns the repo reads and writes.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, tables todos.Tables) error {
	table := tables.Items
	if !todos.IsValidTableName(table) {
		return fmt.Errorf("validate schema: invalid table name: %s", table)
	}

	columns, err := loadColumns(ctx, pool, table)
	if err != nil {
		return fmt.Errorf("validate schema %s: %w", table, err)
	}
	if len(columns) == 0 {
		return fmt.Errorf("validate schema: table %s does not exist", table)
	}

	if err := internal.CompareColumns(table, schemaColumns, columns); err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}
	return nil
}

func loadColumns(ctx context.Context, pool *pgxpool.Pool, table string) ([]internal.Column, error) {
	const query = `
		SELECT column_name, data_type, is_nullable = 'YES'
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := pool.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []internal.Column
	for rows.Next() {
		var c internal.Column
		if err := rows.Scan(&c.Name, &c.Type, &c.Nullable); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	return columns, nil
}
