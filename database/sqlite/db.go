package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/todos"
	"github.com/sagarc03/todos/database/internal"
)

// SQLite reports declared types, so these match the CREATE TABLE in migrations.go.
var schemaColumns = []internal.Column{
	{Name: "owner_id", Type: "text"},
	{Name: "item_id", Type: "text"},
	{Name: "created_at", Type: "text"},
	{Name: "name", Type: "text"},
	{Name: "due_date", Type: "text"},
	{Name: "done", Type: "integer"},
	{Name: "description", Type: "text"},
	{Name: "priority_points", Type: "integer"},
	{Name: "attachment_url", Type: "text", Nullable: true},
}

// ValidateSchema checks that the items table exists and has the columns the
// repo reads and writes.
func ValidateSchema(ctx context.Context, db *sql.DB, tables todos.Tables) error {
	table := tables.Items
	if !todos.IsValidTableName(table) {
		return fmt.Errorf("validate schema: invalid table name: %s", table)
	}

	columns, err := loadColumns(ctx, db, table)
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

func loadColumns(ctx context.Context, db *sql.DB, table string) ([]internal.Column, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, type, "notnull" FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []internal.Column
	for rows.Next() {
		var (
			c       internal.Column
			notNull int
		)
		if err := rows.Scan(&c.Name, &c.Type, &notNull); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		c.Nullable = notNull == 0
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	return columns, nil
}
