package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/sagarc03/todos"
	"github.com/sagarc03/todos/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrate_CreatesValidSchema(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	tables := todos.Tables{Items: "items_" + getRandomString(t)}

	require.NoError(t, sqlite.Migrate(ctx, db, tables))
	assert.NoError(t, sqlite.ValidateSchema(ctx, db, tables))

	t.Run("idempotent", func(t *testing.T) {
		assert.NoError(t, sqlite.Migrate(ctx, db, tables))
	})

	t.Run("drop tables", func(t *testing.T) {
		require.NoError(t, sqlite.DropTables(ctx, db, tables))

		err := sqlite.ValidateSchema(ctx, db, tables)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}

func TestValidateSchema_Mismatch(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	tableName := "items_" + getRandomString(t)

	_, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %q (
		owner_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		name TEXT,
		done TEXT NOT NULL
	)`, tableName))
	require.NoError(t, err)

	err = sqlite.ValidateSchema(ctx, db, todos.Tables{Items: tableName})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "due_date")
	assert.Contains(t, err.Error(), "done: expected integer, got text")
	assert.Contains(t, err.Error(), "name: expected nullable=false, got nullable=true")
}

func TestValidateSchema_InvalidTableName(t *testing.T) {
	db := openMemory(t)

	err := sqlite.ValidateSchema(context.Background(), db, todos.Tables{Items: "Bad-Name"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}
