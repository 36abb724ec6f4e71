package internal_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/todos/database/internal"
)

var expected = []internal.Column{
	{Name: "owner_id", Type: "text"},
	{Name: "item_id", Type: "text"},
	{Name: "done", Type: "boolean"},
	{Name: "attachment_url", Type: "text", Nullable: true},
}

func TestCompareColumns(t *testing.T) {
	t.Parallel()

	t.Run("match ignores case and extra columns", func(t *testing.T) {
		t.Parallel()
		actual := []internal.Column{
			{Name: "owner_id", Type: "TEXT"},
			{Name: "item_id", Type: "text"},
			{Name: "done", Type: "BOOLEAN"},
			{Name: "attachment_url", Type: "text", Nullable: true},
			{Name: "extra", Type: "integer", Nullable: true},
		}
		assert.NoError(t, internal.CompareColumns("items", expected, actual))
	})

	t.Run("missing columns are sorted", func(t *testing.T) {
		t.Parallel()
		actual := []internal.Column{{Name: "owner_id", Type: "text"}, {Name: "done", Type: "boolean"}}

		err := internal.CompareColumns("items", expected, actual)
		require.Error(t, err)

		var schemaErr *internal.SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, []string{"attachment_url", "item_id"}, schemaErr.Missing)
		assert.Contains(t, err.Error(), "missing columns: attachment_url, item_id")
	})

	t.Run("type and nullability mismatch", func(t *testing.T) {
		t.Parallel()
		actual := []internal.Column{
			{Name: "owner_id", Type: "text"},
			{Name: "item_id", Type: "integer"},
			{Name: "done", Type: "boolean", Nullable: true},
			{Name: "attachment_url", Type: "text", Nullable: true},
		}

		err := internal.CompareColumns("items", expected, actual)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "item_id: expected text, got integer")
		assert.Contains(t, err.Error(), "done: expected nullable=false, got nullable=true")
		assert.NotContains(t, err.Error(), "missing columns")
	})
}
