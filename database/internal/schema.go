// Package internal holds helpers shared by the SQL item stores.
package internal

import (
	"fmt"
	"slices"
	"strings"
)

// Column describes one column of an item table as the database reports it.
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// SchemaError lists the differences between an expected and an actual table.
type SchemaError struct {
	Table      string
	Missing    []string
	Mismatched []string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "table %s schema validation failed", e.Table)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "; missing columns: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Mismatched) > 0 {
		fmt.Fprintf(&b, "; mismatched columns: %s", strings.Join(e.Mismatched, "; "))
	}
	return b.String()
}

// CompareColumns checks actual against expected. Extra columns are allowed.
// Types are compared case-insensitively. Returns a *SchemaError or nil.
func CompareColumns(table string, expected []Column, actual []Column) error {
	byName := make(map[string]Column, len(actual))
	for _, c := range actual {
		byName[c.Name] = c
	}

	schemaErr := &SchemaError{Table: table}
	for _, want := range expected {
		got, ok := byName[want.Name]
		if !ok {
			schemaErr.Missing = append(schemaErr.Missing, want.Name)
			continue
		}
		if !strings.EqualFold(got.Type, want.Type) {
			schemaErr.Mismatched = append(schemaErr.Mismatched,
				fmt.Sprintf("%s: expected %s, got %s", want.Name, want.Type, strings.ToLower(got.Type)))
		}
		if got.Nullable != want.Nullable {
			schemaErr.Mismatched = append(schemaErr.Mismatched,
				fmt.Sprintf("%s: expected nullable=%t, got nullable=%t", want.Name, want.Nullable, got.Nullable))
		}
	}

	if len(schemaErr.Missing) == 0 && len(schemaErr.Mismatched) == 0 {
		return nil
	}
	slices.Sort(schemaErr.Missing)
	return schemaErr
}
