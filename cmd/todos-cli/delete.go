package main

import (
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <item-id> [item-id...]",
	Aliases: []string{"rm"},
	Short:   "Delete items",
	Long: `Delete one or more items.

Deleting an item that does not exist is not an error.

Examples:
  todos-cli delete <item-id>
  todos-cli delete -q <item-id> <item-id>`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	formatter := getFormatter()
	failed := false
	for _, itemID := range args {
		if err := client.Delete(cmd.Context(), itemID); err != nil {
			_ = formatter.FormatError(os.Stderr, err)
			failed = true
			continue
		}
		if err := formatter.FormatDeleted(os.Stdout, itemID); err != nil {
			return err
		}
	}

	if failed {
		return &exitError{code: 1}
	}
	return nil
}

// exitError is returned when we want to exit with a specific code
// but don't want cobra to print an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}
