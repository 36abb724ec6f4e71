package main

import (
	"os"
	"time"

	"github.com/sagarc03/todos"
	"github.com/spf13/cobra"
)

var (
	createDue         string
	createDescription string
	createPriority    int
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an item",
	Long: `Create an item.

The due date defaults to today.

Examples:
  todos-cli create "buy milk"
  todos-cli create "file taxes" --due 2024-04-15 --priority 8`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createDue, "due", "", "due date (YYYY-MM-DD)")
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "description")
	createCmd.Flags().IntVar(&createPriority, "priority", 0, "priority points")
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	due := createDue
	if due == "" {
		due = time.Now().Format(time.DateOnly)
	}

	item, err := client.Create(cmd.Context(), todos.CreateItem{
		Name:           args[0],
		DueDate:        due,
		Description:    createDescription,
		PriorityPoints: createPriority,
	})
	if err != nil {
		return reportError(err)
	}

	return getFormatter().FormatItem(os.Stdout, item)
}
