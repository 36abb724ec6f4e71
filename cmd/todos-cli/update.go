package main

import (
	"os"

	"github.com/sagarc03/todos"
	"github.com/spf13/cobra"
)

var (
	updateName        string
	updateDue         string
	updateDescription string
	updatePriority    int
	updateDone        bool
	updateUndone      bool
)

var updateCmd = &cobra.Command{
	Use:   "update <item-id>",
	Short: "Update an item",
	Long: `Update an item.

The server overwrites every mutable field, so the current item is fetched
first and only the flags given on the command line are changed.

Examples:
  todos-cli update <item-id> --done
  todos-cli update <item-id> --name "buy oat milk" --due 2024-01-12`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "new name")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "new due date (YYYY-MM-DD)")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
	updateCmd.Flags().IntVar(&updatePriority, "priority", 0, "new priority points")
	updateCmd.Flags().BoolVar(&updateDone, "done", false, "mark as done")
	updateCmd.Flags().BoolVar(&updateUndone, "undone", false, "mark as not done")
	updateCmd.MarkFlagsMutuallyExclusive("done", "undone")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	itemID := args[0]
	current, err := client.Get(cmd.Context(), itemID)
	if err != nil {
		return reportError(err)
	}

	req := applyUpdateFlags(cmd, current)

	item, err := client.Update(cmd.Context(), itemID, req)
	if err != nil {
		return reportError(err)
	}

	return getFormatter().FormatItem(os.Stdout, item)
}

func applyUpdateFlags(cmd *cobra.Command, current todos.Item) todos.UpdateItem {
	req := todos.UpdateItem{
		Name:           current.Name,
		DueDate:        current.DueDate,
		Done:           current.Done,
		Description:    current.Description,
		PriorityPoints: current.PriorityPoints,
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		req.Name = updateName
	}
	if flags.Changed("due") {
		req.DueDate = updateDue
	}
	if flags.Changed("description") {
		req.Description = updateDescription
	}
	if flags.Changed("priority") {
		req.PriorityPoints = updatePriority
	}
	if flags.Changed("done") {
		req.Done = updateDone
	}
	if flags.Changed("undone") {
		req.Done = !updateUndone
	}

	return req
}
