package main

import (
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your items",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	items, err := client.List(cmd.Context())
	if err != nil {
		return reportError(err)
	}

	return getFormatter().FormatItems(os.Stdout, items)
}

var getCmd = &cobra.Command{
	Use:   "get <item-id>",
	Short: "Show a single item",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	item, err := client.Get(cmd.Context(), args[0])
	if err != nil {
		return reportError(err)
	}

	return getFormatter().FormatItem(os.Stdout, item)
}
