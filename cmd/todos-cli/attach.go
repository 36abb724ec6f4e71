package main

import (
	"os"

	"github.com/spf13/cobra"
)

var attachCmd = &cobra.Command{
	Use:   "attach <item-id> <local-file>",
	Short: "Upload a file as the item's attachment",
	Long: `Upload a file as the item's attachment.

A signed upload URL is requested from the server and the file is sent
directly to object storage. The item's previous attachment, if any, is
replaced.

Examples:
  todos-cli attach <item-id> ./receipt.png`,
	Args: cobra.ExactArgs(2),
	RunE: runAttach,
}

func runAttach(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.UploadAttachment(cmd.Context(), args[0], args[1])
	if err != nil {
		return reportError(err)
	}

	return getFormatter().FormatAttach(os.Stdout, result)
}
