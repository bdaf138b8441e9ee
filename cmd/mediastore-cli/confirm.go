package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm <file-id>",
	Short: "Mark an upload as completed",
	Long: `Confirm an upload whose bytes were PUT to the object store outside this tool.
Confirming a completed file again is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfirm,
}

func runConfirm(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	status, err := client.Confirm(cmd.Context(), args[0])
	if err != nil {
		return reportError(err)
	}

	if !quiet {
		_, _ = fmt.Fprintf(os.Stdout, "%s: %s\n", args[0], status)
	}
	return nil
}
