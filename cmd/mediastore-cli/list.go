package main

import (
	"os"

	"github.com/spf13/cobra"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/clientcli"
)

var (
	listStatus string
	listLimit  int
	listAll    bool
	listCursor string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your files",
	Long: `List your files, oldest first.

Examples:
  mediastore-cli list
  mediastore-cli list --status uploading
  mediastore-cli list --limit 10 --cursor "eyJjIjoi..."
  mediastore-cli list --all --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status: uploading, completed")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 50, "max results per page (max: 1000)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "fetch all pages")
	listCmd.Flags().StringVar(&listCursor, "cursor", "", "pagination cursor")
}

func runList(cmd *cobra.Command, _ []string) error {
	opts := clientcli.ListOptions{
		Limit:  listLimit,
		Cursor: listCursor,
		All:    listAll,
	}
	if listStatus != "" {
		status, err := mediastore.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		opts.Status = status
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.List(cmd.Context(), opts)
	if err != nil {
		return reportError(err)
	}

	return getFormatter().FormatList(os.Stdout, result)
}
