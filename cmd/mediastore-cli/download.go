package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/YamesYamerson/secure-multimedia-storage/clientcli"
)

var (
	downloadOutput string
	downloadStdout bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <file-id> [local-path]",
	Short: "Download a file",
	Long: `Download one of your files by id.

Without a local path the file is saved under the name it was uploaded with.

Examples:
  mediastore-cli download alice_3f2a9c1b7d4e
  mediastore-cli download alice_3f2a9c1b7d4e ./copy.jpg
  mediastore-cli download --stdout alice_3f2a9c1b7d4e | exiftool -`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file path")
	downloadCmd.Flags().BoolVar(&downloadStdout, "stdout", false, "write to stdout")
}

func runDownload(cmd *cobra.Command, args []string) error {
	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}
	if downloadOutput != "" {
		localPath = downloadOutput
	}
	if downloadStdout {
		localPath = "-"
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	result, reader, err := client.Download(cmd.Context(), clientcli.DownloadOptions{
		FileID:    args[0],
		LocalPath: localPath,
	})
	if err != nil {
		return reportError(err)
	}

	if reader != nil {
		defer func() { _ = reader.Close() }()
		if _, err := io.Copy(os.Stdout, reader); err != nil {
			return err
		}
		// Metadata goes to stderr so it does not mix with the content.
		if jsonOutput {
			return getFormatter().FormatDownload(os.Stderr, result)
		}
		return nil
	}

	return getFormatter().FormatDownload(os.Stdout, result)
}
