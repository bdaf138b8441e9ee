package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/YamesYamerson/secure-multimedia-storage/clientcli"
)

var (
	uploadName        string
	uploadTitle       string
	uploadDescription string
	uploadTags        []string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path>",
	Short: "Upload a file",
	Long: `Upload a file through the broker.

The file is declared to the broker, which validates its name and size and
returns a write URL. The file is then PUT to the object store and the upload
is confirmed. Only images, documents, videos and audio files are accepted,
up to 100 MiB.

Examples:
  mediastore-cli upload ./photo.jpg
  mediastore-cli upload ./scan.pdf --title "Lease" --tag contracts --tag 2024
  mediastore-cli upload /tmp/tmp123 --name report.pdf
  id=$(mediastore-cli upload -q ./clip.mp4)`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadName, "name", "", "file name to declare (default: base name of local path)")
	uploadCmd.Flags().StringVar(&uploadTitle, "title", "", "display title (default: file name)")
	uploadCmd.Flags().StringVar(&uploadDescription, "description", "", "display description")
	uploadCmd.Flags().StringArrayVar(&uploadTags, "tag", nil, "tag, repeatable")
}

func runUpload(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.Upload(cmd.Context(), clientcli.UploadOptions{
		LocalPath:   args[0],
		Name:        uploadName,
		Title:       uploadTitle,
		Description: uploadDescription,
		Tags:        uploadTags,
	})
	if err != nil {
		return reportError(err)
	}

	return getFormatter().FormatUpload(os.Stdout, result)
}
