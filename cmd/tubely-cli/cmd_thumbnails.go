package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails",
	Short: "Thumbnail operations",
}

var thumbnailsUploadCmd = &cobra.Command{
	Use:   "upload [video-id] [file]",
	Short: "Upload the thumbnail of a video",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpload(cmd, "thumbnail", args[0], args[1])
	},
}

var thumbnailsGetCmd = &cobra.Command{
	Use:   "get [video-id]",
	Short: "Download a thumbnail served from the in-memory registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, contentType, err := newClient().GetThumbnail(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved %d bytes of %s to %s\n", len(data), contentType, output)
		return nil
	},
}

func init() {
	thumbnailsCmd.AddCommand(thumbnailsUploadCmd, thumbnailsGetCmd)

	thumbnailsUploadCmd.Flags().String("content-type", "", "Declared content type (default: from extension)")
	thumbnailsGetCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
}
