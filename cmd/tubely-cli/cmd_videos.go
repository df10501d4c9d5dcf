package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Video record operations",
}

var videosCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a video record",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		raw, err := newClient().CreateVideo(cmd.Context(), title, description)
		if err != nil {
			return err
		}
		return printJSON(cmd, raw)
	},
}

var videosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your video records",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := newClient().ListVideos(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, raw)
	},
}

var videosGetCmd = &cobra.Command{
	Use:   "get [video-id]",
	Short: "Show a video record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := newClient().GetVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, raw)
	},
}

var videosAssetsCmd = &cobra.Command{
	Use:   "assets [video-id]",
	Short: "List the stored assets of a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := newClient().ListAssets(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, raw)
	},
}

var videosUploadCmd = &cobra.Command{
	Use:   "upload [video-id] [file]",
	Short: "Upload the MP4 file of a video",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpload(cmd, "video", args[0], args[1])
	},
}

func init() {
	videosCmd.AddCommand(videosCreateCmd, videosListCmd, videosGetCmd, videosAssetsCmd, videosUploadCmd)

	videosCreateCmd.Flags().String("title", "", "Video title")
	videosCreateCmd.Flags().String("description", "", "Video description")
	_ = videosCreateCmd.MarkFlagRequired("title")

	videosUploadCmd.Flags().String("content-type", "video/mp4", "Declared content type")
}

func runUpload(cmd *cobra.Command, kind, id, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	contentType, _ := cmd.Flags().GetString("content-type")
	raw, err := newClient().Upload(cmd.Context(), kind, id, path, contentType, file)
	if err != nil {
		return err
	}
	return printJSON(cmd, raw)
}
