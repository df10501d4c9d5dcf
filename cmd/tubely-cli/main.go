package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var (
	serverURL string
	token     string
	timeout   time.Duration
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tubely-cli",
	Short: "Command-line client for the Tubely upload API",
	Long: `tubely-cli creates video records and uploads their video and thumbnail files.

Examples:
  # Mint a development token
  export TUBELY_TOKEN=$(tubely-cli token --secret "$JWT_SECRET" --user 6f1c...)

  # Create a record and upload files
  tubely-cli videos create --title "Boots"
  tubely-cli videos upload 3b2a... ./boots.mp4
  tubely-cli thumbnails upload 3b2a... ./boots.png`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(thumbnailsCmd)
	rootCmd.AddCommand(tokenCmd)

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("TUBELY_SERVER", "http://localhost:8091"), "Upload API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("TUBELY_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Request timeout")
}

func newClient() *Client {
	return NewClient(serverURL, token, timeout)
}

func printJSON(cmd *cobra.Command, raw json.RawMessage) error {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		_, err = cmd.OutOrStdout().Write(raw)
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(cmd.OutOrStdout())
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
