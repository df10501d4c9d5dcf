package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tubely/upload-api/internal/infrastructure/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an HS256 development token",
	Long:  `Signs a bearer token with the shared JWT secret. Intended for local development only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, _ := cmd.Flags().GetString("secret")
		issuer, _ := cmd.Flags().GetString("issuer")
		user, _ := cmd.Flags().GetString("user")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		if secret == "" {
			return fmt.Errorf("--secret or JWT_SECRET is required")
		}
		userID := uuid.New()
		if user != "" {
			parsed, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			userID = parsed
		}

		signed, err := auth.IssueToken(secret, issuer, userID, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("secret", envOr("JWT_SECRET", ""), "Shared JWT secret")
	tokenCmd.Flags().String("issuer", "tubely-access", "Token issuer")
	tokenCmd.Flags().String("user", "", "User id (default: random)")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
}
