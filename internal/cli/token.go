package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"trivia-service/internal/auth"
	"trivia-service/internal/config"
)

// NewTokenCmd groups credential minting commands for operators. The player
// flow never grants the admin role; this command is the manual provisioning
// path for it.
func NewTokenCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint credentials for operators",
	}

	var subject string
	var ttl time.Duration

	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Print a signed admin credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			secret := cfg.Auth.Secret
			if secret == "" {
				log.Printf("auth.secret not configured, using built-in dev secret")
				secret = devSecret
			}
			issuer := auth.NewIssuer(secret, ttl, nil)
			token, err := issuer.IssueAdmin(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	adminCmd.Flags().StringVar(&subject, "subject", "admin", "subject claim for the credential")
	adminCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "credential lifetime")

	cmd.AddCommand(adminCmd)
	return cmd
}
