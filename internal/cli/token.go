package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/lingo/internal/auth"
	"github.com/mrlokans/lingo/internal/config"
	"github.com/mrlokans/lingo/internal/services"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	UserID string
	Email  string
	TTL    time.Duration
}

// NewTokenCommand creates the token command. Tokens are normally issued by
// the auth service; this one is for local development.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development JWT with the configured secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(opts, config.NewConfig().Auth, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.UserID, "user", "", "user uuid (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email claim")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runToken(opts *TokenOptions, cfg config.Auth, cmd *cobra.Command) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	userID, err := services.NormalizeID(opts.UserID)
	if err != nil {
		return err
	}
	if opts.TTL <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	token, err := auth.NewVerifier(cfg).Issue(userID, opts.Email, opts.TTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
