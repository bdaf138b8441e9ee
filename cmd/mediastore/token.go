package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/YamesYamerson/secure-multimedia-storage/config"
	"github.com/YamesYamerson/secure-multimedia-storage/identity"
	"github.com/YamesYamerson/secure-multimedia-storage/keybackend"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	Long: `Sign an HS256 bearer token with one of the configured HMAC keys.
Only available when auth.provider is hmac.`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().String("sub", "", "owner id to put in the sub claim")
	tokenCmd.Flags().String("username", "", "optional preferred_username claim")
	tokenCmd.Flags().String("kid", "", "signing key id (default: first configured key)")
	tokenCmd.Flags().Duration("ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("sub")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	if cfg.Auth.Provider != "hmac" {
		return fmt.Errorf("token: auth.provider is %q, tokens can only be minted for hmac", cfg.Auth.Provider)
	}

	secrets, err := keybackend.NewSecretStore(cfg.Auth.HMAC.Keys)
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}

	kid, _ := cmd.Flags().GetString("kid")
	if kid == "" {
		ids := secrets.KeyIDs()
		if len(ids) == 0 {
			return errors.New("token: no signing keys configured under auth.hmac.keys")
		}
		kid = ids[0]
	}

	sub, _ := cmd.Flags().GetString("sub")
	username, _ := cmd.Flags().GetString("username")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	token, err := identity.NewHMAC(secrets, cfg.Auth.HMAC).Mint(identity.MintRequest{
		KeyID:    kid,
		Subject:  sub,
		Username: username,
		TTL:      ttl,
	})
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
