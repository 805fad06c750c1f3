package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/leadveramedia/Jarvis/internal/config"
	"github.com/leadveramedia/Jarvis/internal/google"
)

func newAuthCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google and store the OAuth token",
		Long: `Run the one-time Google OAuth consent flow. Prints the authorization
URL, reads the code from stdin and writes the token to the configured
token file. Re-run to replace an expired or revoked token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			conf, err := google.LoadOAuthConfig(cfg.Gmail.CredentialsFile)
			if err != nil {
				return err
			}

			if google.HasToken(cfg.Gmail.TokenFile) {
				fmt.Printf("A token already exists at %s and will be replaced.\n\n", cfg.Gmail.TokenFile)
			}

			fmt.Println("Open the following URL in a browser and grant access:")
			fmt.Println()
			fmt.Println("  " + conf.AuthCodeURL("state", oauth2.AccessTypeOffline))
			fmt.Println()
			fmt.Print("Enter the authorization code: ")

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			if err := google.Exchange(context.Background(), conf, code, cfg.Gmail.TokenFile); err != nil {
				return err
			}

			fmt.Printf("Token saved to %s. You can now run `jarvis process`.\n", cfg.Gmail.TokenFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "jarvis.toml", "Path to the configuration file")
	return cmd
}
