package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leadveramedia/Jarvis/internal/asana"
	"github.com/leadveramedia/Jarvis/internal/config"
	"github.com/leadveramedia/Jarvis/internal/gemini"
	"github.com/leadveramedia/Jarvis/internal/gmail"
	"github.com/leadveramedia/Jarvis/internal/pipeline"
)

func newProcessCmd() *cobra.Command {
	var configPath string
	var limit int64
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process unread emails into Asana tasks",
		Long: `Fetch unread messages from the configured Gmail inbox, evaluate each
with Gemini, create Asana tasks for the actionable ones and mark the
messages read. Prints a per-email progress report and a final summary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if limit > 0 {
				cfg.Pipeline.FetchLimit = limit
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := context.Background()

			mailbox, err := gmail.NewClient(ctx, cfg.Gmail.CredentialsFile, cfg.Gmail.TokenFile)
			if err != nil {
				return fmt.Errorf("failed to create Gmail client: %w", err)
			}

			model, err := gemini.NewClient(gemini.ClientConfig{
				APIKey: cfg.GeminiAPIKey,
				Model:  cfg.Gemini.Model,
			})
			if err != nil {
				return fmt.Errorf("failed to create Gemini client: %w", err)
			}
			classifier := gemini.NewEvaluator(model, cfg.Team)

			tracker, err := asana.NewClient(asana.ClientConfig{
				AccessToken: cfg.AsanaToken,
				ProjectGID:  cfg.AsanaProjectGID,
			})
			if err != nil {
				return fmt.Errorf("failed to create Asana client: %w", err)
			}

			opts := pipeline.Options{
				FetchLimit:         cfg.Pipeline.FetchLimit,
				PriorityBypass:     cfg.Pipeline.PriorityBypass,
				PriorityDomains:    cfg.Pipeline.PriorityDomains,
				FilterUnsubscribe:  cfg.Pipeline.FilterUnsubscribe,
				UnsubscribePhrases: cfg.Pipeline.UnsubscribePhrases,
				DryRun:             dryRun,
			}

			p := pipeline.New(mailbox, classifier, tracker, cfg.Team, opts, os.Stdout)
			_, err = p.Run(ctx)
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "jarvis.toml", "Path to the configuration file")
	cmd.Flags().Int64Var(&limit, "limit", 0, "Override the configured unread fetch limit")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Evaluate emails but create no tasks and mark nothing read")
	return cmd
}
