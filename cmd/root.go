package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"smartcampus/api"
	"smartcampus/config"
)

// env is what every subcommand gets after the persistent pre-run.
type env struct {
	cfg    *config.Config
	client *api.Client
}

var current env

var rootCmd = &cobra.Command{
	Use:           "smartcampus",
	Short:         "Campus issue reporting and health monitoring: client commands and reference backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if _, err := config.NewLogger(cfg.Env, cfg.LogLevel); err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		if token, _ := cmd.Flags().GetString("token"); token != "" {
			cfg.APIToken = token
		}
		current = env{cfg: cfg, client: api.FromConfig(cfg)}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// Execute runs the root command with ctx, which is cancelled on interrupt by main.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("token", "", "bearer token for authenticated calls (overrides API_TOKEN)")
}
