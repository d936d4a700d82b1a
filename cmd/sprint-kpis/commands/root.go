package commands

import (
	"context"
	"os"
	"os/signal"

	"sprint-kpis/internal/config"
	"sprint-kpis/internal/logging"
	"sprint-kpis/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "sprint-kpis",
	Short: "Sprint KPI engine for Jira exports",
	Long: `Computes sprint KPIs (lead time, ticket age, bugs vs functionality, cycle time, rework)
from a Jira export. Without a subcommand it serves the metrics as MCP tools over stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("sprint-kpis starting")
		return nil
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sprint metrics as MCP tools over stdio",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mcp.Version = Version
	return mcp.NewServer(cfg).Serve(ctx)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(serveCmd)
}
