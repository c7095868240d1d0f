package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"NewsBot/internal/app"
	"NewsBot/internal/config"
	"NewsBot/internal/logging"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "newsbot",
	Short: "Fetches news feeds, summarizes articles with an LLM, and posts them to X",
	Long: `newsbot ingests configured RSS feeds into a local database, deduplicates
entries by content fingerprint, and posts one pending article per cycle:
the oldest unposted article is summarized through a local LLM endpoint and
dispatched to X, after which its fingerprint is marked so it is never
posted again.`,
	SilenceUsage: true,
}

// loadApp builds the application from the config file (or NEWSBOT_CONFIG).
func loadApp() (*app.Application, error) {
	var cfg config.Config
	if configFile != "" {
		cfg = config.LoadPath(configFile)
	} else {
		cfg = config.Load()
	}

	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch configured feeds and store new articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loadApp()
		if err != nil {
			return err
		}
		defer application.Close()
		return application.Fetch(cmd.Context())
	},
}

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Summarize and post the oldest unposted article",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loadApp()
		if err != nil {
			return err
		}
		defer application.Close()
		return application.Post(cmd.Context())
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run ingest-then-post cycles on the configured interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loadApp()
		if err != nil {
			return err
		}
		defer application.Close()
		return application.RunLoop(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only listing of stored articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loadApp()
		if err != nil {
			return err
		}
		defer application.Close()
		return application.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to the YAML config file")
	rootCmd.AddCommand(fetchCmd, postCmd, runCmd, serveCmd, dbCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
