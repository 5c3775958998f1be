package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jsphweid/chordex/config"
	"github.com/spf13/cobra"
)

const sentryFlushTimeout = 2 * time.Second

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

var (
	configPath string
	cfg        *config.Config
	fileCfg    config.File
)

var rootCmd = &cobra.Command{
	Use:   "chordex",
	Short: "Chord theory engine",
	Long: `chordex builds the piano chord catalog, transposes and translates chord
progressions, and exports them as MIDI or PDF.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		var err error
		fileCfg, err = config.LoadFile(configPath)
		if err != nil {
			return err
		}
		initSentry(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML file with catalog and export settings")
}

func initSentry(cfg *config.Config) {
	if cfg.SentryDSN == "" {
		return
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     "chordex@" + releaseVersion,
		Debug:       !cfg.IsProduction(),
	}); err != nil {
		log.Printf("Failed to initialize Sentry: %v", err)
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer sentry.Flush(sentryFlushTimeout)
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}
