package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nikbrunner/rl/internal/config"
	"github.com/nikbrunner/rl/internal/library"
	"github.com/nikbrunner/rl/internal/logging"
	"github.com/nikbrunner/rl/internal/metadata"
	"github.com/nikbrunner/rl/internal/storage"
)

var version = "dev"

var (
	cfgFile string
	cfg     config.Config
	log     *logrus.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rl",
	Short: "A read-it-later manager with a small, capped Inbox.",
	Long: `rl captures links into a small Inbox and makes you triage them:
bookmark what is worth keeping, archive what you have read.

Run without arguments to open the interactive TUI.`,
	Version:           version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runTUI,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// flagKeys binds persistent flags to config keys.
var flagKeys = map[string]string{
	"loglevel":  config.KeyLogLevel,
	"backend":   config.KeyStorageBackend,
	"db":        config.KeyStoragePath,
	"max-inbox": config.KeyMaxInboxItems,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/rl/config.yaml)")

	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("backend", storage.BackendSQLite, "Storage backend: sqlite or json")
	rootCmd.PersistentFlags().String("db", "", "Path of the data file (default depends on backend)")
	rootCmd.PersistentFlags().Int("max-inbox", 5, "Maximum number of items in the Inbox")
	rootCmd.PersistentFlags().Bool("no-fetch", false, "Never fetch page titles")
}

// initConfig reads in config file, ENV variables and bound flags.
func initConfig(cmd *cobra.Command, args []string) error {
	v, err := config.New(cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}

	cfg, err = config.Load(v)
	if err != nil {
		return err
	}
	if noFetch, _ := cmd.Flags().GetBool("no-fetch"); noFetch {
		cfg.Fetch.Enabled = false
	}

	log, err = logging.New(cfg.LogLevel)
	return err
}

// bindFlags makes explicitly set flags override the file and environment.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// app is what a command needs to talk to the library.
type app struct {
	store   storage.Store
	lib     *library.Library
	fetcher *metadata.Fetcher // nil when fetching is disabled
}

func openApp() (*app, error) {
	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"backend": cfg.Storage.Backend, "path": cfg.Storage.Path}).Debug("storage opened")

	a := &app{store: store}
	opts := library.Options{
		MaxInboxItems: cfg.MaxInboxItems,
		Logger:        log,
	}
	if cfg.Fetch.Enabled {
		a.fetcher = metadata.New(metadata.Options{
			Timeout:   cfg.Fetch.Timeout,
			RetryMax:  cfg.Fetch.RetryMax,
			UserAgent: cfg.Fetch.UserAgent,
			Logger:    log,
		})
		opts.Fetcher = a.fetcher
	}
	a.lib = library.New(store, opts)
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.WithError(err).Warn("closing storage")
	}
}
