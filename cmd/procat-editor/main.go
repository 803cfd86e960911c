package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-editor/internal/config"
	"github.com/light-bringer/procat-editor/internal/logging"
	"github.com/light-bringer/procat-editor/internal/services"
	"github.com/light-bringer/procat-editor/internal/transport/tui"
)

var (
	// Global flags
	configPath string
	storeURL   string
	logLevel   string
	verbose    bool
)

// rootCmd launches the interactive editor.
var rootCmd = &cobra.Command{
	Use:   "procat-editor",
	Short: "Edit product titles and submit only what changed",
	Long: `procat-editor lists the products of a record store, lets you edit titles
inline and sends back only the records whose titles differ from the last
persisted state.

Run without arguments to start the interactive editor.`,
	Version:       services.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&storeURL, "store-url", "", "Record store base URL (or set "+config.EnvStoreURL+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(renameCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration and applies flag overrides on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Read(configPath)
	if err != nil {
		return nil, err
	}
	if storeURL != "" {
		cfg.StoreURL = storeURL
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup builds the application. The caller closes the returned options and
// syncs the logger.
func setup(interactive bool) (*services.ServiceOptions, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging, interactive)
	if err != nil {
		return nil, err
	}

	opts, err := services.NewServiceOptions(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return opts, nil
}

func teardown(opts *services.ServiceOptions) {
	opts.Close()
	_ = opts.Logger.Sync()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	opts, err := setup(true)
	if err != nil {
		return err
	}
	defer teardown(opts)

	ctx, cancel := signalContext()
	defer cancel()

	opts.Logger.Info("starting editor", zap.String("store", opts.Config.StoreURL))

	return tui.Run(ctx, tui.Deps{
		LoadProducts: opts.LoadProducts,
		SubmitTitles: opts.SubmitTitles,
		EditTitle:    opts.EditTitle,
		GetSession:   opts.GetSession,
		Notifier:     opts.Notifier,
	})
}
