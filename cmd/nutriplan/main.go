package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"nutriplan/cmd/nutriplan/tui"
	"nutriplan/cmd/nutriplan/ui"
	"nutriplan/internal/app"
	"nutriplan/internal/config"
	"nutriplan/internal/gateway"
	"nutriplan/internal/logging"
	"nutriplan/internal/store"
)

// options holds the global flags and the state PersistentPreRunE loads.
type options struct {
	verbose    bool
	configPath string
	dbPath     string
	offline    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "nutriplan",
		Short: "NutriPlan - AI weekly meal plans for your training schedule",
		Long: `NutriPlan generates a structured seven-day meal plan from your profile
and weekly training schedule, keeps every generated plan, and logs your
body-metric progress.

Run without arguments to start the interactive interface.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.logger != nil {
				_ = o.logger.Sync()
			}
			logging.CloseAll()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runInteractive(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "Config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&o.dbPath, "db", "", "Database path (overrides storage.path)")
	rootCmd.PersistentFlags().BoolVar(&o.offline, "offline", false, "Use the built-in sample generator instead of Gemini")

	rootCmd.AddCommand(
		newGenerateCmd(o),
		newPlansCmd(o),
		newProgressCmd(o),
		newConfigCmd(o),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config, builds the zap logger and initializes file logging.
func (o *options) setup() error {
	path := o.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
		o.configPath = path
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if o.dbPath != "" {
		cfg.Storage.Path = o.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	o.cfg = cfg

	zcfg := zap.NewProductionConfig()
	if o.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if o.logger, err = zcfg.Build(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}
	if err := logging.Initialize(filepath.Dir(dbPath), logging.Settings{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.JSONFormat,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		o.logger.Warn("File logging disabled", zap.Error(err))
	}
	logging.Boot("Config loaded from %s", path)
	if cfg.LLM.APIKey == "" && !o.offline {
		logging.BootWarn("No Gemini API key configured; only offline generation will work")
	}
	return nil
}

// openRecords opens the configured store. The caller closes the returned KV.
func (o *options) openRecords() (*store.Records, store.KV, error) {
	path, err := o.cfg.DatabasePath()
	if err != nil {
		return nil, nil, err
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	kv, err := store.OpenSQLite(o.cfg.Storage.Driver, path)
	if err != nil {
		return nil, nil, err
	}
	o.logger.Debug("Store opened",
		zap.String("path", path),
		zap.String("driver", kv.Driver()),
		zap.Int("schema_version", kv.SchemaVersion()))
	return store.NewRecords(kv), kv, nil
}

// loadApp opens the store and builds the persisted application state.
func (o *options) loadApp(ctx context.Context) (*app.App, store.KV, error) {
	records, kv, err := o.openRecords()
	if err != nil {
		return nil, nil, err
	}
	return app.Load(ctx, records), kv, nil
}

// generator returns the fixture with --offline, otherwise the Gemini gateway.
func (o *options) generator(ctx context.Context) (gateway.Generator, error) {
	if o.offline {
		o.logger.Info("Using offline sample generator")
		return gateway.NewFixture(), nil
	}
	if err := o.cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	gen, err := gateway.NewGeminiGenerator(ctx, gateway.GeminiConfig{
		APIKey:   o.cfg.LLM.APIKey,
		Model:    o.cfg.LLM.Model,
		Timeout:  o.cfg.GetLLMTimeout(),
		Language: o.cfg.LLM.Language,
	})
	if err != nil {
		return nil, err
	}
	o.logger.Debug("Gemini generator ready", zap.String("model", gen.Model()))
	return gen, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (o *options) runInteractive(cmd *cobra.Command) error {
	ctx, cancel := signalContext()
	defer cancel()

	gen, err := o.generator(ctx)
	if err != nil {
		return err
	}
	a, kv, err := o.loadApp(ctx)
	if err != nil {
		return err
	}
	defer kv.Close()

	styles := ui.NewStyles(ui.DetectTheme(o.cfg.UI.DarkMode))
	p := tea.NewProgram(tui.New(ctx, a, gen, styles), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	if err := a.PersistErr(); err != nil {
		o.logger.Warn("Last save failed", zap.Error(err))
	}
	return nil
}
