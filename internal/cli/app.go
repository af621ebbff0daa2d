// Package cli holds the plumbing shared by the mindmeld commands: loading
// the configuration, building the engine, rendering output and reporting
// errors.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eoinhurrell/mindmeld/internal/config"
	"github.com/eoinhurrell/mindmeld/internal/engine"
	"github.com/eoinhurrell/mindmeld/internal/errors"
	"github.com/eoinhurrell/mindmeld/internal/logging"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/store"
)

// App is everything a command needs once flags are parsed
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Store  *store.Store
	Engine *engine.Engine
}

// Setup loads the configuration named by the persistent flags, then opens
// the logger, the state database and the engine. Close releases them.
func Setup(cmd *cobra.Command) (*App, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	logger, err := logging.New(logging.Level(cfg.Log.Level, verbose, quiet), cfg.Log.Format)
	if err != nil {
		return nil, errors.NewConfigError("", err.Error())
	}

	s, err := store.Open(contextOf(cmd), cfg.StorePath())
	if err != nil {
		_ = logger.Sync()
		return nil, errors.NewStoreError("store.open", cfg.StorePath(), err)
	}

	e := engine.New(cfg, engine.WithLogger(logger), engine.WithStore(s))
	logger.Debug("engine ready",
		zap.String("vault", cfg.Vault.Path),
		zap.String("store", s.Path()),
	)
	return &App{Config: cfg, Logger: logger, Store: s, Engine: e}, nil
}

// LoadConfig loads the configuration and applies the --vault override
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.NewLoader(configFile).Load()
	if err != nil {
		return nil, err
	}

	if vaultPath, _ := cmd.Flags().GetString("vault"); vaultPath != "" {
		abs, err := filepath.Abs(vaultPath)
		if err != nil {
			return nil, fmt.Errorf("resolving vault path: %w", err)
		}
		cfg.Vault.Path = abs
	}
	return cfg, nil
}

// Close flushes the logger and closes the database
func (a *App) Close() error {
	_ = a.Logger.Sync()
	return a.Store.Close()
}

// Notes loads and analyzes every vault note
func (a *App) Notes(ctx context.Context) ([]model.Note, error) {
	return a.Engine.Notes(ctx)
}

// Run sets up an App, hands it to fn and closes it afterwards
func Run(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	app, err := Setup(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(contextOf(cmd), app)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// AddGlobalFlags registers the flags every command reads through Setup
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Config file (default: mindmeld.yaml in ., ~/.config/mindmeld or /etc/mindmeld)")
	cmd.PersistentFlags().String("vault", "", "Vault directory; overrides vault.path")
	cmd.PersistentFlags().Bool("verbose", false, "Detailed output, including debug logs")
	cmd.PersistentFlags().Bool("quiet", false, "Only print errors and results; overrides --verbose")
	cmd.PersistentFlags().StringP("format", "f", FormatText, "Output format (text, json, yaml)")
}
