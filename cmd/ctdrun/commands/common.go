package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ecairns22/ctdrun/internal/checktestdata"
	"github.com/ecairns22/ctdrun/internal/config"
	"github.com/ecairns22/ctdrun/internal/runner"
	"github.com/ecairns22/ctdrun/internal/state"
	"github.com/ecairns22/ctdrun/internal/tools"
	"github.com/ecairns22/ctdrun/internal/validation"
)

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "ctdrun",
		Level:  level,
	})
}

// resolveInterpreter locates checktestdata once per process. The tools dir
// is searched after any configured search dirs so that 'ctdrun fetch' works
// without further configuration.
func resolveInterpreter(cfg *config.Config) (string, error) {
	r := tools.Resolver{
		Override:   cfg.Checktestdata.Path,
		SearchDirs: append(append([]string(nil), cfg.Checktestdata.SearchDirs...), cfg.Checktestdata.ToolsDir),
	}
	path, err := r.Resolve(checktestdata.ToolName)
	if err != nil {
		return "", fmt.Errorf("%w: %v; install it on PATH, set checktestdata.path, or run 'ctdrun fetch'", checktestdata.ErrToolNotFound, err)
	}
	return path, nil
}

func openHistory(ctx context.Context, cfg *config.Config) (*state.Store, error) {
	if cfg.History.Driver == "sqlite" && cfg.History.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.History.DSN), 0755); err != nil {
			return nil, fmt.Errorf("creating history dir: %w", err)
		}
	}
	store, err := state.OpenConfigured(ctx, cfg.History.Driver, cfg.History.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return store, nil
}

// buildService loads config, resolves the interpreter and opens history
// into a validation.Service. The caller is responsible for calling the
// returned cleanup function.
func buildService(cmd *cobra.Command, withHistory bool) (*validation.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(cmd, cfg)

	interpreter, err := resolveInterpreter(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("resolved interpreter", "path", interpreter)

	cleanup := func() {}
	var recorder validation.RunRecorder
	if withHistory && cfg.History.Enabled {
		store, err := openHistory(cmd.Context(), cfg)
		if err != nil {
			// Validation does not depend on history.
			logger.Warn("history disabled", "error", err)
		} else {
			recorder = store
			cleanup = func() { store.Close() }
		}
	}

	svc := validation.New(cfg, interpreter, &runner.OSRunner{}, recorder, logger)
	return svc, cleanup, nil
}
