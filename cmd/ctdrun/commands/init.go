package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ecairns22/ctdrun/internal/config"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "First-time setup: write config template, create directories, check the interpreter",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	// 1. Write template config if missing
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(config.TemplateConfig()), 0600); err != nil {
			return fmt.Errorf("writing config template: %w", err)
		}
		fmt.Fprintf(w, "  wrote config template to %s\n", path)
	}

	// 2. Load config
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	fmt.Fprintf(w, "  config loaded from %s\n", path)

	// 3. Create directories
	if err := os.MkdirAll(cfg.Checktestdata.ToolsDir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", cfg.Checktestdata.ToolsDir, err)
	}
	fmt.Fprintf(w, "  directory %s\n", cfg.Checktestdata.ToolsDir)

	// 4. Initialize history database
	if cfg.History.Enabled {
		store, err := openHistory(cmd.Context(), cfg)
		if err != nil {
			fmt.Fprintf(w, "  history (%s): FAILED (%v)\n", cfg.History.Driver, err)
			return err
		}
		store.Close()
		fmt.Fprintf(w, "  history (%s): OK\n", cfg.History.Driver)
	}

	// 5. Locate the interpreter
	interpreter, err := resolveInterpreter(cfg)
	if err != nil {
		fmt.Fprintf(w, "  checktestdata: NOT FOUND\n")
		fmt.Fprintf(w, "\nInstall checktestdata or run 'ctdrun fetch', then run 'ctdrun init' again.\n")
		return nil
	}
	fmt.Fprintf(w, "  checktestdata: %s\n", interpreter)

	fmt.Fprintf(w, "\nctdrun initialized successfully.\n")
	return nil
}
