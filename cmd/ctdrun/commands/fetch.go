package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecairns22/ctdrun/internal/checktestdata"
	ghclient "github.com/ecairns22/ctdrun/internal/github"
)

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [version]",
		Short: "Download a prebuilt checktestdata release into the tools dir",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			gh, err := ghclient.New(cfg.GitHub.Token, cfg.GitHub.AssetPattern)
			if err != nil {
				return fmt.Errorf("creating github client: %w", err)
			}

			version := "latest"
			if len(args) == 1 {
				version = args[0]
			}
			ctx := cmd.Context()
			version, err = gh.ResolveVersion(ctx, cfg.GitHub.Owner, cfg.GitHub.Repo, version)
			if err != nil {
				return fmt.Errorf("resolving version: %w", err)
			}

			path, err := gh.DownloadAsset(ctx, cfg.GitHub.Owner, cfg.GitHub.Repo, version,
				checktestdata.ToolName, cfg.Checktestdata.ToolsDir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Installed %s %s to %s\n", checktestdata.ToolName, version, path)
			return nil
		},
	}
}
