package cmd

import (
	"fmt"
	"os"

	"github.com/devsjc-forks/beets-ytdlp/internal/config"
	"github.com/devsjc-forks/beets-ytdlp/internal/output"
	"github.com/devsjc-forks/beets-ytdlp/internal/utils"
	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove all cached downloads and bootstrapped binaries",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(configPath)
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(2)
			}
			cacheDir := utils.ExpandHome(cfg.CacheDir)
			if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
				output.PrintInfo("Cache is already empty")
				return
			}
			if err := os.RemoveAll(cacheDir); err != nil {
				output.PrintError(fmt.Sprintf("Error cleaning cache: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("Removed cache directory %s", cacheDir))
		},
	}
}
