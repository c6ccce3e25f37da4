package cmd

import (
	"fmt"
	"os"

	"github.com/devsjc-forks/beets-ytdlp/internal/config"
	"github.com/devsjc-forks/beets-ytdlp/internal/downloaders/ytdlp"
	"github.com/devsjc-forks/beets-ytdlp/internal/importer"
	"github.com/devsjc-forks/beets-ytdlp/internal/output"
	"github.com/devsjc-forks/beets-ytdlp/internal/pipeline"
	"github.com/devsjc-forks/beets-ytdlp/internal/splitter"
	"github.com/devsjc-forks/beets-ytdlp/internal/utils"
	"github.com/spf13/cobra"
)

var (
	configPath    string
	debug         bool
	formatFlag    string
	forceDownload bool

	download    bool
	noDownload  bool
	splitFiles  bool
	noSplit     bool
	doImport    bool
	noImport    bool
	keepFiles   bool
	noKeepFiles bool
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "beets-ytdlp [URL...]",
	Short:   "Download audio with yt-dlp, split it into tracks, and import it into beets",
	Version: Version,
	Args:    cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)

		cfg, err := config.Load(configPath)
		if err != nil {
			output.PrintError(err.Error())
			os.Exit(2)
		}
		overrides, err := collectOverrides(cmd)
		if err != nil {
			output.PrintError(err.Error())
			os.Exit(2)
		}
		cfg = config.Apply(cfg, overrides)
		if cfg.Verbose && !debug {
			utils.InitLogger(true)
		}

		sources, err := pipeline.ResolveSources(args, cfg.URLs)
		if err != nil {
			output.PrintError(err.Error())
			os.Exit(1)
		}

		runner := pipeline.NewRunner(cfg, ytdlp.New(), splitter.New(), importer.New())
		report := runner.Run(sources)
		output.PrintReport(report)
		if report.Failed() {
			os.Exit(1)
		}
	},
}

// collectOverrides turns the paired --x/--no-x flags into merge overrides.
// Only flags the user actually set override the persisted config.
func collectOverrides(cmd *cobra.Command) (config.Overrides, error) {
	var overrides config.Overrides
	var err error
	if overrides.Download, err = pairedBool(cmd, "download", "no-download", download); err != nil {
		return overrides, err
	}
	if overrides.SplitFiles, err = pairedBool(cmd, "split-files", "no-split-files", splitFiles); err != nil {
		return overrides, err
	}
	if overrides.Import, err = pairedBool(cmd, "import", "no-import", doImport); err != nil {
		return overrides, err
	}
	if overrides.KeepFiles, err = pairedBool(cmd, "keep-files", "no-keep-files", keepFiles); err != nil {
		return overrides, err
	}
	if cmd.Flags().Changed("force-download") {
		overrides.ForceDownload = &forceDownload
	}
	if debug {
		verbose := true
		overrides.Verbose = &verbose
	}
	overrides.Format = formatFlag
	return overrides, nil
}

func pairedBool(cmd *cobra.Command, positive, negative string, positiveValue bool) (*bool, error) {
	posSet := cmd.Flags().Changed(positive)
	negSet := cmd.Flags().Changed(negative)
	if posSet && negSet {
		return nil, fmt.Errorf("cannot specify --%s and --%s together, choose one", positive, negative)
	}
	if posSet {
		v := positiveValue
		return &v, nil
	}
	if negSet {
		v := false
		return &v, nil
	}
	return nil, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Path to config file")
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "yt-dlp format override (merged into youtubedl_options)")
	rootCmd.Flags().BoolVar(&forceDownload, "force-download", false, "Download even when cached files exist")

	rootCmd.Flags().BoolVar(&download, "download", true, "Fetch sources with yt-dlp")
	rootCmd.Flags().BoolVar(&noDownload, "no-download", false, "Skip the fetch step, reuse cached files")
	rootCmd.Flags().BoolVar(&splitFiles, "split-files", true, "Split multi-track artifacts at chapter boundaries")
	rootCmd.Flags().BoolVar(&noSplit, "no-split-files", false, "Keep fetched artifacts whole")
	rootCmd.Flags().BoolVar(&doImport, "import", true, "Run beet import on the resulting directory")
	rootCmd.Flags().BoolVar(&noImport, "no-import", false, "Leave files in place for a later import")
	rootCmd.Flags().BoolVar(&keepFiles, "keep-files", false, "Keep intermediate files after import")
	rootCmd.Flags().BoolVar(&noKeepFiles, "no-keep-files", false, "Delete intermediate files after import")

	// flags without shorthand
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newCleanCmd())
}
