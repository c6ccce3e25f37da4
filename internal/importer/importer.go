// Package importer hands finished track directories to the beets import
// routine. beets performs its own file discovery, matching and database
// insertion; this package only constructs and runs the command.
package importer

import (
	"os"
	"os/exec"

	"github.com/devsjc-forks/beets-ytdlp/internal/config"
	"github.com/devsjc-forks/beets-ytdlp/internal/pipeline"
	"github.com/devsjc-forks/beets-ytdlp/internal/utils"
	"github.com/rs/zerolog"
)

type Importer struct {
	log zerolog.Logger
}

func New() *Importer {
	return &Importer{log: utils.GetLogger("importer")}
}

// Import runs `beet import` against the batch directory and blocks until it
// returns. beets may prompt the user, so the subprocess inherits stdio.
func (im *Importer) Import(req pipeline.SourceRequest, batch pipeline.ImportBatch) error {
	args := BuildArgs(req.Config, batch)
	cmd := exec.Command(req.Config.BeetPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	im.log.Debug().Str("op", "importer").Msgf("executing: %s", cmd.String())
	if err := cmd.Run(); err != nil {
		return &pipeline.ImportError{Dir: batch.Dir, Err: err}
	}
	im.log.Info().Str("op", "importer").Msgf("imported %s", batch.Dir)
	return nil
}

// BuildArgs assembles the beet command line for one batch. A develop beets
// environment gets its own config file, matching the upstream workflow.
func BuildArgs(cfg config.Config, batch pipeline.ImportBatch) []string {
	var args []string
	if os.Getenv("BEETS_ENV") == "develop" {
		args = append(args, "-c", "env.config.yml")
	}
	if cfg.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "import", "--set", "ydl="+batch.ID)
	if batch.Singleton {
		args = append(args, "--singletons")
	}
	args = append(args, batch.Dir)
	return args
}
