// Package pipeline runs the download-split-import flow for each source
// identifier in turn. Processing is strictly sequential: one source runs to
// completion before the next begins, and a per-source failure never stops
// the remaining sources.
package pipeline

import (
	"os"
	"path/filepath"

	"github.com/devsjc-forks/beets-ytdlp/internal/config"
	"github.com/devsjc-forks/beets-ytdlp/internal/utils"
	"github.com/rs/zerolog"
)

// SourceResult records the outcome of one source identifier.
type SourceResult struct {
	URL      string
	Tracks   []TrackFile
	Warnings []SplitWarning
	Imported bool
	Err      error
}

// Report is the outcome of one invocation, one result per source.
type Report struct {
	Results []SourceResult
}

// Failed reports whether any source failed at any stage.
func (r Report) Failed() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return true
		}
	}
	return false
}

type Runner struct {
	cfg      config.Config
	fetcher  Fetcher
	splitter Splitter
	importer Importer
	log      zerolog.Logger
}

func NewRunner(cfg config.Config, fetcher Fetcher, splitter Splitter, importer Importer) *Runner {
	return &Runner{
		cfg:      cfg,
		fetcher:  fetcher,
		splitter: splitter,
		importer: importer,
		log:      utils.GetLogger("pipeline"),
	}
}

// Run processes every source to completion, in order.
func (r *Runner) Run(sources []string) Report {
	report := Report{Results: make([]SourceResult, 0, len(sources))}
	for _, url := range sources {
		report.Results = append(report.Results, r.processSource(url))
	}
	return report
}

func (r *Runner) processSource(url string) SourceResult {
	req := SourceRequest{URL: url, Config: r.cfg}
	result := SourceResult{URL: url}

	res, err := r.fetcher.Fetch(req)
	if err != nil {
		result.Err = err
		return result
	}
	r.log.Debug().Str("op", "pipeline/fetch").Str("url", url).
		Int("files", len(res.Files)).Int("chapters", len(res.Chapters)).
		Msg("fetch resolved")

	tracks, warnings, err := r.splitter.Split(req, res)
	result.Warnings = warnings
	if err != nil {
		result.Err = err
		return result
	}
	result.Tracks = tracks

	if !r.cfg.Import {
		r.log.Info().Str("op", "pipeline/import").Str("url", url).
			Msgf("skipping import, files left in %s", res.Dir)
		return result
	}

	batch := ImportBatch{
		Dir:       res.Dir,
		ID:        res.ID,
		Singleton: len(res.Chapters) == 0,
	}
	importErr := r.importer.Import(req, batch)
	if importErr == nil {
		result.Imported = true
	} else {
		result.Err = importErr
	}

	// Intermediate files go away after the import routine returns, whether
	// it succeeded or not, unless the user asked to keep them.
	if !r.cfg.KeepFiles {
		r.cleanup(res.Dir)
	} else {
		r.log.Info().Str("op", "pipeline/cleanup").Msgf("keeping downloaded files in %s", res.Dir)
	}
	return result
}

func (r *Runner) cleanup(dir string) {
	if dir == "" || dir == string(filepath.Separator) {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		r.log.Warn().Str("op", "pipeline/cleanup").Err(err).Msgf("failed to remove %s", dir)
	}
}
