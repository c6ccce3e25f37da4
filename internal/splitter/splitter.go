// Package splitter turns a multi-track artifact into one file per chapter.
// Extraction is delegated to ffmpeg with stream copy; the splitter's own
// job is naming, ordering and titling the resulting tracks.
package splitter

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/devsjc-forks/beets-ytdlp/internal/downloaders/ytdlp"
	"github.com/devsjc-forks/beets-ytdlp/internal/pipeline"
	"github.com/devsjc-forks/beets-ytdlp/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Splitter struct {
	log zerolog.Logger
}

func New() *Splitter {
	return &Splitter{log: utils.GetLogger("splitter")}
}

// Split produces one TrackFile per valid chapter, in chapter order. With
// splitting disabled or no chapter metadata the fetched files pass through
// unchanged.
func (s *Splitter) Split(req pipeline.SourceRequest, res *pipeline.FetchResult) ([]pipeline.TrackFile, []pipeline.SplitWarning, error) {
	if !req.Config.SplitFiles || len(res.Chapters) == 0 {
		return passthrough(res), nil, nil
	}
	if len(res.Files) == 0 {
		return nil, nil, &pipeline.SplitError{Path: res.Dir, Err: fmt.Errorf("no source file to split")}
	}
	source := res.Files[0]
	if _, err := os.Stat(source); err != nil {
		return nil, nil, &pipeline.SplitError{Path: source, Err: err}
	}

	plan, warnings := buildPlan(res.Dir, filepath.Ext(source), res.Chapters)
	if len(plan) == 0 {
		return passthrough(res), warnings, nil
	}

	ffmpegPath, err := ytdlp.EnsureFFmpeg()
	if err != nil {
		return nil, warnings, &pipeline.SplitError{Path: source, Err: err}
	}

	tracks := make([]pipeline.TrackFile, 0, len(plan))
	for _, entry := range plan {
		if err := s.extract(ffmpegPath, source, entry); err != nil {
			return nil, warnings, &pipeline.SplitError{Path: source, Err: err}
		}
		if err := applyID3Title(entry.OutPath, entry.Title, entry.Index); err != nil {
			s.log.Warn().Str("op", "splitter/tag").Err(err).Msgf("failed to tag %s", entry.OutPath)
		}
		tracks = append(tracks, pipeline.TrackFile{
			Path:  entry.OutPath,
			Title: entry.Title,
			Index: entry.Index,
		})
	}

	// The container has been fully carved up; drop it so the import batch
	// holds only per-track files.
	if err := os.Remove(source); err != nil {
		s.log.Warn().Str("op", "splitter").Err(err).Msgf("failed to remove source container %s", source)
	}
	s.log.Info().Str("op", "splitter").Msgf("split %s into %d tracks", filepath.Base(source), len(tracks))
	return tracks, warnings, nil
}

func passthrough(res *pipeline.FetchResult) []pipeline.TrackFile {
	tracks := make([]pipeline.TrackFile, 0, len(res.Files))
	for i, file := range res.Files {
		title := res.Title
		if title == "" {
			title = trimExt(filepath.Base(file))
		}
		tracks = append(tracks, pipeline.TrackFile{Path: file, Title: title, Index: i + 1})
	}
	return tracks
}

func (s *Splitter) extract(ffmpegPath, source string, entry trackPlan) error {
	// Write to a marker-named temp file first so a failed ffmpeg run never
	// leaves a partial file under the final track name.
	tempPath := filepath.Join(filepath.Dir(entry.OutPath), "."+uuid.New().String()+filepath.Ext(entry.OutPath))
	args := []string{
		"-y",
		"-i", source,
		"-ss", fmt.Sprintf("%.3f", entry.Chapter.Start.Seconds()),
		"-to", fmt.Sprintf("%.3f", entry.Chapter.End.Seconds()),
		"-codec", "copy",
		"-metadata", fmt.Sprintf("title=%s", entry.Title),
		"-metadata", fmt.Sprintf("track=%d", entry.Index),
		tempPath,
	}
	cmd := exec.Command(ffmpegPath, args...)
	s.log.Debug().Str("op", "splitter/extract").Msgf("executing: %s", cmd.String())
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("ffmpeg error: %v\noutput: %s", err, string(output))
	}
	if err := os.Rename(tempPath, entry.OutPath); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
