package pipeline

import (
	"time"

	"github.com/devsjc-forks/beets-ytdlp/internal/config"
)

// SourceRequest is one source identifier plus the effective configuration
// in force for this run. Immutable while the source is processed.
type SourceRequest struct {
	URL    string
	Config config.Config
}

// Chapter is one downloader-reported sub-segment of a fetched artifact.
type Chapter struct {
	Start time.Duration
	End   time.Duration
	Title string
}

// FetchResult describes the files produced for one SourceRequest and any
// chapter metadata reported by the downloader.
type FetchResult struct {
	URL      string
	ID       string
	Title    string
	Dir      string
	Files    []string
	Chapters []Chapter
}

// TrackFile is a single audio file plus its title metadata, either a fetched
// file passed through unchanged or one chapter extracted from it.
type TrackFile struct {
	Path  string
	Title string
	Index int
}

// ImportBatch is the directory holding the final track files for one source,
// handed to the host import routine.
type ImportBatch struct {
	Dir string
	// ID tags imported items so re-runs can be traced back to the source.
	ID string
	// Singleton marks artifacts without chapters; the import routine treats
	// them as standalone tracks instead of an album.
	Singleton bool
}

// Fetcher resolves a SourceRequest into files on disk, either by invoking
// the external downloader or by reusing the expected local destination.
type Fetcher interface {
	Fetch(req SourceRequest) (*FetchResult, error)
}

// Splitter turns a FetchResult into per-track files. With no chapters (or
// splitting disabled) it passes the fetched files through unchanged.
type Splitter interface {
	Split(req SourceRequest, res *FetchResult) ([]TrackFile, []SplitWarning, error)
}

// Importer hands an ImportBatch to the host library's import routine.
type Importer interface {
	Import(req SourceRequest, batch ImportBatch) error
}
