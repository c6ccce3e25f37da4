package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoSources means neither command arguments nor configured URLs were
// given; the command exits without invoking any downstream component.
var ErrNoSources = errors.New("no sources: pass URLs as arguments or set 'urls' in the config")

// DownloadError is a per-source fetch failure. Remaining sources continue.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed for %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// SplitError is a per-source split failure: the source file could not be
// read or the extraction tool reported failure.
type SplitError struct {
	Path string
	Err  error
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("split failed for %s: %v", e.Path, e.Err)
}

func (e *SplitError) Unwrap() error { return e.Err }

// SplitWarning reports a chapter that was skipped without aborting the
// split, such as an entry whose start offset is not before its end.
type SplitWarning struct {
	Chapter string
	Reason  string
}

func (w SplitWarning) String() string {
	return fmt.Sprintf("skipped chapter %q: %s", w.Chapter, w.Reason)
}

// ImportError is a per-source import failure raised by the host library.
type ImportError struct {
	Dir string
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed for %s: %v", e.Dir, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }
