package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devsjc-forks/beets-ytdlp/internal/config"
)

type fakeFetcher struct {
	results map[string]*FetchResult
	errs    map[string]error
	calls   []string
}

func (f *fakeFetcher) Fetch(req SourceRequest) (*FetchResult, error) {
	f.calls = append(f.calls, req.URL)
	if err, ok := f.errs[req.URL]; ok {
		return nil, err
	}
	res, ok := f.results[req.URL]
	if !ok {
		return nil, fmt.Errorf("unexpected fetch for %s", req.URL)
	}
	return res, nil
}

// fakeSplitter emits one track per chapter, or passes files through when
// there are none.
type fakeSplitter struct {
	warnings []SplitWarning
	err      error
}

func (s *fakeSplitter) Split(req SourceRequest, res *FetchResult) ([]TrackFile, []SplitWarning, error) {
	if s.err != nil {
		return nil, s.warnings, s.err
	}
	if len(res.Chapters) == 0 {
		tracks := make([]TrackFile, 0, len(res.Files))
		for i, file := range res.Files {
			tracks = append(tracks, TrackFile{Path: file, Title: res.Title, Index: i + 1})
		}
		return tracks, s.warnings, nil
	}
	tracks := make([]TrackFile, 0, len(res.Chapters))
	for i, chapter := range res.Chapters {
		tracks = append(tracks, TrackFile{
			Path:  filepath.Join(res.Dir, chapter.Title),
			Title: chapter.Title,
			Index: i + 1,
		})
	}
	return tracks, s.warnings, nil
}

type fakeImporter struct {
	batches []ImportBatch
	err     error
}

func (im *fakeImporter) Import(req SourceRequest, batch ImportBatch) error {
	im.batches = append(im.batches, batch)
	return im.err
}

func chapterResult(t *testing.T, url string, titles ...string) *FetchResult {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "artifact")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	res := &FetchResult{
		URL:   url,
		ID:    "id-" + url,
		Title: "Some Album",
		Dir:   dir,
		Files: []string{filepath.Join(dir, "album.m4a")},
	}
	for i, title := range titles {
		res.Chapters = append(res.Chapters, Chapter{
			Start: time.Duration(i) * time.Minute,
			End:   time.Duration(i+1) * time.Minute,
			Title: title,
		})
	}
	return res
}

func TestRunContinuesAfterDownloadFailure(t *testing.T) {
	resB := chapterResult(t, "urlB", "One", "Two", "Three")
	fetcher := &fakeFetcher{
		results: map[string]*FetchResult{"urlB": resB},
		errs:    map[string]error{"urlA": &DownloadError{URL: "urlA", Err: errors.New("boom")}},
	}
	importer := &fakeImporter{}
	runner := NewRunner(config.Default(), fetcher, &fakeSplitter{}, importer)

	report := runner.Run([]string{"urlA", "urlB"})

	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	var dlErr *DownloadError
	if !errors.As(report.Results[0].Err, &dlErr) {
		t.Errorf("urlA should fail with a DownloadError, got %v", report.Results[0].Err)
	}
	if report.Results[1].Err != nil {
		t.Errorf("urlB should succeed despite urlA failing, got %v", report.Results[1].Err)
	}
	if len(report.Results[1].Tracks) != 3 {
		t.Errorf("urlB should yield 3 tracks, got %d", len(report.Results[1].Tracks))
	}
	if !report.Results[1].Imported {
		t.Error("urlB should still be imported")
	}
	if len(importer.batches) != 1 || importer.batches[0].ID != "id-urlB" {
		t.Errorf("exactly urlB should reach the importer, got %v", importer.batches)
	}
	if !report.Failed() {
		t.Error("report must reflect the urlA failure for the exit code")
	}
}

func TestRunSingletonFlagForChapterlessArtifact(t *testing.T) {
	dir := t.TempDir()
	res := &FetchResult{
		URL:   "url",
		ID:    "xyz",
		Dir:   dir,
		Files: []string{filepath.Join(dir, "single.m4a")},
	}
	importer := &fakeImporter{}
	cfg := config.Default()
	cfg.KeepFiles = true
	runner := NewRunner(cfg, &fakeFetcher{results: map[string]*FetchResult{"url": res}}, &fakeSplitter{}, importer)

	runner.Run([]string{"url"})

	if len(importer.batches) != 1 {
		t.Fatalf("expected one import, got %d", len(importer.batches))
	}
	if !importer.batches[0].Singleton {
		t.Error("artifacts without chapters import as singletons")
	}
}

func TestRunSkipsImportWhenDisabled(t *testing.T) {
	res := chapterResult(t, "url", "One")
	importer := &fakeImporter{}
	cfg := config.Default()
	cfg.Import = false
	runner := NewRunner(cfg, &fakeFetcher{results: map[string]*FetchResult{"url": res}}, &fakeSplitter{}, importer)

	report := runner.Run([]string{"url"})

	if len(importer.batches) != 0 {
		t.Error("import=false must not invoke the import routine")
	}
	if report.Results[0].Err != nil {
		t.Errorf("skipping import is not a failure, got %v", report.Results[0].Err)
	}
	if _, err := os.Stat(res.Dir); err != nil {
		t.Error("files must be left in place for the deferred-import workflow")
	}
}

func TestRunValidationOnlyTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "album.m4a")
	if err := os.WriteFile(file, []byte("cached audio"), 0644); err != nil {
		t.Fatal(err)
	}
	res := &FetchResult{URL: "url", ID: "abc", Dir: dir, Files: []string{file}}
	importer := &fakeImporter{}
	cfg := config.Default()
	cfg.Download = false
	cfg.Import = false
	runner := NewRunner(cfg, &fakeFetcher{results: map[string]*FetchResult{"url": res}}, &fakeSplitter{}, importer)

	report := runner.Run([]string{"url"})

	if len(importer.batches) != 0 {
		t.Error("a validation run must not invoke the import routine")
	}
	if report.Results[0].Err != nil {
		t.Errorf("a validation run over cached files is not a failure, got %v", report.Results[0].Err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "album.m4a" {
		t.Errorf("the cached tree must be untouched, got %v", entries)
	}
	data, err := os.ReadFile(file)
	if err != nil || string(data) != "cached audio" {
		t.Errorf("cached file contents must be untouched, got %q, %v", data, err)
	}
}

func TestRunCleansUpAfterFailedImport(t *testing.T) {
	res := chapterResult(t, "url", "One")
	importer := &fakeImporter{err: &ImportError{Dir: res.Dir, Err: errors.New("beet exploded")}}
	runner := NewRunner(config.Default(), &fakeFetcher{results: map[string]*FetchResult{"url": res}}, &fakeSplitter{}, importer)

	report := runner.Run([]string{"url"})

	var impErr *ImportError
	if !errors.As(report.Results[0].Err, &impErr) {
		t.Fatalf("expected ImportError, got %v", report.Results[0].Err)
	}
	if _, err := os.Stat(res.Dir); !os.IsNotExist(err) {
		t.Error("intermediate files are deleted after import returns, success or not")
	}
}

func TestRunKeepsFilesWhenRequested(t *testing.T) {
	res := chapterResult(t, "url", "One")
	cfg := config.Default()
	cfg.KeepFiles = true
	runner := NewRunner(cfg, &fakeFetcher{results: map[string]*FetchResult{"url": res}}, &fakeSplitter{}, &fakeImporter{})

	runner.Run([]string{"url"})

	if _, err := os.Stat(res.Dir); err != nil {
		t.Error("keep_files=true must retain the downloaded files")
	}
}

func TestRunRecordsSplitFailure(t *testing.T) {
	res := chapterResult(t, "url", "One", "Two")
	splitErr := &SplitError{Path: res.Files[0], Err: errors.New("unreadable")}
	importer := &fakeImporter{}
	runner := NewRunner(config.Default(), &fakeFetcher{results: map[string]*FetchResult{"url": res}}, &fakeSplitter{err: splitErr}, importer)

	report := runner.Run([]string{"url"})

	var gotErr *SplitError
	if !errors.As(report.Results[0].Err, &gotErr) {
		t.Fatalf("expected SplitError, got %v", report.Results[0].Err)
	}
	if len(importer.batches) != 0 {
		t.Error("a failed split must not reach the importer")
	}
}

func TestRunSurfacesSplitWarnings(t *testing.T) {
	res := chapterResult(t, "url", "One")
	warnings := []SplitWarning{{Chapter: "Broken", Reason: "start offset 1m0s is not before end offset 1m0s"}}
	runner := NewRunner(config.Default(), &fakeFetcher{results: map[string]*FetchResult{"url": res}}, &fakeSplitter{warnings: warnings}, &fakeImporter{})

	report := runner.Run([]string{"url"})

	if len(report.Results[0].Warnings) != 1 {
		t.Fatalf("warnings must surface in the report, got %v", report.Results[0].Warnings)
	}
	if report.Results[0].Err != nil {
		t.Errorf("warnings alone never fail a source, got %v", report.Results[0].Err)
	}
}
