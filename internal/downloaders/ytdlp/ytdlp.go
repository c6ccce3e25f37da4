// Package ytdlp invokes the external yt-dlp tool to fetch audio for one
// source identifier and reports the produced files plus any embedded
// chapter metadata. yt-dlp is an opaque collaborator: format negotiation,
// network failures and retries are its own business.
package ytdlp

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/devsjc-forks/beets-ytdlp/internal/pipeline"
	"github.com/devsjc-forks/beets-ytdlp/internal/utils"
	"github.com/rs/zerolog"
)

const infoFileName = "info.json"

var audioExtensions = map[string]bool{
	".m4a":  true,
	".mp3":  true,
	".opus": true,
	".ogg":  true,
	".flac": true,
	".wav":  true,
	".aac":  true,
	".webm": true,
	".mkv":  true,
	".mp4":  true,
}

type Downloader struct {
	log zerolog.Logger
}

func New() *Downloader {
	return &Downloader{log: utils.GetLogger("ytdlp")}
}

// Fetch resolves one SourceRequest into files on disk. With download
// enabled it probes the source for metadata, then invokes yt-dlp to
// extract audio into the per-source cache directory. With download
// disabled it reuses whatever a previous run left there.
func (d *Downloader) Fetch(req pipeline.SourceRequest) (*pipeline.FetchResult, error) {
	cfg := req.Config
	destDir := filepath.Join(utils.ExpandHome(cfg.CacheDir), cacheKey(req.URL))

	if !cfg.Download && !cfg.ForceDownload {
		return d.fromCache(req.URL, destDir)
	}
	if !cfg.ForceDownload {
		if res, err := d.fromCache(req.URL, destDir); err == nil {
			d.log.Info().Str("op", "ytdlp/fetch").Msgf("reusing cached files for %s", req.URL)
			return res, nil
		}
	}

	ytdlpPath, err := EnsureYtdlp(utils.ExpandHome(cfg.CacheDir))
	if err != nil {
		return nil, &pipeline.DownloadError{URL: req.URL, Err: err}
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, &pipeline.DownloadError{URL: req.URL, Err: err}
	}

	info, raw, err := d.probe(ytdlpPath, req.URL)
	if err != nil {
		return nil, &pipeline.DownloadError{URL: req.URL, Err: err}
	}
	if err := os.WriteFile(filepath.Join(destDir, infoFileName), raw, 0644); err != nil {
		return nil, &pipeline.DownloadError{URL: req.URL, Err: err}
	}

	if err := d.download(ytdlpPath, req.URL, destDir, cfg.YoutubeDLOptions); err != nil {
		return nil, &pipeline.DownloadError{URL: req.URL, Err: err}
	}

	files, err := collectAudioFiles(destDir)
	if err != nil {
		return nil, &pipeline.DownloadError{URL: req.URL, Err: err}
	}
	if len(files) == 0 {
		return nil, &pipeline.DownloadError{URL: req.URL, Err: fmt.Errorf("yt-dlp produced no audio files in %s", destDir)}
	}
	return &pipeline.FetchResult{
		URL:      req.URL,
		ID:       info.ID,
		Title:    info.Title,
		Dir:      destDir,
		Files:    files,
		Chapters: info.chapters(),
	}, nil
}

// probe mirrors an extract-without-download call: a single -J invocation
// that yields the media ID, title and chapter list before any bytes are
// fetched.
func (d *Downloader) probe(ytdlpPath, url string) (*mediaInfo, []byte, error) {
	cmd := exec.Command(ytdlpPath, "-J", "--no-warnings", "--no-playlist", url)
	d.log.Debug().Str("op", "ytdlp/probe").Msgf("executing: %s", cmd.String())
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, nil, fmt.Errorf("yt-dlp probe failed: %v: %s", err, firstLine(stderr.String()))
	}
	var info mediaInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, nil, fmt.Errorf("error parsing yt-dlp metadata: %v", err)
	}
	if info.ID == "" {
		return nil, nil, fmt.Errorf("yt-dlp reported no media ID")
	}
	return &info, stdout.Bytes(), nil
}

func (d *Downloader) download(ytdlpPath, url, destDir string, opts map[string]any) error {
	args := []string{
		"--progress",
		"--newline",
		"--no-warnings",
		"--no-playlist",
		"-x",
		"-o", filepath.Join(destDir, "%(title)s.%(ext)s"),
	}
	args = append(args, RenderArgs(opts)...)
	args = append(args, url)
	cmd := exec.Command(ytdlpPath, args...)
	d.log.Debug().Str("op", "ytdlp/download").Msgf("executing: %s", cmd.String())

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("error creating stdout pipe: %v", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("error creating stderr pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("error starting yt-dlp: %v", err)
	}
	go d.streamLines(stdout)
	go d.streamLines(stderr)
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("yt-dlp failed: %v", err)
	}
	d.log.Info().Str("op", "ytdlp/download").Msgf("yt-dlp download completed for %s", url)
	return nil
}

func (d *Downloader) streamLines(reader io.Reader) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			d.log.Debug().Str("op", "ytdlp/stream").Msg(line)
		}
	}
}

// fromCache resolves a FetchResult from files already present in the
// expected destination directory, the skip-download path.
func (d *Downloader) fromCache(url, destDir string) (*pipeline.FetchResult, error) {
	files, err := collectAudioFiles(destDir)
	if err != nil || len(files) == 0 {
		return nil, &pipeline.DownloadError{URL: url, Err: fmt.Errorf("no downloaded files in %s (download disabled)", destDir)}
	}
	res := &pipeline.FetchResult{URL: url, Dir: destDir, Files: files}
	if data, err := os.ReadFile(filepath.Join(destDir, infoFileName)); err == nil {
		var info mediaInfo
		if err := json.Unmarshal(data, &info); err == nil {
			res.ID = info.ID
			res.Title = info.Title
			res.Chapters = info.chapters()
		}
	}
	if res.ID == "" {
		res.ID = cacheKey(url)
	}
	return res, nil
}

func collectAudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// cacheKey derives a stable per-source directory name from the URL.
func cacheKey(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:12]
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

type mediaInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Ext      string `json:"ext"`
	Chapters []struct {
		StartTime float64 `json:"start_time"`
		EndTime   float64 `json:"end_time"`
		Title     string  `json:"title"`
	} `json:"chapters"`
}

func (m *mediaInfo) chapters() []pipeline.Chapter {
	if len(m.Chapters) == 0 {
		return nil
	}
	chapters := make([]pipeline.Chapter, 0, len(m.Chapters))
	for _, c := range m.Chapters {
		chapters = append(chapters, pipeline.Chapter{
			Start: time.Duration(c.StartTime * float64(time.Second)),
			End:   time.Duration(c.EndTime * float64(time.Second)),
			Title: c.Title,
		})
	}
	return chapters
}
