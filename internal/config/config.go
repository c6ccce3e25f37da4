// Package config resolves the effective option set for one invocation by
// merging built-in defaults, the persisted YAML config file, and command
// line flags, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the effective option set after merging. YoutubeDLOptions is an
// opaque pass-through map handed to yt-dlp without validation; every other
// field is typed and strictly checked.
type Config struct {
	Download         bool           `yaml:"download"`
	SplitFiles       bool           `yaml:"split_files"`
	Import           bool           `yaml:"import"`
	KeepFiles        bool           `yaml:"keep_files"`
	Verbose          bool           `yaml:"verbose"`
	ForceDownload    bool           `yaml:"force_download"`
	URLs             []string       `yaml:"urls"`
	YoutubeDLOptions map[string]any `yaml:"youtubedl_options"`
	CacheDir         string         `yaml:"cache_dir"`
	BeetPath         string         `yaml:"beet_path"`
}

// ConfigError reports an unusable persisted configuration. It is fatal and
// aborts before any source is processed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Download:         true,
		SplitFiles:       true,
		Import:           true,
		KeepFiles:        false,
		Verbose:          false,
		ForceDownload:    false,
		URLs:             nil,
		YoutubeDLOptions: map[string]any{},
		CacheDir:         defaultCacheDir(),
		BeetPath:         "beet",
	}
}

func defaultCacheDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".beets-ytdlp")
	}
	return filepath.Join(base, "beets-ytdlp", "cache")
}

// Load reads a persisted config file and merges it over the defaults.
// A missing file is not an error; the defaults are returned unchanged.
// Unknown top-level keys and wrongly typed values yield a ConfigError.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, &ConfigError{Path: path, Err: err}
	}
	if err := unmarshalStrict(data, &cfg); err != nil {
		return cfg, &ConfigError{Path: path, Err: err}
	}
	if cfg.YoutubeDLOptions == nil {
		cfg.YoutubeDLOptions = map[string]any{}
	}
	return cfg, nil
}

func unmarshalStrict(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty or comment-only file holds no settings; the defaults
		// stand, same as a missing file.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// Overrides carries per-invocation flag values. Nil pointer fields mean the
// flag was not set and the persisted value stands.
type Overrides struct {
	Download      *bool
	SplitFiles    *bool
	Import        *bool
	KeepFiles     *bool
	Verbose       *bool
	ForceDownload *bool
	// Format is a flag-level yt-dlp format override; it is merged into
	// YoutubeDLOptions key-by-key rather than replacing the map.
	Format string
}

// Apply merges flag overrides over cfg and returns the result. cfg itself
// is not modified.
func Apply(cfg Config, o Overrides) Config {
	merged := cfg
	merged.YoutubeDLOptions = make(map[string]any, len(cfg.YoutubeDLOptions)+1)
	for k, v := range cfg.YoutubeDLOptions {
		merged.YoutubeDLOptions[k] = v
	}
	if o.Download != nil {
		merged.Download = *o.Download
	}
	if o.SplitFiles != nil {
		merged.SplitFiles = *o.SplitFiles
	}
	if o.Import != nil {
		merged.Import = *o.Import
	}
	if o.KeepFiles != nil {
		merged.KeepFiles = *o.KeepFiles
	}
	if o.Verbose != nil {
		merged.Verbose = *o.Verbose
	}
	if o.ForceDownload != nil {
		merged.ForceDownload = *o.ForceDownload
	}
	if o.Format != "" {
		merged.YoutubeDLOptions["format"] = o.Format
	}
	return merged
}

// DefaultPath returns the default location of the persisted config file.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".beets-ytdlp", "config.yml")
	}
	return filepath.Join(base, "beets-ytdlp", "config.yml")
}
