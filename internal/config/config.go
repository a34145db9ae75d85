// Package config handles configuration loading and validation.
// TOML is the native format; YAML files (config.yml) are accepted too.
// Both are parsed as data only.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"dcytdl/internal/httputil"
)

// Config holds all application configuration.
type Config struct {
	UserAgent string  `toml:"user_agent" yaml:"user_agent"`
	Renderer  string  `toml:"renderer" yaml:"renderer"`
	OutputDir string  `toml:"output_directory" yaml:"output_directory"`
	Debug     bool    `toml:"debug" yaml:"debug"`
	Browser   Browser `toml:"browser" yaml:"browser"`
	YouTube   YouTube `toml:"youtube" yaml:"youtube"`
	YtDlp     YtDlp   `toml:"yt_dlp" yaml:"yt_dlp"`
}

// Browser configures the headless browser used to render release pages.
type Browser struct {
	Headless bool   `toml:"headless" yaml:"headless"`
	Bin      string `toml:"bin" yaml:"bin"`         // Chrome/Chromium binary, empty to let rod pick one
	Timeout  int    `toml:"timeout" yaml:"timeout"` // page load timeout in seconds
}

// YouTube holds the URL template used to build video URLs from IDs.
type YouTube struct {
	VideoBaseURL string `toml:"video_base_url" yaml:"video_base_url"`
}

// YtDlp holds downloader options passed through to yt-dlp.
type YtDlp struct {
	Binary            string `toml:"binary" yaml:"binary"`
	Format            string `toml:"format" yaml:"format"`
	OutputTemplate    string `toml:"output_template" yaml:"output_template"`
	ExtractAudio      bool   `toml:"extract_audio" yaml:"extract_audio"`
	AudioFormat       string `toml:"audio_format" yaml:"audio_format"`
	RestrictFilenames bool   `toml:"restrict_filenames" yaml:"restrict_filenames"`

	// Args are raw yt-dlp command line arguments for options not covered
	// above, e.g. ["--embed-metadata", "--paths", "home:/music"].
	Args []string `toml:"args" yaml:"args"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		UserAgent: httputil.DefaultUserAgent,
		Renderer:  "browser",
		OutputDir: ".",
		Browser: Browser{
			Headless: true,
			Timeout:  60,
		},
		YouTube: YouTube{
			VideoBaseURL: "https://www.youtube.com/watch?v=",
		},
		YtDlp: YtDlp{
			Format:         "bestaudio/best",
			OutputTemplate: "%(title)s [%(id)s].%(ext)s",
			AudioFormat:    "mp3",
		},
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dcytdl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "dcytdl"), nil
}

// SearchPaths returns the files Load tries, in order, when no explicit
// path is given: the working directory first, then the user config dir.
func SearchPaths() []string {
	paths := []string{"config.toml", "config.yml", "config.yaml"}
	if dir, err := configDir(); err == nil {
		paths = append(paths,
			filepath.Join(dir, "config.toml"),
			filepath.Join(dir, "config.yml"),
		)
	}
	return paths
}

// Load reads the config file and merges it with defaults.
// An explicit path must exist. Without one, the first existing file from
// SearchPaths is used, and defaults are returned if there is none.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		for _, p := range SearchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// decode parses data into cfg. Unknown keys are an error so that a
// misspelled or unsupported option is never silently ignored.
func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return unknownKeyHint(err)
		}
		return nil
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return unknownKeyHint(fmt.Errorf("unknown keys: %s", strings.Join(keys, ", ")))
		}
		return nil
	}
}

func unknownKeyHint(err error) error {
	return fmt.Errorf("%w (other yt-dlp options go in yt_dlp.args)", err)
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validRenderers := map[string]bool{
		"browser": true, "http": true,
	}
	if !validRenderers[strings.ToLower(c.Renderer)] {
		return fmt.Errorf("unsupported renderer %q (valid: browser, http)", c.Renderer)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user_agent cannot be empty")
	}

	if err := httputil.ValidateURL(c.YouTube.VideoBaseURL); err != nil {
		return fmt.Errorf("youtube.video_base_url: %w", err)
	}

	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("browser.timeout must be positive, got %d", c.Browser.Timeout)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_directory cannot be empty")
	}

	if c.YtDlp.ExtractAudio && c.YtDlp.AudioFormat == "" {
		return fmt.Errorf("yt_dlp.audio_format is required when extract_audio is set")
	}

	return nil
}

// ExpandOutputDir resolves ~ in the output directory path.
func (c *Config) ExpandOutputDir() (string, error) {
	dir := c.OutputDir
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}
