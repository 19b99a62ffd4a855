// Package config loads harvester settings from an optional TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override file values.
const (
	EnvAPIKey            = "YOUTUBE_API_KEY"
	EnvInputFile         = "HARVEST_INPUT_FILE"
	EnvDataDir           = "HARVEST_DATA_DIR"
	EnvBinary            = "YTDLP_PATH"
	EnvMaxConcurrentJobs = "HARVEST_MAX_CONCURRENT_JOBS"
)

// Paths contains input and output locations.
type Paths struct {
	InputFile string `toml:"input_file"`
	DataDir   string `toml:"data_dir"`
}

// Search contains the video search policy.
type Search struct {
	APIKey           string `toml:"api_key"`
	PageSize         int64  `toml:"page_size"`
	PublishedAfter   string `toml:"published_after"`
	LanguageKeywords bool   `toml:"language_keywords"`
}

// Download contains yt-dlp settings.
type Download struct {
	Binary                 string `toml:"binary"`
	FFmpegBinary           string `toml:"ffmpeg_binary"`
	AudioFormat            string `toml:"audio_format"`
	AudioQuality           string `toml:"audio_quality"`
	SocketTimeoutSeconds   int    `toml:"socket_timeout_seconds"`
	Retries                int    `toml:"retries"`
	ProbeTimeoutSeconds    int    `toml:"probe_timeout_seconds"`
	TransferTimeoutSeconds int    `toml:"transfer_timeout_seconds"`
}

// Scheduler contains fan-out settings.
type Scheduler struct {
	MaxConcurrentJobs int `toml:"max_concurrent_jobs"`
}

// Config is the full harvester configuration.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Search    Search    `toml:"search"`
	Download  Download  `toml:"download"`
	Scheduler Scheduler `toml:"scheduler"`
}

// SocketTimeout returns the network inactivity timeout passed to yt-dlp.
func (d Download) SocketTimeout() time.Duration {
	return time.Duration(d.SocketTimeoutSeconds) * time.Second
}

// ProbeTimeout returns the metadata probe deadline.
func (d Download) ProbeTimeout() time.Duration {
	return time.Duration(d.ProbeTimeoutSeconds) * time.Second
}

// TransferTimeout returns the deadline for one audio transfer.
func (d Download) TransferTimeout() time.Duration {
	return time.Duration(d.TransferTimeoutSeconds) * time.Second
}

// Load reads the configuration at path (if it exists), applies environment
// overrides, and validates the result. An empty path means "defaults only".
// The boolean reports whether a file was read.
func Load(path string) (*Config, bool, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, bool, error) {
	cfg := Default()

	exists := false
	if path = strings.TrimSpace(path); path != "" {
		file, err := os.Open(path)
		switch {
		case err == nil:
			defer file.Close()
			decoder := toml.NewDecoder(file)
			if err := decoder.Decode(&cfg); err != nil {
				return nil, false, fmt.Errorf("parse config: %w", err)
			}
			exists = true
		case errors.Is(err, fs.ErrNotExist):
			return nil, false, fmt.Errorf("config file %s not found", path)
		default:
			return nil, false, fmt.Errorf("open config: %w", err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, false, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return &cfg, exists, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIKey); ok {
		c.Search.APIKey = v
	}
	if v, ok := lookup(EnvInputFile); ok && strings.TrimSpace(v) != "" {
		c.Paths.InputFile = v
	}
	if v, ok := lookup(EnvDataDir); ok && strings.TrimSpace(v) != "" {
		c.Paths.DataDir = v
	}
	if v, ok := lookup(EnvBinary); ok && strings.TrimSpace(v) != "" {
		c.Download.Binary = v
	}
	if v, ok := lookup(EnvMaxConcurrentJobs); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxConcurrentJobs, err)
		}
		c.Scheduler.MaxConcurrentJobs = n
	}
	return nil
}

func (c *Config) normalize() {
	c.Paths.InputFile = strings.TrimSpace(c.Paths.InputFile)
	c.Paths.DataDir = strings.TrimSpace(c.Paths.DataDir)
	c.Search.APIKey = strings.TrimSpace(c.Search.APIKey)
	c.Search.PublishedAfter = strings.TrimSpace(c.Search.PublishedAfter)
	c.Download.Binary = strings.TrimSpace(c.Download.Binary)
	c.Download.FFmpegBinary = strings.TrimSpace(c.Download.FFmpegBinary)
	c.Download.AudioFormat = strings.ToLower(strings.TrimSpace(c.Download.AudioFormat))
	c.Download.AudioQuality = strings.TrimSpace(c.Download.AudioQuality)
	if c.Download.Binary == "" {
		c.Download.Binary = defaultBinary
	}
	if c.Download.FFmpegBinary == "" {
		c.Download.FFmpegBinary = defaultFFmpegBinary
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must not be empty")
	}
	if c.Search.PageSize < 1 || c.Search.PageSize > 50 {
		return fmt.Errorf("search.page_size must be between 1 and 50, got %d", c.Search.PageSize)
	}
	if _, err := time.Parse(time.RFC3339, c.Search.PublishedAfter); err != nil {
		return fmt.Errorf("search.published_after: %w", err)
	}
	if c.Download.AudioFormat == "" {
		return errors.New("download.audio_format must not be empty")
	}
	if c.Download.SocketTimeoutSeconds <= 0 {
		return fmt.Errorf("download.socket_timeout_seconds must be positive, got %d", c.Download.SocketTimeoutSeconds)
	}
	if c.Download.Retries < 0 {
		return fmt.Errorf("download.retries must not be negative, got %d", c.Download.Retries)
	}
	if c.Download.ProbeTimeoutSeconds <= 0 {
		return fmt.Errorf("download.probe_timeout_seconds must be positive, got %d", c.Download.ProbeTimeoutSeconds)
	}
	if c.Download.TransferTimeoutSeconds <= 0 {
		return fmt.Errorf("download.transfer_timeout_seconds must be positive, got %d", c.Download.TransferTimeoutSeconds)
	}
	if c.Scheduler.MaxConcurrentJobs < 1 {
		return fmt.Errorf("scheduler.max_concurrent_jobs must be at least 1, got %d", c.Scheduler.MaxConcurrentJobs)
	}
	return nil
}
