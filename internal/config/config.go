package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all settings for one video project.
type Config struct {
	// Project settings
	InputFolder string `yaml:"input_folder"`
	OutputFile  string `yaml:"output_file"`
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	MusicFile   string `yaml:"music_file"`

	Concurrency int `yaml:"concurrency"`

	// Curation settings
	Curate CurateConfig `yaml:"curate"`

	// Render settings
	Render RenderConfig `yaml:"render"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
}

// CurateConfig controls media selection and grouping.
type CurateConfig struct {
	BlurThreshold     float64 `yaml:"blur_threshold"`
	GapThresholdSec   float64 `yaml:"gap_threshold_sec"`
	MinVideoDuration  float64 `yaml:"min_video_duration"`
	MinVideoDimension int     `yaml:"min_video_dimension"`
}

// RenderConfig controls the composed video.
type RenderConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	FPS           float64 `yaml:"fps"`
	PhotoDuration float64 `yaml:"photo_duration"`
	CoverDuration float64 `yaml:"cover_duration"`
	MusicVolume   float64 `yaml:"music_volume"`
	FontFile      string  `yaml:"font_file"`
	CoverColor    string  `yaml:"cover_color"`
	Preset        string  `yaml:"preset"`
	CRF           int     `yaml:"crf"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ProbePath  string `yaml:"probe_path"`
	Threads    int    `yaml:"threads"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks structural requirements before a run. A missing or
// non-directory input folder is the one condition that aborts outright.
func (c *Config) Validate() error {
	if c.InputFolder == "" {
		return fmt.Errorf("input_folder is required")
	}

	info, err := os.Stat(c.InputFolder)
	if err != nil {
		return fmt.Errorf("input folder %q: %w", c.InputFolder, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input folder %q is not a directory", c.InputFolder)
	}

	if c.MusicFile != "" {
		if _, err := os.Stat(c.MusicFile); err != nil {
			return fmt.Errorf("music file %q: %w", c.MusicFile, err)
		}
	}

	return nil
}

func defaultConfig() *Config {
	return &Config{
		OutputFile:  "vblog.mp4",
		Title:       "My Trip",
		Subtitle:    "",
		Concurrency: 4,
		Curate: CurateConfig{
			BlurThreshold:     50,
			GapThresholdSec:   3600,
			MinVideoDuration:  1,
			MinVideoDimension: 50,
		},
		Render: RenderConfig{
			Width:         1920,
			Height:        1080,
			FPS:           30,
			PhotoDuration: 3,
			CoverDuration: 3,
			MusicVolume:   0.2,
			CoverColor:    "0x008080",
			Preset:        "medium",
			CRF:           23,
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "",
			ProbePath:  "",
			Threads:    0,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./vblogger.yaml",
		"./vblogger.yml",
		filepath.Join(os.Getenv("HOME"), ".vblogger", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
