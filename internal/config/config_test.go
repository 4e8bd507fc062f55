package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	if cfg.OutputFile != "vblog.mp4" {
		t.Errorf("unexpected default output file %q", cfg.OutputFile)
	}
	if cfg.Curate.BlurThreshold != 50 {
		t.Errorf("unexpected blur threshold %v", cfg.Curate.BlurThreshold)
	}
	if cfg.Curate.GapThresholdSec != 3600 {
		t.Errorf("unexpected gap threshold %v", cfg.Curate.GapThresholdSec)
	}
	if cfg.Render.Width != 1920 || cfg.Render.Height != 1080 {
		t.Errorf("unexpected render size %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.MusicVolume != 0.2 {
		t.Errorf("unexpected music volume %v", cfg.Render.MusicVolume)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("expected default concurrency, got %d", cfg.Concurrency)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vblogger.yaml")

	cfg := defaultConfig()
	cfg.InputFolder = "/media/trips/rome"
	cfg.Title = "Rome 2024"
	cfg.Curate.GapThresholdSec = 7200
	cfg.Render.CRF = 18

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.InputFolder != cfg.InputFolder {
		t.Errorf("input folder mismatch: %q", loaded.InputFolder)
	}
	if loaded.Title != cfg.Title {
		t.Errorf("title mismatch: %q", loaded.Title)
	}
	if loaded.Curate.GapThresholdSec != 7200 {
		t.Errorf("gap threshold mismatch: %v", loaded.Curate.GapThresholdSec)
	}
	if loaded.Render.CRF != 18 {
		t.Errorf("crf mismatch: %d", loaded.Render.CRF)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("title: Just A Title\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Just A Title" {
		t.Errorf("title not loaded: %q", cfg.Title)
	}
	if cfg.Render.FPS != 30 {
		t.Errorf("default fps lost: %v", cfg.Render.FPS)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	cfg := defaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty input folder")
	}

	cfg.InputFolder = filepath.Join(dir, "missing")
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing input folder")
	}

	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.InputFolder = file
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-directory input folder")
	}

	cfg.InputFolder = dir
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.MusicFile = filepath.Join(dir, "no-song.mp3")
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing music file")
	}
}

func TestConfigContext(t *testing.T) {
	cfg := defaultConfig()
	cfg.Title = "From Context"

	ctx := WithConfig(context.Background(), cfg)
	if got := FromContext(ctx); got.Title != "From Context" {
		t.Errorf("unexpected title %q", got.Title)
	}

	// Without a stored config the accessor falls back to defaults.
	if got := FromContext(context.Background()); got.Title != "My Trip" {
		t.Errorf("expected default title, got %q", got.Title)
	}
}
