package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv(InterpreterEnvVar, "")

	cfg := DefaultConfig()

	if cfg.InterpreterPath != "" {
		t.Errorf("Expected empty InterpreterPath without override, got %q", cfg.InterpreterPath)
	}

	// Audio defaults match what Whisper expects
	if cfg.AudioSampleRate != 16000 {
		t.Errorf("Expected default AudioSampleRate to be 16000, got %d", cfg.AudioSampleRate)
	}
	if cfg.AudioChannels != 1 {
		t.Errorf("Expected default AudioChannels to be 1, got %d", cfg.AudioChannels)
	}
	if cfg.DemoSeconds != 5 {
		t.Errorf("Expected default DemoSeconds to be 5, got %d", cfg.DemoSeconds)
	}

	if cfg.AppEntry != filepath.Join("src", "gui_main_qt.py") {
		t.Errorf("Unexpected default AppEntry: %q", cfg.AppEntry)
	}

	// Cache dirs: whisper's own cache first, then the launcher's
	homeDir, err := os.UserHomeDir()
	if err == nil {
		if len(cfg.ModelCacheDirs) != 2 {
			t.Fatalf("Expected 2 cache dirs, got %d", len(cfg.ModelCacheDirs))
		}
		expected := filepath.Join(homeDir, ".cache", "whisper")
		if cfg.ModelCacheDirs[0] != expected {
			t.Errorf("Expected first cache dir %q, got %q", expected, cfg.ModelCacheDirs[0])
		}
	}
}

func TestInterpreterOverrideFromEnv(t *testing.T) {
	t.Setenv(InterpreterEnvVar, "/opt/custom/python3")

	cfg := DefaultConfig()
	if cfg.InterpreterPath != "/opt/custom/python3" {
		t.Errorf("Expected env override to populate InterpreterPath, got %q", cfg.InterpreterPath)
	}
}

func TestCurrentConfig(t *testing.T) {
	if Current == nil {
		t.Fatal("Current config should not be nil")
	}
	if Current.AudioSampleRate != 16000 {
		t.Errorf("Expected Current.AudioSampleRate to be 16000, got %d", Current.AudioSampleRate)
	}
}
