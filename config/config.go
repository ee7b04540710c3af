package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lyfe2025/speech2clip-launcher/pkg/models"
)

// InterpreterEnvVar overrides interpreter auto-detection. Read exactly once,
// at config load, and threaded through as an explicit field from there.
const InterpreterEnvVar = "SPEECH2CLIP_PYTHON"

// Config holds the launcher configuration
type Config struct {
	// InterpreterPath forces a specific Python interpreter.
	// Empty means auto-detect.
	InterpreterPath string

	// ModelCacheDirs are scanned in order for installed model artifacts
	ModelCacheDirs []string

	// AppEntry is the path to the Speech2Clip GUI entry script
	AppEntry string

	// LaunchLogPath receives the supervised application's combined output.
	// Overwritten on each run.
	LaunchLogPath string

	// Audio settings for the CLI demo recorder
	AudioSampleRate int
	AudioChannels   int
	DemoSeconds     int
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	appDir := "."
	if dir, err := GetAppDir(); err == nil {
		appDir = dir
	}

	return &Config{
		InterpreterPath: os.Getenv(InterpreterEnvVar),
		ModelCacheDirs:  models.DefaultCacheDirs(),
		AppEntry:        filepath.Join("src", "gui_main_qt.py"),
		LaunchLogPath:   filepath.Join(appDir, "launch.log"),

		AudioSampleRate: 16000, // 16kHz sample rate for Whisper
		AudioChannels:   1,     // Mono
		DemoSeconds:     5,
	}
}

// Current holds the active configuration
var Current = DefaultConfig()

// GetAppDir returns the path to the .speech2clip directory
func GetAppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	appDir := filepath.Join(homeDir, ".speech2clip")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create .speech2clip directory: %w", err)
	}

	return appDir, nil
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, "config.json"), nil
}

// LoadConfig loads the configuration from the config file
func LoadConfig() error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config file path: %w", err)
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, use defaults
		Current = DefaultConfig()
		// Save the default config
		return SaveConfig()
	}

	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON data
	var cfg Config
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// Update current config
	Current = &cfg

	// The environment override always wins over the persisted value
	if env := os.Getenv(InterpreterEnvVar); env != "" {
		Current.InterpreterPath = env
	}

	if len(Current.ModelCacheDirs) == 0 {
		Current.ModelCacheDirs = models.DefaultCacheDirs()
	}

	return nil
}

// SaveConfig saves the configuration to the config file
func SaveConfig() error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config file path: %w", err)
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal config to JSON
	data, err := json.MarshalIndent(Current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	err = os.WriteFile(configPath, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
