// Package main is the Speech2Clip launcher: it checks the environment,
// manages the local Whisper model inventory and supervises the GUI process.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lyfe2025/speech2clip-launcher/config"
	"github.com/lyfe2025/speech2clip-launcher/pkg/device"
	"github.com/lyfe2025/speech2clip-launcher/pkg/logger"
	"github.com/lyfe2025/speech2clip-launcher/pkg/menu"
	"github.com/lyfe2025/speech2clip-launcher/pkg/models"
	"github.com/lyfe2025/speech2clip-launcher/pkg/probe"
	"github.com/lyfe2025/speech2clip-launcher/pkg/supervisor"
)

// entryMissingExitCode signals that the Speech2Clip entry script is absent
const entryMissingExitCode = 10

func main() {
	logger.Initialize()
	// PortAudio enumeration is noisy on Linux
	logger.SuppressALSAWarnings(true)

	if err := config.LoadConfig(); err != nil {
		logger.Warning(logger.CategoryApp, "Config load failed, using defaults: %v", err)
	}
	cfg := config.Current

	// Capability checks run first and in a fixed order; the first failure
	// terminates the run with that capability's own exit code.
	prober := probe.New(cfg.InterpreterPath)
	result := prober.Check(probe.DefaultCapabilities())
	if !result.Satisfied {
		fmt.Fprintf(os.Stderr, "Missing capability: %s\n", result.Failed.Name)
		fmt.Fprintf(os.Stderr, "%s\n", result.Failed.Hint)
		os.Exit(result.Failed.Code)
	}

	if _, err := os.Stat(cfg.AppEntry); err != nil {
		fmt.Fprintf(os.Stderr, "Speech2Clip entry point not found: %s\n", cfg.AppEntry)
		fmt.Fprintln(os.Stderr, "Run the launcher from the Speech2Clip checkout directory.")
		os.Exit(entryMissingExitCode)
	}

	// Interactive model lifecycle menu. Returns false when the user quits.
	fetcher := &models.WhisperFetcher{Interpreter: result.Interpreter}
	lifecycle := menu.New(os.Stdin, os.Stdout, cfg.ModelCacheDirs, fetcher)
	if !lifecycle.Run() {
		os.Exit(0)
	}

	// Device preflight: a missing microphone is a warning the user may
	// override, never a hard abort.
	if !device.Preflight(os.Stdin, os.Stdout) {
		fmt.Fprintln(os.Stdout, "Aborted: no usable audio input device.")
		os.Exit(0)
	}

	sup := supervisor.New(result.Interpreter, cfg.AppEntry, cfg.LaunchLogPath)
	outcome, err := sup.Run()
	if err != nil {
		if errors.Is(err, supervisor.ErrEntryMissing) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(entryMissingExitCode)
		}
		fmt.Fprintf(os.Stderr, "Failed to launch Speech2Clip: %v\n", err)
		os.Exit(supervisor.CrashExitCode)
	}

	if outcome.Failed() {
		outcome.Report(os.Stderr)
		os.Exit(supervisor.CrashExitCode)
	}
}
