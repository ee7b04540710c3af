// Package main is a one-shot record/transcribe/clipboard demo, the CLI
// counterpart of the Speech2Clip GUI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/lyfe2025/speech2clip-launcher/config"
	"github.com/lyfe2025/speech2clip-launcher/internal/clipboard"
	"github.com/lyfe2025/speech2clip-launcher/pkg/audio"
	"github.com/lyfe2025/speech2clip-launcher/pkg/logger"
	"github.com/lyfe2025/speech2clip-launcher/pkg/models"
	"github.com/lyfe2025/speech2clip-launcher/pkg/probe"
	"github.com/lyfe2025/speech2clip-launcher/pkg/ui"
)

func main() {
	logger.Initialize()
	logger.SuppressALSAWarnings(true)

	if err := config.LoadConfig(); err != nil {
		logger.Warning(logger.CategoryApp, "Config load failed, using defaults: %v", err)
	}
	cfg := config.Current

	seconds := flag.Int("seconds", cfg.DemoSeconds, "Recording duration in seconds")
	model := flag.String("model", "base", "Whisper model to transcribe with")
	flag.Parse()

	if !models.InCatalog(*model) {
		fmt.Fprintf(os.Stderr, "Unknown model %q. Supported: %s\n",
			*model, strings.Join(models.Catalog, ", "))
		os.Exit(1)
	}

	// The demo only needs the interpreter and the speech engine
	caps := probe.DefaultCapabilities()
	required := []probe.Capability{caps[0], caps[len(caps)-1]}

	prober := probe.New(cfg.InterpreterPath)
	result := prober.Check(required)
	if !result.Satisfied {
		fmt.Fprintf(os.Stderr, "Missing capability: %s\n%s\n",
			result.Failed.Name, result.Failed.Hint)
		os.Exit(result.Failed.Code)
	}

	audioConfig := audio.DefaultConfig()
	audioConfig.SampleRate = float64(cfg.AudioSampleRate)
	audioConfig.Channels = cfg.AudioChannels

	capture, err := audio.New(audioConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Audio initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()

	duration := time.Duration(*seconds) * time.Second

	// Silence the logger while the recording view owns the terminal
	logger.SetOutput(io.Discard)
	recordUI := ui.NewRecordUI(duration)
	recordUI.Start()

	samples, err := capture.RecordFor(duration, recordUI.SendLevel)
	recordUI.Finish()
	logger.SetOutput(os.Stderr)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Recording failed: %v\n", err)
		os.Exit(1)
	}

	wavPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("speech2clip_demo_%d.wav", time.Now().UnixNano()))
	if err := audio.SaveToWav(samples, cfg.AudioSampleRate, wavPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save recording: %v\n", err)
		os.Exit(1)
	}
	defer os.Remove(wavPath)

	fmt.Println("Transcribing...")
	text, err := recognize(result.Interpreter, *model, wavPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Transcription failed: %v\n", err)
		os.Exit(1)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		fmt.Println("No speech detected.")
		return
	}

	if err := clipboard.CopyTranscript(text); err != nil {
		fmt.Fprintf(os.Stderr, "Clipboard write failed: %v\n", err)
		fmt.Printf("Transcript: %s\n", text)
		os.Exit(1)
	}

	fmt.Printf("Copied to clipboard: %s\n", text)
}

// recognize transcribes a WAV file through the interpreter's whisper
// library. Model fetch and file format stay owned by the library.
func recognize(interpreter, model, wavPath string) (string, error) {
	snippet := fmt.Sprintf(
		"import whisper; print(whisper.load_model(%q).transcribe(%q)['text'])",
		model, wavPath)

	cmd := exec.Command(interpreter, "-c", snippet)
	cmd.Stderr = logger.GetStandardLogWriter(logger.LevelDebug, logger.CategoryModels)

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w", err)
	}

	return string(out), nil
}
