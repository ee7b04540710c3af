package audio

import (
	"fmt"
	"os"
	"path/filepath"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/lyfe2025/speech2clip-launcher/pkg/logger"
)

// SaveToWav writes float32 samples as a 16-bit mono PCM WAV file, the format
// the whisper recognizer expects.
func SaveToWav(samples []float32, sampleRate int, outputPath string) error {
	logger.Debug(logger.CategoryAudio, "Saving audio to WAV file: %s", outputPath)

	if len(samples) < 1000 {
		logger.Warning(logger.CategoryAudio, "Very small audio sample size: %d samples", len(samples))
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create WAV file: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: 16,
		Data:           make([]int, len(samples)),
	}

	for i, sample := range samples {
		// Clamp float32 [-1.0, 1.0] to int16 range
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		buf.Data[i] = int(sample * 32767.0)
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}

	return nil
}
