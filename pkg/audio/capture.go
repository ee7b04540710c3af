// Package audio provides microphone capture for the CLI demo
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/lyfe2025/speech2clip-launcher/pkg/logger"
)

// Config holds capture parameters
type Config struct {
	// Sample rate in Hz (e.g. 16000)
	SampleRate float64
	// Number of channels (1 for mono)
	Channels int
	// Buffer size in frames
	FramesPerBuffer int
	// Debug mode for verbose logging
	Debug bool
}

// DefaultConfig returns capture parameters suited to speech recognition
func DefaultConfig() Config {
	return Config{
		SampleRate:      16000, // 16kHz is standard for speech recognition
		Channels:        1,     // Mono
		FramesPerBuffer: 1024,
		Debug:           false,
	}
}

// Capture handles microphone recording with minimal overhead
type Capture struct {
	config Config

	// Runtime state
	stream   *portaudio.Stream
	isActive bool
	onAudio  func([]float32)

	// Thread safety
	mu sync.Mutex
}

// New creates a new audio capture instance
func New(config Config) (*Capture, error) {
	if config.SampleRate <= 0 {
		config.SampleRate = 16000
	}
	if config.Channels <= 0 {
		config.Channels = 1
	}
	if config.FramesPerBuffer <= 0 {
		config.FramesPerBuffer = 1024
	}

	// Initialize PortAudio
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize audio: %w", err)
	}

	capture := &Capture{config: config}

	if config.Debug {
		logger.Info(logger.CategoryAudio, "Audio system initialized: %s", portaudio.VersionText())
	}

	return capture, nil
}

// Start begins audio capture, calling the provided callback with audio data
func (c *Capture) Start(callback func([]float32)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isActive {
		return fmt.Errorf("audio capture already active")
	}

	c.onAudio = callback

	// Open the default input stream
	stream, err := portaudio.OpenDefaultStream(
		c.config.Channels,
		0, // No output channels
		c.config.SampleRate,
		c.config.FramesPerBuffer,
		c.processAudio,
	)
	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	c.stream = stream
	c.isActive = true

	if c.config.Debug {
		logger.Info(logger.CategoryAudio, "Audio capture started")
	}

	return nil
}

// Stop ends audio capture
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isActive || c.stream == nil {
		return nil
	}

	if err := c.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop audio stream: %w", err)
	}

	if err := c.stream.Close(); err != nil {
		return fmt.Errorf("failed to close audio stream: %w", err)
	}

	c.stream = nil
	c.isActive = false

	if c.config.Debug {
		logger.Info(logger.CategoryAudio, "Audio capture stopped")
	}

	return nil
}

// Close performs cleanup, releasing PortAudio resources
func (c *Capture) Close() error {
	c.Stop()
	return portaudio.Terminate()
}

// IsActive returns whether audio capture is currently active
func (c *Capture) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isActive
}

// RecordFor captures the given duration of audio and returns the samples.
// onLevel, when non-nil, receives the RMS level of each buffer for UI
// feedback while recording runs.
func (c *Capture) RecordFor(d time.Duration, onLevel func(float32)) ([]float32, error) {
	var (
		mu      sync.Mutex
		samples []float32
	)

	err := c.Start(func(data []float32) {
		mu.Lock()
		samples = append(samples, data...)
		mu.Unlock()

		if onLevel != nil {
			onLevel(CalculateLevel(data))
		}
	})
	if err != nil {
		return nil, err
	}

	time.Sleep(d)

	if err := c.Stop(); err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return samples, nil
}

// Audio callback function
func (c *Capture) processAudio(input, _ []float32) {
	if c.onAudio == nil {
		return
	}

	// Create a copy of the input data
	audioData := make([]float32, len(input))
	copy(audioData, input)

	c.onAudio(audioData)
}

// CalculateLevel computes the RMS audio level from a buffer
func CalculateLevel(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}

	var sumSquares float32
	for _, sample := range samples {
		sumSquares += sample * sample
	}

	return float32(math.Sqrt(float64(sumSquares / float32(len(samples)))))
}
