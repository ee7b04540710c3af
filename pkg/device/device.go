// Package device checks for a usable audio input device before launch
package device

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gordonklaus/portaudio"

	"github.com/lyfe2025/speech2clip-launcher/pkg/logger"
)

// Info describes one enumerated audio device.
type Info struct {
	Name             string
	MaxInputChannels int
}

// InputNameHints are substrings whose presence in a device name marks it as
// an input device even when the reported channel count is zero. Some
// platforms (notably with localized device names) report zero channels for
// working microphones. Heuristic with an unknown false-positive rate; tune
// rather than trust.
var InputNameHints = []string{
	"microphone",
	"mic",
	"input",
	"麦克风",
	"输入",
}

// IsInput reports whether a device counts as a valid audio input: a positive
// input-channel count, or a name matching any input-indicating substring
// (case-insensitive).
func IsInput(d Info) bool {
	if d.MaxInputChannels > 0 {
		return true
	}

	name := strings.ToLower(d.Name)
	for _, hint := range InputNameHints {
		if strings.Contains(name, strings.ToLower(hint)) {
			return true
		}
	}

	return false
}

// HasInput scans an enumerated device list for a valid input device.
func HasInput(devices []Info) bool {
	for _, d := range devices {
		if IsInput(d) {
			return true
		}
	}
	return false
}

// Enumerate lists audio devices via PortAudio. Initialization and
// enumeration errors surface to the caller, who treats them the same as an
// empty device list.
func Enumerate() ([]Info, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize audio subsystem: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	infos := make([]Info, 0, len(devices))
	for _, d := range devices {
		infos = append(infos, Info{
			Name:             d.Name,
			MaxInputChannels: d.MaxInputChannels,
		})
	}

	return infos, nil
}

// Preflight checks for an available input device. When none is found (or
// enumeration itself fails) it dumps the raw device list for diagnosis and
// asks for explicit confirmation, default negative, to continue anyway.
// Never a hard abort.
func Preflight(in io.Reader, out io.Writer) bool {
	devices, err := Enumerate()
	if err != nil {
		logger.Warning(logger.CategoryDevice, "Device enumeration failed: %v", err)
	}

	if HasInput(devices) {
		logger.Info(logger.CategoryDevice, "Audio input device found")
		return true
	}

	fmt.Fprintln(out, "Warning: no audio input device detected.")
	if len(devices) > 0 {
		fmt.Fprintln(out, "Enumerated devices:")
		for i, d := range devices {
			fmt.Fprintf(out, "  [%d] %s (input channels: %d)\n", i, d.Name, d.MaxInputChannels)
		}
	}

	if confirmContinue(in, out) {
		logger.Warning(logger.CategoryDevice, "Continuing without a detected input device")
		return true
	}

	return false
}

// confirmContinue asks whether to proceed without a microphone. Only an
// explicit yes continues; empty input (the default) and EOF decline.
func confirmContinue(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Continue without a microphone? [y/N]: ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	}

	return false
}
