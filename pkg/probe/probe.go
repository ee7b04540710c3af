// Package probe verifies the environment required to launch Speech2Clip
package probe

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/lyfe2025/speech2clip-launcher/pkg/logger"
)

// Exit codes for capability failures. Each capability maps to its own code so
// calling automation can distinguish failure classes.
const (
	// CodeInterpreter indicates no usable Python interpreter was found
	CodeInterpreter = 1
	// CodeGUIToolkit indicates the GUI toolkit module is not importable
	CodeGUIToolkit = 2
	// CodeHotkey indicates the hotkey support module is not importable
	CodeHotkey = 3
	// CodeTextConversion indicates the clipboard/text module is not importable
	CodeTextConversion = 4
	// CodeSpeechEngine indicates the speech recognition module is not importable
	CodeSpeechEngine = 5
)

// ErrNoInterpreter indicates that no usable interpreter could be located
var ErrNoInterpreter = errors.New("no usable python interpreter found")

// Capability is a named precondition the launcher requires before proceeding.
// A capability with an empty Module is the interpreter presence check itself.
type Capability struct {
	Name   string
	Module string
	Code   int
	Hint   string
}

// DefaultCapabilities returns the required capabilities in their fixed check
// order: interpreter first, then GUI toolkit, hotkey, text conversion and
// speech engine support.
func DefaultCapabilities() []Capability {
	return []Capability{
		{
			Name: "python interpreter",
			Code: CodeInterpreter,
			Hint: "Install Python 3 or set SPEECH2CLIP_PYTHON to a working interpreter",
		},
		{
			Name:   "GUI toolkit (PyQt5)",
			Module: "PyQt5",
			Code:   CodeGUIToolkit,
			Hint:   "Install with: pip install PyQt5",
		},
		{
			Name:   "hotkey support (pynput)",
			Module: "pynput",
			Code:   CodeHotkey,
			Hint:   "Install with: pip install pynput",
		},
		{
			Name:   "clipboard support (pyperclip)",
			Module: "pyperclip",
			Code:   CodeTextConversion,
			Hint:   "Install with: pip install pyperclip",
		},
		{
			Name:   "speech engine (speech_recognition)",
			Module: "speech_recognition",
			Code:   CodeSpeechEngine,
			Hint:   "Install with: pip install SpeechRecognition openai-whisper",
		},
	}
}

// Result is the outcome of one preflight pass. When Satisfied is false,
// Failed holds the first capability that did not pass.
type Result struct {
	Satisfied   bool
	Interpreter string
	Failed      Capability
}

// CommandRunner executes a command and reports whether it succeeded.
// Abstracted so tests can probe without a real interpreter installed.
type CommandRunner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Prober evaluates required capabilities in order and stops at the first
// failure. Probes are read-only; failure is non-retryable within a run.
type Prober struct {
	// interpreter is an explicit interpreter path. When empty the prober
	// auto-detects python3/python on PATH. Threaded in at construction
	// rather than read from the environment at call sites.
	interpreter string
	run         CommandRunner
}

// New creates a Prober. interpreterOverride may be empty for auto-detection.
func New(interpreterOverride string) *Prober {
	return &Prober{
		interpreter: interpreterOverride,
		run:         execRunner,
	}
}

// findInterpreter locates a usable interpreter. An explicit override must be
// usable; there is no fallback past it.
func (p *Prober) findInterpreter() (string, error) {
	if p.interpreter != "" {
		if err := p.run(p.interpreter, "--version"); err != nil {
			return "", fmt.Errorf("%w: configured interpreter %q is unusable: %v",
				ErrNoInterpreter, p.interpreter, err)
		}
		return p.interpreter, nil
	}

	for _, candidate := range []string{"python3", "python"} {
		if err := p.run(candidate, "--version"); err == nil {
			return candidate, nil
		}
	}

	return "", ErrNoInterpreter
}

// Check evaluates the given capabilities in order, stopping at the first
// unsatisfied one. The interpreter capability (empty Module) must come first
// since module probes need the interpreter it resolves.
func (p *Prober) Check(caps []Capability) Result {
	var interp string

	for _, cap := range caps {
		if cap.Module == "" {
			found, err := p.findInterpreter()
			if err != nil {
				logger.Error(logger.CategoryProbe, "Interpreter check failed: %v", err)
				return Result{Satisfied: false, Failed: cap}
			}
			interp = found
			logger.Info(logger.CategoryProbe, "Using interpreter: %s", interp)
			continue
		}

		if err := p.run(interp, "-c", "import "+cap.Module); err != nil {
			logger.Error(logger.CategoryProbe, "Missing capability: %s", cap.Name)
			return Result{Satisfied: false, Interpreter: interp, Failed: cap}
		}
		logger.Debug(logger.CategoryProbe, "Capability satisfied: %s", cap.Name)
	}

	return Result{Satisfied: true, Interpreter: interp}
}
