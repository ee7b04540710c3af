// Package supervisor starts and diagnoses the Speech2Clip GUI process
package supervisor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/lyfe2025/speech2clip-launcher/pkg/logger"
)

const (
	// CrashExitCode is the supervisor's sentinel status for a diagnosed child
	// failure, distinct from the child's own status and from capability codes.
	CrashExitCode = 99

	// logTailLines is how many trailing log lines a failure report includes
	logTailLines = 15
)

// ErrEntryMissing indicates the application entry point does not exist
var ErrEntryMissing = errors.New("application entry point not found")

// Diagnostic pairs a known failure signature with a targeted remediation
// hint. Evaluated in order, first match wins; extend the table, not the
// control flow.
type Diagnostic struct {
	Pattern string
	Hint    string
}

// KnownDiagnostics are failure signatures recognized in the child's output.
var KnownDiagnostics = []Diagnostic{
	{
		Pattern: "object has no attribute",
		Hint:    "The GUI crashed accessing an attribute before it was initialized. Update Speech2Clip; this is a known initialization-order defect in older versions.",
	},
	{
		Pattern: "ModuleNotFoundError",
		Hint:    "A Python dependency is missing. Re-run the launcher to see which capability check fails, or reinstall with: pip install -r requirements.txt",
	},
	{
		Pattern: "could not load the Qt platform plugin",
		Hint:    "Qt cannot find a display backend. On Linux install the xcb libraries (libxcb-xinerama0) or run inside a graphical session.",
	},
	{
		Pattern: "No Default Input Device Available",
		Hint:    "No microphone is available to the application. Connect an input device or check the OS sound settings.",
	},
}

// Diagnose scans captured output for a known failure signature.
// Returns nil when nothing matches.
func Diagnose(output string) *Diagnostic {
	lowered := strings.ToLower(output)
	for i := range KnownDiagnostics {
		if strings.Contains(lowered, strings.ToLower(KnownDiagnostics[i].Pattern)) {
			return &KnownDiagnostics[i]
		}
	}
	return nil
}

// Outcome captures the result of one supervised run. Created after the child
// exits, consumed for user-facing messaging, then discarded.
type Outcome struct {
	ExitCode  int
	LogTail   []string
	Diagnosis *Diagnostic
}

// Failed reports whether the child exited non-zero.
func (o Outcome) Failed() bool {
	return o.ExitCode != 0
}

// Supervisor spawns the GUI application and captures its combined output to
// both the console and a per-run log file.
type Supervisor struct {
	Interpreter string
	Entry       string
	LogPath     string
	Console     io.Writer
}

// New creates a supervisor for the given interpreter and entry script.
func New(interpreter, entry, logPath string) *Supervisor {
	return &Supervisor{
		Interpreter: interpreter,
		Entry:       entry,
		LogPath:     logPath,
		Console:     os.Stdout,
	}
}

// Run starts the child and blocks until it exits. The combined stdout/stderr
// stream is tee'd to the console and the log file; the log file is truncated
// at the start of each run. Returns the outcome and any supervisor-side
// error (the child's own failure is part of the outcome, not an error).
func (s *Supervisor) Run() (Outcome, error) {
	if _, err := os.Stat(s.Entry); err != nil {
		return Outcome{}, fmt.Errorf("%w: %s", ErrEntryMissing, s.Entry)
	}

	logFile, err := os.Create(s.LogPath)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to create log file %s: %w", s.LogPath, err)
	}
	defer logFile.Close()

	logger.Info(logger.CategoryLaunch, "Starting Speech2Clip: %s %s", s.Interpreter, s.Entry)

	cmd := exec.Command(s.Interpreter, s.Entry)
	tee := io.MultiWriter(s.Console, logFile)
	cmd.Stdout = tee
	cmd.Stderr = tee

	runErr := cmd.Run()

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			// Spawn failure, not a child exit
			return Outcome{}, fmt.Errorf("failed to start application: %w", runErr)
		}
	}

	outcome := Outcome{ExitCode: exitCode}
	if exitCode == 0 {
		logger.Info(logger.CategoryLaunch, "Speech2Clip exited normally")
		return outcome, nil
	}

	captured, err := os.ReadFile(s.LogPath)
	if err != nil {
		logger.Warning(logger.CategoryLaunch, "Could not read back log file: %v", err)
	}

	outcome.LogTail = tailLines(string(captured), logTailLines)
	outcome.Diagnosis = Diagnose(string(captured))

	logger.Error(logger.CategoryLaunch, "Speech2Clip exited with status %d", exitCode)
	return outcome, nil
}

// Report writes a human-readable failure report to w. A zero exit never
// reaches the failure path.
func (o Outcome) Report(w io.Writer) {
	if !o.Failed() {
		return
	}

	fmt.Fprintf(w, "\nSpeech2Clip exited with status %d.\n", o.ExitCode)

	if len(o.LogTail) > 0 {
		fmt.Fprintf(w, "Last %d log lines:\n", len(o.LogTail))
		for _, line := range o.LogTail {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	if o.Diagnosis != nil {
		fmt.Fprintf(w, "\nHint: %s\n", o.Diagnosis.Hint)
	}
}

// tailLines returns the last n non-empty-trimmed lines of text.
func tailLines(text string, n int) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
