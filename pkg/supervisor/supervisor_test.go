package supervisor

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDiagnoseFirstMatchWins(t *testing.T) {
	// Output matching two signatures must report the first table entry
	output := "Traceback...\nAttributeError: 'Speech2ClipWindow' object has no attribute 'tray'\nModuleNotFoundError: No module named 'x'\n"

	diag := Diagnose(output)
	if diag == nil {
		t.Fatal("Expected a diagnosis")
	}
	if diag.Pattern != "object has no attribute" {
		t.Errorf("Expected first matching pattern, got %q", diag.Pattern)
	}
}

func TestDiagnoseCaseInsensitive(t *testing.T) {
	diag := Diagnose("qt.qpa.plugin: Could Not Load The Qt Platform Plugin \"xcb\"")
	if diag == nil {
		t.Fatal("Expected a diagnosis for Qt plugin failure")
	}
}

func TestDiagnoseNoMatch(t *testing.T) {
	if diag := Diagnose("some unrelated crash"); diag != nil {
		t.Errorf("Expected no diagnosis, got %q", diag.Pattern)
	}
}

func TestTailLines(t *testing.T) {
	text := "a\nb\nc\nd\n"

	got := tailLines(text, 2)
	if !reflect.DeepEqual(got, []string{"c", "d"}) {
		t.Errorf("Expected last 2 lines, got %v", got)
	}

	got = tailLines(text, 10)
	if len(got) != 4 {
		t.Errorf("Expected all 4 lines, got %v", got)
	}

	if got := tailLines("", 5); got != nil {
		t.Errorf("Expected nil for empty text, got %v", got)
	}
}

// scriptSupervisor builds a supervisor running a shell script as the child
func scriptSupervisor(t *testing.T, script string) (*Supervisor, *bytes.Buffer) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("Skipping test: no sh available")
	}

	dir := t.TempDir()
	entry := filepath.Join(dir, "entry.sh")
	if err := os.WriteFile(entry, []byte(script), 0755); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	console := &bytes.Buffer{}
	sup := New("sh", entry, filepath.Join(dir, "launch.log"))
	sup.Console = console
	return sup, console
}

func TestRunSuccessSkipsFailurePath(t *testing.T) {
	sup, _ := scriptSupervisor(t, "echo ready\nexit 0\n")

	outcome, err := sup.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome.Failed() {
		t.Error("Expected success outcome")
	}
	if outcome.LogTail != nil {
		t.Error("A zero exit must not capture a log tail")
	}
	if outcome.Diagnosis != nil {
		t.Error("A zero exit must not be diagnosed")
	}

	// Report on a success outcome prints nothing
	report := &bytes.Buffer{}
	outcome.Report(report)
	if report.Len() != 0 {
		t.Errorf("Expected empty report, got %q", report.String())
	}
}

func TestRunFailureCapturesTailAndDiagnosis(t *testing.T) {
	sup, console := scriptSupervisor(t,
		"echo starting\necho \"AttributeError: object has no attribute 'tray'\" >&2\nexit 3\n")

	outcome, err := sup.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", outcome.ExitCode)
	}
	if outcome.Diagnosis == nil {
		t.Fatal("Expected a diagnosis")
	}

	// The tee must reach both sinks
	if !strings.Contains(console.String(), "starting") {
		t.Error("Expected child output on the console")
	}
	data, err := os.ReadFile(sup.LogPath)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "starting") {
		t.Error("Expected child output in the log file")
	}

	report := &bytes.Buffer{}
	outcome.Report(report)
	if !strings.Contains(report.String(), "status 3") {
		t.Error("Expected exit status in report")
	}
	if !strings.Contains(report.String(), outcome.Diagnosis.Hint) {
		t.Error("Expected remediation hint in report")
	}
}

func TestRunLogTruncatedEachRun(t *testing.T) {
	sup, _ := scriptSupervisor(t, "echo only-line\nexit 1\n")

	if _, err := sup.Run(); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if _, err := sup.Run(); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	data, err := os.ReadFile(sup.LogPath)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if count := strings.Count(string(data), "only-line"); count != 1 {
		t.Errorf("Expected log overwritten per run, found %d occurrences", count)
	}
}

func TestRunEntryMissing(t *testing.T) {
	sup := New("sh", filepath.Join(t.TempDir(), "missing.py"), filepath.Join(t.TempDir(), "launch.log"))

	_, err := sup.Run()
	if !errors.Is(err, ErrEntryMissing) {
		t.Fatalf("Expected ErrEntryMissing, got %v", err)
	}
}
