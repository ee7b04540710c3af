package menu

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lyfe2025/speech2clip-launcher/pkg/models"
)

func writeArtifact(t *testing.T, dir, id string) string {
	t.Helper()
	path := filepath.Join(dir, id+models.ArtifactExt)
	if err := os.WriteFile(path, []byte("stub"), 0644); err != nil {
		t.Fatalf("Failed to write artifact: %v", err)
	}
	return path
}

// recordingFetcher records download requests and installs a stub artifact
type recordingFetcher struct {
	dir     string
	fetched []string
}

func (f *recordingFetcher) Fetch(id string) error {
	f.fetched = append(f.fetched, id)
	return os.WriteFile(filepath.Join(f.dir, id+models.ArtifactExt), []byte("stub"), 0644)
}

func newTestMenu(t *testing.T, input string, cacheDir string, fetcher models.Fetcher) (*Menu, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	return New(strings.NewReader(input), out, []string{cacheDir}, fetcher), out
}

func TestParseSelection(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		max      int
		expected []int
	}{
		{
			name:     "Out of range ignored",
			input:    "1,3",
			max:      2,
			expected: []int{0},
		},
		{
			name:     "Order preserved",
			input:    "2, 1",
			max:      3,
			expected: []int{1, 0},
		},
		{
			name:     "Garbage ignored",
			input:    "x,2,zero",
			max:      3,
			expected: []int{1},
		},
		{
			name:     "Duplicates collapse",
			input:    "1,1,1",
			max:      3,
			expected: []int{0},
		},
		{
			name:     "Empty input",
			input:    "",
			max:      3,
			expected: nil,
		},
		{
			name:     "Zero and negative ignored",
			input:    "0,-1,2",
			max:      3,
			expected: []int{1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseSelection(tc.input, tc.max)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("parseSelection(%q, %d) = %v, expected %v",
					tc.input, tc.max, got, tc.expected)
			}
		})
	}
}

func TestIsAffirmative(t *testing.T) {
	for _, answer := range []string{"y", "Y", "yes", "YES", " y "} {
		if !isAffirmative(answer) {
			t.Errorf("Expected %q to be affirmative", answer)
		}
	}
	for _, answer := range []string{"", "n", "no", "ja", "1"} {
		if isAffirmative(answer) {
			t.Errorf("Expected %q to decline", answer)
		}
	}
}

func TestRunProceedIsDefault(t *testing.T) {
	m, _ := newTestMenu(t, "\n", t.TempDir(), &recordingFetcher{})
	if !m.Run() {
		t.Error("Expected empty input to proceed")
	}

	m, _ = newTestMenu(t, "4\n", t.TempDir(), &recordingFetcher{})
	if !m.Run() {
		t.Error("Expected choice 4 to proceed")
	}
}

func TestRunQuit(t *testing.T) {
	m, _ := newTestMenu(t, "5\n", t.TempDir(), &recordingFetcher{})
	if m.Run() {
		t.Error("Expected choice 5 to quit")
	}
}

func TestRunInvalidChoiceStaysInMenu(t *testing.T) {
	m, out := newTestMenu(t, "7\n5\n", t.TempDir(), &recordingFetcher{})
	if m.Run() {
		t.Error("Expected quit after invalid choice")
	}
	if !strings.Contains(out.String(), "Invalid choice") {
		t.Error("Expected an invalid-choice message")
	}
}

func TestDeleteDefaultNegative(t *testing.T) {
	dir := t.TempDir()
	pathBase := writeArtifact(t, dir, "base")
	pathTiny := writeArtifact(t, dir, "tiny")

	// Select delete, pick the first model, hit enter at the confirmation
	m, out := newTestMenu(t, "3\n1\n\n5\n", dir, &recordingFetcher{dir: dir})
	m.Run()

	if _, err := os.Stat(pathBase); err != nil {
		t.Error("Expected base to survive a declined confirmation")
	}
	if _, err := os.Stat(pathTiny); err != nil {
		t.Error("Expected tiny to survive a declined confirmation")
	}
	if !strings.Contains(out.String(), "Deletion cancelled") {
		t.Error("Expected a cancellation message")
	}
}

func TestDeleteConfirmedAndReflectedNextIteration(t *testing.T) {
	dir := t.TempDir()
	// Directory entries scan in lexical order, so base is index 1
	writeArtifact(t, dir, "base")
	pathTiny := writeArtifact(t, dir, "tiny")

	m, _ := newTestMenu(t, "3\n2\ny\n5\n", dir, &recordingFetcher{dir: dir})
	m.Run()

	if _, err := os.Stat(pathTiny); !os.IsNotExist(err) {
		t.Error("Expected tiny to be deleted after confirmation")
	}

	// The very next snapshot reflects the deletion: tiny is downloadable
	// again and no longer installed
	snap := m.takeSnapshot()
	for _, mod := range snap.installed {
		if mod.ID == "tiny" {
			t.Error("Deleted model still present in fresh snapshot")
		}
	}
	found := false
	for _, id := range snap.downloadable {
		if id == "tiny" {
			found = true
		}
	}
	if !found {
		t.Error("Deleted model missing from downloadable list")
	}
}

func TestDownloadSelectionIgnoresOutOfRange(t *testing.T) {
	dir := t.TempDir()
	fetcher := &recordingFetcher{dir: dir}

	// Empty cache: all six catalog models are downloadable. Request
	// index 1 and an out-of-range 9.
	m, _ := newTestMenu(t, "1\n1,9\n5\n", dir, fetcher)
	m.Run()

	if !reflect.DeepEqual(fetcher.fetched, []string{"tiny"}) {
		t.Errorf("Expected only tiny fetched, got %v", fetcher.fetched)
	}

	// The fresh snapshot shows the download
	snap := m.takeSnapshot()
	if len(snap.installed) != 1 || snap.installed[0].ID != "tiny" {
		t.Errorf("Expected tiny installed after download, got %+v", snap.installed)
	}
}

func TestDownloadListExcludesInstalled(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "tiny")
	writeArtifact(t, dir, "base")
	fetcher := &recordingFetcher{dir: dir}

	// Downloadable list is catalog minus installed: small, medium,
	// large, large-v3. Index 1 must map to small.
	m, _ := newTestMenu(t, "1\n1\n5\n", dir, fetcher)
	m.Run()

	if !reflect.DeepEqual(fetcher.fetched, []string{"small"}) {
		t.Errorf("Expected small fetched, got %v", fetcher.fetched)
	}
}
