// Package menu implements the interactive model lifecycle menu
package menu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lyfe2025/speech2clip-launcher/pkg/logger"
	"github.com/lyfe2025/speech2clip-launcher/pkg/models"
)

// State identifies a position in the menu state machine
type State int

const (
	// StateMenu is the top-level choice prompt
	StateMenu State = iota
	// StateDownloadSelect collects download choices
	StateDownloadSelect
	// StateDeleteSelect collects delete choices
	StateDeleteSelect
	// StateDeleteConfirm asks before any deletion executes
	StateDeleteConfirm
	// StateProceed hands control to device preflight
	StateProceed
	// StateExit terminates the process with a zero status
	StateExit
)

// Menu styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#61E3FA"))

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A9B1D6"))

	installedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ECE6A"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7768E"))
)

// snapshot is one iteration's view of the inventory. It is recomputed fresh
// at the top of every MENU entry and passed by value into handlers, so a
// deletion is reflected in the very next displayed list.
type snapshot struct {
	downloadable []string
	installed    []models.InstalledModel
}

// Menu drives the interactive model lifecycle loop. Single-threaded; blocks
// on user input only.
type Menu struct {
	in        *bufio.Scanner
	out       io.Writer
	cacheDirs []string
	fetcher   models.Fetcher
}

// New creates a menu reading choices from in and writing prompts to out.
func New(in io.Reader, out io.Writer, cacheDirs []string, fetcher models.Fetcher) *Menu {
	return &Menu{
		in:        bufio.NewScanner(in),
		out:       out,
		cacheDirs: cacheDirs,
		fetcher:   fetcher,
	}
}

// takeSnapshot re-scans the cache directories. The snapshot is the single
// source of truth for one iteration; nothing is cached across iterations.
func (m *Menu) takeSnapshot() snapshot {
	installed := models.Scan(m.cacheDirs)
	downloadable, present := models.Reconcile(models.Catalog, installed)
	return snapshot{downloadable: downloadable, installed: present}
}

// Run drives the state machine until a terminal state. Returns true for
// PROCEED (continue to device preflight) and false for EXIT.
func (m *Menu) Run() bool {
	state := StateMenu

	for {
		switch state {
		case StateMenu:
			snap := m.takeSnapshot()
			m.renderMenu(snap)
			state = m.handleChoice(snap)

		case StateProceed:
			logger.Info(logger.CategoryMenu, "Proceeding to launch")
			return true

		case StateExit:
			logger.Info(logger.CategoryMenu, "Exiting at user request")
			return false
		}
	}
}

// renderMenu prints the top-level menu with a summary of the inventory.
func (m *Menu) renderMenu(snap snapshot) {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, titleStyle.Render("Speech2Clip - Whisper Model Manager"))
	fmt.Fprintf(m.out, "Installed models: %d  Downloadable: %d\n",
		len(snap.installed), len(snap.downloadable))
	fmt.Fprintln(m.out, itemStyle.Render("  1) Download models"))
	fmt.Fprintln(m.out, itemStyle.Render("  2) List installed models"))
	fmt.Fprintln(m.out, itemStyle.Render("  3) Delete models"))
	fmt.Fprintln(m.out, itemStyle.Render("  4) Start Speech2Clip (default)"))
	fmt.Fprintln(m.out, itemStyle.Render("  5) Quit"))
}

// handleChoice processes one top-level selection and returns the next state.
// DOWNLOAD_SELECT and DELETE_SELECT are handled inline and return to MENU.
func (m *Menu) handleChoice(snap snapshot) State {
	choice := m.readLine("Choice [1-5, Enter to start]: ")

	switch choice {
	case "1":
		m.handleDownload(snap)
		return StateMenu
	case "2":
		m.listInstalled(snap)
		return StateMenu
	case "3":
		m.handleDelete(snap)
		return StateMenu
	case "4", "":
		return StateProceed
	case "5":
		return StateExit
	default:
		fmt.Fprintln(m.out, warnStyle.Render("Invalid choice: "+choice))
		return StateMenu
	}
}

// listInstalled prints the currently installed models with their paths.
func (m *Menu) listInstalled(snap snapshot) {
	if len(snap.installed) == 0 {
		fmt.Fprintln(m.out, "No models installed yet.")
		return
	}

	fmt.Fprintln(m.out, titleStyle.Render("Installed models:"))
	for i, mod := range snap.installed {
		fmt.Fprintf(m.out, "  %d) %s\n", i+1, installedStyle.Render(mod.ID+"  ("+mod.Path+")"))
	}
}

// handleDownload presents catalog entries not yet installed and attempts an
// independent download for each selected one.
func (m *Menu) handleDownload(snap snapshot) {
	if len(snap.downloadable) == 0 {
		fmt.Fprintln(m.out, "All catalog models are already installed.")
		return
	}

	fmt.Fprintln(m.out, titleStyle.Render("Downloadable models:"))
	for i, id := range snap.downloadable {
		fmt.Fprintf(m.out, "  %d) %s\n", i+1, id)
	}

	input := m.readLine("Models to download (comma-separated numbers): ")
	indices := parseSelection(input, len(snap.downloadable))
	if len(indices) == 0 {
		fmt.Fprintln(m.out, "Nothing selected.")
		return
	}

	var ids []string
	for _, idx := range indices {
		ids = append(ids, snap.downloadable[idx])
	}

	failures := models.DownloadAll(m.fetcher, ids)
	for _, id := range ids {
		if err, ok := failures[id]; ok {
			fmt.Fprintln(m.out, warnStyle.Render(fmt.Sprintf("Download failed: %s: %v", id, err)))
		} else {
			fmt.Fprintln(m.out, installedStyle.Render("Downloaded: "+id))
		}
	}
}

// handleDelete collects a selection against the installed list, requires an
// explicit confirmation (default negative), then deletes independently.
func (m *Menu) handleDelete(snap snapshot) {
	if len(snap.installed) == 0 {
		fmt.Fprintln(m.out, "No models installed yet.")
		return
	}

	m.listInstalled(snap)
	input := m.readLine("Models to delete (comma-separated numbers): ")
	indices := parseSelection(input, len(snap.installed))
	if len(indices) == 0 {
		fmt.Fprintln(m.out, "Nothing selected.")
		return
	}

	var names []string
	for _, idx := range indices {
		names = append(names, snap.installed[idx].ID)
	}

	answer := m.readLine(fmt.Sprintf("Delete %s? [y/N]: ", strings.Join(names, ", ")))
	if !isAffirmative(answer) {
		fmt.Fprintln(m.out, "Deletion cancelled.")
		return
	}

	for _, idx := range indices {
		mod := snap.installed[idx]
		if err := models.Delete(mod); err != nil {
			fmt.Fprintln(m.out, warnStyle.Render(fmt.Sprintf("Delete failed: %s: %v", mod.ID, err)))
		} else {
			fmt.Fprintln(m.out, "Deleted: "+mod.ID)
		}
	}
}

// readLine prompts and returns one trimmed input line. EOF reads as empty,
// which maps to each prompt's default action.
func (m *Menu) readLine(prompt string) string {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		return ""
	}
	return strings.TrimSpace(m.in.Text())
}

// parseSelection parses comma-separated 1-based indices against a list of
// length max, returning 0-based indices. Out-of-range and non-numeric parts
// are silently ignored; duplicates collapse to the first occurrence.
func parseSelection(input string, max int) []int {
	var indices []int
	seen := make(map[int]bool)

	for _, part := range strings.Split(input, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > max {
			continue
		}
		if seen[n-1] {
			continue
		}
		seen[n-1] = true
		indices = append(indices, n-1)
	}

	return indices
}

// isAffirmative reports whether the answer is an explicit yes. Anything
// else, including an empty default, declines.
func isAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
