// Package ui provides the terminal recording view for the CLI demo
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Define some styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#61E3FA"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A9B1D6"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ECE6A"))
)

// LevelMsg carries one RMS audio level sample into the view
type LevelMsg float32

// DoneMsg tells the view that recording has finished
type DoneMsg struct{}

// RecordModel is the bubbletea model shown while the demo records
type RecordModel struct {
	spinner spinner.Model
	levels  []float32
	total   time.Duration
	start   time.Time
}

// NewRecordModel creates the recording view for a fixed duration
func NewRecordModel(total time.Duration) RecordModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ECE6A"))

	return RecordModel{
		spinner: s,
		levels:  make([]float32, 20),
		total:   total,
		start:   time.Now(),
	}
}

// Init initializes the model
func (m RecordModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update updates the model based on messages
func (m RecordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case LevelMsg:
		// Shift levels one position to the right
		copy(m.levels[1:], m.levels)
		m.levels[0] = float32(msg)
		return m, nil

	case DoneMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the recording view
func (m RecordModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Speech2Clip CLI demo"))
	s.WriteString("\n")

	elapsed := time.Since(m.start).Round(time.Second)
	status := fmt.Sprintf("%s Recording... %s / %s", m.spinner.View(), elapsed, m.total)
	s.WriteString(statusStyle.Render(status))
	s.WriteString("\n")

	s.WriteString(renderLevelMeter(m.levels))
	s.WriteString("\n")
	s.WriteString(infoStyle.Render("Press 'q' to abort"))
	s.WriteString("\n")

	return s.String()
}

// renderLevelMeter creates a text-based visualization of recent audio levels
func renderLevelMeter(levels []float32) string {
	var s strings.Builder
	s.WriteString("Level: [")

	const width = 30
	for i := 0; i < width; i++ {
		threshold := 1.0 - float32(i)/float32(width)
		level := levels[i%len(levels)]

		if level >= threshold {
			s.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorForLevel(level))).
				Render("█"))
		} else {
			s.WriteString(" ")
		}
	}

	s.WriteString("]")
	return s.String()
}

// colorForLevel returns a color based on audio level
func colorForLevel(level float32) string {
	switch {
	case level > 0.8:
		return "#F7768E"
	case level > 0.5:
		return "#FF9E64"
	case level > 0.3:
		return "#E0AF68"
	default:
		return "#9ECE6A"
	}
}

// RecordUI runs the recording view alongside a capture in progress
type RecordUI struct {
	program *tea.Program
	done    chan struct{}
}

// NewRecordUI creates a recording UI for a fixed duration
func NewRecordUI(total time.Duration) *RecordUI {
	return &RecordUI{
		program: tea.NewProgram(NewRecordModel(total)),
		done:    make(chan struct{}),
	}
}

// Start runs the view in a goroutine
func (r *RecordUI) Start() {
	go func() {
		defer close(r.done)
		r.program.Run()
	}()
}

// SendLevel feeds one audio level sample to the view
func (r *RecordUI) SendLevel(level float32) {
	r.program.Send(LevelMsg(level))
}

// Finish stops the view and waits for it to exit
func (r *RecordUI) Finish() {
	r.program.Send(DoneMsg{})
	<-r.done
}
