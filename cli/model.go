// Package cli is the generation-progress display and report browser: a
// Bubbletea model showing the generate pipeline's phase list, then a paged
// view over the analysis report.
package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bachgen/analysis"
)

var (
	primaryColor = lipgloss.Color("#00FFFF")
	accentColor  = lipgloss.Color("#00FF00")
	dimColor     = lipgloss.Color("#666666")
	warnColor    = lipgloss.Color("#FFAA00")
	critColor    = lipgloss.Color("#FF6666")

	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	phaseDoneStyle    = lipgloss.NewStyle().Foreground(accentColor)
	phasePendingStyle = lipgloss.NewStyle().Foreground(dimColor)
	phaseActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	headerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle        = lipgloss.NewStyle().Bold(true).Foreground(critColor)
	passStyle         = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	failStyle         = lipgloss.NewStyle().Bold(true).Foreground(critColor)
)

// Phase is one named step of the generate pipeline, rendered in the
// progress list in fixed order.
type Phase int

const (
	PhaseValidateConfig Phase = iota
	PhaseGenerateVoices
	PhaseRunAnalysis
	PhaseWriteMIDI
	numPhases
)

func (p Phase) String() string {
	switch p {
	case PhaseValidateConfig:
		return "Validating config"
	case PhaseGenerateVoices:
		return "Generating voices"
	case PhaseRunAnalysis:
		return "Running analysis"
	case PhaseWriteMIDI:
		return "Writing MIDI"
	}
	return "Unknown"
}

// PhaseDoneMsg is sent via Program.Send as each pipeline stage finishes,
// advancing the progress list by one step.
type PhaseDoneMsg struct{ Phase Phase }

// DoneMsg is sent once the whole pipeline has finished. Report is nil if
// Err is non-nil.
type DoneMsg struct {
	Report   *analysis.Report
	Form     string
	NumVoices int
	OutPath  string
	Err      error
}

// Model is the Bubbletea model driving the progress view and, once the
// pipeline finishes, the report summary view.
type Model struct {
	current   Phase
	complete  bool
	report    *analysis.Report
	form      string
	numVoices int
	outPath   string
	err       error
	quitting  bool
	scroll    int // issue-list scroll offset, for the paged report view
}

// NewModel returns a Model ready to display phase PhaseValidateConfig.
func NewModel() Model {
	return Model{current: PhaseValidateConfig}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "down", "j":
			m.scroll++
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		}
	case PhaseDoneMsg:
		if msg.Phase+1 > m.current {
			m.current = msg.Phase + 1
		}
	case DoneMsg:
		m.complete = true
		m.current = numPhases
		m.report = msg.Report
		m.form = msg.Form
		m.numVoices = msg.NumVoices
		m.outPath = msg.OutPath
		m.err = msg.Err
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("bach generate") + "\n\n")
	for p := Phase(0); p < numPhases; p++ {
		switch {
		case p < m.current:
			b.WriteString(phaseDoneStyle.Render("  [x] "+p.String()) + "\n")
		case p == m.current && !m.complete:
			b.WriteString(phaseActiveStyle.Render("  [.] "+p.String()) + "\n")
		default:
			b.WriteString(phasePendingStyle.Render("  [ ] "+p.String()) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()) + "\n")
		return b.String()
	}

	if m.complete {
		b.WriteString("\n" + headerStyle.Render(fmt.Sprintf("wrote %s", m.outPath)) + "\n\n")
		if m.report != nil {
			b.WriteString(renderReportPage(*m.report, m.form, m.numVoices, m.scroll))
		}
		b.WriteString("\n" + headerStyle.Render("  [up/down] scroll issues  [q] quit") + "\n")
	}
	return b.String()
}

// Quitting reports whether the user pressed q/esc/ctrl+c.
func (m Model) Quitting() bool { return m.quitting }
