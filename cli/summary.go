package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bachgen/analysis"
)

const issuesPerPage = 8

// renderReportPage renders the analysis report's pass/fail banner, summary
// counts, and one page of its dissonance events starting at scroll.
func renderReportPage(r analysis.Report, form string, numVoices int, scroll int) string {
	var b strings.Builder

	status := passStyle.Render("PASS")
	if !r.OverallPass {
		status = failStyle.Render("FAIL")
	}
	b.WriteString(fmt.Sprintf("  %s  %s, %d voices\n", status, form, numVoices))

	if r.HasCounterpoint {
		cp := r.Counterpoint
		b.WriteString(headerStyle.Render(fmt.Sprintf(
			"  counterpoint: compliance %.2f, %d parallel perfects, %d crossings, %d large leaps\n",
			cp.ComplianceScore, cp.ParallelPerfectCount, cp.VoiceCrossingCount, cp.LargeLeapCount)))
	}

	s := r.Dissonance.Summary
	b.WriteString(headerStyle.Render(fmt.Sprintf(
		"  dissonance: %d total (%d high, %d medium, %d low), density %.3f/beat\n",
		s.Total, s.HighCount, s.MediumCount, s.LowCount, s.DensityPerBeat)))
	b.WriteString("\n")

	events := r.Dissonance.Events
	if len(events) == 0 {
		b.WriteString(headerStyle.Render("  no dissonance events\n"))
		return b.String()
	}

	maxScroll := (len(events) - 1) / issuesPerPage
	if scroll > maxScroll {
		scroll = maxScroll
	}
	start := scroll * issuesPerPage
	end := start + issuesPerPage
	if end > len(events) {
		end = len(events)
	}

	for _, e := range events[start:end] {
		b.WriteString(severityStyle(e.Severity).Render(fmt.Sprintf(
			"  bar %-3d beat %-2d %-8s %s\n", e.Bar, e.Beat, e.Severity, e.Description)))
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("  page %d/%d\n", scroll+1, maxScroll+1)))
	return b.String()
}

func severityStyle(sev analysis.Severity) lipgloss.Style {
	switch sev {
	case analysis.High:
		return lipgloss.NewStyle().Foreground(critColor)
	case analysis.Medium:
		return lipgloss.NewStyle().Foreground(warnColor)
	default:
		return lipgloss.NewStyle().Foreground(dimColor)
	}
}
