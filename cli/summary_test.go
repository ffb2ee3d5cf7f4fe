package cli

import (
	"strings"
	"testing"

	"bachgen/analysis"
)

func TestRenderReportPageShowsPassBanner(t *testing.T) {
	r := analysis.Report{OverallPass: true}
	out := renderReportPage(r, "Fugue", 3, 0)
	if !strings.Contains(out, "PASS") {
		t.Errorf("expected PASS banner, got:\n%s", out)
	}
	if !strings.Contains(out, "no dissonance events") {
		t.Errorf("expected empty-events message, got:\n%s", out)
	}
}

func TestRenderReportPageShowsFailBanner(t *testing.T) {
	r := analysis.Report{OverallPass: false}
	out := renderReportPage(r, "Fugue", 3, 0)
	if !strings.Contains(out, "FAIL") {
		t.Errorf("expected FAIL banner, got:\n%s", out)
	}
}

func TestRenderReportPagePaginatesEvents(t *testing.T) {
	var events []analysis.Event
	for i := 0; i < issuesPerPage+3; i++ {
		events = append(events, analysis.Event{Bar: i + 1, Beat: 1, Severity: analysis.Low, Description: "x"})
	}
	r := analysis.Report{Dissonance: analysis.Result{Events: events, Summary: analysis.Summary{Total: len(events)}}}

	page0 := renderReportPage(r, "Fugue", 2, 0)
	if !strings.Contains(page0, "page 1/2") {
		t.Errorf("expected page 1/2, got:\n%s", page0)
	}
	page1 := renderReportPage(r, "Fugue", 2, 1)
	if !strings.Contains(page1, "page 2/2") {
		t.Errorf("expected page 2/2, got:\n%s", page1)
	}
}

func TestRenderReportPageClampsScrollPastLastPage(t *testing.T) {
	events := []analysis.Event{{Bar: 1, Beat: 1, Severity: analysis.Low, Description: "x"}}
	r := analysis.Report{Dissonance: analysis.Result{Events: events}}
	out := renderReportPage(r, "Fugue", 1, 99)
	if !strings.Contains(out, "bar 1") {
		t.Errorf("expected clamped scroll to still show the only event, got:\n%s", out)
	}
}
