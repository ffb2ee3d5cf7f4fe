package report

import (
	"strings"
	"testing"
)

func sampleReport() *Report {
	r := &Report{}
	r.AddIssue(Issue{Kind: Musical, Severity: Warning, Bar: 3, Beat: 2, VoiceA: 0, VoiceB: 1, RuleName: "parallel-fifths", Description: "parallel fifth between voices 0 and 1"})
	r.AddIssue(Issue{Kind: Structural, Severity: Critical, Bar: 10, Beat: 1, VoiceA: 2, VoiceB: -1, RuleName: "no-subject-candidate", Description: "no candidate passed the gate"})
	r.AddIssue(Issue{Kind: Config, Severity: Info, Bar: 0, Beat: 0, VoiceA: -1, VoiceB: -1, RuleName: "default-instrument", Description: "instrument defaulted to Organ"})
	return r
}

func TestSummaryTallies(t *testing.T) {
	r := sampleReport()
	s := r.Summary()
	if s.TotalCritical != 1 || s.TotalWarning != 1 || s.TotalInfo != 1 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestHasCritical(t *testing.T) {
	r := sampleReport()
	if !r.HasCritical() {
		t.Error("expected HasCritical true")
	}
	empty := &Report{}
	if empty.HasCritical() {
		t.Error("expected HasCritical false on empty report")
	}
}

func TestIssuesByKindAndSeverity(t *testing.T) {
	r := sampleReport()
	musical := r.IssuesByKind(Musical)
	if len(musical) != 1 || musical[0].RuleName != "parallel-fifths" {
		t.Errorf("IssuesByKind(Musical) = %+v", musical)
	}
	critical := r.IssuesBySeverity(Critical)
	if len(critical) != 1 || critical[0].RuleName != "no-subject-candidate" {
		t.Errorf("IssuesBySeverity(Critical) = %+v", critical)
	}
}

func TestToJSONContainsSummaryAndIssues(t *testing.T) {
	r := sampleReport()
	j := r.ToJSON()
	for _, want := range []string{
		`"critical": 1`, `"warning": 1`, `"info": 1`,
		`"kind": "musical"`, `"severity": "critical"`,
		`"rule": "no-subject-candidate"`,
	} {
		if !strings.Contains(j, want) {
			t.Errorf("ToJSON missing %q in:\n%s", want, j)
		}
	}
}

func TestToJSONEmptyReport(t *testing.T) {
	r := &Report{}
	j := r.ToJSON()
	if !strings.Contains(j, `"issues": []`) {
		t.Errorf("expected empty issues array, got:\n%s", j)
	}
}

func TestFugueMetricsToJSON(t *testing.T) {
	m := FugueMetrics{
		AnswerAccuracyScore:         0.9,
		ExpositionCompletenessScore: 1.0,
		EpisodeMotifUsageRate:       0.75,
		TonalPlanScore:              0.8,
		CadenceDetectionRate:        0.6,
		MotivicUnityScore:           0.95,
		TonalConsistencyScore:       0.85,
	}
	j := m.ToJSON()
	if !strings.Contains(j, `"answer_accuracy_score": 0.9`) {
		t.Errorf("missing answer_accuracy_score in:\n%s", j)
	}
	if !strings.Contains(j, `"tonal_consistency_score": 0.85`) {
		t.Errorf("missing tonal_consistency_score in:\n%s", j)
	}
}
