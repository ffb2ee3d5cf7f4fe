// Package report is the generation diagnostics accumulator: a fail report
// of {kind, severity, bar, beat, voice_a, voice_b, rule_name, description}
// entries, a Critical/Warning/Info summary, and JSON rendering via
// jsonutil.
package report

import "bachgen/jsonutil"

// Kind classifies what failed.
type Kind int

const (
	Structural Kind = iota
	Musical
	Config
)

func (k Kind) jsonString() string {
	switch k {
	case Structural:
		return "structural"
	case Musical:
		return "musical"
	case Config:
		return "config"
	}
	return "unknown"
}

// Severity is how seriously an Issue should be taken.
type Severity int

const (
	Info Severity = iota
	Warning
	Critical
)

func (s Severity) jsonString() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	}
	return "unknown"
}

// Issue is one diagnostic entry.
type Issue struct {
	Kind        Kind
	Severity    Severity
	Bar         int
	Beat        int
	VoiceA      int
	VoiceB      int
	RuleName    string
	Description string
}

// Summary is the Critical/Warning/Info tally over a Report's issues.
type Summary struct {
	TotalCritical int
	TotalWarning  int
	TotalInfo     int
}

// Report accumulates Issues across a generation run. The zero value is
// ready to use.
type Report struct {
	Issues []Issue
}

// AddIssue appends one diagnostic entry.
func (r *Report) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// Summary tallies issues by severity.
func (r *Report) Summary() Summary {
	var s Summary
	for _, issue := range r.Issues {
		switch issue.Severity {
		case Critical:
			s.TotalCritical++
		case Warning:
			s.TotalWarning++
		case Info:
			s.TotalInfo++
		}
	}
	return s
}

// HasCritical reports whether any issue is Critical, meaning the output
// may be musically unusable.
func (r *Report) HasCritical() bool {
	for _, issue := range r.Issues {
		if issue.Severity == Critical {
			return true
		}
	}
	return false
}

// IssuesByKind returns the subset of issues matching kind, in report order.
func (r *Report) IssuesByKind(kind Kind) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Kind == kind {
			out = append(out, issue)
		}
	}
	return out
}

// IssuesBySeverity returns the subset of issues matching severity, in
// report order.
func (r *Report) IssuesBySeverity(severity Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

// ToJSON renders the report as pretty-printed JSON: a summary object
// followed by an issues array, mirroring FailReport::toJson.
func (r *Report) ToJSON() string {
	w := jsonutil.NewWriter("  ")
	w.BeginObject()

	sum := r.Summary()
	w.Key("summary")
	w.BeginObject()
	w.Key("critical")
	w.Int(sum.TotalCritical)
	w.Key("warning")
	w.Int(sum.TotalWarning)
	w.Key("info")
	w.Int(sum.TotalInfo)
	w.EndObject()

	w.Key("issues")
	w.BeginArray()
	for _, issue := range r.Issues {
		w.BeginObject()
		w.Key("kind")
		w.String(issue.Kind.jsonString())
		w.Key("severity")
		w.String(issue.Severity.jsonString())
		w.Key("bar")
		w.Int(issue.Bar)
		w.Key("beat")
		w.Int(issue.Beat)
		w.Key("voice_a")
		w.Int(issue.VoiceA)
		w.Key("voice_b")
		w.Int(issue.VoiceB)
		w.Key("rule")
		w.String(issue.RuleName)
		w.Key("description")
		w.String(issue.Description)
		w.EndObject()
	}
	w.EndArray()

	w.EndObject()
	return w.ToString()
}
