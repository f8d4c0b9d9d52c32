package domain

// Severity classifies how serious a finding is.
type Severity string

const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// Valid reports whether the severity is one of the known values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeveritySuggestion:
		return true
	}
	return false
}

// Verdict is the engine's overall judgement of the pull request.
type Verdict string

const (
	VerdictApprove        Verdict = "approve"
	VerdictRequestChanges Verdict = "request_changes"
	VerdictComment        Verdict = "comment"
)

// Valid reports whether the verdict is one of the known values.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictApprove, VerdictRequestChanges, VerdictComment:
		return true
	}
	return false
}

// Finding is a single reviewable issue emitted by the reasoning engine,
// anchored to a file and line range in the HEAD version of the PR.
type Finding struct {
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	EndLine  int      `json:"end_line"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
}

// ReviewOutput is the structured artifact the engine writes after a run.
type ReviewOutput struct {
	Summary  string    `json:"summary"`
	Verdict  Verdict   `json:"verdict"`
	Findings []Finding `json:"findings"`
}

// PostResult records the outcome of submitting one finding as an inline
// review comment. Posted is true for a 2xx response; otherwise the finding
// was out of the diff's visible context and HTTPStatus holds the API status.
type PostResult struct {
	Finding    Finding
	Posted     bool
	HTTPStatus int
}
