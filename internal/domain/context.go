package domain

import "time"

// Comment is one conversation or review-thread comment on a PR.
type Comment struct {
	Author    string
	Body      string
	CreatedAt time.Time
}

// ReviewThread is an anchored comment conversation on a PR diff line.
// Line and StartLine are nil for file-level threads; StartLine, when
// present and different from Line, denotes a multi-line anchor.
type ReviewThread struct {
	IsResolved bool
	IsOutdated bool
	Path       string
	Line       *int
	StartLine  *int
	Comments   []Comment
}

// ReviewContext bundles everything known about a PR before the engine runs.
// Constructed once per run and treated as read-only afterwards.
type ReviewContext struct {
	Title                string
	Body                 string
	Author               string
	BaseRef              string
	HeadRef              string
	HeadSHA              string
	ConversationComments []Comment
	ReviewThreads        []ReviewThread
}

// DiffBundle holds the base...head diff, possibly cut to a byte budget.
// Truncation is a byte-prefix cut and may end mid-token; consumers must
// flag this in the prompt so the engine knows content is missing.
type DiffBundle struct {
	RawDiff       []byte
	OriginalSize  int
	Truncated     bool
	TruncatedSize int
}
