package jira

import "time"

// Normalized workflow statuses. Every ticket is mapped onto exactly one of these.
const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusFinished   = "Finished"
)

// Ticket represents the subset of exported Jira issue data needed for the sprint metrics.
type Ticket struct {
	Key              string `json:"key"`
	Summary          string `json:"summary"`
	IssueType        string `json:"issueType"`
	Status           string `json:"status"`
	NormalizedStatus string `json:"normalizedStatus"`
	Priority         string `json:"priority"`
	Sprint           string `json:"sprint"`
	Assignee         string `json:"assignee,omitempty"`
	Created          string `json:"createdAt"`
	Resolved         string `json:"resolvedAt,omitempty"`
}

// IsFinished reports whether the ticket reached the terminal normalized status.
func (t Ticket) IsFinished() bool {
	return t.NormalizedStatus == StatusFinished
}

// ChangelogEntry is one contiguous dwell period in a single status.
type ChangelogEntry struct {
	Status    string  `json:"status"`
	Days      float64 `json:"days"`
	StartedAt string  `json:"startedAt"`
}

// Changelog maps a ticket key to its ordered status history.
// A missing key means the ticket has no recorded transitions.
type Changelog map[string][]ChangelogEntry

// History returns the recorded entries for a key, or nil.
func (c Changelog) History(key string) []ChangelogEntry {
	if c == nil {
		return nil
	}
	return c[key]
}

// Dataset binds the tickets and changelog loaded from a single export.
type Dataset struct {
	Source    string    `json:"source"`
	Tickets   []Ticket  `json:"tickets"`
	Changelog Changelog `json:"changelog"`
	LoadedAt  time.Time `json:"loadedAt"`
}
