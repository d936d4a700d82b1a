package jira

// ExportDTO is the top-level container of a Jira export file.
type ExportDTO struct {
	Tickets   []IssueDTO              `json:"tickets"`
	Changelog map[string][]HistoryDTO `json:"changelog"`
}

// IssueDTO represents a single exported issue row.
type IssueDTO struct {
	Key              string `json:"key"`
	Summary          string `json:"summary"`
	IssueType        string `json:"issueType"`
	Status           string `json:"status"`
	NormalizedStatus string `json:"normalizedStatus,omitempty"`
	Priority         string `json:"priority"`
	Sprint           any    `json:"sprint"` // "34", 34 or "Board-Sprint 34"
	Assignee         string `json:"assignee"`
	Created          string `json:"created"`
	Resolved         string `json:"resolved"`
}

// HistoryDTO is a single dwell period in the exported changelog.
type HistoryDTO struct {
	Status    string `json:"status"`
	Days      any    `json:"days"` // number, numeric string or null
	StartedAt string `json:"startedAt"`
}
