package stats

import (
	"sprint-kpis/internal/jira"
)

func finishedTicket(key, sprint, priority, created, resolved string) jira.Ticket {
	return jira.Ticket{
		Key:              key,
		Summary:          "Summary " + key,
		IssueType:        "Story",
		Status:           "Done",
		NormalizedStatus: jira.StatusFinished,
		Priority:         priority,
		Sprint:           sprint,
		Created:          created,
		Resolved:         resolved,
	}
}

func openTicket(key, sprint, issueType string) jira.Ticket {
	return jira.Ticket{
		Key:              key,
		Summary:          "Summary " + key,
		IssueType:        issueType,
		Status:           "In Process",
		NormalizedStatus: jira.StatusInProgress,
		Priority:         "Medium",
		Sprint:           sprint,
		Created:          "1/ene/26",
	}
}

func entry(status string, days float64) jira.ChangelogEntry {
	return jira.ChangelogEntry{Status: status, Days: days, StartedAt: "1/ene/26"}
}
