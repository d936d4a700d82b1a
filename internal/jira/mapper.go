package jira

import (
	"math"
	"strconv"
	"strings"
)

var (
	finishedStatuses = []string{"done", "closed", "resolved", "finished", "finalizada", "finalizado", "finalizados"}
	pendingStatuses  = []string{"to do", "todo", "open", "backlog", "tareas por hacer", "por hacer"}
)

// MapIssue transforms an exported issue row into a domain Ticket.
func MapIssue(item IssueDTO) Ticket {
	ticket := Ticket{
		Key:              strings.TrimSpace(item.Key),
		Summary:          item.Summary,
		IssueType:        item.IssueType,
		Status:           item.Status,
		NormalizedStatus: item.NormalizedStatus,
		Priority:         strings.TrimSpace(item.Priority),
		Sprint:           strings.TrimSpace(asString(item.Sprint)),
		Assignee:         item.Assignee,
		Created:          strings.TrimSpace(item.Created),
		Resolved:         strings.TrimSpace(item.Resolved),
	}

	// Exports from older boards carry only the raw status.
	if ticket.NormalizedStatus == "" {
		ticket.NormalizedStatus = NormalizeWorkflowStatus(item.Status)
	}

	return ticket
}

// MapHistory converts exported dwell periods, coercing missing or non-numeric days to zero.
func MapHistory(items []HistoryDTO) []ChangelogEntry {
	entries := make([]ChangelogEntry, 0, len(items))
	for _, h := range items {
		entries = append(entries, ChangelogEntry{
			Status:    h.Status,
			Days:      asDays(h.Days),
			StartedAt: h.StartedAt,
		})
	}
	return entries
}

// NormalizeWorkflowStatus maps a raw Jira status name onto To Do / In Progress / Finished.
func NormalizeWorkflowStatus(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, s := range finishedStatuses {
		if lower == s {
			return StatusFinished
		}
	}
	for _, s := range pendingStatuses {
		if lower == s {
			return StatusToDo
		}
	}
	if lower == "" {
		return StatusToDo
	}
	return StatusInProgress
}

func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func asDays(v any) float64 {
	var days float64
	switch val := v.(type) {
	case float64:
		days = val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		days = f
	default:
		return 0
	}
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return 0
	}
	return days
}
