package stats

import (
	"slices"

	"sprint-kpis/internal/jira"
)

// Priorities is the fixed reporting order of Jira priorities.
var Priorities = []string{"Highest", "High", "Medium", "Low", "Lowest"}

// SprintAverage is the mean lead time of the finished tickets of one sprint.
type SprintAverage struct {
	Sprint  string  `json:"sprint"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// PriorityAverage is the mean lead time of the finished tickets of one priority.
type PriorityAverage struct {
	Priority string  `json:"priority"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

// DistributionBucket counts tickets whose lead time falls in [Min, Max]. Max is nil
// for the open-ended last bucket.
type DistributionBucket struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   *int   `json:"max"`
	Count int    `json:"count"`
}

func (b DistributionBucket) contains(days int) bool {
	return days >= b.Min && (b.Max == nil || days <= *b.Max)
}

// TicketLeadTime is the creation-to-resolution duration of a finished ticket.
type TicketLeadTime struct {
	Key          string `json:"key"`
	Sprint       string `json:"sprint"`
	Priority     string `json:"priority"`
	LeadTimeDays int    `json:"leadTimeDays"`
}

// LeadTimeResult is the lead-time section of the report.
type LeadTimeResult struct {
	Average      float64              `json:"average"`
	Median       float64              `json:"median"`
	BySprint     []SprintAverage      `json:"bySprintList"`
	ByPriority   []PriorityAverage    `json:"byPriorityList"`
	Distribution []DistributionBucket `json:"distribution"`
	Total        int                  `json:"total"`
	Tickets      []TicketLeadTime     `json:"tickets,omitempty"`
}

func intPtr(v int) *int { return &v }

func leadTimeBuckets() []DistributionBucket {
	return []DistributionBucket{
		{Label: "0-3 days", Min: 0, Max: intPtr(3)},
		{Label: "4-7 days", Min: 4, Max: intPtr(7)},
		{Label: "8-14 days", Min: 8, Max: intPtr(14)},
		{Label: "15-30 days", Min: 15, Max: intPtr(30)},
		{Label: "31+ days", Min: 31},
	}
}

func emptyLeadTime() LeadTimeResult {
	return LeadTimeResult{
		BySprint:     []SprintAverage{},
		ByPriority:   []PriorityAverage{},
		Distribution: []DistributionBucket{},
	}
}

// CalculateLeadTime computes creation-to-resolution statistics for finished tickets.
// An empty sprint means every sprint.
func CalculateLeadTime(tickets []jira.Ticket, sprint string) LeadTimeResult {
	var items []TicketLeadTime
	for _, t := range tickets {
		if !t.IsFinished() {
			continue
		}
		days, ok := ElapsedDays(t.Created, t.Resolved)
		if !ok {
			continue
		}
		if sprint != "" && SprintID(t.Sprint) != sprint {
			continue
		}
		items = append(items, TicketLeadTime{
			Key:          t.Key,
			Sprint:       t.Sprint,
			Priority:     t.Priority,
			LeadTimeDays: days,
		})
	}

	if len(items) == 0 {
		return emptyLeadTime()
	}

	all := make([]int, len(items))
	for i, it := range items {
		all[i] = it.LeadTimeDays
	}

	return LeadTimeResult{
		Average:      CalculateAverage(all),
		Median:       CalculateMedianDiscrete(all),
		BySprint:     leadTimeBySprint(items),
		ByPriority:   leadTimeByPriority(items),
		Distribution: leadTimeDistribution(items),
		Total:        len(items),
		Tickets:      items,
	}
}

// Tickets whose sprint field has no digits are left out of the per-sprint grouping.
func leadTimeBySprint(items []TicketLeadTime) []SprintAverage {
	groups := make(map[string][]int)
	var ids []string
	for _, it := range items {
		id, ok := SprintNumber(it.Sprint)
		if !ok {
			continue
		}
		if _, seen := groups[id]; !seen {
			ids = append(ids, id)
		}
		groups[id] = append(groups[id], it.LeadTimeDays)
	}

	slices.SortFunc(ids, func(a, b string) int {
		return sprintOrdinal(a) - sprintOrdinal(b)
	})

	res := make([]SprintAverage, 0, len(ids))
	for _, id := range ids {
		res = append(res, SprintAverage{
			Sprint:  SprintLabel(id),
			Average: CalculateAverage(groups[id]),
			Count:   len(groups[id]),
		})
	}
	return res
}

func leadTimeByPriority(items []TicketLeadTime) []PriorityAverage {
	res := []PriorityAverage{}
	for _, p := range Priorities {
		var days []int
		for _, it := range items {
			if it.Priority == p {
				days = append(days, it.LeadTimeDays)
			}
		}
		if len(days) == 0 {
			continue
		}
		res = append(res, PriorityAverage{
			Priority: p,
			Average:  CalculateAverage(days),
			Count:    len(days),
		})
	}
	return res
}

func leadTimeDistribution(items []TicketLeadTime) []DistributionBucket {
	buckets := leadTimeBuckets()
	for _, it := range items {
		for i := range buckets {
			if buckets[i].contains(it.LeadTimeDays) {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}
