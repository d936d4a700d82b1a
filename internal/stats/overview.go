package stats

import (
	"slices"

	"sprint-kpis/internal/jira"
)

// OverviewResult summarises the status mix of a sprint (or of every sprint).
type OverviewResult struct {
	Sprint        string             `json:"sprint,omitempty"`
	Total         int                `json:"total"`
	Finished      int                `json:"finished"`
	InProgress    int                `json:"inProgress"`
	Pending       int                `json:"pending"`
	PctFinished   float64            `json:"pctFinished"`
	PctInProgress float64            `json:"pctInProgress"`
	HighestOpen   int                `json:"highestOpen"`
	HighOpen      int                `json:"highOpen"`
	ResolutionAvg map[string]float64 `json:"resolutionDaysByPriority"`
}

// Priorities reported by the overview resolution averages.
var overviewPriorities = []string{"Highest", "High", "Medium", "Low"}

func filterSprint(tickets []jira.Ticket, sprint string) []jira.Ticket {
	if sprint == "" {
		return tickets
	}
	var res []jira.Ticket
	for _, t := range tickets {
		if SprintID(t.Sprint) == sprint {
			res = append(res, t)
		}
	}
	return res
}

// CalculateOverview counts tickets per normalized status for one sprint. An empty sprint
// means every sprint.
func CalculateOverview(tickets []jira.Ticket, sprint string) OverviewResult {
	scoped := filterSprint(tickets, sprint)

	res := OverviewResult{
		Sprint:        sprint,
		Total:         len(scoped),
		ResolutionAvg: make(map[string]float64, len(overviewPriorities)),
	}

	resolution := make(map[string][]int)
	for _, t := range scoped {
		switch t.NormalizedStatus {
		case jira.StatusFinished:
			res.Finished++
		case jira.StatusInProgress:
			res.InProgress++
		case jira.StatusToDo:
			res.Pending++
		}

		if !t.IsFinished() {
			switch t.Priority {
			case "Highest":
				res.HighestOpen++
			case "High":
				res.HighOpen++
			}
			continue
		}

		// Same-day resolutions carry no signal for the average.
		if days, ok := ElapsedDays(t.Created, t.Resolved); ok && days > 0 {
			resolution[t.Priority] = append(resolution[t.Priority], days)
		}
	}

	res.PctFinished = percentOf(res.Finished, res.Total)
	res.PctInProgress = percentOf(res.InProgress, res.Total)
	for _, p := range overviewPriorities {
		res.ResolutionAvg[p] = CalculateAverage(resolution[p])
	}
	return res
}

// SprintEvolution is one row of the sprint-over-sprint evolution table.
type SprintEvolution struct {
	Sprint        string  `json:"sprint"`
	New           int     `json:"new"`
	Resolved      int     `json:"resolved"`
	Pending       int     `json:"pending"`
	Cumulative    int     `json:"cumulative"`
	PctResolution float64 `json:"pctResolution"`
}

// CalculateEvolution returns per-sprint intake and resolution in ascending sprint order.
// Tickets without a sprint number are not part of any row.
func CalculateEvolution(tickets []jira.Ticket) []SprintEvolution {
	groups := make(map[string][]jira.Ticket)
	var ids []string
	for _, t := range tickets {
		id, ok := SprintNumber(t.Sprint)
		if !ok {
			continue
		}
		if _, seen := groups[id]; !seen {
			ids = append(ids, id)
		}
		groups[id] = append(groups[id], t)
	}

	slices.SortFunc(ids, func(a, b string) int {
		return sprintOrdinal(a) - sprintOrdinal(b)
	})

	res := make([]SprintEvolution, 0, len(ids))
	cumulative := 0
	for _, id := range ids {
		row := SprintEvolution{Sprint: SprintLabel(id), New: len(groups[id])}
		for _, t := range groups[id] {
			if t.IsFinished() {
				row.Resolved++
			}
		}
		row.Pending = row.New - row.Resolved
		cumulative += row.New
		row.Cumulative = cumulative
		row.PctResolution = percentOf(row.Resolved, row.New)
		res = append(res, row)
	}
	return res
}

// MatrixStatuses is the column order of the status/priority matrix.
var MatrixStatuses = []string{jira.StatusToDo, jira.StatusInProgress, jira.StatusFinished}

// StatusMatrix counts tickets by priority and normalized status.
type StatusMatrix struct {
	Sprint           string                    `json:"sprint,omitempty"`
	Priorities       []string                  `json:"priorities"`
	Statuses         []string                  `json:"statuses"`
	Counts           map[string]map[string]int `json:"counts"`
	TotalsByPriority map[string]int            `json:"totalsByPriority"`
	TotalsByStatus   map[string]int            `json:"totalsByStatus"`
	Total            int                       `json:"total"`
}

// CalculateStatusMatrix builds the priority by status matrix for one sprint. Tickets with an
// unknown priority only count towards Total.
func CalculateStatusMatrix(tickets []jira.Ticket, sprint string) StatusMatrix {
	scoped := filterSprint(tickets, sprint)

	m := StatusMatrix{
		Sprint:           sprint,
		Priorities:       slices.Clone(Priorities),
		Statuses:         slices.Clone(MatrixStatuses),
		Counts:           make(map[string]map[string]int, len(Priorities)),
		TotalsByPriority: make(map[string]int, len(Priorities)),
		TotalsByStatus:   make(map[string]int, len(MatrixStatuses)),
		Total:            len(scoped),
	}
	for _, p := range Priorities {
		m.Counts[p] = make(map[string]int, len(MatrixStatuses))
		for _, s := range MatrixStatuses {
			m.Counts[p][s] = 0
		}
		m.TotalsByPriority[p] = 0
	}
	for _, s := range MatrixStatuses {
		m.TotalsByStatus[s] = 0
	}

	for _, t := range scoped {
		row, ok := m.Counts[t.Priority]
		if !ok {
			continue
		}
		if _, ok := row[t.NormalizedStatus]; !ok {
			continue
		}
		row[t.NormalizedStatus]++
		m.TotalsByPriority[t.Priority]++
		m.TotalsByStatus[t.NormalizedStatus]++
	}
	return m
}
