package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"sprint-kpis/internal/jira"

	"github.com/natefinch/atomic"
)

// GeneratorConfig controls the shape of a synthetic export.
type GeneratorConfig struct {
	Scenario     string // mild, chaos or drift
	Distribution string // uniform or weibull
	Count        int
	FirstSprint  int
	LastSprint   int
	SprintDays   int
	Now          time.Time
	Seed         int64
}

// scenarioProfile holds the per-scenario probabilities.
type scenarioProfile struct {
	bugShare    float64
	reworkRate  float64
	blockedRate float64
}

func profileFor(cfg GeneratorConfig, progress float64) scenarioProfile {
	switch cfg.Scenario {
	case "chaos":
		return scenarioProfile{bugShare: 0.45, reworkRate: 0.5, blockedRate: 0.3}
	case "drift":
		// Quality erodes from the first sprint to the last.
		return scenarioProfile{
			bugShare:    0.1 + 0.4*progress,
			reworkRate:  0.05 + 0.45*progress,
			blockedRate: 0.05 + 0.2*progress,
		}
	default:
		return scenarioProfile{bugShare: 0.2, reworkRate: 0.15, blockedRate: 0.05}
	}
}

var (
	priorities = []string{"Highest", "High", "High", "Medium", "Medium", "Medium", "Low", "Low", "Lowest"}
	assignees  = []string{"ana.garcia", "luis.martin", "marta.ruiz", "pablo.diaz", ""}
)

func (cfg *GeneratorConfig) applyDefaults() {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Count <= 0 {
		cfg.Count = 200
	}
	if cfg.SprintDays <= 0 {
		cfg.SprintDays = 14
	}
	if cfg.FirstSprint <= 0 {
		cfg.FirstSprint = 30
	}
	if cfg.LastSprint < cfg.FirstSprint {
		cfg.LastSprint = cfg.FirstSprint + 5
	}
	if cfg.Seed == 0 {
		cfg.Seed = cfg.Now.UnixNano()
	}
}

// Generate builds an export with tickets spread evenly over the sprint range. Tickets of
// the last sprint may still be open at cfg.Now.
func Generate(cfg GeneratorConfig) jira.ExportDTO {
	cfg.applyDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))

	sprints := cfg.LastSprint - cfg.FirstSprint + 1
	export := jira.ExportDTO{
		Tickets:   make([]jira.IssueDTO, 0, cfg.Count),
		Changelog: make(map[string][]jira.HistoryDTO, cfg.Count),
	}

	for i := 0; i < cfg.Count; i++ {
		key := fmt.Sprintf("KPI-%d", i+1)
		sprint := cfg.FirstSprint + i*sprints/cfg.Count
		progress := float64(sprint-cfg.FirstSprint) / float64(max(1, sprints-1))
		profile := profileFor(cfg, progress)

		// Sprint N ends (LastSprint-N) sprints before Now.
		sprintEnd := cfg.Now.AddDate(0, 0, -(cfg.LastSprint-sprint)*cfg.SprintDays)
		sprintStart := sprintEnd.AddDate(0, 0, -cfg.SprintDays)
		created := sprintStart.Add(-time.Duration(rng.Intn(10*24)) * time.Hour)

		issueType := pickType(rng, profile)
		dto := jira.IssueDTO{
			Key:       key,
			Summary:   fmt.Sprintf("%s %d", issueType, i+1),
			IssueType: issueType,
			Priority:  priorities[rng.Intn(len(priorities))],
			Sprint:    sprintField(rng, sprint),
			Assignee:  assignees[rng.Intn(len(assignees))],
			Created:   jira.FormatDate(created),
		}

		// Part of the current sprint has not been started yet.
		if sprint == cfg.LastSprint && rng.Float64() < 0.2 {
			dto.Status = "Tareas por hacer"
			export.Tickets = append(export.Tickets, dto)
			continue
		}

		history, resolved := walkWorkflow(rng, cfg, profile, created)
		dto.Status = history[len(history)-1].Status
		if resolved != nil {
			dto.Resolved = jira.FormatDate(*resolved)
		}

		export.Tickets = append(export.Tickets, dto)
		export.Changelog[key] = history
	}

	return export
}

func pickType(rng *rand.Rand, p scenarioProfile) string {
	r := rng.Float64()
	switch {
	case r < 0.04:
		return "Epic"
	case r < 0.08:
		return "Subtarea"
	case r < 0.08+p.bugShare:
		return "Bug"
	case r < 0.08+p.bugShare+(0.92-p.bugShare)/2:
		return "Historia"
	default:
		return "Tarea"
	}
}

func sprintField(rng *rand.Rand, sprint int) any {
	switch rng.Intn(3) {
	case 0:
		return sprint
	case 1:
		return fmt.Sprintf("Sprint %d", sprint)
	default:
		return fmt.Sprintf("KPI Board-Sprint %d", sprint)
	}
}

type stage struct {
	status string
	share  float64
}

// walkWorkflow produces the dwell history of a ticket from creation until it is done or
// until cfg.Now, whichever comes first.
func walkWorkflow(rng *rand.Rand, cfg GeneratorConfig, p scenarioProfile, created time.Time) ([]jira.HistoryDTO, *time.Time) {
	total := sampleDuration(rng, cfg)

	stages := []stage{{"Tareas por hacer", 0.1}, {"In Process", 0.3}}
	if rng.Float64() < p.blockedRate {
		stages = append(stages, stage{"Blocked", 0.1})
	}
	stages = append(stages, stage{"Code Review", 0.15}, stage{"In Test Dev", 0.15}, stage{"In Test", 0.15})
	for rng.Float64() < p.reworkRate && len(stages) < 16 {
		back := "Code Review"
		if rng.Intn(2) == 0 {
			back = "In Process"
		}
		stages = append(stages, stage{"Test Issues", 0.05}, stage{back, 0.1}, stage{"In Test", 0.1})
	}
	stages = append(stages, stage{"Done", 0})

	var history []jira.HistoryDTO
	at := created
	for _, st := range stages {
		if !at.Before(cfg.Now) {
			break
		}
		dwell := time.Duration(total * st.share * 24 * float64(time.Hour))
		if st.status == "Done" {
			history = append(history, jira.HistoryDTO{Status: st.status, Days: 0.0, StartedAt: jira.FormatDate(at)})
			return history, &at
		}
		if end := at.Add(dwell); end.After(cfg.Now) {
			dwell = cfg.Now.Sub(at)
		}
		history = append(history, jira.HistoryDTO{
			Status:    st.status,
			Days:      math.Round(dwell.Hours()/24*10) / 10,
			StartedAt: jira.FormatDate(at),
		})
		at = at.Add(dwell)
	}
	return history, nil
}

func sampleDuration(rng *rand.Rand, cfg GeneratorConfig) float64 {
	if cfg.Distribution == "weibull" {
		k, lambda := 2.5, 12.0
		if cfg.Scenario == "chaos" {
			k = 0.8
		}
		return weibullSample(rng, k, lambda)
	}

	// Uniform baseline: 5-20 days.
	d := 5.0 + rng.Float64()*15.0
	if cfg.Scenario == "chaos" && rng.Float64() < 0.2 {
		d += 10 + rng.Float64()*20
	}
	return d
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// Save writes the export as indented JSON, replacing path atomically.
func Save(path string, export jira.ExportDTO) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}
