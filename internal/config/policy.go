package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"sprint-kpis/internal/stats"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// policyFile mirrors stats.Policy on disk. Absent keys keep their defaults.
type policyFile struct {
	CurrentSprint    *string  `yaml:"current_sprint"`
	AgeSprints       []string `yaml:"age_sprints"`
	CycleTimeSprints []string `yaml:"cycle_time_sprints"`
	ReworkSprint     *string  `yaml:"rework_sprint"`
	ErrorMinSprint   *int     `yaml:"error_min_sprint"`
	AgeCriticalDays  *int     `yaml:"age_critical_days"`
	AgeAlertDays     *int     `yaml:"age_alert_days"`
	TrendMode        *string  `yaml:"trend_mode"`
}

// LoadPolicy reads a YAML policy file and merges it onto stats.DefaultPolicy.
// A missing file yields the defaults.
func LoadPolicy(path string) (stats.Policy, error) {
	policy := stats.DefaultPolicy()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("No policy file, using default sprint policy")
		return policy, nil
	}
	if err != nil {
		return policy, err
	}

	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return policy, fmt.Errorf("invalid policy file %s: %w", path, err)
	}

	if pf.CurrentSprint != nil {
		policy.CurrentSprint = *pf.CurrentSprint
	}
	if pf.AgeSprints != nil {
		policy.AgeSprints = pf.AgeSprints
	}
	if pf.CycleTimeSprints != nil {
		policy.CycleTimeSprints = pf.CycleTimeSprints
	}
	if pf.ReworkSprint != nil {
		policy.ReworkSprint = *pf.ReworkSprint
	}
	if pf.ErrorMinSprint != nil {
		policy.ErrorMinSprint = *pf.ErrorMinSprint
		// 0 in the file has always meant every sprint.
		if policy.ErrorMinSprint <= 0 {
			policy.ErrorMinSprint = stats.AllSprints
		}
	}
	if pf.AgeCriticalDays != nil {
		policy.AgeThresholds.CriticalDays = *pf.AgeCriticalDays
	}
	if pf.AgeAlertDays != nil {
		policy.AgeThresholds.AlertDays = *pf.AgeAlertDays
	}
	if pf.TrendMode != nil {
		switch *pf.TrendMode {
		case stats.TrendModeChronological, stats.TrendModeLegacy:
			policy.TrendMode = *pf.TrendMode
		default:
			return policy, fmt.Errorf("invalid policy file %s: unknown trend_mode %q", path, *pf.TrendMode)
		}
	}
	if policy.AgeThresholds.AlertDays > policy.AgeThresholds.CriticalDays {
		return policy, fmt.Errorf("invalid policy file %s: age_alert_days must not exceed age_critical_days", path)
	}

	policy = policy.WithDefaults()
	log.Info().Str("path", path).Str("rework_sprint", policy.ReworkSprint).Strs("age_sprints", policy.AgeSprints).Msg("Loaded sprint policy")
	return policy, nil
}
