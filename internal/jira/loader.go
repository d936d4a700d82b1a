package jira

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/jsonc"
)

// LoadDataset reads an export file and maps it into a Dataset.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	ds, err := DecodeDataset(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", path, err)
	}
	ds.Source = path

	log.Info().
		Str("path", path).
		Int("tickets", len(ds.Tickets)).
		Int("histories", len(ds.Changelog)).
		Msg("Dataset loaded")

	return ds, nil
}

// DecodeDataset maps a raw export document. Comments and trailing commas are tolerated.
func DecodeDataset(data []byte) (*Dataset, error) {
	var export ExportDTO
	if err := json.Unmarshal(jsonc.ToJSON(data), &export); err != nil {
		return nil, err
	}

	ds := &Dataset{
		Tickets:   make([]Ticket, 0, len(export.Tickets)),
		Changelog: make(Changelog, len(export.Changelog)),
		LoadedAt:  time.Now(),
	}

	seen := make(map[string]bool, len(export.Tickets))
	for _, item := range export.Tickets {
		t := MapIssue(item)
		if t.Key == "" {
			log.Debug().Str("summary", t.Summary).Msg("Skipping ticket without key")
			continue
		}
		if seen[t.Key] {
			log.Warn().Str("key", t.Key).Msg("Duplicate ticket key in export, keeping first occurrence")
			continue
		}
		seen[t.Key] = true
		ds.Tickets = append(ds.Tickets, t)
	}

	for key, items := range export.Changelog {
		ds.Changelog[key] = MapHistory(items)
	}

	return ds, nil
}
