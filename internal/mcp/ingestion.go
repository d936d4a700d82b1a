package mcp

import (
	"fmt"
	"os"

	"sprint-kpis/internal/jira"

	"github.com/rs/zerolog/log"
)

// loadDataset returns the cached dataset, re-reading the file when it changed on disk.
func (s *Server) loadDataset() (*jira.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.cfg.DatasetFile
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dataset not available at %s (set DATASET_FILE or DATA_PATH): %w", path, err)
	}

	if s.dataset != nil && info.ModTime().Equal(s.datasetAt) {
		return s.dataset, nil
	}
	if s.dataset != nil {
		log.Info().Str("path", path).Msg("Dataset changed on disk, reloading")
	}

	ds, err := jira.LoadDataset(path)
	if err != nil {
		return nil, err
	}
	s.dataset = ds
	s.datasetAt = info.ModTime()
	return ds, nil
}
