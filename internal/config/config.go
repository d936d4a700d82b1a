package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"sprint-kpis/internal/stats"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	LogDir              string
	ReportDir           string
	DatasetFile         string
	PolicyFile          string
	EnableMermaidCharts bool
	Policy              stats.Policy
}

// Load loads the configuration from .env files and environment variables,
// then reads the sprint policy file.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return fromEnv(exeDir)
}

func fromEnv(exeDir string) (*AppConfig, error) {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs"))
	reportDir := getEnv("REPORT_DIR", filepath.Join(dataPath, "reports"))

	// Ensure directories exist
	for _, dir := range []string{logDir, reportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to create directory")
		}
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		ReportDir:           reportDir,
		DatasetFile:         getEnv("DATASET_FILE", filepath.Join(dataPath, "dataset.json")),
		PolicyFile:          getEnv("POLICY_FILE", filepath.Join(dataPath, "policy.yaml")),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	policy, err := LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	if sprint, ok := os.LookupEnv("CURRENT_SPRINT"); ok {
		policy.CurrentSprint = sprint
	}
	cfg.Policy = policy.WithDefaults()

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
