package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

func TestGodotenvQuoting(t *testing.T) {
	content := `DATASET_FILE='/data/exports/sprint "35".json'`
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `/data/exports/sprint "35".json`
	if env["DATASET_FILE"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["DATASET_FILE"])
	}
}
