package main

import (
	"fmt"
	"os"
	"time"

	"sprint-kpis/cmd/mockgen/engine"

	flag "github.com/spf13/pflag"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, chaos, drift")
	distribution := flag.String("distribution", "uniform", "Distribution to use: uniform, weibull")
	out := flag.String("out", "./.cache/dataset.json", "Output file for the mock export")
	count := flag.Int("count", 200, "Number of tickets to generate")
	first := flag.Int("first-sprint", 30, "First sprint number")
	last := flag.Int("last-sprint", 35, "Last (current) sprint number")
	seed := flag.Int64("seed", 0, "Random seed (0 = time based)")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		FirstSprint:  *first,
		LastSprint:   *last,
		Now:          time.Now(),
		Seed:         *seed,
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Count: %d, Sprints: %d-%d) to %s...\n",
		cfg.Scenario, cfg.Distribution, cfg.Count, cfg.FirstSprint, cfg.LastSprint, *out)

	export := engine.Generate(cfg)

	if err := engine.Save(*out, export); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
