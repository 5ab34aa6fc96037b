package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"logistics-insights/cmd/seedgen/generator"
	"logistics-insights/internal/store"
)

func main() {
	driver := flag.String("driver", store.DriverSQLite, "Database driver: sqlite, mysql")
	dsn := flag.String("dsn", "./.cache/logistics-insights.db", "Database DSN (a file path for sqlite)")
	scenario := flag.String("scenario", generator.ScenarioMild, "Scenario to generate: mild, spiky")
	count := flag.Int("count", 500, "Number of shipments to generate")
	days := flag.Int("days", 120, "Length of the generated history in days")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	if *scenario != generator.ScenarioMild && *scenario != generator.ScenarioSpiky {
		fmt.Printf("Unknown scenario %q\n", *scenario)
		os.Exit(2)
	}

	if *driver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(*dsn), 0755); err != nil {
			fmt.Printf("Failed to create database directory: %v\n", err)
			os.Exit(1)
		}
	}

	cfg := generator.GeneratorConfig{
		Scenario: *scenario,
		Count:    *count,
		Days:     *days,
		Seed:     *seed,
		Now:      time.Now().UTC(),
	}

	fmt.Printf("Generating scenario '%s' (Count: %d, Days: %d) into %s...\n", cfg.Scenario, cfg.Count, cfg.Days, *dsn)

	p, err := store.Open(*driver, *dsn)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	ctx := context.Background()
	if err := p.Migrate(ctx); err != nil {
		fmt.Printf("Failed to migrate: %v\n", err)
		os.Exit(1)
	}
	if err := p.Seed(ctx, generator.Generate(cfg)); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
