// Package main provides the report generation entry point: read stored
// runs, aggregates and valuations and write REPORT.md plus CSVs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"viwo-token-lab/internal/reporting"
	"viwo-token-lab/internal/storage/migrations"
	pgstore "viwo-token-lab/internal/storage/postgres"
)

func main() {
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling report...\n", sig)
		cancel()
	}()

	if *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "--postgres-dsn is required (reports read persisted runs)")
		os.Exit(1)
	}

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Error running migrations: %v\n", err)
		os.Exit(1)
	}

	gen := reporting.NewGenerator(
		pgstore.NewSimulationRunStore(pool),
		pgstore.NewRunAggregateStore(pool),
		pgstore.NewValuationStore(pool),
	)

	report, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	files := map[string]string{
		"REPORT.md":         reporting.RenderMarkdown(report),
		"run_summaries.csv": reporting.RenderRunSummariesCSV(report.RunSummaries),
	}
	for name, content := range files {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	}

	fmt.Printf("Report covers %d runs across %d scenarios\n", report.RunCount, report.ScenarioCount)
}
