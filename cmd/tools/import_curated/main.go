package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/salem/coop-finder/internal/catalog"
	"github.com/salem/coop-finder/internal/db"
	"github.com/salem/coop-finder/internal/importer"
)

func main() {
	file := flag.String("file", "", "YAML file of curated opportunity records (required)")
	update := flag.Bool("update", true, "Diff-update rows that match an existing opportunity")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cat, err := catalog.Load(os.Getenv("CATALOG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	im := importer.New(db.NewStore(pool, cat))
	im.UpdateExisting = *update

	result, err := im.ImportFile(ctx, *file)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Created", "Updated", "Skipped", "Failed", "Versions"})
	t.AppendRow(table.Row{result.Created, result.Updated, result.Skipped, result.Failed, result.Versions})
	t.Render()

	if result.Failed > 0 {
		os.Exit(1)
	}
}
