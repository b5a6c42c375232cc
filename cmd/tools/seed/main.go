package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/salem/coop-finder/internal/catalog"
	"github.com/salem/coop-finder/internal/db"
	"github.com/salem/coop-finder/internal/seed"
)

func main() {
	opportunities := flag.Int("opportunities", 0, "Opportunities to ensure exist (0 = default)")
	students := flag.Int("students", 0, "Demo student accounts (0 = default)")
	bookmarks := flag.Int("bookmarks", 0, "Sample bookmarks (0 = default)")
	ratings := flag.Int("ratings", 0, "Sample ratings (0 = default)")
	reports := flag.Int("reports", 0, "Sample reports (0 = default)")
	adminPassword := flag.String("admin-password", "", "Demo admin password (empty = default)")
	rngSeed := flag.Int64("seed", 0, "RNG seed for reproducible data (0 = time-based)")
	flag.Parse()

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

	store := db.NewStore(pool, cat)
	summary, err := seed.Run(ctx, pool, store, cat, seed.Options{
		Opportunities: *opportunities,
		Students:      *students,
		Bookmarks:     *bookmarks,
		Ratings:       *ratings,
		Reports:       *reports,
		AdminPassword: *adminPassword,
		Seed:          *rngSeed,
	})
	if err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Resource", "Count"})
	t.AppendRow(table.Row{"categories", summary.Categories})
	t.AppendRow(table.Row{"opportunities", summary.Opportunities})
	t.AppendRow(table.Row{"students", summary.Students})
	t.AppendRow(table.Row{"admins", summary.Admins})
	t.AppendRow(table.Row{"bookmarks", summary.Bookmarks})
	t.AppendRow(table.Row{"ratings", summary.Ratings})
	t.AppendRow(table.Row{"reports", summary.Reports})
	t.Render()

	for _, msg := range summary.Skipped {
		log.Printf("[seed] skipped: %s", msg)
	}
}
