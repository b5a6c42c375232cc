package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/salem/coop-finder/internal/db"
)

func main() {
	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	tables := []struct {
		name      string
		latestCol string
	}{
		{"opp_categories", ""},
		{"opportunities", "created_at"},
		{"users", "created_at"},
		{"students", "created_at"},
		{"bookmarks", "created_at"},
		{"ratings", "created_at"},
		{"reports", "created_at"},
		{"submissions", "created_at"},
		{"opportunity_versions", "fetched_at"},
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Table", "Rows", "Latest"})

	for _, tbl := range tables {
		var count int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+tbl.name).Scan(&count); err != nil {
			log.Fatalf("Count %s failed: %v", tbl.name, err)
		}

		latest := ""
		if tbl.latestCol != "" {
			var ts *time.Time
			if err := pool.QueryRow(ctx, "SELECT MAX("+tbl.latestCol+") FROM "+tbl.name).Scan(&ts); err != nil {
				log.Fatalf("Latest %s failed: %v", tbl.name, err)
			}
			if ts != nil {
				latest = ts.Format("2006-01-02 15:04:05")
			}
		}

		t.AppendRow(table.Row{tbl.name, count, latest})
	}

	t.Render()
}
