package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/salem/coop-finder/internal/catalog"
	"github.com/salem/coop-finder/internal/db"
	"github.com/salem/coop-finder/internal/importer"
)

func main() {
	limit := flag.Int("limit", 0, "Max opportunities to check (0 = all with a source link)")
	delayMs := flag.Int("delay-ms", 1000, "Per-domain delay between requests in milliseconds")
	timeoutSec := flag.Int("timeout-sec", 30, "HTTP timeout in seconds")
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

	checker := importer.NewLinkChecker(db.NewStore(pool, cat))
	checker.DomainDelay = time.Duration(*delayMs) * time.Millisecond
	checker.Timeout = time.Duration(*timeoutSec) * time.Second

	results, summary, err := checker.CheckAll(ctx, *limit)
	if err != nil {
		log.Fatalf("Check failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Title", "Outcome", "URL", "Error"})
	for _, r := range results {
		errMsg := ""
		if r.Err != nil {
			errMsg = r.Err.Error()
		}
		t.AppendRow(table.Row{truncate(r.Title, 40), r.Outcome, truncate(r.URL, 60), truncate(errMsg, 40)})
	}
	t.Render()

	log.Printf("[check] %d checked: %d unchanged, %d changed, %d closed, %d failed",
		summary.Checked, summary.Unchanged, summary.Changed, summary.Closed, summary.Failed)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
