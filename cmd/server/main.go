package main

import (
	"context"
	"log"
	"os"

	"github.com/salem/coop-finder/internal/api"
	"github.com/salem/coop-finder/internal/catalog"
	"github.com/salem/coop-finder/internal/db"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	cat, err := catalog.Load(os.Getenv("CATALOG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	srv := api.NewServer(pool, cat)
	if err := srv.Store.EnsureCategories(ctx, cat.Categories); err != nil {
		log.Fatalf("Failed to sync categories: %v", err)
	}

	log.Printf("Server starting on port %s...", port)
	if err := srv.Start(port); err != nil {
		log.Fatal(err)
	}
}
