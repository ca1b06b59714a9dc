package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"featurecard/adapters/dataset"
	"featurecard/adapters/postgres"
	"featurecard/internal/migration"
)

// migrate creates the schema and registers the data files found under the
// media root.
//
//	migrate [database_url] [media_root]
//
// Both arguments default to DATABASE_URL and MEDIA_ROOT.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	mediaRoot := os.Getenv("MEDIA_ROOT")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if len(os.Args) > 2 {
		mediaRoot = os.Args[2]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate <database_url> [media_root]")
	}

	ctx := context.Background()

	// Connect to database
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.Migrate(ctx, db, migration.NewRunner()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if mediaRoot == "" {
		log.Printf("No media root given, skipping data file import")
		return
	}

	repo := postgres.NewDataFileRepository(db)
	n, err := dataset.Discover(ctx, repo, mediaRoot)
	if err != nil {
		log.Fatalf("Failed to import data files after %d: %v", n, err)
	}
	log.Printf("Import complete: %d data files registered from %s", n, mediaRoot)
}
