// Command bookimport bulk-loads the book catalog from a CSV file.
// Re-running over the same file is a no-op for already-present isbns.
package main

import (
	"context"
	"flag"
	"os"

	"bookshelf/internal/adapter/postgres"
	"bookshelf/internal/app"
	"bookshelf/internal/config"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	file := flag.String("file", "books.csv", "CSV file with isbn,title,author,year columns")
	flag.Parse()

	_ = godotenv.Load()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db open")
	}
	defer func() { _ = db.Close() }()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("open input")
	}
	defer func() { _ = f.Close() }()

	catalog := app.NewCatalogService(postgres.NewBookRepo(db))
	inserted, skipped, err := catalog.ImportCSV(context.Background(), f)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	log.Info().Int("inserted", inserted).Int("skipped", skipped).Msg("Import complete")
}
