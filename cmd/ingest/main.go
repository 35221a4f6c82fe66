package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/simuconcursos/simulado-backend/internal/config"
	"github.com/simuconcursos/simulado-backend/internal/database"
	"github.com/simuconcursos/simulado-backend/internal/ingest"
	"github.com/simuconcursos/simulado-backend/internal/logger"
	"github.com/simuconcursos/simulado-backend/internal/repository"
)

func main() {
	var (
		subject    string
		board      string
		agency     string
		year       int
		positionID int
		resolve    bool
		backfill   bool
	)
	flag.StringVar(&subject, "subject", "", "Subject for all ingested questions (overrides none)")
	flag.StringVar(&board, "board", "", "Examining board (banca)")
	flag.StringVar(&agency, "agency", "", "Hiring agency (órgão)")
	flag.IntVar(&year, "year", 0, "Exam year")
	flag.IntVar(&positionID, "position", 0, "Position ID to attach questions to (0 = general bank)")
	flag.BoolVar(&resolve, "resolve", false, "Resolve fingerprint collision groups after ingesting")
	flag.BoolVar(&backfill, "backfill", false, "Backfill missing fingerprints before ingesting")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 && !resolve && !backfill {
		fmt.Fprintln(os.Stderr, "Usage: ingest [flags] <file> [file...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository(pool)
	normalizer := ingest.NewNormalizer(ingest.DefaultSubstitutions)
	ingestor := ingest.NewIngestor(questionRepo, normalizer, log)

	if backfill {
		updated, err := ingestor.Backfill(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Backfill failed")
		}
		fmt.Printf("Backfilled %d fingerprints\n", updated)
	}

	meta := ingest.Metadata{
		Subject: subject,
		Board:   board,
		Agency:  agency,
	}
	if year > 0 {
		meta.Year = &year
	}
	if positionID > 0 {
		meta.PositionID = &positionID
	}

	var total ingest.Report
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Failed to read file")
		}

		report := ingestor.IngestBlob(ctx, string(raw), meta)
		fmt.Printf("%s: saved=%d duplicates=%d malformed=%d errors=%d\n",
			path, report.Saved, report.Duplicates, report.Malformed, report.Errors)

		total.Saved += report.Saved
		total.Duplicates += report.Duplicates
		total.Malformed += report.Malformed
		total.Errors += report.Errors
	}
	if len(files) > 1 {
		fmt.Printf("total: saved=%d duplicates=%d malformed=%d errors=%d\n",
			total.Saved, total.Duplicates, total.Malformed, total.Errors)
	}

	if resolve {
		resolver := ingest.NewResolver(questionRepo, log)
		removed, err := resolver.Run(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Duplicate resolution failed")
		}
		fmt.Printf("Removed %d duplicate questions\n", removed)
	}
}
