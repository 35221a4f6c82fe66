package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/simuconcursos/simulado-backend/internal/ingest"
)

// IngestBlobRequest is one raw harvested text blob plus its metadata.
type IngestBlobRequest struct {
	Raw  string          `json:"raw" binding:"required,min=1"`
	Meta ingest.Metadata `json:"meta"`
}

// IngestRequest is the payload for a batch ingestion call.
type IngestRequest struct {
	Blobs []IngestBlobRequest `json:"blobs" binding:"required,min=1,dive"`
}

// IngestService fronts the ingestion pipeline: extraction, adaptation,
// deduplicated insertion, fingerprint backfill and collision resolution.
type IngestService struct {
	ingestor *ingest.Ingestor
	resolver *ingest.Resolver
	log      zerolog.Logger
}

// NewIngestService creates a new IngestService.
func NewIngestService(ingestor *ingest.Ingestor, resolver *ingest.Resolver, log zerolog.Logger) *IngestService {
	return &IngestService{
		ingestor: ingestor,
		resolver: resolver,
		log:      log.With().Str("component", "ingest_service").Logger(),
	}
}

// IngestBlobs runs every blob through the pipeline and sums the per-blob
// reports. Duplicates and malformed questions are expected outcomes, counted
// rather than failed.
func (s *IngestService) IngestBlobs(ctx context.Context, req IngestRequest) ingest.Report {
	var total ingest.Report
	for _, blob := range req.Blobs {
		r := s.ingestor.IngestBlob(ctx, blob.Raw, blob.Meta)
		total.Saved += r.Saved
		total.Duplicates += r.Duplicates
		total.Malformed += r.Malformed
		total.Errors += r.Errors
	}

	s.log.Info().
		Int("saved", total.Saved).
		Int("duplicates", total.Duplicates).
		Int("malformed", total.Malformed).
		Int("errors", total.Errors).
		Msg("Ingestion batch finished")

	return total
}

// Backfill computes fingerprints for legacy questions without one.
func (s *IngestService) Backfill(ctx context.Context) (int, error) {
	return s.ingestor.Backfill(ctx)
}

// ResolveDuplicates runs the manual-vs-harvested collision batch job.
func (s *IngestService) ResolveDuplicates(ctx context.Context) (int, error) {
	return s.resolver.Run(ctx)
}
