package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/simuconcursos/simulado-backend/internal/catalog"
	"github.com/simuconcursos/simulado-backend/internal/model"
)

var (
	// ErrDuplicate marks a question whose fingerprint is already in the
	// catalog. Expected and non-fatal: callers count it and continue.
	ErrDuplicate = errors.New("duplicate question")
	// ErrMalformed marks harvested content missing required options, the
	// correct label, or a long-enough statement. Discarded before dedup.
	ErrMalformed = errors.New("malformed question")
)

// Report aggregates the outcome of one ingestion batch.
type Report struct {
	Saved      int `json:"saved"`
	Duplicates int `json:"duplicates"`
	Malformed  int `json:"malformed"`
	Errors     int `json:"errors"`
}

// Ingestor adapts harvested questions and inserts them into the catalog,
// skipping duplicates by fingerprint.
type Ingestor struct {
	cat        catalog.Catalog
	normalizer *Normalizer
	log        zerolog.Logger
}

// NewIngestor creates an Ingestor over the given catalog.
func NewIngestor(cat catalog.Catalog, normalizer *Normalizer, log zerolog.Logger) *Ingestor {
	return &Ingestor{
		cat:        cat,
		normalizer: normalizer,
		log:        log.With().Str("component", "ingestor").Logger(),
	}
}

// TryInsert validates, adapts and fingerprints one raw question, then inserts
// it unless the fingerprint already exists. Returns the new question id, or
// ErrMalformed / ErrDuplicate. The check-then-insert race resolves through the
// catalog's uniqueness constraint, which also surfaces as ErrDuplicate.
func (in *Ingestor) TryInsert(ctx context.Context, raw RawQuestion) (int, error) {
	if err := validate(raw); err != nil {
		return 0, err
	}

	q := &model.Question{
		PositionID: raw.Meta.PositionID,
		Statement:  in.normalizer.Adapt(raw.Statement),
		Options:    make(map[string]string, len(raw.Options)),
		Correct:    raw.Correct,
		Subject:    raw.Meta.Subject,
		Board:      raw.Meta.Board,
		Year:       raw.Meta.Year,
		Agency:     raw.Meta.Agency,
		Origin:     model.OriginHarvested,
	}
	for label, text := range raw.Options {
		q.Options[label] = in.normalizer.Adapt(text)
	}
	q.Fingerprint = Fingerprint(q.Statement)

	if _, err := in.cat.FindByFingerprint(ctx, q.Fingerprint); err == nil {
		return 0, ErrDuplicate
	} else if !errors.Is(err, catalog.ErrNotFound) {
		return 0, fmt.Errorf("fingerprint lookup: %w", err)
	}

	if err := in.cat.Insert(ctx, q); err != nil {
		if errors.Is(err, catalog.ErrConflict) {
			// Lost the race to a concurrent insert of the same content.
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return q.ID, nil
}

// IngestBlob extracts every question from one raw text blob and tries to
// insert each, returning aggregate counts. Blocks the parser dropped count
// as malformed. Storage errors are counted, not fatal.
func (in *Ingestor) IngestBlob(ctx context.Context, raw string, meta Metadata) Report {
	var report Report
	questions, skipped := ExtractQuestions(raw, meta)
	report.Malformed += skipped
	for _, rq := range questions {
		_, err := in.TryInsert(ctx, rq)
		switch {
		case err == nil:
			report.Saved++
		case errors.Is(err, ErrDuplicate):
			report.Duplicates++
		case errors.Is(err, ErrMalformed):
			report.Malformed++
		default:
			report.Errors++
			in.log.Error().Err(err).Msg("Ingest insert failed")
		}
	}
	return report
}

// Backfill computes fingerprints for legacy questions that never had one,
// tagging them as manually authored. Returns how many rows were updated.
func (in *Ingestor) Backfill(ctx context.Context) (int, error) {
	missing, err := in.cat.ListMissingFingerprint(ctx)
	if err != nil {
		return 0, fmt.Errorf("list missing fingerprints: %w", err)
	}

	for _, q := range missing {
		fp := Fingerprint(q.Statement)
		if err := in.cat.BackfillFingerprint(ctx, q.ID, fp, model.OriginManual); err != nil {
			return 0, fmt.Errorf("backfill question %d: %w", q.ID, err)
		}
	}

	if len(missing) > 0 {
		in.log.Info().Int("count", len(missing)).Msg("Backfilled fingerprints")
	}
	return len(missing), nil
}

func validate(raw RawQuestion) error {
	if len([]rune(Normalize(raw.Statement))) < MinStatementLength {
		return fmt.Errorf("%w: statement too short", ErrMalformed)
	}

	for _, label := range []string{"A", "B", "C", "D"} {
		if strings.TrimSpace(raw.Options[label]) == "" {
			return fmt.Errorf("%w: missing option %s", ErrMalformed, label)
		}
	}

	validCorrect := false
	for _, label := range model.OptionLabels {
		if raw.Correct == label {
			validCorrect = true
			break
		}
	}
	if !validCorrect {
		return fmt.Errorf("%w: missing or invalid correct label", ErrMalformed)
	}
	if strings.TrimSpace(raw.Options[raw.Correct]) == "" {
		return fmt.Errorf("%w: correct label points at empty option", ErrMalformed)
	}
	return nil
}
