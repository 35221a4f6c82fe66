package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/simuconcursos/simulado-backend/internal/catalog"
	"github.com/simuconcursos/simulado-backend/internal/model"
)

// Resolver is the batch job that cleans up fingerprint collisions between
// manually authored and harvested questions. Running it twice in a row
// produces no further deletions.
type Resolver struct {
	cat catalog.Catalog
	log zerolog.Logger
}

// NewResolver creates a Resolver over the given catalog.
func NewResolver(cat catalog.Catalog, log zerolog.Logger) *Resolver {
	return &Resolver{
		cat: cat,
		log: log.With().Str("component", "dedup_resolver").Logger(),
	}
}

// Run deletes the losers of every fingerprint collision involving at least
// one manual question: the harvested copy is retained; when every copy is
// manual, the lowest id survives. Groups with no manual member are left
// untouched. Returns the number of deleted questions.
func (r *Resolver) Run(ctx context.Context) (int, error) {
	groups, err := r.cat.DuplicateGroups(ctx)
	if err != nil {
		return 0, fmt.Errorf("list duplicate groups: %w", err)
	}

	deleted := 0
	for _, group := range groups {
		keeper, ok := pickKeeper(group)
		if !ok {
			continue
		}

		for _, q := range group {
			if q.ID == keeper {
				continue
			}
			if err := r.cat.Delete(ctx, q.ID); err != nil {
				return deleted, fmt.Errorf("delete question %d: %w", q.ID, err)
			}
			deleted++
		}
	}

	if deleted > 0 {
		r.log.Info().Int("deleted", deleted).Msg("Resolved duplicate questions")
	}
	return deleted, nil
}

// pickKeeper chooses the surviving question of a collision group. Groups
// without any manual member are not resolved (ok=false). Groups are ordered
// by ascending id, so the first match is the lowest id.
func pickKeeper(group []model.Question) (int, bool) {
	hasManual := false
	for _, q := range group {
		if q.Origin == model.OriginManual {
			hasManual = true
			break
		}
	}
	if !hasManual {
		return 0, false
	}

	for _, q := range group {
		if q.Origin == model.OriginHarvested {
			return q.ID, true
		}
	}
	// Every copy is manual: the lowest id survives.
	return group[0].ID, true
}
