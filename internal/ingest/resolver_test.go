package ingest

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/simuconcursos/simulado-backend/internal/catalog"
	"github.com/simuconcursos/simulado-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// insertColliding seeds questions sharing one fingerprint, bypassing the
// catalog's uniqueness guard the way a pre-fingerprint backfill could.
func insertColliding(t *testing.T, cat *catalog.Memory, origins ...model.Origin) []int {
	t.Helper()
	ids := make([]int, 0, len(origins))
	for _, origin := range origins {
		q := model.Question{
			Statement: "Enunciado compartilhado entre as cópias em colisão de impressão digital.",
			Options:   map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
			Correct:   "A",
			Subject:   "Português",
			Origin:    origin,
		}
		require.NoError(t, cat.Insert(context.Background(), &q))
		require.NoError(t, cat.BackfillFingerprint(context.Background(), q.ID, "shared-fp", origin))
		ids = append(ids, q.ID)
	}
	return ids
}

func remainingIDs(t *testing.T, cat *catalog.Memory, ids []int) []int {
	t.Helper()
	var alive []int
	for _, id := range ids {
		if _, err := cat.GetByID(context.Background(), id); err == nil {
			alive = append(alive, id)
		}
	}
	return alive
}

func TestResolver_HarvestedBeatsManual(t *testing.T) {
	cat := catalog.NewMemory(rand.New(rand.NewSource(3)))
	ids := insertColliding(t, cat, model.OriginManual, model.OriginHarvested)

	deleted, err := NewResolver(cat, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, []int{ids[1]}, remainingIDs(t, cat, ids), "the harvested copy survives")
}

func TestResolver_BothManualKeepsLowestID(t *testing.T) {
	cat := catalog.NewMemory(rand.New(rand.NewSource(3)))
	ids := insertColliding(t, cat, model.OriginManual, model.OriginManual)

	deleted, err := NewResolver(cat, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, []int{ids[0]}, remainingIDs(t, cat, ids))
}

func TestResolver_AllHarvestedUntouched(t *testing.T) {
	cat := catalog.NewMemory(rand.New(rand.NewSource(3)))
	ids := insertColliding(t, cat, model.OriginHarvested, model.OriginHarvested)

	deleted, err := NewResolver(cat, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, deleted, "groups without manual members are not resolved")
	assert.Len(t, remainingIDs(t, cat, ids), 2)
}

func TestResolver_Idempotent(t *testing.T) {
	cat := catalog.NewMemory(rand.New(rand.NewSource(3)))
	insertColliding(t, cat, model.OriginManual, model.OriginHarvested, model.OriginHarvested)

	resolver := NewResolver(cat, zerolog.Nop())
	deleted, err := resolver.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	deleted, err = resolver.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, deleted, "a second run finds nothing to delete")
}

func TestResolver_NoCollisions(t *testing.T) {
	cat := catalog.NewMemory(rand.New(rand.NewSource(3)))

	deleted, err := NewResolver(cat, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
