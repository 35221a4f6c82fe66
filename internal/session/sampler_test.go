package session

import (
	"context"
	"math/rand"
	"testing"

	"github.com/simuconcursos/simulado-backend/internal/catalog"
	"github.com/simuconcursos/simulado-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededCatalog(t *testing.T, perSubject map[string]int) *catalog.Memory {
	t.Helper()
	cat := catalog.NewMemory(rand.New(rand.NewSource(7)))
	for subject, n := range perSubject {
		for i := 0; i < n; i++ {
			q := model.Question{
				Statement: "Enunciado de exemplo para amostragem de questões.",
				Options: map[string]string{
					"A": "a", "B": "b", "C": "c", "D": "d",
				},
				Correct: "A",
				Subject: subject,
				Origin:  model.OriginHarvested,
			}
			require.NoError(t, cat.Insert(context.Background(), &q))
		}
	}
	return cat
}

func TestSampler_QuotasHonored(t *testing.T) {
	cat := seededCatalog(t, map[string]int{"Português": 10, "Matemática": 10})
	sampler := NewSampler(cat, rand.New(rand.NewSource(1)))

	items, err := sampler.Build(context.Background(), map[string]int{
		"Português":  3,
		"Matemática": 2,
	}, catalog.GeneralBank())
	require.NoError(t, err)
	require.Len(t, items, 5)

	counts := map[string]int{}
	for _, q := range items {
		counts[q.Subject]++
	}
	assert.Equal(t, 3, counts["Português"])
	assert.Equal(t, 2, counts["Matemática"])
}

func TestSampler_NoRepeats(t *testing.T) {
	cat := seededCatalog(t, map[string]int{"Português": 8})
	sampler := NewSampler(cat, rand.New(rand.NewSource(1)))

	items, err := sampler.Build(context.Background(), map[string]int{"Português": 8}, catalog.GeneralBank())
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, q := range items {
		assert.False(t, seen[q.ID], "question %d sampled twice", q.ID)
		seen[q.ID] = true
	}
}

func TestSampler_ShortfallIsSilent(t *testing.T) {
	cat := seededCatalog(t, map[string]int{"Português": 2})
	sampler := NewSampler(cat, rand.New(rand.NewSource(1)))

	items, err := sampler.Build(context.Background(), map[string]int{
		"Português": 10,
		"História":  5, // no questions at all
	}, catalog.GeneralBank())
	require.NoError(t, err)
	assert.Len(t, items, 2, "shortfall yields what exists, not an error")
}

func TestSampler_ZeroTotalFails(t *testing.T) {
	cat := seededCatalog(t, map[string]int{"Português": 5})
	sampler := NewSampler(cat, rand.New(rand.NewSource(1)))

	_, err := sampler.Build(context.Background(), map[string]int{"História": 4}, catalog.GeneralBank())
	assert.ErrorIs(t, err, ErrEmptyConfiguration)

	_, err = sampler.Build(context.Background(), map[string]int{"Português": 0}, catalog.GeneralBank())
	assert.ErrorIs(t, err, ErrEmptyConfiguration)
}

func TestSampler_PositionScope(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cat := catalog.NewMemory(rng)
	pos := 4

	general := model.Question{
		Statement: "Questão do banco geral usada no teste de escopo.",
		Options:   map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
		Correct:   "A",
		Subject:   "Português",
	}
	scoped := general
	scoped.PositionID = &pos
	require.NoError(t, cat.Insert(context.Background(), &general))
	scoped.Fingerprint = "other"
	require.NoError(t, cat.Insert(context.Background(), &scoped))

	sampler := NewSampler(cat, rand.New(rand.NewSource(1)))

	items, err := sampler.Build(context.Background(), map[string]int{"Português": 10}, catalog.ForPosition(pos))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].PositionID)
	assert.Equal(t, pos, *items[0].PositionID)

	items, err = sampler.Build(context.Background(), map[string]int{"Português": 10}, catalog.GeneralBank())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].PositionID, "the general bank excludes position questions")
}
