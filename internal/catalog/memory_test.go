package catalog

import (
	"context"
	"math/rand"
	"testing"

	"github.com/simuconcursos/simulado-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(subject, fp string, positionID *int) model.Question {
	return model.Question{
		Statement:   "Enunciado de teste do catálogo em memória.",
		Options:     map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
		Correct:     "A",
		Subject:     subject,
		Origin:      model.OriginHarvested,
		Fingerprint: fp,
		PositionID:  positionID,
	}
}

func TestMemory_InsertAssignsIDs(t *testing.T) {
	m := NewMemory(rand.New(rand.NewSource(1)))
	ctx := context.Background()

	a := question("Português", "fp-a", nil)
	b := question("Português", "fp-b", nil)
	require.NoError(t, m.Insert(ctx, &a))
	require.NoError(t, m.Insert(ctx, &b))

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)
}

func TestMemory_FingerprintConflict(t *testing.T) {
	m := NewMemory(rand.New(rand.NewSource(1)))
	ctx := context.Background()

	a := question("Português", "same", nil)
	require.NoError(t, m.Insert(ctx, &a))

	b := question("Matemática", "same", nil)
	assert.ErrorIs(t, m.Insert(ctx, &b), ErrConflict)

	// Empty fingerprints never collide.
	c := question("História", "", nil)
	d := question("História", "", nil)
	require.NoError(t, m.Insert(ctx, &c))
	require.NoError(t, m.Insert(ctx, &d))
}

func TestMemory_FindByFingerprint(t *testing.T) {
	m := NewMemory(rand.New(rand.NewSource(1)))
	ctx := context.Background()

	q := question("Português", "fp-x", nil)
	require.NoError(t, m.Insert(ctx, &q))

	got, err := m.FindByFingerprint(ctx, "fp-x")
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)

	_, err = m.FindByFingerprint(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_SampleWithoutReplacement(t *testing.T) {
	m := NewMemory(rand.New(rand.NewSource(5)))
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		q := question("Português", "", nil)
		require.NoError(t, m.Insert(ctx, &q))
	}

	got, err := m.Sample(ctx, "Português", 4, GeneralBank())
	require.NoError(t, err)
	require.Len(t, got, 4)

	seen := map[int]bool{}
	for _, q := range got {
		assert.False(t, seen[q.ID])
		seen[q.ID] = true
	}

	// Asking for more than exists returns everything.
	got, err = m.Sample(ctx, "Português", 100, GeneralBank())
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func TestMemory_ListSubjectsScoped(t *testing.T) {
	m := NewMemory(rand.New(rand.NewSource(1)))
	ctx := context.Background()
	pos := 2

	a := question("Português", "", nil)
	b := question("Matemática", "", &pos)
	require.NoError(t, m.Insert(ctx, &a))
	require.NoError(t, m.Insert(ctx, &b))

	general, err := m.ListSubjects(ctx, GeneralBank())
	require.NoError(t, err)
	assert.Equal(t, []string{"Português"}, general)

	scoped, err := m.ListSubjects(ctx, ForPosition(pos))
	require.NoError(t, err)
	assert.Equal(t, []string{"Matemática"}, scoped)
}

func TestMemory_SetExplanation(t *testing.T) {
	m := NewMemory(rand.New(rand.NewSource(1)))
	ctx := context.Background()

	q := question("Português", "", nil)
	require.NoError(t, m.Insert(ctx, &q))

	require.NoError(t, m.SetExplanation(ctx, q.ID, "Teoria associada."))
	got, err := m.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Teoria associada.", got.Explanation)

	assert.ErrorIs(t, m.SetExplanation(ctx, 999, "x"), ErrNotFound)
}

func TestPositionScope_Matches(t *testing.T) {
	four := 4
	five := 5

	assert.True(t, GeneralBank().Matches(nil))
	assert.False(t, GeneralBank().Matches(&four))
	assert.True(t, ForPosition(4).Matches(&four))
	assert.False(t, ForPosition(4).Matches(&five))
	assert.False(t, ForPosition(4).Matches(nil))
}
