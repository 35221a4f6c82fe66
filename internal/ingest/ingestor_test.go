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

func newTestIngestor(t *testing.T) (*Ingestor, *catalog.Memory) {
	t.Helper()
	cat := catalog.NewMemory(rand.New(rand.NewSource(3)))
	return NewIngestor(cat, NewNormalizer(DefaultSubstitutions), zerolog.Nop()), cat
}

func validRaw() RawQuestion {
	return RawQuestion{
		Statement: "Assinale a alternativa que apresenta corretamente a regra de acentuação das proparoxítonas:",
		Options: map[string]string{
			"A": "todas são acentuadas",
			"B": "nenhuma é acentuada",
			"C": "apenas as terminadas em vogal",
			"D": "apenas as terminadas em consoante",
		},
		Correct: "A",
		Meta:    Metadata{Subject: "Português"},
	}
}

func TestTryInsert_SavesAdapted(t *testing.T) {
	ing, cat := newTestIngestor(t)

	id, err := ing.TryInsert(context.Background(), validRaw())
	require.NoError(t, err)

	saved, err := cat.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.NotEqual(t, validRaw().Statement, saved.Statement, "stored text is adapted, not verbatim")
	assert.Contains(t, saved.Statement, "marque a opção")
	assert.Equal(t, model.OriginHarvested, saved.Origin)
	assert.Len(t, saved.Fingerprint, 32)
}

func TestTryInsert_SecondCopyIsDuplicate(t *testing.T) {
	ing, cat := newTestIngestor(t)

	_, err := ing.TryInsert(context.Background(), validRaw())
	require.NoError(t, err)

	_, err = ing.TryInsert(context.Background(), validRaw())
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, cat.Size())
}

func TestTryInsert_WhitespaceVariantIsDuplicate(t *testing.T) {
	ing, _ := newTestIngestor(t)

	_, err := ing.TryInsert(context.Background(), validRaw())
	require.NoError(t, err)

	variant := validRaw()
	variant.Statement = "  Assinale   a alternativa que apresenta corretamente a regra de acentuação das proparoxítonas:\n"
	_, err = ing.TryInsert(context.Background(), variant)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTryInsert_Malformed(t *testing.T) {
	ing, cat := newTestIngestor(t)

	short := validRaw()
	short.Statement = "Curto."
	_, err := ing.TryInsert(context.Background(), short)
	assert.ErrorIs(t, err, ErrMalformed)

	missing := validRaw()
	delete(missing.Options, "C")
	_, err = ing.TryInsert(context.Background(), missing)
	assert.ErrorIs(t, err, ErrMalformed)

	badKey := validRaw()
	badKey.Correct = "X"
	_, err = ing.TryInsert(context.Background(), badKey)
	assert.ErrorIs(t, err, ErrMalformed)

	noKey := validRaw()
	noKey.Correct = ""
	_, err = ing.TryInsert(context.Background(), noKey)
	assert.ErrorIs(t, err, ErrMalformed)

	assert.Equal(t, 0, cat.Size())
}

func TestIngestBlob_Report(t *testing.T) {
	ing, _ := newTestIngestor(t)

	blob := `
1. Assinale a alternativa em que todos os vocábulos estejam acentuados pela mesma regra ortográfica:
A) vênus, hífen, fáceis
B) saúde, egoísmo, atribuí-lo
C) têm, convêm, mantém
D) público, parágrafo, ética
Gabarito: D

2. Assinale a alternativa em que todos os vocábulos estejam acentuados pela mesma regra ortográfica:
A) vênus, hífen, fáceis
B) saúde, egoísmo, atribuí-lo
C) têm, convêm, mantém
D) público, parágrafo, ética
Gabarito: D

3. Este bloco longo o suficiente não traz linha de gabarito, então falha na validação de inserção:
A) um
B) dois
C) três
D) quatro

4. Ruído curto.
`
	report := ing.IngestBlob(context.Background(), blob, Metadata{Subject: "Português"})
	assert.Equal(t, 1, report.Saved)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 2, report.Malformed, "blocks dropped at parse time count too")
	assert.Equal(t, 0, report.Errors)
}

func TestBackfill(t *testing.T) {
	ing, cat := newTestIngestor(t)
	ctx := context.Background()

	legacy := model.Question{
		Statement: "Questão antiga cadastrada antes da impressão digital existir no esquema.",
		Options:   map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
		Correct:   "A",
		Subject:   "Português",
		Origin:    model.OriginHarvested,
	}
	require.NoError(t, cat.Insert(ctx, &legacy))

	updated, err := ing.Backfill(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	got, err := cat.GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(legacy.Statement), got.Fingerprint)
	assert.Equal(t, model.OriginManual, got.Origin, "legacy rows are treated as manually curated")

	// Running again touches nothing.
	updated, err = ing.Backfill(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}
