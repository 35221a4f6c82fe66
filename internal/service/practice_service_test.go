package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/simuconcursos/simulado-backend/internal/catalog"
	"github.com/simuconcursos/simulado-backend/internal/config"
	"github.com/simuconcursos/simulado-backend/internal/model"
	"github.com/simuconcursos/simulado-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPracticeService(t *testing.T, questionsPerSubject map[string]int) *PracticeService {
	t.Helper()

	cat := catalog.NewMemory(rand.New(rand.NewSource(11)))
	for subject, n := range questionsPerSubject {
		for i := 0; i < n; i++ {
			q := model.Question{
				Statement: "Enunciado de exemplo para o serviço de simulados.",
				Options:   map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
				Correct:   "A",
				Subject:   subject,
				Origin:    model.OriginHarvested,
			}
			require.NoError(t, cat.Insert(context.Background(), &q))
		}
	}

	cfg := &config.Config{
		QuestionDeadline:  120 * time.Second,
		FreeQuestionLimit: 10,
	}
	sampler := session.NewSampler(cat, rand.New(rand.NewSource(1)))
	return NewPracticeService(cat, sampler, session.NewManager(), nil, cfg, zerolog.Nop())
}

func TestPracticeStart_FreeLimit(t *testing.T) {
	svc := newTestPracticeService(t, map[string]int{"Português": 30})

	_, err := svc.Start(context.Background(), 1, false, StartSessionRequest{
		Quotas: map[string]int{"Português": 11},
	})
	assert.ErrorIs(t, err, ErrPremiumRequired)

	sess, err := svc.Start(context.Background(), 1, false, StartSessionRequest{
		Quotas: map[string]int{"Português": 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, sess.Len())
}

func TestPracticeStart_PremiumUnlimited(t *testing.T) {
	svc := newTestPracticeService(t, map[string]int{"Português": 30})

	sess, err := svc.Start(context.Background(), 1, true, StartSessionRequest{
		Quotas: map[string]int{"Português": 25},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, sess.Len())
}

func TestPracticeStart_EmptyConfiguration(t *testing.T) {
	svc := newTestPracticeService(t, map[string]int{"Português": 5})

	_, err := svc.Start(context.Background(), 1, false, StartSessionRequest{
		Quotas: map[string]int{"História": 5},
	})
	assert.ErrorIs(t, err, session.ErrEmptyConfiguration)
}

func TestPracticeStart_ReplacesActiveSession(t *testing.T) {
	svc := newTestPracticeService(t, map[string]int{"Português": 10})

	first, err := svc.Start(context.Background(), 1, false, StartSessionRequest{
		Quotas: map[string]int{"Português": 3},
	})
	require.NoError(t, err)

	second, err := svc.Start(context.Background(), 1, false, StartSessionRequest{
		Quotas: map[string]int{"Português": 5},
	})
	require.NoError(t, err)
	require.NotEqual(t, first.ID(), second.ID())

	active, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, second.ID(), active.ID())
}

func TestPracticeAbort(t *testing.T) {
	svc := newTestPracticeService(t, map[string]int{"Português": 10})

	_, err := svc.Start(context.Background(), 1, false, StartSessionRequest{
		Quotas: map[string]int{"Português": 3},
	})
	require.NoError(t, err)

	svc.Abort(1)
	_, err = svc.Get(1)
	assert.ErrorIs(t, err, session.ErrNoActiveSession)
}

func TestPracticeFinalize_NothingAnswered(t *testing.T) {
	svc := newTestPracticeService(t, map[string]int{"Português": 10})

	sess, err := svc.Start(context.Background(), 7, false, StartSessionRequest{
		Quotas: map[string]int{"Português": 4},
	})
	require.NoError(t, err)

	// Nothing answered: no attempt is queued, and review still opens.
	score, err := svc.Finalize(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, score.Answered)
	assert.Nil(t, score.Percentage)
	assert.Equal(t, session.PhaseReviewing, sess.Phase())
}

func TestPracticeSummary(t *testing.T) {
	svc := newTestPracticeService(t, map[string]int{"Português": 10})

	sess, err := svc.Start(context.Background(), 1, false, StartSessionRequest{
		Quotas: map[string]int{"Português": 4},
	})
	require.NoError(t, err)
	sess.RecordAnswer(0, "A")
	sess.RecordAnswer(2, "B")

	summary := svc.Summary(sess)
	assert.Equal(t, sess.ID().String(), summary.SessionID)
	assert.Equal(t, session.PhaseInProgress, summary.Phase)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, []int{0, 2}, summary.Answered)
}
