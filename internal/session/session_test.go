package session

import (
	"testing"
	"time"

	"github.com/simuconcursos/simulado-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func questions(n int) []model.Question {
	items := make([]model.Question, n)
	for i := range items {
		items[i] = model.Question{
			ID:        i + 1,
			Statement: "Enunciado de exemplo para a questão de teste.",
			Options: map[string]string{
				"A": "primeira", "B": "segunda", "C": "terceira", "D": "quarta",
			},
			Correct: "A",
			Subject: "Português",
		}
	}
	return items
}

func newTestSession(t *testing.T, n int) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	sess, err := New(1, questions(n), 120*time.Second, WithClock(clock.Now))
	require.NoError(t, err)
	return sess, clock
}

func TestNew_EmptyItems(t *testing.T) {
	_, err := New(1, nil, 120*time.Second)
	assert.ErrorIs(t, err, ErrEmptyConfiguration)
}

func TestRecordAnswer_FirstWriteWins(t *testing.T) {
	sess, _ := newTestSession(t, 3)

	recorded, err := sess.RecordAnswer(0, "A")
	require.NoError(t, err)
	assert.True(t, recorded)

	// A second write to the same index is a silent no-op.
	recorded, err = sess.RecordAnswer(0, "B")
	require.NoError(t, err)
	assert.False(t, recorded)

	score := sess.Score()
	assert.Equal(t, 1, score.Answered)
	assert.Equal(t, 1, score.Correct, "the original answer must survive")
}

func TestRecordAnswer_Bounds(t *testing.T) {
	sess, _ := newTestSession(t, 2)

	_, err := sess.RecordAnswer(-1, "A")
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = sess.RecordAnswer(2, "A")
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestRecordAnswer_RejectedWhileReviewing(t *testing.T) {
	sess, _ := newTestSession(t, 2)
	sess.Finalize()

	_, err := sess.RecordAnswer(1, "A")
	assert.ErrorIs(t, err, ErrReadOnlyState)
}

func TestAdvance_Clamped(t *testing.T) {
	sess, _ := newTestSession(t, 2)

	assert.Equal(t, 0, sess.Advance(DirectionPrevious), "cannot move before the first question")
	assert.Equal(t, 1, sess.Advance(DirectionNext))
	assert.Equal(t, 1, sess.Advance(DirectionNext), "cannot move past the last question")
	assert.Equal(t, 0, sess.Advance(DirectionPrevious))
}

func TestGoto(t *testing.T) {
	sess, _ := newTestSession(t, 5)

	require.NoError(t, sess.Goto(3))
	assert.Equal(t, 3, sess.Current())

	assert.ErrorIs(t, sess.Goto(5), ErrInvalidIndex)
	assert.ErrorIs(t, sess.Goto(-1), ErrInvalidIndex)
}

func TestFinalize_Idempotent(t *testing.T) {
	sess, _ := newTestSession(t, 3)
	sess.RecordAnswer(0, "A")

	score, first := sess.Finalize()
	assert.True(t, first)
	assert.Equal(t, PhaseReviewing, sess.Phase())

	again, second := sess.Finalize()
	assert.False(t, second, "only the first finalize reports the transition")
	assert.Equal(t, score, again, "the frozen score never changes")
}

func TestScore_PercentageOverAnswered(t *testing.T) {
	sess, _ := newTestSession(t, 10)

	// 2 of 3 answered correctly; 7 left blank.
	sess.RecordAnswer(0, "A")
	sess.RecordAnswer(1, "A")
	sess.RecordAnswer(2, "B")

	score, _ := sess.Finalize()
	assert.Equal(t, 2, score.Correct)
	assert.Equal(t, 3, score.Answered)
	assert.Equal(t, 10, score.Total)
	require.NotNil(t, score.Percentage)
	assert.Equal(t, 66, *score.Percentage, "percentage is graded over answered, floored")
}

func TestScore_NothingAnswered(t *testing.T) {
	sess, _ := newTestSession(t, 3)

	score, _ := sess.Finalize()
	assert.Equal(t, 0, score.Answered)
	assert.Nil(t, score.Percentage)
}

func TestTimeout_ForcesAdvanceWhenUnanswered(t *testing.T) {
	sess, clock := newTestSession(t, 3)

	clock.Advance(119 * time.Second)
	fired, finalized := sess.TimeoutIfExpired(clock.Now())
	assert.False(t, fired)
	assert.False(t, finalized)

	clock.Advance(2 * time.Second)
	fired, finalized = sess.TimeoutIfExpired(clock.Now())
	assert.True(t, fired)
	assert.False(t, finalized)
	assert.Equal(t, 1, sess.Current(), "deadline forces an advance")
}

func TestTimeout_AnsweredQuestionIsNotAdvanced(t *testing.T) {
	sess, clock := newTestSession(t, 3)
	sess.RecordAnswer(0, "A")

	clock.Advance(121 * time.Second)
	fired, _ := sess.TimeoutIfExpired(clock.Now())
	assert.False(t, fired)
	assert.Equal(t, 0, sess.Current(), "answered questions wait for the user")

	// The deadline fires at most once per armed index.
	clock.Advance(time.Second)
	fired, _ = sess.TimeoutIfExpired(clock.Now())
	assert.False(t, fired)
}

func TestTimeout_RearmedByNavigation(t *testing.T) {
	sess, clock := newTestSession(t, 3)

	clock.Advance(121 * time.Second)
	fired, _ := sess.TimeoutIfExpired(clock.Now())
	require.True(t, fired)
	require.Equal(t, 1, sess.Current())

	// Landing on index 1 re-armed the timer: nothing fires until another
	// full deadline elapses.
	fired, _ = sess.TimeoutIfExpired(clock.Now())
	assert.False(t, fired)

	clock.Advance(121 * time.Second)
	fired, _ = sess.TimeoutIfExpired(clock.Now())
	assert.True(t, fired)
	assert.Equal(t, 2, sess.Current())
}

func TestTimeout_LastQuestionFinalizes(t *testing.T) {
	sess, clock := newTestSession(t, 2)
	sess.RecordAnswer(0, "A")
	sess.Advance(DirectionNext)

	clock.Advance(121 * time.Second)
	fired, finalized := sess.TimeoutIfExpired(clock.Now())
	assert.True(t, fired)
	assert.True(t, finalized, "timeout on the last question closes the session")
	assert.Equal(t, PhaseReviewing, sess.Phase())

	// The user-facing finalize afterwards must not report first again.
	_, first := sess.Finalize()
	assert.False(t, first)
}

func TestTimeout_NoopWhileReviewing(t *testing.T) {
	sess, clock := newTestSession(t, 2)
	sess.Finalize()

	clock.Advance(time.Hour)
	fired, finalized := sess.TimeoutIfExpired(clock.Now())
	assert.False(t, fired)
	assert.False(t, finalized)
}

func TestRemaining(t *testing.T) {
	sess, clock := newTestSession(t, 2)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 90*time.Second, sess.Remaining(clock.Now()))

	clock.Advance(5 * time.Minute)
	assert.Equal(t, time.Duration(0), sess.Remaining(clock.Now()))

	sess.Finalize()
	assert.Equal(t, time.Duration(0), sess.Remaining(clock.Now()))
}

func TestAnsweredIndices_Ordered(t *testing.T) {
	sess, _ := newTestSession(t, 5)
	sess.RecordAnswer(4, "A")
	sess.RecordAnswer(1, "B")
	sess.RecordAnswer(3, "C")

	assert.Equal(t, []int{1, 3, 4}, sess.AnsweredIndices())
}

func TestProjection_HidesCorrectionUntilReview(t *testing.T) {
	sess, _ := newTestSession(t, 2)
	sess.RecordAnswer(0, "B")

	view, err := sess.Projection(0)
	require.NoError(t, err)
	assert.True(t, view.IsAnswered)
	require.NotNil(t, view.ChosenLabel)
	assert.Equal(t, "B", *view.ChosenLabel)
	assert.Nil(t, view.CorrectLabel, "the answer key stays hidden in progress")
	assert.Nil(t, view.Explanation)

	sess.Finalize()
	view, err = sess.Projection(0)
	require.NoError(t, err)
	require.NotNil(t, view.CorrectLabel)
	assert.Equal(t, "A", *view.CorrectLabel)
}

func TestProjection_RemainingOnlyForCurrent(t *testing.T) {
	sess, clock := newTestSession(t, 3)
	clock.Advance(20 * time.Second)

	view, err := sess.Projection(0)
	require.NoError(t, err)
	assert.Equal(t, 100, view.RemainingSeconds)

	other, err := sess.Projection(2)
	require.NoError(t, err)
	assert.Equal(t, 0, other.RemainingSeconds)
}

func TestManager_ReplaceAndAbort(t *testing.T) {
	m := NewManager()

	_, err := m.Get(1)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	first, _ := New(1, questions(2), 120*time.Second)
	m.Put(first)

	got, err := m.Get(1)
	require.NoError(t, err)
	assert.Same(t, first, got)

	// Starting again replaces the previous session outright.
	second, _ := New(1, questions(3), 120*time.Second)
	m.Put(second)
	got, _ = m.Get(1)
	assert.Same(t, second, got)

	m.Abort(1)
	_, err = m.Get(1)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestManager_SweepTimeoutsReturnsFinalized(t *testing.T) {
	m := NewManager()
	clock := &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}

	// User 1 sits on the last question; user 2 is mid-session.
	s1, _ := New(1, questions(1), 120*time.Second, WithClock(clock.Now))
	s2, _ := New(2, questions(3), 120*time.Second, WithClock(clock.Now))
	m.Put(s1)
	m.Put(s2)

	clock.Advance(121 * time.Second)
	finalized := m.SweepTimeouts(clock.Now())

	require.Len(t, finalized, 1)
	assert.Equal(t, 1, finalized[0].UserID())
	assert.Equal(t, PhaseReviewing, s1.Phase())
	assert.Equal(t, PhaseInProgress, s2.Phase())
	assert.Equal(t, 1, s2.Current(), "mid-session timeout only advances")

	// The same finalization is never reported twice.
	clock.Advance(121 * time.Second)
	assert.Empty(t, m.SweepTimeouts(clock.Now()))
}
