package services

import (
	"testing"

	"testline/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttemptService(f *fixture) *AttemptService {
	return NewAttemptService(f.store, f.progress)
}

func TestSubmitFixedFailingScore(t *testing.T) {
	f := newFixture(t, testSpec{70, 2}, testSpec{80, 2})
	svc := newAttemptService(f)
	questions := f.byTest[f.tests[0].ID]

	// Q1 right, Q2 wrong: 1/2 = 50% against a 70% threshold.
	selections := map[uint]uint{
		questions[0].ID: f.answerID(t, questions[0], "a"),
		questions[1].ID: f.answerID(t, questions[1], "c"),
	}

	result, err := svc.SubmitFixed(f.userID, f.tests[0].ID, selections)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.InDelta(t, 50.0, result.Percentage, 1e-9)
	assert.False(t, result.Passed)
	assert.True(t, result.CanRetake)
	assert.False(t, result.NextUnlocked)
	require.NotNil(t, result.NextTest)
	assert.Equal(t, f.tests[1].ID, result.NextTest.ID)
}

func TestSubmitFixedPassingScoreUnlocksNext(t *testing.T) {
	f := newFixture(t, testSpec{70, 2}, testSpec{80, 2})
	svc := newAttemptService(f)

	result, err := svc.SubmitFixed(f.userID, f.tests[0].ID, f.allCorrect(t, f.tests[0].ID))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Score)
	assert.InDelta(t, 100.0, result.Percentage, 1e-9)
	assert.True(t, result.Passed)
	assert.False(t, result.CanRetake)
	assert.True(t, result.NextUnlocked)

	unlocked, err := f.progress.IsUnlocked(f.userID, &f.tests[1])
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestSubmitFixedLastTestHasNoNext(t *testing.T) {
	f := newFixture(t, testSpec{70, 2})
	svc := newAttemptService(f)

	result, err := svc.SubmitFixed(f.userID, f.tests[0].ID, f.allCorrect(t, f.tests[0].ID))
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Nil(t, result.NextTest)
	assert.False(t, result.NextUnlocked)
}

func TestSubmitFixedLockedTest(t *testing.T) {
	f := newFixture(t, testSpec{70, 2}, testSpec{80, 2})
	svc := newAttemptService(f)

	_, err := svc.SubmitFixed(f.userID, f.tests[1].ID, nil)
	assert.ErrorIs(t, err, ErrLockedTest)

	// No attempt may be persisted on the failure path.
	attempts, err := f.store.CompletedByUser(f.userID)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestSubmitFixedUnansweredAndInvalidSelections(t *testing.T) {
	f := newFixture(t, testSpec{70, 3})
	svc := newAttemptService(f)
	questions := f.byTest[f.tests[0].ID]

	// Q1 answered correctly, Q2 omitted, Q3 carries an answer id that does
	// not resolve. Both degrade to unanswered rather than failing the
	// submission.
	selections := map[uint]uint{
		questions[0].ID: f.answerID(t, questions[0], "a"),
		questions[2].ID: 999999,
	}

	result, err := svc.SubmitFixed(f.userID, f.tests[0].ID, selections)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 3, result.TotalQuestions)

	answers, err := f.store.AnswersByAttempt(result.Attempt.ID)
	require.NoError(t, err)
	require.Len(t, answers, 3, "every question gets a recorded user answer")
	assert.NotNil(t, answers[0].SelectedAnswerID)
	assert.True(t, answers[0].IsCorrect)
	assert.Nil(t, answers[1].SelectedAnswerID)
	assert.False(t, answers[1].IsCorrect)
	assert.Nil(t, answers[2].SelectedAnswerID, "unresolvable answer id is recorded as blank")
	assert.False(t, answers[2].IsCorrect)
}

func TestSubmitFixedResolvesSelectionsByIdAlone(t *testing.T) {
	f := newFixture(t, testSpec{70, 2})
	svc := newAttemptService(f)
	questions := f.byTest[f.tests[0].ID]

	// A selection is looked up by answer id only. An id drawn from another
	// question's answer set is still recorded and graded by that answer's
	// own correctness.
	strayID := f.answerID(t, questions[1], "a")
	selections := map[uint]uint{
		questions[0].ID: strayID,
	}

	result, err := svc.SubmitFixed(f.userID, f.tests[0].ID, selections)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)

	answers, err := f.store.AnswersByAttempt(result.Attempt.ID)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	require.NotNil(t, answers[0].SelectedAnswerID)
	assert.Equal(t, strayID, *answers[0].SelectedAnswerID)
	assert.True(t, answers[0].IsCorrect)
}

func TestGradingIsIdempotent(t *testing.T) {
	f := newFixture(t, testSpec{70, 2})
	svc := newAttemptService(f)
	selections := f.allCorrect(t, f.tests[0].ID)

	first, err := svc.SubmitFixed(f.userID, f.tests[0].ID, selections)
	require.NoError(t, err)
	second, err := svc.SubmitFixed(f.userID, f.tests[0].ID, selections)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Passed, second.Passed)
	assert.NotEqual(t, first.Attempt.ID, second.Attempt.ID)
}

func TestSubmitRandom(t *testing.T) {
	f := newFixture(t, testSpec{70, 6})
	svc := newAttemptService(f)
	questions := f.byTest[f.tests[0].ID]

	questionIDs := make([]uint, 0, 5)
	selections := map[uint]uint{}
	for i := 0; i < 5; i++ {
		questionIDs = append(questionIDs, questions[i].ID)
		if i < 3 {
			selections[questions[i].ID] = f.answerID(t, questions[i], "a")
		}
	}

	result, err := svc.SubmitRandom(f.userID, f.subject.ID, questionIDs, selections)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 5, result.TotalQuestions)
	assert.InDelta(t, 60.0, result.Percentage, 1e-9)
	assert.True(t, result.Passed, "60%% meets the subject's random minimum of 60")
	assert.False(t, result.CanRetake, "random attempts are never retakable")

	require.NotNil(t, result.Attempt)
	assert.True(t, result.Attempt.IsRandom)
	assert.Nil(t, result.Attempt.TestID)
	require.NotNil(t, result.Attempt.SubjectID)
	assert.Equal(t, f.subject.ID, *result.Attempt.SubjectID)
}

func TestSubmitRandomUnknownQuestionStaysCounted(t *testing.T) {
	f := newFixture(t, testSpec{70, 5})
	svc := newAttemptService(f)
	questions := f.byTest[f.tests[0].ID]

	questionIDs := []uint{questions[0].ID, 424242}
	selections := map[uint]uint{questions[0].ID: f.answerID(t, questions[0], "a")}

	result, err := svc.SubmitRandom(f.userID, f.subject.ID, questionIDs, selections)
	require.NoError(t, err)

	// The presented list stays authoritative for the total even when an id
	// no longer resolves.
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.InDelta(t, 50.0, result.Percentage, 1e-9)
}

func TestRetakeAfterFailedAttempt(t *testing.T) {
	f := newFixture(t, testSpec{70, 2})
	svc := newAttemptService(f)

	f.recordAttempt(t, f.tests[0].ID, 0, 2)

	require.NoError(t, svc.Retake(f.userID, f.tests[0].ID))

	_, err := f.store.LatestCompleted(f.userID, f.tests[0].ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "retake wipes the attempt history")
}

func TestRetakeRejectedAfterPass(t *testing.T) {
	f := newFixture(t, testSpec{70, 2})
	svc := newAttemptService(f)

	passed := f.recordAttempt(t, f.tests[0].ID, 2, 2)

	err := svc.Retake(f.userID, f.tests[0].ID)
	assert.ErrorIs(t, err, ErrCannotRetake)

	// Nothing was deleted.
	last, err := f.store.LatestCompleted(f.userID, f.tests[0].ID)
	require.NoError(t, err)
	assert.Equal(t, passed.ID, last.ID)
}

func TestRetakeRejectedWithoutHistory(t *testing.T) {
	f := newFixture(t, testSpec{70, 2})
	svc := newAttemptService(f)

	err := svc.Retake(f.userID, f.tests[0].ID)
	assert.ErrorIs(t, err, ErrCannotRetake)
}
