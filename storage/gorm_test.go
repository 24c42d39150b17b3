package storage

import (
	"testing"
	"time"

	"testline/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Gorm {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Test{},
		&models.Question{},
		&models.Answer{},
		&models.Attempt{},
		&models.UserAnswer{},
	))

	return NewGorm(db)
}

// seedCatalog creates a subject with two ordered tests; the first test gets
// two questions with four lettered answers each ("a" correct).
func seedCatalog(t *testing.T, store *Gorm) (models.Subject, []models.Test, []models.Question) {
	t.Helper()

	subject := models.Subject{Name: "Mathematics", RandomQuestionCount: 20, RandomMinScorePercent: 60}
	require.NoError(t, store.db.Create(&subject).Error)

	tests := []models.Test{
		{SubjectID: subject.ID, Name: "Number Patterns", Order: 1, MinScoreToUnlock: 70},
		{SubjectID: subject.ID, Name: "Basic Algebra", Order: 2, MinScoreToUnlock: 80},
	}
	for i := range tests {
		require.NoError(t, store.db.Create(&tests[i]).Error)
	}

	var questions []models.Question
	for q := 1; q <= 2; q++ {
		question := models.Question{
			TestID: tests[0].ID,
			Text:   "question",
			Order:  q,
			Answers: []models.Answer{
				{Text: "right", Letter: "a", IsCorrect: true},
				{Text: "wrong", Letter: "b"},
				{Text: "wrong", Letter: "c"},
				{Text: "wrong", Letter: "d"},
			},
		}
		require.NoError(t, store.db.Create(&question).Error)
		questions = append(questions, question)
	}

	return subject, tests, questions
}

func completedAttempt(userID uint, testID *uint, score, total int, at time.Time) models.Attempt {
	return models.Attempt{
		UserID:         userID,
		TestID:         testID,
		Score:          score,
		TotalQuestions: total,
		Completed:      true,
		StartedAt:      at.Add(-time.Minute),
		CompletedAt:    &at,
	}
}

func TestCatalogReadsAreOrdered(t *testing.T) {
	store := newTestStore(t)
	subject, tests, _ := seedCatalog(t, store)

	got, err := store.TestsBySubject(subject.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, tests[0].ID, got[0].ID)
	assert.Equal(t, tests[1].ID, got[1].ID)

	questions, err := store.QuestionsByTest(tests[0].ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[0].Order)
	assert.Equal(t, 2, questions[1].Order)
	require.Len(t, questions[0].Answers, 4)
	assert.Equal(t, "a", questions[0].Answers[0].Letter)
	assert.Equal(t, "d", questions[0].Answers[3].Letter)

	byOrder, err := store.TestByOrder(subject.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, tests[1].ID, byOrder.ID)
}

func TestMissingRowsMapToNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SubjectByID(42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.TestByOrder(1, 3)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.LatestCompleted(1, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.UserByUsername("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAttemptWritesAnswersTogether(t *testing.T) {
	store := newTestStore(t)
	_, tests, questions := seedCatalog(t, store)

	at := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	attempt := completedAttempt(1, &tests[0].ID, 1, 2, at)
	answers := []models.UserAnswer{
		{QuestionID: questions[0].ID, SelectedAnswerID: &questions[0].Answers[0].ID, IsCorrect: true, Position: 1},
		{QuestionID: questions[1].ID, Position: 2},
	}
	require.NoError(t, store.CreateAttempt(&attempt, answers))
	require.NotZero(t, attempt.ID)

	stored, err := store.AnswersByAttempt(attempt.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, attempt.ID, stored[0].AttemptID)
	assert.Equal(t, questions[0].ID, stored[0].QuestionID)
	assert.True(t, stored[0].IsCorrect)
	assert.Nil(t, stored[1].SelectedAnswerID)

	loaded, err := store.AttemptByID(attempt.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Test)
	assert.Equal(t, tests[0].Name, loaded.Test.Name)
}

func TestLatestCompletedPicksNewest(t *testing.T) {
	store := newTestStore(t)
	_, tests, _ := seedCatalog(t, store)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	first := completedAttempt(1, &tests[0].ID, 2, 2, base)
	second := completedAttempt(1, &tests[0].ID, 0, 2, base.Add(time.Hour))
	require.NoError(t, store.CreateAttempt(&first, nil))
	require.NoError(t, store.CreateAttempt(&second, nil))

	// Another user's history must not bleed in.
	other := completedAttempt(2, &tests[0].ID, 2, 2, base.Add(2*time.Hour))
	require.NoError(t, store.CreateAttempt(&other, nil))

	latest, err := store.LatestCompleted(1, tests[0].ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, 0, latest.Score)
}

func TestCompletedByUserNewestFirst(t *testing.T) {
	store := newTestStore(t)
	subject, tests, _ := seedCatalog(t, store)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	fixed := completedAttempt(1, &tests[0].ID, 2, 2, base)
	require.NoError(t, store.CreateAttempt(&fixed, nil))

	random := completedAttempt(1, nil, 3, 5, base.Add(time.Hour))
	random.IsRandom = true
	random.SubjectID = &subject.ID
	require.NoError(t, store.CreateAttempt(&random, nil))

	attempts, err := store.CompletedByUser(1)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, random.ID, attempts[0].ID)
	assert.True(t, attempts[0].IsRandom)
	assert.Nil(t, attempts[0].TestID)
	assert.Equal(t, fixed.ID, attempts[1].ID)
	require.NotNil(t, attempts[1].Test)
}

func TestDeleteForUserTestRemovesHistoryAndAnswers(t *testing.T) {
	store := newTestStore(t)
	_, tests, questions := seedCatalog(t, store)

	at := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	mine := completedAttempt(1, &tests[0].ID, 0, 2, at)
	require.NoError(t, store.CreateAttempt(&mine, []models.UserAnswer{
		{QuestionID: questions[0].ID, Position: 1},
	}))
	theirs := completedAttempt(2, &tests[0].ID, 2, 2, at)
	require.NoError(t, store.CreateAttempt(&theirs, nil))

	require.NoError(t, store.DeleteForUserTest(1, tests[0].ID))

	_, err := store.LatestCompleted(1, tests[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	answers, err := store.AnswersByAttempt(mine.ID)
	require.NoError(t, err)
	assert.Empty(t, answers)

	// Unrelated history survives.
	kept, err := store.LatestCompleted(2, tests[0].ID)
	require.NoError(t, err)
	assert.Equal(t, theirs.ID, kept.ID)

	// Deleting when nothing remains is a no-op.
	require.NoError(t, store.DeleteForUserTest(1, tests[0].ID))
}

func TestUserRoundTrip(t *testing.T) {
	store := newTestStore(t)

	user := models.User{Username: "student", PasswordHash: "hash", FirstName: "Demo", LastName: "Student"}
	require.NoError(t, store.CreateUser(&user))
	require.NotZero(t, user.ID)

	byName, err := store.UserByUsername("student")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byID, err := store.UserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "student", byID.Username)
}
