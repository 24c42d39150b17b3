package services

import (
	"testing"
	"time"

	"testline/models"
	"testline/storage"
)

// fixture builds one subject with a chain of tests on a memory store.
// Every question carries four lettered answers; "a" is always correct.
type fixture struct {
	store    *storage.Memory
	subject  models.Subject
	tests    []models.Test
	byTest   map[uint][]models.Question
	userID   uint
	clock    time.Time
	progress *ProgressionService
}

type testSpec struct {
	minScoreToUnlock int
	questionCount    int
}

func newFixture(t *testing.T, specs ...testSpec) *fixture {
	t.Helper()

	store := storage.NewMemory()
	subject := store.AddSubject(models.Subject{
		Name:                  "Mathematics",
		RandomQuestionCount:   20,
		RandomMinScorePercent: 60,
	})

	f := &fixture{
		store:   store,
		subject: subject,
		byTest:  map[uint][]models.Question{},
		userID:  1,
		clock:   time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
	}

	for i, spec := range specs {
		test := store.AddTest(models.Test{
			SubjectID:        subject.ID,
			Name:             "Test",
			Order:            i + 1,
			MinScoreToUnlock: spec.minScoreToUnlock,
		})
		f.tests = append(f.tests, test)

		for q := 0; q < spec.questionCount; q++ {
			question := store.AddQuestion(models.Question{
				TestID: test.ID,
				Text:   "question",
				Order:  q + 1,
				Answers: []models.Answer{
					{Text: "right", Letter: "a", IsCorrect: true},
					{Text: "wrong", Letter: "b"},
					{Text: "wrong", Letter: "c"},
					{Text: "wrong", Letter: "d"},
				},
			})
			f.byTest[test.ID] = append(f.byTest[test.ID], question)
		}
	}

	f.progress = NewProgressionService(store)
	return f
}

// answerID picks a question's answer by letter.
func (f *fixture) answerID(t *testing.T, q models.Question, letter string) uint {
	t.Helper()
	for _, a := range q.Answers {
		if a.Letter == letter {
			return a.ID
		}
	}
	t.Fatalf("no answer with letter %q", letter)
	return 0
}

// recordAttempt stores a completed attempt directly, advancing the fixture
// clock so completion timestamps stay strictly ordered.
func (f *fixture) recordAttempt(t *testing.T, testID uint, score, total int) *models.Attempt {
	t.Helper()
	f.clock = f.clock.Add(time.Minute)
	completedAt := f.clock
	attempt := &models.Attempt{
		UserID:         f.userID,
		TestID:         &testID,
		SubjectID:      &f.subject.ID,
		Score:          score,
		TotalQuestions: total,
		Completed:      true,
		StartedAt:      completedAt.Add(-time.Minute),
		CompletedAt:    &completedAt,
	}
	if err := f.store.CreateAttempt(attempt, nil); err != nil {
		t.Fatalf("recordAttempt: %v", err)
	}
	return attempt
}

// allCorrect builds selections answering every question of a test with "a".
func (f *fixture) allCorrect(t *testing.T, testID uint) map[uint]uint {
	t.Helper()
	selections := map[uint]uint{}
	for _, q := range f.byTest[testID] {
		selections[q.ID] = f.answerID(t, q, "a")
	}
	return selections
}
