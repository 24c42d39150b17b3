package services

import (
	"errors"

	"testline/models"
	"testline/storage"
)

// ResultService builds per-question breakdowns and profile statistics from
// stored attempt history.
type ResultService struct {
	store storage.Store
}

func NewResultService(store storage.Store) *ResultService {
	return &ResultService{store: store}
}

// QuestionResult is one row of an attempt breakdown. CorrectAnswer is
// resolved from the question's current answers, not from a snapshot, so a
// later answer-key fix shows through on old results.
type QuestionResult struct {
	Question       models.Question `json:"question"`
	SelectedAnswer *models.Answer  `json:"selected_answer,omitempty"`
	CorrectAnswer  *models.Answer  `json:"correct_answer,omitempty"`
	IsCorrect      bool            `json:"is_correct"`
	TestName       string          `json:"test_name,omitempty"` // source test, filled for random attempts
}

// AttemptResult packages an attempt with its breakdown for rendering.
type AttemptResult struct {
	Attempt    *models.Attempt  `json:"attempt"`
	Percentage float64          `json:"percentage"`
	Passed     bool             `json:"passed"`
	MinScore   int              `json:"min_score"`
	Results    []QuestionResult `json:"results"`
}

// BuildResult loads an attempt owned by the user and walks its recorded
// answers in presentation order.
func (s *ResultService) BuildResult(userID, attemptID uint) (*AttemptResult, error) {
	attempt, err := s.store.AttemptByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, storage.ErrNotFound
	}

	userAnswers, err := s.store.AnswersByAttempt(attempt.ID)
	if err != nil {
		return nil, err
	}

	results := make([]QuestionResult, 0, len(userAnswers))
	for i := range userAnswers {
		ua := userAnswers[i]
		question, err := s.store.QuestionByID(ua.QuestionID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		row := QuestionResult{
			Question:      *question,
			CorrectAnswer: question.CorrectAnswer(),
			IsCorrect:     ua.IsCorrect,
		}
		if ua.SelectedAnswerID != nil {
			if selected, err := s.store.AnswerByID(*ua.SelectedAnswerID); err == nil {
				row.SelectedAnswer = selected
			}
		}
		if attempt.IsRandom {
			if test, err := s.store.TestByID(question.TestID); err == nil {
				row.TestName = test.Name
			}
		}
		results = append(results, row)
	}

	minScore := passThreshold(s.store, attempt)
	return &AttemptResult{
		Attempt:    attempt,
		Percentage: attempt.ScorePercentage(),
		Passed:     attempt.Passed(minScore),
		MinScore:   minScore,
		Results:    results,
	}, nil
}

// PreviousSelection is what the take-test page shows next to a question
// from the user's last completed attempt.
type PreviousSelection struct {
	SelectedAnswerID *uint `json:"selected"`
	IsCorrect        bool  `json:"is_correct"`
}

// PreviousSelections maps question ids to the user's last recorded
// selections for a test. The bool reports whether a previous attempt exists.
func (s *ResultService) PreviousSelections(userID, testID uint) (map[uint]PreviousSelection, bool, error) {
	last, err := s.store.LatestCompleted(userID, testID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	answers, err := s.store.AnswersByAttempt(last.ID)
	if err != nil {
		return nil, false, err
	}

	selections := make(map[uint]PreviousSelection, len(answers))
	for _, ua := range answers {
		selections[ua.QuestionID] = PreviousSelection{
			SelectedAnswerID: ua.SelectedAnswerID,
			IsCorrect:        ua.IsCorrect,
		}
	}
	return selections, true, nil
}

// Summary is the profile roll-up over all completed attempts, random and
// fixed combined.
type Summary struct {
	TotalAttempts  int              `json:"total_attempts"`
	PassedAttempts int              `json:"passed_attempts"`
	AverageScore   float64          `json:"average_score"`
	Attempts       []models.Attempt `json:"attempts"`
}

// BuildSummary averages score percentages arithmetically; an empty history
// yields zeros.
func (s *ResultService) BuildSummary(userID uint) (*Summary, error) {
	attempts, err := s.store.CompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalAttempts: len(attempts),
		Attempts:      attempts,
	}
	if len(attempts) == 0 {
		return summary, nil
	}

	var sum float64
	for i := range attempts {
		sum += attempts[i].ScorePercentage()
		if attempts[i].Passed(passThreshold(s.store, &attempts[i])) {
			summary.PassedAttempts++
		}
	}
	summary.AverageScore = sum / float64(len(attempts))

	return summary, nil
}
