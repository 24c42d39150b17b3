package services

import (
	"errors"
	"time"

	"testline/models"
	"testline/storage"
)

// Default thresholds used when an attempt's test or subject no longer
// exists and the real minimum cannot be resolved.
const (
	defaultFixedMinScore  = 80
	defaultRandomMinScore = 60
)

// AttemptService grades submissions. A submission is one atomic unit: the
// selections are resolved, every question gets a recorded user answer, the
// score is stamped and the attempt is written complete in one store call.
// Nothing is persisted when a precondition fails.
type AttemptService struct {
	store       storage.Store
	progression *ProgressionService
}

func NewAttemptService(store storage.Store, progression *ProgressionService) *AttemptService {
	return &AttemptService{store: store, progression: progression}
}

// SubmitResult is what the presentation layer renders after a submission.
type SubmitResult struct {
	Attempt        *models.Attempt `json:"attempt"`
	Score          int             `json:"score"`
	TotalQuestions int             `json:"total_questions"`
	Percentage     float64         `json:"percentage"`
	Passed         bool            `json:"passed"`
	CanRetake      bool            `json:"can_retake"`
	MinScore       int             `json:"min_score"`
	NextTest       *models.Test    `json:"next_test,omitempty"`
	NextUnlocked   bool            `json:"next_unlocked"`
}

// SubmitFixed grades a fixed-test attempt. Selections map question ids to
// the chosen answer id; a missing entry or an answer id that no longer
// resolves both count as unanswered for that question only.
func (s *AttemptService) SubmitFixed(userID, testID uint, selections map[uint]uint) (*SubmitResult, error) {
	test, err := s.store.TestByID(testID)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.progression.IsUnlocked(userID, test)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, ErrLockedTest
	}

	questions, err := s.store.QuestionsByTest(test.ID)
	if err != nil {
		return nil, err
	}

	userAnswers := make([]models.UserAnswer, 0, len(questions))
	correct := 0
	for i := range questions {
		ua := s.gradeQuestion(questions[i].ID, selections, len(userAnswers))
		if ua.IsCorrect {
			correct++
		}
		userAnswers = append(userAnswers, ua)
	}

	now := time.Now()
	attempt := &models.Attempt{
		UserID:         userID,
		TestID:         &test.ID,
		SubjectID:      &test.SubjectID,
		Score:          correct,
		TotalQuestions: len(questions), // question count at submission time
		Completed:      true,
		StartedAt:      now,
		CompletedAt:    &now,
	}

	if err := s.store.CreateAttempt(attempt, userAnswers); err != nil {
		return nil, err
	}

	result := &SubmitResult{
		Attempt:        attempt,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Percentage:     attempt.ScorePercentage(),
		Passed:         attempt.Passed(test.MinScoreToUnlock),
		CanRetake:      attempt.CanRetake(test.MinScoreToUnlock),
		MinScore:       test.MinScoreToUnlock,
	}

	next, err := s.store.TestByOrder(test.SubjectID, test.Order+1)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if next != nil {
		result.NextTest = next
		result.NextUnlocked = result.Passed
	}

	return result, nil
}

// SubmitRandom grades a random attempt against the question set that was
// actually presented. The engine trusts the echoed id list: its length is
// the attempt's total, and ids that no longer resolve simply stay
// unanswered. The pass threshold is the subject's random test minimum.
func (s *AttemptService) SubmitRandom(userID, subjectID uint, questionIDs []uint, selections map[uint]uint) (*SubmitResult, error) {
	subject, err := s.store.SubjectByID(subjectID)
	if err != nil {
		return nil, err
	}

	userAnswers := make([]models.UserAnswer, 0, len(questionIDs))
	correct := 0
	for _, questionID := range questionIDs {
		if _, err := s.store.QuestionByID(questionID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}
		ua := s.gradeQuestion(questionID, selections, len(userAnswers))
		if ua.IsCorrect {
			correct++
		}
		userAnswers = append(userAnswers, ua)
	}

	now := time.Now()
	attempt := &models.Attempt{
		UserID:         userID,
		SubjectID:      &subject.ID,
		IsRandom:       true,
		Score:          correct,
		TotalQuestions: len(questionIDs),
		Completed:      true,
		StartedAt:      now,
		CompletedAt:    &now,
	}

	if err := s.store.CreateAttempt(attempt, userAnswers); err != nil {
		return nil, err
	}

	return &SubmitResult{
		Attempt:        attempt,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Percentage:     attempt.ScorePercentage(),
		Passed:         attempt.Passed(subject.RandomMinScorePercent),
		CanRetake:      false,
		MinScore:       subject.RandomMinScorePercent,
	}, nil
}

// gradeQuestion resolves one selection. An absent or unresolvable answer id
// is recorded as unanswered, never surfaced as an error.
func (s *AttemptService) gradeQuestion(questionID uint, selections map[uint]uint, position int) models.UserAnswer {
	ua := models.UserAnswer{QuestionID: questionID, Position: position}

	answerID, chosen := selections[questionID]
	if !chosen {
		return ua
	}
	answer, err := s.store.AnswerByID(answerID)
	if err != nil {
		return ua
	}

	ua.SelectedAnswerID = &answer.ID
	ua.IsCorrect = answer.IsCorrect
	return ua
}

// Retake wipes the user's attempt history for a test so it can be taken
// again. Only a failed latest attempt qualifies; passing a test closes it.
func (s *AttemptService) Retake(userID, testID uint) error {
	test, err := s.store.TestByID(testID)
	if err != nil {
		return err
	}

	last, err := s.store.LatestCompleted(userID, test.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrCannotRetake
	}
	if err != nil {
		return err
	}
	if !last.CanRetake(test.MinScoreToUnlock) {
		return ErrCannotRetake
	}

	return s.store.DeleteForUserTest(userID, test.ID)
}

// passThreshold resolves the minimum percentage an attempt is judged
// against, falling back to the historic defaults when the referenced test
// or subject has been removed.
func passThreshold(store storage.Store, attempt *models.Attempt) int {
	if attempt.IsRandom {
		if attempt.SubjectID != nil {
			if subject, err := store.SubjectByID(*attempt.SubjectID); err == nil {
				return subject.RandomMinScorePercent
			}
		}
		return defaultRandomMinScore
	}
	if attempt.TestID != nil {
		if test, err := store.TestByID(*attempt.TestID); err == nil {
			return test.MinScoreToUnlock
		}
	}
	return defaultFixedMinScore
}
