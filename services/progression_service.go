package services

import (
	"errors"

	"testline/models"
	"testline/storage"
)

// ProgressionService decides which tests of a subject a user has reached.
// Test order 1 is always open; order N opens once the latest completed
// attempt on order N-1 meets that test's minimum score. Only the latest
// attempt counts: a failed retake closes tests an earlier pass had opened.
type ProgressionService struct {
	store storage.Store
}

func NewProgressionService(store storage.Store) *ProgressionService {
	return &ProgressionService{store: store}
}

// TestStatus is one row of a subject overview.
type TestStatus struct {
	Test       models.Test `json:"test"`
	IsUnlocked bool        `json:"is_unlocked"`
	Attempted  bool        `json:"attempted"`
	Score      int         `json:"score"`
	Total      int         `json:"total"`
	Percentage float64     `json:"percentage"`
	Passed     bool        `json:"passed"`
	CanRetake  bool        `json:"can_retake"`
}

// IsUnlocked applies the chain rule to a single test without walking the
// whole subject.
func (s *ProgressionService) IsUnlocked(userID uint, test *models.Test) (bool, error) {
	if test.Order == 1 {
		return true, nil
	}

	previous, err := s.store.TestByOrder(test.SubjectID, test.Order-1)
	if errors.Is(err, storage.ErrNotFound) {
		// Broken chain: a missing predecessor never locks its successor.
		return true, nil
	}
	if err != nil {
		return false, err
	}

	last, err := s.store.LatestCompleted(userID, previous.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return last.Passed(previous.MinScoreToUnlock), nil
}

// UnlockedTests returns the subject's accessible tests in chain order.
func (s *ProgressionService) UnlockedTests(userID, subjectID uint) ([]models.Test, error) {
	tests, err := s.store.TestsBySubject(subjectID)
	if err != nil {
		return nil, err
	}

	var unlocked []models.Test
	for i := range tests {
		ok, err := s.IsUnlocked(userID, &tests[i])
		if err != nil {
			return nil, err
		}
		if ok {
			unlocked = append(unlocked, tests[i])
		}
	}
	return unlocked, nil
}

// SubjectOverview builds the per-test status rows for a subject page and
// reports whether the user can start a random test there.
func (s *ProgressionService) SubjectOverview(userID, subjectID uint) ([]TestStatus, bool, error) {
	tests, err := s.store.TestsBySubject(subjectID)
	if err != nil {
		return nil, false, err
	}

	statuses := make([]TestStatus, 0, len(tests))
	anyUnlocked := false
	for i := range tests {
		test := tests[i]
		unlocked, err := s.IsUnlocked(userID, &test)
		if err != nil {
			return nil, false, err
		}
		if unlocked {
			anyUnlocked = true
		}

		status := TestStatus{Test: test, IsUnlocked: unlocked}
		last, err := s.store.LatestCompleted(userID, test.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, false, err
		}
		if last != nil {
			status.Attempted = true
			status.Score = last.Score
			status.Total = last.TotalQuestions
			status.Percentage = last.ScorePercentage()
			status.Passed = last.Passed(test.MinScoreToUnlock)
			status.CanRetake = last.CanRetake(test.MinScoreToUnlock)
		}
		statuses = append(statuses, status)
	}

	return statuses, anyUnlocked, nil
}
