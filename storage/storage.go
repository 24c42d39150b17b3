package storage

import (
	"errors"

	"testline/models"
)

// ErrNotFound is returned by every lookup that finds no row.
var ErrNotFound = errors.New("record not found")

// Catalog is read-only access to subjects, tests, questions and answers.
// Listings come back in their stored order: tests by chain order, questions
// by question order, answers by letter.
type Catalog interface {
	Subjects() ([]models.Subject, error)
	SubjectByID(id uint) (*models.Subject, error)
	TestsBySubject(subjectID uint) ([]models.Test, error)
	TestByID(id uint) (*models.Test, error)
	TestByOrder(subjectID uint, order int) (*models.Test, error)
	QuestionsByTest(testID uint) ([]models.Question, error)
	QuestionByID(id uint) (*models.Question, error)
	AnswerByID(id uint) (*models.Answer, error)
}

// Attempts persists attempt history. CreateAttempt writes the attempt and
// all of its user answers as one unit; nothing is visible until the whole
// submission is stored.
type Attempts interface {
	CreateAttempt(attempt *models.Attempt, answers []models.UserAnswer) error
	AttemptByID(id uint) (*models.Attempt, error)
	LatestCompleted(userID, testID uint) (*models.Attempt, error)
	CompletedByUser(userID uint) ([]models.Attempt, error)
	AnswersByAttempt(attemptID uint) ([]models.UserAnswer, error)
	DeleteForUserTest(userID, testID uint) error
}

// Users is the minimal account lookup the auth layer and seeder need.
type Users interface {
	UserByID(id uint) (*models.User, error)
	UserByUsername(username string) (*models.User, error)
	CreateUser(user *models.User) error
}

// Store bundles everything the services consume.
type Store interface {
	Catalog
	Attempts
	Users
}
