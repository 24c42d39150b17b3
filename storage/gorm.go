package storage

import (
	"errors"

	"testline/models"

	"gorm.io/gorm"
)

// Gorm is the database-backed Store.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) Subjects() ([]models.Subject, error) {
	var subjects []models.Subject
	err := s.db.Order("name").Find(&subjects).Error
	return subjects, err
}

func (s *Gorm) SubjectByID(id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := s.db.First(&subject, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &subject, nil
}

func (s *Gorm) TestsBySubject(subjectID uint) ([]models.Test, error) {
	var tests []models.Test
	err := s.db.Where("subject_id = ?", subjectID).
		Order("\"order\"").
		Find(&tests).Error
	return tests, err
}

func (s *Gorm) TestByID(id uint) (*models.Test, error) {
	var test models.Test
	if err := s.db.First(&test, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &test, nil
}

func (s *Gorm) TestByOrder(subjectID uint, order int) (*models.Test, error) {
	var test models.Test
	err := s.db.Where("subject_id = ? AND \"order\" = ?", subjectID, order).
		First(&test).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &test, nil
}

func (s *Gorm) QuestionsByTest(testID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.Where("test_id = ?", testID).
		Order("\"order\"").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.letter")
		}).
		Find(&questions).Error
	return questions, err
}

func (s *Gorm) QuestionByID(id uint) (*models.Question, error) {
	var question models.Question
	err := s.db.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("answers.letter")
	}).First(&question, id).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &question, nil
}

func (s *Gorm) AnswerByID(id uint) (*models.Answer, error) {
	var answer models.Answer
	if err := s.db.First(&answer, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &answer, nil
}

func (s *Gorm) CreateAttempt(attempt *models.Attempt, answers []models.UserAnswer) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].AttemptID = attempt.ID
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Gorm) AttemptByID(id uint) (*models.Attempt, error) {
	var attempt models.Attempt
	if err := s.db.Preload("Test").First(&attempt, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &attempt, nil
}

func (s *Gorm) LatestCompleted(userID, testID uint) (*models.Attempt, error) {
	var attempt models.Attempt
	err := s.db.Where("user_id = ? AND test_id = ? AND completed = ?", userID, testID, true).
		Order("completed_at DESC").
		First(&attempt).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &attempt, nil
}

func (s *Gorm) CompletedByUser(userID uint) ([]models.Attempt, error) {
	var attempts []models.Attempt
	err := s.db.Where("user_id = ? AND completed = ?", userID, true).
		Preload("Test").
		Order("completed_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (s *Gorm) AnswersByAttempt(attemptID uint) ([]models.UserAnswer, error) {
	var answers []models.UserAnswer
	err := s.db.Where("attempt_id = ?", attemptID).
		Order("position").
		Find(&answers).Error
	return answers, err
}

func (s *Gorm) DeleteForUserTest(userID, testID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Attempt{}).
			Where("user_id = ? AND test_id = ?", userID, testID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("attempt_id IN ?", ids).
			Delete(&models.UserAnswer{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Attempt{}).Error
	})
}

func (s *Gorm) UserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *Gorm) UserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *Gorm) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
