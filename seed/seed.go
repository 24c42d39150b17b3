package seed

import (
	"errors"
	"log"

	"testline/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type questionSeed struct {
	text    string
	answers [4]string
	correct int // index into answers, letters assigned a..d in order
}

type testSeed struct {
	name             string
	minScoreToUnlock int
	questions        []questionSeed
}

type subjectSeed struct {
	name                  string
	description           string
	randomQuestionCount   int
	randomMinScorePercent int
	tests                 []testSeed
}

var letters = [4]string{"a", "b", "c", "d"}

// Run loads demo users and sample subjects. It is a no-op when subjects
// already exist.
func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Subject{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Seed skipped: subjects already present")
		return nil
	}

	if err := seedUsers(db); err != nil {
		return err
	}

	for _, s := range subjects {
		if err := seedSubject(db, s); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d subjects with demo content", len(subjects))
	return nil
}

func seedUsers(db *gorm.DB) error {
	demo := []struct {
		username, password, first, last string
	}{
		{"student", "student123", "Demo", "Student"},
		{"teacher", "teacher123", "Demo", "Teacher"},
	}

	for _, u := range demo {
		var existing models.User
		err := db.Where("username = ?", u.username).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := db.Create(&models.User{
			Username:     u.username,
			PasswordHash: string(hash),
			FirstName:    u.first,
			LastName:     u.last,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedSubject(db *gorm.DB, s subjectSeed) error {
	return db.Transaction(func(tx *gorm.DB) error {
		subject := models.Subject{
			Name:                  s.name,
			Description:           s.description,
			RandomQuestionCount:   s.randomQuestionCount,
			RandomMinScorePercent: s.randomMinScorePercent,
		}
		if err := tx.Create(&subject).Error; err != nil {
			return err
		}

		for order, t := range s.tests {
			test := models.Test{
				SubjectID:        subject.ID,
				Name:             t.name,
				Order:            order + 1,
				MinScoreToUnlock: t.minScoreToUnlock,
			}
			if err := tx.Create(&test).Error; err != nil {
				return err
			}

			for qOrder, q := range t.questions {
				question := models.Question{
					TestID: test.ID,
					Text:   q.text,
					Order:  qOrder + 1,
				}
				for i, text := range q.answers {
					question.Answers = append(question.Answers, models.Answer{
						Text:      text,
						Letter:    letters[i],
						IsCorrect: i == q.correct,
					})
				}
				if err := tx.Create(&question).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

var subjects = []subjectSeed{
	{
		name:                  "Mathematics",
		description:           "Arithmetic, sequences and simple algebra.",
		randomQuestionCount:   10,
		randomMinScorePercent: 60,
		tests: []testSeed{
			{
				name:             "Number Patterns",
				minScoreToUnlock: 70,
				questions: []questionSeed{
					{"2, 4, 8, 16, ?", [4]string{"32", "24", "18", "20"}, 0},
					{"If 5 x 6 = 30, then 7 x 8 = ?", [4]string{"56", "54", "48", "64"}, 0},
					{"1, 1, 2, 3, 5, 8, ?", [4]string{"13", "11", "12", "15"}, 0},
					{"100 / 4 = ?", [4]string{"25", "20", "24", "40"}, 0},
					{"3^3 = ?", [4]string{"27", "9", "18", "81"}, 0},
				},
			},
			{
				name:             "Basic Algebra",
				minScoreToUnlock: 80,
				questions: []questionSeed{
					{"If x + 7 = 12, x = ?", [4]string{"5", "6", "7", "19"}, 0},
					{"2x = 18, x = ?", [4]string{"9", "8", "6", "36"}, 0},
					{"x^2 = 49, positive x = ?", [4]string{"7", "6", "8", "14"}, 0},
					{"3x - 4 = 11, x = ?", [4]string{"5", "4", "6", "7"}, 0},
					{"x / 3 = 12, x = ?", [4]string{"36", "4", "15", "9"}, 0},
				},
			},
		},
	},
	{
		name:                  "Logic",
		description:           "Pattern recognition and deduction.",
		randomQuestionCount:   8,
		randomMinScorePercent: 60,
		tests: []testSeed{
			{
				name:             "Shapes and Series",
				minScoreToUnlock: 70,
				questions: []questionSeed{
					{"Which shape is different from the others?", [4]string{"Circle", "Square", "Triangle", "Rectangle"}, 0},
					{"Monday, Wednesday, Friday, ?", [4]string{"Sunday", "Saturday", "Tuesday", "Thursday"}, 0},
					{"All roses are flowers. Some flowers fade. Therefore:", [4]string{"Some flowers may be roses", "All roses fade", "No rose fades", "All flowers are roses"}, 0},
					{"A, C, E, G, ?", [4]string{"I", "H", "J", "K"}, 0},
					{"Which number does not belong: 2, 3, 5, 7, 9?", [4]string{"9", "2", "5", "7"}, 0},
				},
			},
		},
	},
}
