package models

import (
	"time"
)

// Attempt is a completed pass over a fixed test or a random question set.
// An attempt is written in one piece together with its user answers; the
// score fields are stamped before it is ever persisted.
type Attempt struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UserID         uint       `json:"user_id" gorm:"not null;index"`
	TestID         *uint      `json:"test_id,omitempty" gorm:"index"` // nil for random attempts
	SubjectID      *uint      `json:"subject_id,omitempty"`           // set on random attempts to keep the pass threshold resolvable
	IsRandom       bool       `json:"is_random" gorm:"not null;default:false"`
	Score          int        `json:"score" gorm:"not null;default:0"`
	TotalQuestions int        `json:"total_questions" gorm:"not null;default:0"`
	Completed      bool       `json:"completed" gorm:"not null;default:false"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	// Relationships
	User        User         `json:"user,omitempty"`
	Test        *Test        `json:"test,omitempty"`
	UserAnswers []UserAnswer `json:"user_answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE"`
}

// ScorePercentage is derived on read, never stored.
func (a *Attempt) ScorePercentage() float64 {
	if a.TotalQuestions > 0 {
		return float64(a.Score) / float64(a.TotalQuestions) * 100
	}
	return 0
}

// Passed reports whether the attempt meets the given minimum percentage.
// The threshold comes from the test for fixed attempts and from the
// subject's random test settings for random ones.
func (a *Attempt) Passed(minScorePercent int) bool {
	return a.ScorePercentage() >= float64(minScorePercent)
}

// CanRetake reports whether the attempt may be wiped for a fresh try.
// Random attempts are never retaken; there is no unlock chain behind them.
func (a *Attempt) CanRetake(minScorePercent int) bool {
	if a.IsRandom {
		return false
	}
	return !a.Passed(minScorePercent)
}
