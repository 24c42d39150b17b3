package models

import (
	"time"
)

type Subject struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Random test settings
	RandomQuestionCount   int `json:"random_question_count" gorm:"not null;default:20"`
	RandomMinScorePercent int `json:"random_min_score_percent" gorm:"not null;default:60"`

	// Relationships
	Tests []Test `json:"tests,omitempty" gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE"`
}
