package models

import (
	"time"
)

// UserAnswer records one question of an attempt. SelectedAnswerID is nil
// when the question was left blank; IsCorrect is copied from the selected
// answer at submission time. Position preserves the order the question was
// presented in, which for random attempts is the sampled order.
type UserAnswer struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	AttemptID        uint      `json:"attempt_id" gorm:"not null;index"`
	QuestionID       uint      `json:"question_id" gorm:"not null"`
	SelectedAnswerID *uint     `json:"selected_answer_id,omitempty"`
	IsCorrect        bool      `json:"is_correct" gorm:"not null;default:false"`
	Position         int       `json:"position" gorm:"not null;default:0"`
	CreatedAt        time.Time `json:"created_at"`

	// Relationships
	Attempt        Attempt  `json:"attempt,omitempty"`
	Question       Question `json:"question,omitempty"`
	SelectedAnswer *Answer  `json:"selected_answer,omitempty" gorm:"foreignKey:SelectedAnswerID"`
}
