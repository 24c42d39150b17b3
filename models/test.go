package models

import (
	"time"
)

type Test struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SubjectID uint      `json:"subject_id" gorm:"not null;uniqueIndex:idx_subject_order"`
	Name      string    `json:"name" gorm:"not null"`
	Order     int       `json:"order" gorm:"not null;default:1;uniqueIndex:idx_subject_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Minimum percentage required on this test before the next one opens
	MinScoreToUnlock int `json:"min_score_to_unlock" gorm:"not null;default:80"`

	// Relationships
	Subject   Subject    `json:"subject,omitempty"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE"`
}
