package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Result struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string    `json:"user_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_result_key"`
	CourseID     string    `json:"course_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_result_key"`
	AssessmentID string    `json:"assessment_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_result_key"`
	Points       int       `json:"points" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
