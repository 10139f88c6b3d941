package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Certificate is issued at most once per (user, course, assessment).
// CourseTitle is a snapshot taken at issuance.
type Certificate struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        string    `json:"user_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_certificate_key"`
	CourseID      string    `json:"course_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_certificate_key"`
	AssessmentID  string    `json:"assessment_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_certificate_key"`
	NameOfStudent string    `json:"name_of_student" gorm:"not null"`
	CourseTitle   string    `json:"course_title" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
