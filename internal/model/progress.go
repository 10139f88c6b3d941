package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Progress is the persisted attempt: the user's selections serialized as an
// opaque JSON object of question id to 1-based option position.
type Progress struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string         `json:"user_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_progress_key"`
	CourseID     string         `json:"course_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_progress_key"`
	AssessmentID string         `json:"assessment_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_progress_key"`
	Options      datatypes.JSON `json:"options"`
	Percentage   float64        `json:"percentage" gorm:"not null;default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (p *Progress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
