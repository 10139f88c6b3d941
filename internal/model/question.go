package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	AssessmentID string         `json:"assessment_id" gorm:"type:varchar(36);not null;index"`
	Prompt       string         `json:"prompt" gorm:"type:text;not null"`
	Position     int            `json:"position" gorm:"not null"`
	Answer       int            `json:"answer" gorm:"not null"` // 1-based position of the correct option
	Explanation  *string        `json:"explanation,omitempty" gorm:"type:text"`
	IsPublished  bool           `json:"is_published" gorm:"not null;default:false"`
	Options      []Option       `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE;"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

type Option struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	QuestionID string    `json:"question_id" gorm:"type:varchar(36);not null;index"`
	Text       string    `json:"text" gorm:"not null"`
	Position   int       `json:"position" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (o *Option) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
