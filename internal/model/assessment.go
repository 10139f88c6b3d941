package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AssessmentKindExam = "exam"
	AssessmentKindQuiz = "quiz"
	// AssessmentKindForm is an exam hosted by an external form. It has no
	// questions and is never scored here.
	AssessmentKindForm = "form"
)

type Assessment struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	CourseID    string         `json:"course_id" gorm:"type:varchar(36);not null;index"`
	ChapterID   *string        `json:"chapter_id,omitempty" gorm:"type:varchar(36);index"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Kind        string         `json:"kind" gorm:"not null;default:'exam'"` // "exam", "quiz", "form"
	Starter     bool           `json:"starter" gorm:"not null;default:false"`
	FormURL     *string        `json:"form_url,omitempty"`
	IsPublished bool           `json:"is_published" gorm:"not null;default:false"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
