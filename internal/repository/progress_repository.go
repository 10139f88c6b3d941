package repository

import (
	"context"

	"github.com/lshigami/coursexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Key identifies the per-user records kept for one assessment.
type Key struct {
	UserID       string
	CourseID     string
	AssessmentID string
}

func (k Key) where(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ? AND course_id = ? AND assessment_id = ?", k.UserID, k.CourseID, k.AssessmentID)
}

var keyColumns = []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "assessment_id"}}

type ProgressRepository interface {
	Find(ctx context.Context, key Key) (*model.Progress, error)
	// Upsert writes the attempt blob for the key, replacing any earlier one,
	// and returns the stored row.
	Upsert(ctx context.Context, progress *model.Progress) (*model.Progress, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Find(ctx context.Context, key Key) (*model.Progress, error) {
	var progress model.Progress
	if err := key.where(r.db.WithContext(ctx)).First(&progress).Error; err != nil {
		return nil, translate(err)
	}
	return &progress, nil
}

func (r *progressRepository) Upsert(ctx context.Context, progress *model.Progress) (*model.Progress, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   keyColumns,
		DoUpdates: clause.AssignmentColumns([]string{"options", "percentage", "updated_at"}),
	}).Create(progress).Error
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, Key{UserID: progress.UserID, CourseID: progress.CourseID, AssessmentID: progress.AssessmentID})
}
