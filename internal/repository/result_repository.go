package repository

import (
	"context"

	"github.com/lshigami/coursexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResultRepository interface {
	Find(ctx context.Context, key Key) (*model.Result, error)
	// Upsert keeps a single result per key; the latest write wins.
	Upsert(ctx context.Context, result *model.Result) (*model.Result, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Find(ctx context.Context, key Key) (*model.Result, error) {
	var result model.Result
	if err := key.where(r.db.WithContext(ctx)).First(&result).Error; err != nil {
		return nil, translate(err)
	}
	return &result, nil
}

func (r *resultRepository) Upsert(ctx context.Context, result *model.Result) (*model.Result, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   keyColumns,
		DoUpdates: clause.AssignmentColumns([]string{"points", "updated_at"}),
	}).Create(result).Error
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, Key{UserID: result.UserID, CourseID: result.CourseID, AssessmentID: result.AssessmentID})
}
