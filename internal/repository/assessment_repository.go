package repository

import (
	"context"

	"github.com/lshigami/coursexam/internal/model"
	"gorm.io/gorm"
)

type AssessmentRepository interface {
	// Create inserts the assessment together with its questions and options.
	Create(ctx context.Context, assessment *model.Assessment) error
	FindByID(ctx context.Context, courseID, id string) (*model.Assessment, error)
	// FindPublishedWithQuestions returns a published assessment with its
	// published questions and their options in position order.
	FindPublishedWithQuestions(ctx context.Context, courseID, id string) (*model.Assessment, error)
	Delete(ctx context.Context, courseID, id string) error
}

type assessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) error {
	return r.db.WithContext(ctx).Create(assessment).Error
}

func (r *assessmentRepository) FindByID(ctx context.Context, courseID, id string) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.db.WithContext(ctx).
		Where("id = ? AND course_id = ?", id, courseID).
		First(&assessment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &assessment, nil
}

func (r *assessmentRepository) FindPublishedWithQuestions(ctx context.Context, courseID, id string) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.db.WithContext(ctx).
		Preload("Questions", publishedQuestions).
		Preload("Questions.Options", optionsInOrder).
		Where("id = ? AND course_id = ? AND is_published = ?", id, courseID, true).
		First(&assessment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &assessment, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, courseID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND course_id = ?", id, courseID).Delete(&model.Assessment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("assessment_id = ?", id).Delete(&model.Question{}).Error
	})
}
