package repository

import (
	"context"

	"github.com/lshigami/coursexam/internal/model"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id string) (*model.Course, error)
	// FindByIDWithAssessments loads published assessments with their
	// published questions and options, all in position order.
	FindByIDWithAssessments(ctx context.Context, id string) (*model.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *courseRepository) FindByIDWithAssessments(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Assessments", func(db *gorm.DB) *gorm.DB {
			return db.Where("assessments.is_published = ?", true).Order("assessments.created_at ASC")
		}).
		Preload("Assessments.Questions", publishedQuestions).
		Preload("Assessments.Questions.Options", optionsInOrder).
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func publishedQuestions(db *gorm.DB) *gorm.DB {
	return db.Where("questions.is_published = ?", true).Order("questions.position ASC")
}

func optionsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("options.position ASC")
}
