package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/coursexam/internal/dto"
	"github.com/lshigami/coursexam/internal/model"
	"github.com/lshigami/coursexam/internal/repository"
	"github.com/rs/zerolog/log"
)

type CourseService interface {
	GetCourse(ctx context.Context, courseID string) (*dto.CourseResponseDTO, error)
	GetAssessment(ctx context.Context, courseID, assessmentID string) (*dto.AssessmentResponseDTO, error)
}

type courseService struct {
	courseRepo     repository.CourseRepository
	assessmentRepo repository.AssessmentRepository
}

func NewCourseService(courseRepo repository.CourseRepository, assessmentRepo repository.AssessmentRepository) CourseService {
	return &courseService{courseRepo: courseRepo, assessmentRepo: assessmentRepo}
}

func (s *courseService) GetCourse(ctx context.Context, courseID string) (*dto.CourseResponseDTO, error) {
	course, err := s.courseRepo.FindByIDWithAssessments(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		log.Error().Err(err).Str("courseID", courseID).Msg("Failed to load course")
		return nil, fmt.Errorf("error fetching course: %w", err)
	}

	resp := dto.CourseResponseDTO{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		CreatedAt:   course.CreatedAt,
		Assessments: make([]dto.AssessmentResponseDTO, 0, len(course.Assessments)),
	}
	for i := range course.Assessments {
		a, err := toAssessmentDTO(&course.Assessments[i])
		if err != nil {
			return nil, err
		}
		resp.Assessments = append(resp.Assessments, *a)
	}
	return &resp, nil
}

func (s *courseService) GetAssessment(ctx context.Context, courseID, assessmentID string) (*dto.AssessmentResponseDTO, error) {
	assessment, err := s.assessmentRepo.FindPublishedWithQuestions(ctx, courseID, assessmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssessmentNotFound
		}
		log.Error().Err(err).Str("courseID", courseID).Str("assessmentID", assessmentID).Msg("Failed to load assessment")
		return nil, fmt.Errorf("error fetching assessment: %w", err)
	}
	return toAssessmentDTO(assessment)
}

func toAssessmentDTO(a *model.Assessment) (*dto.AssessmentResponseDTO, error) {
	var resp dto.AssessmentResponseDTO
	if err := copier.Copy(&resp, a); err != nil {
		log.Error().Err(err).Str("assessmentID", a.ID).Msg("Failed to copy Assessment model to DTO")
		return nil, fmt.Errorf("error preparing assessment response: %w", err)
	}
	if resp.Questions == nil {
		resp.Questions = []dto.QuestionResponseDTO{}
	}
	for i := range resp.Questions {
		if resp.Questions[i].Options == nil {
			resp.Questions[i].Options = []dto.OptionResponseDTO{}
		}
	}
	return &resp, nil
}
