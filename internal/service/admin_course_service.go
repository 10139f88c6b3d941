package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/coursexam/internal/dto"
	"github.com/lshigami/coursexam/internal/model"
	"github.com/lshigami/coursexam/internal/repository"
	"github.com/rs/zerolog/log"
)

type AdminCourseService interface {
	CreateCourse(ctx context.Context, req dto.CourseCreateDTO) (*dto.CourseResponseDTO, error)
	CreateAssessment(ctx context.Context, courseID string, req dto.AssessmentCreateDTO) (*dto.AssessmentResponseDTO, error)
	DeleteAssessment(ctx context.Context, courseID, assessmentID string) error
}

type adminCourseService struct {
	courseRepo     repository.CourseRepository
	assessmentRepo repository.AssessmentRepository
}

func NewAdminCourseService(courseRepo repository.CourseRepository, assessmentRepo repository.AssessmentRepository) AdminCourseService {
	return &adminCourseService{courseRepo: courseRepo, assessmentRepo: assessmentRepo}
}

func (s *adminCourseService) CreateCourse(ctx context.Context, req dto.CourseCreateDTO) (*dto.CourseResponseDTO, error) {
	course := model.Course{Title: req.Title, Description: req.Description}
	if err := s.courseRepo.Create(ctx, &course); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create course")
		return nil, fmt.Errorf("error creating course: %w", err)
	}
	return &dto.CourseResponseDTO{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Assessments: []dto.AssessmentResponseDTO{},
		CreatedAt:   course.CreatedAt,
	}, nil
}

func (s *adminCourseService) CreateAssessment(ctx context.Context, courseID string, req dto.AssessmentCreateDTO) (*dto.AssessmentResponseDTO, error) {
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("error fetching course: %w", err)
	}

	assessment, err := buildAssessment(courseID, req)
	if err != nil {
		return nil, err
	}
	if err := s.assessmentRepo.Create(ctx, assessment); err != nil {
		log.Error().Err(err).Str("courseID", courseID).Msg("Failed to create assessment")
		return nil, fmt.Errorf("error creating assessment: %w", err)
	}
	log.Info().Str("courseID", courseID).Str("assessmentID", assessment.ID).Int("questions", len(assessment.Questions)).Msg("Assessment created")
	return toAssessmentDTO(assessment)
}

func (s *adminCourseService) DeleteAssessment(ctx context.Context, courseID, assessmentID string) error {
	if err := s.assessmentRepo.Delete(ctx, courseID, assessmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssessmentNotFound
		}
		log.Error().Err(err).Str("assessmentID", assessmentID).Msg("Failed to delete assessment")
		return fmt.Errorf("error deleting assessment: %w", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidAssessment, fmt.Sprintf(format, args...))
}

func buildAssessment(courseID string, req dto.AssessmentCreateDTO) (*model.Assessment, error) {
	a := &model.Assessment{
		CourseID:    courseID,
		ChapterID:   req.ChapterID,
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		Starter:     req.Starter,
		IsPublished: req.IsPublished,
	}

	if req.Kind == model.AssessmentKindForm {
		if req.FormURL == nil || strings.TrimSpace(*req.FormURL) == "" {
			return nil, invalid("a form assessment needs a formUrl")
		}
		if len(req.Questions) > 0 {
			return nil, invalid("a form assessment cannot carry questions")
		}
		a.FormURL = req.FormURL
		return a, nil
	}

	if len(req.Questions) == 0 {
		return nil, invalid("an %s needs at least one question", req.Kind)
	}

	positions := make(map[int]bool)
	for _, qDto := range req.Questions {
		if positions[qDto.Position] {
			return nil, invalid("duplicate question position %d", qDto.Position)
		}
		positions[qDto.Position] = true

		optionPositions := make(map[int]bool)
		options := make([]model.Option, 0, len(qDto.Options))
		for _, oDto := range qDto.Options {
			if optionPositions[oDto.Position] {
				return nil, invalid("duplicate option position %d in question %d", oDto.Position, qDto.Position)
			}
			// unique and within 1..n means positions are exactly 1..n
			if oDto.Position < 1 || oDto.Position > len(qDto.Options) {
				return nil, invalid("option position %d of question %d must be between 1 and %d", oDto.Position, qDto.Position, len(qDto.Options))
			}
			optionPositions[oDto.Position] = true
			options = append(options, model.Option{Text: oDto.Text, Position: oDto.Position})
		}
		if !optionPositions[qDto.Answer] {
			return nil, invalid("answer %d of question %d does not match any option position", qDto.Answer, qDto.Position)
		}

		published := true
		if qDto.IsPublished != nil {
			published = *qDto.IsPublished
		}
		a.Questions = append(a.Questions, model.Question{
			Prompt:      qDto.Prompt,
			Position:    qDto.Position,
			Answer:      qDto.Answer,
			Explanation: qDto.Explanation,
			IsPublished: published,
			Options:     options,
		})
	}
	return a, nil
}
