package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/coursexam/internal/dto"
	"github.com/lshigami/coursexam/internal/model"
	"github.com/lshigami/coursexam/internal/repository"
	"github.com/rs/zerolog/log"
)

// CourseTitleFallback is stored when the course row cannot be read at issuance.
const CourseTitleFallback = "Course Title Not Found"

type CertificateService interface {
	GetCertificate(ctx context.Context, key repository.Key) (*dto.CertificateResponseDTO, error)
	// IssueCertificate returns the certificate for the key, creating it when
	// absent. created is false when it already existed.
	IssueCertificate(ctx context.Context, key repository.Key, nameOfStudent string) (cert *dto.CertificateResponseDTO, created bool, err error)
}

type certificateService struct {
	certRepo       repository.CertificateRepository
	courseRepo     repository.CourseRepository
	assessmentRepo repository.AssessmentRepository
}

func NewCertificateService(
	certRepo repository.CertificateRepository,
	courseRepo repository.CourseRepository,
	assessmentRepo repository.AssessmentRepository,
) CertificateService {
	return &certificateService{certRepo: certRepo, courseRepo: courseRepo, assessmentRepo: assessmentRepo}
}

func (s *certificateService) GetCertificate(ctx context.Context, key repository.Key) (*dto.CertificateResponseDTO, error) {
	cert, err := s.certRepo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Str("userID", key.UserID).Str("assessmentID", key.AssessmentID).Msg("Failed to load certificate")
		return nil, fmt.Errorf("error fetching certificate: %w", err)
	}
	return toCertificateDTO(cert)
}

func (s *certificateService) IssueCertificate(ctx context.Context, key repository.Key, nameOfStudent string) (*dto.CertificateResponseDTO, bool, error) {
	name := strings.TrimSpace(nameOfStudent)
	if name == "" {
		return nil, false, ErrStudentNameRequired
	}

	if _, err := s.assessmentRepo.FindByID(ctx, key.CourseID, key.AssessmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrAssessmentNotFound
		}
		return nil, false, fmt.Errorf("error fetching assessment: %w", err)
	}

	courseTitle := CourseTitleFallback
	course, err := s.courseRepo.FindByID(ctx, key.CourseID)
	if err != nil {
		log.Warn().Err(err).Str("courseID", key.CourseID).Msg("Course title unavailable for certificate, using fallback")
	} else if course.Title != "" {
		courseTitle = course.Title
	}

	stored, created, err := s.certRepo.CreateIfAbsent(ctx, &model.Certificate{
		UserID:        key.UserID,
		CourseID:      key.CourseID,
		AssessmentID:  key.AssessmentID,
		NameOfStudent: name,
		CourseTitle:   courseTitle,
	})
	if err != nil {
		log.Error().Err(err).Str("userID", key.UserID).Str("assessmentID", key.AssessmentID).Msg("Failed to store certificate")
		return nil, false, fmt.Errorf("error creating certificate: %w", err)
	}
	if created {
		log.Info().Str("userID", key.UserID).Str("courseID", key.CourseID).Str("assessmentID", key.AssessmentID).Msg("Certificate issued")
	}

	resp, err := toCertificateDTO(stored)
	if err != nil {
		return nil, false, err
	}
	return resp, created, nil
}

func toCertificateDTO(cert *model.Certificate) (*dto.CertificateResponseDTO, error) {
	var resp dto.CertificateResponseDTO
	if err := copier.Copy(&resp, cert); err != nil {
		return nil, fmt.Errorf("error preparing certificate response: %w", err)
	}
	resp.ExamID = cert.AssessmentID
	return &resp, nil
}
