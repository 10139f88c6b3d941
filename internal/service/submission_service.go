package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/lshigami/coursexam/internal/dto"
	"github.com/lshigami/coursexam/internal/model"
	"github.com/lshigami/coursexam/internal/repository"
	"github.com/lshigami/coursexam/internal/scoring"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmissionService is the server side of the submission gateway.
type SubmissionService interface {
	GetProgress(ctx context.Context, key repository.Key) (*dto.ProgressResponseDTO, error)
	// SaveProgress stores the attempt. The percentage is recomputed from the
	// selections; the client's value is only compared and logged.
	SaveProgress(ctx context.Context, key repository.Key, req dto.ProgressUpsertDTO) (*dto.ProgressResponseDTO, error)
	// CreateResult records client-computed points as given, once the
	// assessment is known to exist.
	CreateResult(ctx context.Context, req dto.ResultCreateDTO) (*dto.ResultResponseDTO, error)
	GetResult(ctx context.Context, key repository.Key) (*dto.ResultResponseDTO, error)
	// Submit scores the selections on the server, stores progress and result,
	// and issues a certificate when the outcome earns one.
	Submit(ctx context.Context, key repository.Key, req dto.SubmissionDTO) (*dto.SubmissionDetailDTO, error)
}

type submissionService struct {
	assessmentRepo repository.AssessmentRepository
	progressRepo   repository.ProgressRepository
	resultRepo     repository.ResultRepository
	certService    CertificateService
	explainer      ExplanationService
	scoreConverter ScoreConverterService
	db             *gorm.DB // Used for transactions within Submit
}

func NewSubmissionService(
	assessmentRepo repository.AssessmentRepository,
	progressRepo repository.ProgressRepository,
	resultRepo repository.ResultRepository,
	certService CertificateService,
	explainer ExplanationService,
	scoreConverter ScoreConverterService,
	db *gorm.DB,
) SubmissionService {
	return &submissionService{
		assessmentRepo: assessmentRepo,
		progressRepo:   progressRepo,
		resultRepo:     resultRepo,
		certService:    certService,
		explainer:      explainer,
		scoreConverter: scoreConverter,
		db:             db,
	}
}

func (s *submissionService) GetProgress(ctx context.Context, key repository.Key) (*dto.ProgressResponseDTO, error) {
	progress, err := s.progressRepo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Str("userID", key.UserID).Str("assessmentID", key.AssessmentID).Msg("Failed to load progress")
		return nil, fmt.Errorf("error fetching progress: %w", err)
	}
	return toProgressDTO(progress)
}

func (s *submissionService) SaveProgress(ctx context.Context, key repository.Key, req dto.ProgressUpsertDTO) (*dto.ProgressResponseDTO, error) {
	assessment, err := s.loadAssessment(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := s.validateSelections(assessment, req.UserSelections); err != nil {
		return nil, err
	}

	tally := s.scoreConverter.Score(assessment, scoring.Selections(req.UserSelections))
	if math.Abs(tally.Score-req.Percentage) > 0.5 {
		log.Warn().
			Str("userID", key.UserID).
			Str("assessmentID", key.AssessmentID).
			Float64("clientPercentage", req.Percentage).
			Float64("serverPercentage", tally.Score).
			Msg("Client percentage does not match the selections, storing the recomputed value")
	}

	progress, err := buildProgress(key, req.UserSelections, tally.Score)
	if err != nil {
		return nil, err
	}
	stored, err := s.progressRepo.Upsert(ctx, progress)
	if err != nil {
		log.Error().Err(err).Str("userID", key.UserID).Str("assessmentID", key.AssessmentID).Msg("Failed to store progress")
		return nil, fmt.Errorf("error saving progress: %w", err)
	}
	return toProgressDTO(stored)
}

func (s *submissionService) CreateResult(ctx context.Context, req dto.ResultCreateDTO) (*dto.ResultResponseDTO, error) {
	if _, err := s.assessmentRepo.FindByID(ctx, req.CourseID, req.ExamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("error fetching assessment: %w", err)
	}

	points := 0
	if req.Points != nil {
		points = *req.Points
	}
	stored, err := s.resultRepo.Upsert(ctx, &model.Result{
		UserID:       req.UserID,
		CourseID:     req.CourseID,
		AssessmentID: req.ExamID,
		Points:       points,
	})
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Str("examID", req.ExamID).Msg("Failed to store result")
		return nil, fmt.Errorf("error saving result: %w", err)
	}
	return toResultDTO(stored)
}

func (s *submissionService) GetResult(ctx context.Context, key repository.Key) (*dto.ResultResponseDTO, error) {
	result, err := s.resultRepo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Str("userID", key.UserID).Str("assessmentID", key.AssessmentID).Msg("Failed to load result")
		return nil, fmt.Errorf("error fetching result: %w", err)
	}
	return toResultDTO(result)
}

func (s *submissionService) Submit(ctx context.Context, key repository.Key, req dto.SubmissionDTO) (*dto.SubmissionDetailDTO, error) {
	assessment, err := s.loadAssessment(ctx, key)
	if err != nil {
		return nil, err
	}
	if assessment.Kind == model.AssessmentKindForm {
		return nil, ErrNotScorable
	}

	if err := s.validateSelections(assessment, req.UserSelections); err != nil {
		return nil, err
	}

	sel := scoring.Selections(req.UserSelections)
	tally := s.scoreConverter.Score(assessment, sel)
	if !s.scoreConverter.CanSubmit(assessment, tally) {
		if assessment.Kind == model.AssessmentKindQuiz && !assessment.Starter {
			return nil, ErrNoSelections
		}
		return nil, ErrIncompleteAttempt
	}
	outcome := s.scoreConverter.Outcome(assessment, tally.Score)
	if outcome == scoring.OutcomeCertificate && strings.TrimSpace(req.NameOfStudent) == "" {
		return nil, ErrStudentNameRequired
	}
	points := scoring.Points(tally.Score)

	progress, err := buildProgress(key, req.UserSelections, tally.Score)
	if err != nil {
		return nil, err
	}

	var result *model.Result
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewProgressRepository(tx).Upsert(ctx, progress); err != nil {
			return fmt.Errorf("failed to store progress: %w", err)
		}
		stored, err := repository.NewResultRepository(tx).Upsert(ctx, &model.Result{
			UserID:       key.UserID,
			CourseID:     key.CourseID,
			AssessmentID: key.AssessmentID,
			Points:       points,
		})
		if err != nil {
			return fmt.Errorf("failed to store result: %w", err)
		}
		result = stored
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("userID", key.UserID).Str("assessmentID", key.AssessmentID).Msg("Submit: Transaction failed")
		return nil, err
	}

	resultDTO, err := toResultDTO(result)
	if err != nil {
		return nil, err
	}

	resp := &dto.SubmissionDetailDTO{
		Total:            tally.Total,
		Answered:         tally.Answered,
		Correct:          tally.Correct,
		Wrong:            tally.Wrong,
		Score:            tally.Score,
		Points:           points,
		WrongQuestionIDs: tally.WrongQuestionIDs,
		Passed:           s.scoreConverter.Passed(tally.Score),
		Outcome:          string(outcome),
		Result:           *resultDTO,
	}

	if outcome == scoring.OutcomeCertificate {
		cert, _, err := s.certService.IssueCertificate(ctx, key, req.NameOfStudent)
		if err != nil {
			return nil, fmt.Errorf("result stored but certificate issuance failed: %w", err)
		}
		resp.Certificate = cert
	}

	resp.Explanations = s.explain(ctx, assessment, sel, tally.WrongQuestionIDs)
	log.Info().
		Str("userID", key.UserID).
		Str("assessmentID", key.AssessmentID).
		Float64("score", tally.Score).
		Str("outcome", resp.Outcome).
		Msg("Submission scored")
	return resp, nil
}

// explain collects explanations for wrong answers in question order. Stored
// explanations are used as is; the rest are generated concurrently when the
// explanation service is enabled. Generation failures are logged and skipped.
func (s *submissionService) explain(ctx context.Context, assessment *model.Assessment, sel scoring.Selections, wrongIDs []string) []dto.ExplanationDTO {
	questions := make(map[string]*model.Question, len(assessment.Questions))
	for i := range assessment.Questions {
		questions[assessment.Questions[i].ID] = &assessment.Questions[i]
	}

	slots := make([]*dto.ExplanationDTO, len(wrongIDs))
	var wg sync.WaitGroup
	for i, id := range wrongIDs {
		q := questions[id]
		if q == nil {
			continue
		}
		if q.Explanation != nil && *q.Explanation != "" {
			slots[i] = &dto.ExplanationDTO{QuestionID: id, Text: *q.Explanation}
			continue
		}
		if s.explainer == nil || !s.explainer.Enabled() {
			continue
		}
		wg.Add(1)
		go func(idx int, q *model.Question) {
			defer wg.Done()
			text, err := s.explainer.Explain(ctx, q, sel[q.ID])
			if err != nil {
				log.Warn().Err(err).Str("questionID", q.ID).Msg("Could not generate explanation")
				return
			}
			slots[idx] = &dto.ExplanationDTO{QuestionID: q.ID, Text: text, Generated: true}
		}(i, q)
	}
	wg.Wait()

	out := make([]dto.ExplanationDTO, 0, len(slots))
	for _, e := range slots {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}

// validateSelections rejects selections for questions the assessment does not
// publish and positions outside the question's options.
func (s *submissionService) validateSelections(assessment *model.Assessment, selections map[string]int) error {
	if err := s.scoreConverter.Convert(assessment).Validate(scoring.Selections(selections)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSelections, err.Error())
	}
	return nil
}

func (s *submissionService) loadAssessment(ctx context.Context, key repository.Key) (*model.Assessment, error) {
	assessment, err := s.assessmentRepo.FindPublishedWithQuestions(ctx, key.CourseID, key.AssessmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("error fetching assessment: %w", err)
	}
	return assessment, nil
}

func buildProgress(key repository.Key, selections map[string]int, percentage float64) (*model.Progress, error) {
	if selections == nil {
		selections = map[string]int{}
	}
	blob, err := json.Marshal(selections)
	if err != nil {
		return nil, fmt.Errorf("error encoding selections: %w", err)
	}
	return &model.Progress{
		UserID:       key.UserID,
		CourseID:     key.CourseID,
		AssessmentID: key.AssessmentID,
		Options:      datatypes.JSON(blob),
		Percentage:   percentage,
	}, nil
}

func toProgressDTO(p *model.Progress) (*dto.ProgressResponseDTO, error) {
	resp := dto.ProgressResponseDTO{Options: map[string]int{}, Percentage: p.Percentage, UpdatedAt: p.UpdatedAt}
	if len(p.Options) > 0 {
		if err := json.Unmarshal(p.Options, &resp.Options); err != nil {
			return nil, fmt.Errorf("stored progress is not a selection map: %w", err)
		}
	}
	return &resp, nil
}

func toResultDTO(r *model.Result) (*dto.ResultResponseDTO, error) {
	var resp dto.ResultResponseDTO
	if err := copier.Copy(&resp, r); err != nil {
		return nil, fmt.Errorf("error preparing result response: %w", err)
	}
	resp.ExamID = r.AssessmentID
	return &resp, nil
}
