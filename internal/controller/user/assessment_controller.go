package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/coursexam/internal/dto"
	"github.com/lshigami/coursexam/internal/middleware"
	"github.com/lshigami/coursexam/internal/repository"
	"github.com/lshigami/coursexam/internal/service"
	"github.com/rs/zerolog/log"
)

// AssessmentController serves everything a learner does with an assessment:
// reading it, saving progress, results, certificates and submissions.
type AssessmentController struct {
	courseService      service.CourseService
	submissionService  service.SubmissionService
	certificateService service.CertificateService
}

func NewAssessmentController(
	cs service.CourseService,
	ss service.SubmissionService,
	certs service.CertificateService,
) *AssessmentController {
	return &AssessmentController{
		courseService:      cs,
		submissionService:  ss,
		certificateService: certs,
	}
}

// GetCourse godoc
// @Summary (User) Get a course
// @Description Course with its published assessments. Questions and options are in position order.
// @Tags User - Courses
// @Produce json
// @Security BearerAuth
// @Param course_id path string true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{course_id} [get]
func (c *AssessmentController) GetCourse(ctx *gin.Context) {
	course, err := c.courseService.GetCourse(ctx.Request.Context(), ctx.Param("course_id"))
	if err != nil {
		respondError(ctx, err, "Failed to retrieve course")
		return
	}
	ctx.JSON(http.StatusOK, course)
}

// GetAssessment godoc
// @Summary (User) Get an assessment
// @Tags User - Courses
// @Produce json
// @Security BearerAuth
// @Param course_id path string true "Course ID"
// @Param assessment_id path string true "Assessment ID"
// @Success 200 {object} dto.AssessmentResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{course_id}/assessments/{assessment_id} [get]
func (c *AssessmentController) GetAssessment(ctx *gin.Context) {
	assessment, err := c.courseService.GetAssessment(ctx.Request.Context(), ctx.Param("course_id"), ctx.Param("assessment_id"))
	if err != nil {
		respondError(ctx, err, "Failed to retrieve assessment")
		return
	}
	ctx.JSON(http.StatusOK, assessment)
}

// keyFromPath builds the record key for the caller and the assessment in the
// path.
func keyFromPath(ctx *gin.Context) repository.Key {
	return repository.Key{
		UserID:       middleware.UserID(ctx),
		CourseID:     ctx.Param("course_id"),
		AssessmentID: ctx.Param("assessment_id"),
	}
}

func respondError(ctx *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrAssessmentNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrStudentNameRequired),
		errors.Is(err, service.ErrIncompleteAttempt),
		errors.Is(err, service.ErrNoSelections),
		errors.Is(err, service.ErrInvalidSelections),
		errors.Is(err, service.ErrNotScorable):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg(message)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: message, Details: []string{err.Error()}})
	}
}
