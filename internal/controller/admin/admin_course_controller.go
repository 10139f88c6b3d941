package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/coursexam/internal/dto"
	"github.com/lshigami/coursexam/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminCourseController struct {
	adminCourseService service.AdminCourseService
}

func NewAdminCourseController(adminCourseService service.AdminCourseService) *AdminCourseController {
	return &AdminCourseController{adminCourseService: adminCourseService}
}

// CreateCourse godoc
// @Summary (Admin) Create a course
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course_data body dto.CourseCreateDTO true "Course title and description"
// @Success 201 {object} dto.CourseResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/courses [post]
func (c *AdminCourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateCourse: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	course, err := c.adminCourseService.CreateCourse(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create course", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, course)
}

// CreateAssessment godoc
// @Summary (Admin) Create an assessment
// @Description Creates an exam or quiz with its questions and options, or an exam hosted on an external form. Answers and option positions are 1-based.
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course_id path string true "Course ID"
// @Param assessment_data body dto.AssessmentCreateDTO true "Assessment with questions"
// @Success 201 {object} dto.AssessmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data (e.g., duplicate positions, answer without option)"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/courses/{course_id}/assessments [post]
func (c *AdminCourseController) CreateAssessment(ctx *gin.Context) {
	courseID := ctx.Param("course_id")

	var req dto.AssessmentCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateAssessment: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	assessment, err := c.adminCourseService.CreateAssessment(ctx.Request.Context(), courseID, req)
	switch {
	case err == nil:
		ctx.JSON(http.StatusCreated, assessment)
	case errors.Is(err, service.ErrInvalidAssessment):
		log.Warn().Err(err).Str("courseID", courseID).Msg("Admin CreateAssessment: Validation failed")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create assessment", Details: []string{err.Error()}})
	case errors.Is(err, service.ErrCourseNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create assessment", Details: []string{err.Error()}})
	}
}

// DeleteAssessment godoc
// @Summary (Admin) Delete an assessment and its questions
// @Tags Admin - Courses
// @Security BearerAuth
// @Param course_id path string true "Course ID"
// @Param assessment_id path string true "Assessment ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/courses/{course_id}/assessments/{assessment_id} [delete]
func (c *AdminCourseController) DeleteAssessment(ctx *gin.Context) {
	err := c.adminCourseService.DeleteAssessment(ctx.Request.Context(), ctx.Param("course_id"), ctx.Param("assessment_id"))
	switch {
	case err == nil:
		ctx.Status(http.StatusNoContent)
	case errors.Is(err, service.ErrAssessmentNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete assessment", Details: []string{err.Error()}})
	}
}
