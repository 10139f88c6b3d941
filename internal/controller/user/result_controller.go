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

// CreateResult godoc
// @Summary (User) Record a result
// @Description Stores client-computed points for the caller. One result is kept per user and assessment; the latest write wins.
// @Tags User - Results
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param result body dto.ResultCreateDTO true "Result"
// @Success 201 {object} dto.ResultResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 403 {object} dto.ErrorResponse "userId is not the caller"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /results [post]
func (c *AssessmentController) CreateResult(ctx *gin.Context) {
	var req dto.ResultCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User CreateResult: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing required fields", Details: []string{err.Error()}})
		return
	}
	if req.UserID != middleware.UserID(ctx) {
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "userId does not match the authenticated user"})
		return
	}

	result, err := c.submissionService.CreateResult(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err, "Failed to create result")
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// GetResult godoc
// @Summary (User) Get a result
// @Tags User - Results
// @Produce json
// @Security BearerAuth
// @Param userId query string true "User ID"
// @Param courseId query string true "Course ID"
// @Param examId query string true "Assessment ID"
// @Success 200 {object} dto.ResultResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing required parameters"
// @Failure 403 {object} dto.ErrorResponse "userId is not the caller"
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /results [get]
func (c *AssessmentController) GetResult(ctx *gin.Context) {
	key := repository.Key{
		UserID:       ctx.Query("userId"),
		CourseID:     ctx.Query("courseId"),
		AssessmentID: ctx.Query("examId"),
	}
	if key.UserID == "" || key.CourseID == "" || key.AssessmentID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing required parameters", Details: []string{"userId, courseId and examId are required"}})
		return
	}
	if key.UserID != middleware.UserID(ctx) {
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "userId does not match the authenticated user"})
		return
	}

	result, err := c.submissionService.GetResult(ctx.Request.Context(), key)
	if err != nil {
		if isNotFound(err) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Result not found"})
			return
		}
		respondError(ctx, err, "Failed to retrieve result")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrNotFound)
}
