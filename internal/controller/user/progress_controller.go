package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/coursexam/internal/dto"
	"github.com/rs/zerolog/log"
)

// GetProgress godoc
// @Summary (User) Get the stored attempt
// @Description Returns the caller's saved selections for the assessment, or 204 when there are none.
// @Tags User - Attempts
// @Produce json
// @Security BearerAuth
// @Param course_id path string true "Course ID"
// @Param assessment_id path string true "Assessment ID"
// @Success 200 {object} dto.ProgressResponseDTO
// @Success 204 "No stored attempt"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{course_id}/assessments/{assessment_id}/progress [get]
func (c *AssessmentController) GetProgress(ctx *gin.Context) {
	progress, err := c.submissionService.GetProgress(ctx.Request.Context(), keyFromPath(ctx))
	if err != nil {
		if isNotFound(err) {
			ctx.Status(http.StatusNoContent)
			return
		}
		respondError(ctx, err, "Failed to retrieve progress")
		return
	}
	ctx.JSON(http.StatusOK, progress)
}

// SaveProgress godoc
// @Summary (User) Store the attempt
// @Description Upserts the caller's selections. The stored percentage is recomputed from the selections.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course_id path string true "Course ID"
// @Param assessment_id path string true "Assessment ID"
// @Param progress body dto.ProgressUpsertDTO true "Selections keyed by question id"
// @Success 200 {object} dto.ProgressResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "userId is not the caller"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{course_id}/assessments/{assessment_id}/progress [put]
// @Router /courses/{course_id}/assessments/{assessment_id}/progress [patch]
func (c *AssessmentController) SaveProgress(ctx *gin.Context) {
	var req dto.ProgressUpsertDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User SaveProgress: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	key := keyFromPath(ctx)
	if req.UserID != key.UserID {
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "userId does not match the authenticated user"})
		return
	}

	progress, err := c.submissionService.SaveProgress(ctx.Request.Context(), key, req)
	if err != nil {
		respondError(ctx, err, "Failed to save progress")
		return
	}
	ctx.JSON(http.StatusOK, progress)
}
