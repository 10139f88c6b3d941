package user

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/coursexam/internal/dto"
	"github.com/lshigami/coursexam/internal/middleware"
	"github.com/rs/zerolog/log"
)

// SubmitAssessment godoc
// @Summary (User) Submit an attempt for server-side scoring
// @Description Scores the selections, stores progress and the result, and issues a certificate when the score earns one. nameOfStudent defaults to the name in the token.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course_id path string true "Course ID"
// @Param assessment_id path string true "Assessment ID"
// @Param submission body dto.SubmissionDTO true "Selections keyed by question id"
// @Success 200 {object} dto.SubmissionDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid submission (incomplete exam, no selections, missing name)"
// @Failure 404 {object} dto.ErrorResponse "Assessment not found"
// @Failure 500 {object} dto.ErrorResponse "Error processing submission"
// @Router /courses/{course_id}/assessments/{assessment_id}/submissions [post]
func (c *AssessmentController) SubmitAssessment(ctx *gin.Context) {
	var req dto.SubmissionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User SubmitAssessment: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if strings.TrimSpace(req.NameOfStudent) == "" {
		req.NameOfStudent = middleware.UserName(ctx)
	}

	key := keyFromPath(ctx)
	log.Info().Str("userID", key.UserID).Str("assessmentID", key.AssessmentID).Int("selections", len(req.UserSelections)).Msg("Received submission")

	detail, err := c.submissionService.Submit(ctx.Request.Context(), key, req)
	if err != nil {
		respondError(ctx, err, "Failed to submit attempt")
		return
	}
	ctx.JSON(http.StatusOK, detail)
}
