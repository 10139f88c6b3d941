package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/coursexam/internal/dto"
	"github.com/lshigami/coursexam/internal/service"
	"github.com/rs/zerolog/log"
)

// GetCertificate godoc
// @Summary (User) Get the caller's certificate
// @Tags User - Certificates
// @Produce json
// @Security BearerAuth
// @Param course_id path string true "Course ID"
// @Param assessment_id path string true "Assessment ID"
// @Success 200 {object} dto.CertificateResponseDTO
// @Failure 404 {object} dto.ErrorResponse "No certificate"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{course_id}/assessments/{assessment_id}/certificate [get]
func (c *AssessmentController) GetCertificate(ctx *gin.Context) {
	cert, err := c.certificateService.GetCertificate(ctx.Request.Context(), keyFromPath(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to retrieve certificate")
		return
	}
	ctx.JSON(http.StatusOK, cert)
}

// RequestCertificate godoc
// @Summary (User) Request a certificate
// @Description Issues the caller's certificate for the assessment. Repeated requests return the existing certificate.
// @Tags User - Certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course_id path string true "Course ID"
// @Param assessment_id path string true "Assessment ID"
// @Param request body dto.CertificateRequestDTO true "Name printed on the certificate"
// @Success 200 {object} dto.CertificateResponseDTO
// @Failure 400 {object} dto.ErrorResponse "nameOfStudent missing"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 503 {object} dto.ErrorResponse "Assessment does not exist"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{course_id}/assessments/{assessment_id}/certificate [post]
func (c *AssessmentController) RequestCertificate(ctx *gin.Context) {
	key := keyFromPath(ctx)
	if key.UserID == "" {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Unauthorized"})
		return
	}

	var req dto.CertificateRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.NameOfStudent) == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing required fields", Details: []string{service.ErrStudentNameRequired.Error()}})
		return
	}

	cert, created, err := c.certificateService.IssueCertificate(ctx.Request.Context(), key, req.NameOfStudent)
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			log.Warn().Str("assessmentID", key.AssessmentID).Msg("User RequestCertificate: Assessment does not exist")
			ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "Exam does not exist"})
			return
		}
		respondError(ctx, err, "Failed to issue certificate")
		return
	}
	log.Info().Str("userID", key.UserID).Str("assessmentID", key.AssessmentID).Bool("created", created).Msg("Certificate requested")
	ctx.JSON(http.StatusOK, cert)
}
