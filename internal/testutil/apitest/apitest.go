// Package apitest wires the full HTTP API over an in-memory database.
package apitest

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/coursexam/config"
	"github.com/lshigami/coursexam/internal/controller"
	"github.com/lshigami/coursexam/internal/controller/admin"
	"github.com/lshigami/coursexam/internal/controller/user"
	"github.com/lshigami/coursexam/internal/middleware"
	"github.com/lshigami/coursexam/internal/repository"
	"github.com/lshigami/coursexam/internal/service"
	"github.com/lshigami/coursexam/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	Secret      = "apitest-secret"
	TeacherRole = "teacher"
)

type API struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func New(t *testing.T) *API {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)
	cfg := &config.Config{Auth: config.Auth{JWTSecret: Secret, TeacherRole: TeacherRole}}

	courses := repository.NewCourseRepository(db)
	assessments := repository.NewAssessmentRepository(db)
	explainer, err := service.NewExplanationService(cfg)
	require.NoError(t, err)

	certs := service.NewCertificateService(repository.NewCertificateRepository(db), courses, assessments)
	submissions := service.NewSubmissionService(
		assessments,
		repository.NewProgressRepository(db),
		repository.NewResultRepository(db),
		certs,
		explainer,
		service.NewScoreConverterService(cfg),
		db,
	)

	router := gin.New()
	controller.RegisterRoutes(router, cfg.Auth,
		admin.NewAdminCourseController(service.NewAdminCourseService(courses, assessments)),
		user.NewAssessmentController(service.NewCourseService(courses, assessments), submissions, certs),
	)
	return &API{Router: router, DB: db}
}

// Token signs a bearer token accepted by the router.
func Token(t *testing.T, userID, name, role string) string {
	t.Helper()
	token, err := middleware.NewToken(Secret, userID, name, role, time.Hour)
	require.NoError(t, err)
	return token
}
