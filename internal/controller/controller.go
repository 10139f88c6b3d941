package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/lshigami/coursexam/config"
	"github.com/lshigami/coursexam/internal/controller/admin"
	"github.com/lshigami/coursexam/internal/controller/user"
	"github.com/lshigami/coursexam/internal/middleware"
)

// RegisterRoutes mounts the API under /api/v1. Every route needs a bearer
// token; /admin routes also need the teacher role.
func RegisterRoutes(router *gin.Engine, auth config.Auth, adminCtrl *admin.AdminCourseController, userCtrl *user.AssessmentController) {
	apiV1 := router.Group("/api/v1", middleware.Auth(auth.JWTSecret))

	adminGroup := apiV1.Group("/admin", middleware.RequireRole(auth.TeacherRole))
	{
		adminGroup.POST("/courses", adminCtrl.CreateCourse)
		adminGroup.POST("/courses/:course_id/assessments", adminCtrl.CreateAssessment)
		adminGroup.DELETE("/courses/:course_id/assessments/:assessment_id", adminCtrl.DeleteAssessment)
	}

	apiV1.GET("/courses/:course_id", userCtrl.GetCourse)

	assessment := apiV1.Group("/courses/:course_id/assessments/:assessment_id")
	{
		assessment.GET("", userCtrl.GetAssessment)

		assessment.GET("/progress", userCtrl.GetProgress)
		assessment.PUT("/progress", userCtrl.SaveProgress)
		assessment.PATCH("/progress", userCtrl.SaveProgress)

		assessment.GET("/certificate", userCtrl.GetCertificate)
		assessment.POST("/certificate", userCtrl.RequestCertificate)

		assessment.POST("/submissions", userCtrl.SubmitAssessment)
	}

	results := apiV1.Group("/results")
	{
		results.POST("", userCtrl.CreateResult)
		results.GET("", userCtrl.GetResult)
	}
}
