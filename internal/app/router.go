package app

import (
	"survegio_backend/docs"
	"survegio_backend/internal/middleware"
	"survegio_backend/internal/model"
	"survegio_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 教务长/管理员：问卷评估
	dean := router.Group("/api/dean/surveys/:id")
	dean.Use(middleware.AuthMiddleware(a.secret), middleware.RoleMiddleware(model.RoleDean))
	{
		dean.GET("/evaluation", c.evaluation.GetEvaluation)
		dean.PUT("/evaluation", c.evaluation.SaveEvaluation)
		dean.GET("/stats", c.evaluation.GetQuestionStats)
		dean.GET("/year-levels", c.evaluation.GetYearLevels)
		dean.GET("/instructors", c.evaluation.ListInstructors)
		dean.GET("/instructors/:instructorId/report", c.evaluation.GetInstructorReport)
		dean.GET("/office-report", c.evaluation.GetOfficeReport)
		dean.POST("/reports/export", c.evaluation.ExportReport)
	}
}
