package app

import (
	"design_sense_backend/docs"
	"design_sense_backend/internal/config"
	"design_sense_backend/internal/middleware"
	"design_sense_backend/internal/util"
	"design_sense_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 操作员接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		designTest := public.Group("/design-test")
		designTest.GET("/questions", c.designTest.GetQuestions)
		designTest.GET("/supplemental", c.designTest.GetSupplemental)
		designTest.POST("/submit", c.designTest.Submit)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(util.RoleOperator))
	{
		admin.GET("/design-test/attempts", c.attemptAdmin.ListAttempts)
	}
}
