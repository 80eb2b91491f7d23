package app

import (
	"school_edu_backend/docs"
	"school_edu_backend/internal/config"
	"school_edu_backend/internal/middleware"
	"school_edu_backend/internal/model"
	"school_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		users := authGroup.Group("/users")
		users.Use(middleware.RoleMiddleware(model.Teacher))
		{
			users.GET("", c.user.GetUsers)
			users.GET("/:id", c.user.GetUser)
		}

		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.POST("/users/:id/disable", c.user.DisableUser)
		}

		mcq := authGroup.Group("/mcq")
		a.registerStudentRoutes(mcq, c)
		a.registerTeacherRoutes(mcq, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	sessions := rg.Group("/sessions")
	{
		// 作答接口仅学生可用（管理员放行）
		practice := sessions.Group("")
		practice.Use(middleware.RoleMiddleware(model.Student))
		{
			practice.POST("/start", c.mcq.StartSession)
			practice.POST("/submit-answer", c.mcq.SubmitAnswer)
			practice.POST("/next-batch", c.mcq.NextBatch)
			practice.POST("/end", c.mcq.EndSession)
		}

		sessions.GET("", c.mcq.ListMySessions)
		sessions.GET("/:session_id", c.mcq.GetSession)
	}

	rg.GET("/student-progress", c.mcq.GetStudentProgress)
	rg.GET("/chapters", c.mcqQuestion.ListChapters)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/teacher/sessions", c.mcq.ListTeacherSessions)
		teacher.GET("/class-statistics", c.mcq.GetClassStatistics)

		teacher.GET("/questions", c.mcqQuestion.ListQuestions)
		teacher.GET("/questions/:id", c.mcqQuestion.GetQuestion)
		teacher.POST("/questions", c.mcqQuestion.CreateQuestion)
		teacher.POST("/questions/bulk", c.mcqQuestion.BulkCreate)
		teacher.PUT("/questions/bulk", c.mcqQuestion.BulkUpdate)
		teacher.POST("/questions/image", c.mcqQuestion.UploadImage)
	}
}
