package app

import (
	"streamcrew_backend/docs"
	"streamcrew_backend/internal/config"
	"streamcrew_backend/internal/middleware"
	"streamcrew_backend/internal/model"

	"streamcrew_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, repos)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 通用授权接口
		a.registerCrewRoutes(authGroup, c)

		// 教学与运营人员接口
		a.registerInstructorRoutes(authGroup, c)

		// 管理员接口
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录：游客可浏览，登录用户可见更多
		public.GET("/courses", middleware.TryAuthMiddleware(a.Config), c.course.List)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(a.Config), c.course.Get)
		public.GET("/courses/:id/reviews", middleware.TryAuthMiddleware(a.Config), c.review.ListByCourse)
	}
}

func (a *App) registerCrewRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)

	// 检查单
	rg.GET("/checklists", c.checklist.List)
	rg.GET("/checklists/:id", c.checklist.Get)
	rg.GET("/checklists/:id/stats", c.checklist.Stats)

	// 检查单分配与条目勾选
	rg.GET("/assignments/mine", c.assignment.ListMine)
	rg.GET("/assignments/:id", c.assignment.Get)
	rg.PUT("/assignments/:id/items", c.assignment.CompleteItem)
	rg.GET("/assignments/:id/progress", c.assignment.Progress)

	// 条目状态机
	rg.GET("/checklist-progress", c.assignment.ListStatuses)
	rg.PUT("/checklist-progress", c.assignment.UpdateStatus)

	// 学习
	rg.POST("/courses/:id/enroll", c.enrollment.Enroll)
	rg.GET("/enrollments/mine", c.enrollment.ListMine)
	rg.POST("/lessons/:id/complete", c.enrollment.CompleteLesson)
	rg.PUT("/lessons/:id/video-progress", c.enrollment.UpdateVideoProgress)
	rg.GET("/courses/:id/lesson-progress", c.enrollment.LessonProgress)

	// 测验
	rg.GET("/courses/:id/assessments", c.assessment.ListByCourse)
	rg.GET("/assessments/:id", c.assessment.Get)
	rg.POST("/assessments/:id/attempts", c.assessment.StartAttempt)
	rg.GET("/assessments/:id/attempts", c.assessment.ListAttempts)
	rg.PUT("/attempts/:id/answers", c.assessment.SubmitAnswer)
	rg.POST("/attempts/:id/submit", c.assessment.SubmitAttempt)
	rg.GET("/attempts/:id", c.assessment.GetAttempt)

	// 评价
	rg.POST("/courses/:id/reviews", c.review.Create)
	rg.PUT("/reviews/:id", c.review.Update)
	rg.DELETE("/reviews/:id", c.review.Delete)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	staff := rg.Group("/")
	staff.Use(middleware.RoleMiddleware(model.Instructor))
	{
		// 检查单编排
		staff.POST("/checklists", c.checklist.Create)
		staff.PUT("/checklists/:id", c.checklist.Update)
		staff.DELETE("/checklists/:id", c.checklist.Delete)
		staff.PUT("/checklists/:id/sections/reorder", c.checklist.ReorderSections)
		staff.GET("/checklists/:id/assignments", c.assignment.ListForChecklist)

		// 分配管理
		staff.POST("/assignments", c.assignment.Assign)
		staff.DELETE("/assignments/:id", c.assignment.Delete)
		staff.PUT("/checklist-progress/bulk", c.assignment.BulkUpdateStatus)

		// 检查单类型
		staff.POST("/checklist-types", c.checklistType.Create)
		staff.GET("/checklist-types", c.checklistType.List)
		staff.GET("/checklist-types/:id", c.checklistType.Get)
		staff.PUT("/checklist-types/:id", c.checklistType.Update)
		staff.DELETE("/checklist-types/:id", c.checklistType.Delete)
		staff.GET("/checklist-types/:id/stats", c.checklistType.Stats)

		// 岗位角色
		staff.POST("/roles", c.role.Create)
		staff.GET("/roles", c.role.List)
		staff.GET("/roles/:id", c.role.Get)
		staff.PUT("/roles/:id", c.role.Update)
		staff.DELETE("/roles/:id", c.role.Delete)

		// 课程编排
		staff.POST("/courses", c.course.Create)
		staff.PUT("/courses/:id", c.course.Update)
		staff.DELETE("/courses/:id", c.course.Delete)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.List)
		admin.GET("/users/:id", c.user.Get)
		admin.PUT("/users/:id", c.user.AdminUpdate)
		admin.PUT("/users/:id/disabled", c.user.SetDisabled)
		admin.PUT("/users/:id/password", c.user.ResetPassword)
		admin.DELETE("/users/:id", c.user.Delete)

		admin.GET("/audit-logs", c.audit.List)
	}
}
