package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"streamcrew_backend/internal/config"
	"streamcrew_backend/internal/controller"
	"streamcrew_backend/internal/repository"
	"streamcrew_backend/internal/service"
	"streamcrew_backend/pkg/database"
	"streamcrew_backend/pkg/logger"
	"streamcrew_backend/pkg/monitoring"
	"streamcrew_backend/pkg/security"
	"streamcrew_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user          *repository.UserRepository
	role          *repository.RoleRepository
	checklistType *repository.ChecklistTypeRepository
	checklist     *repository.ChecklistRepository
	assignment    *repository.AssignmentRepository
	course        *repository.CourseRepository
	enrollment    *repository.EnrollmentRepository
	assessment    *repository.AssessmentRepository
	review        *repository.ReviewRepository
	audit         *repository.AuditRepository
}

type services struct {
	audit         *service.AuditService
	storage       *service.StorageService
	auth          *service.AuthService
	user          *service.UserService
	role          *service.RoleService
	checklistType *service.ChecklistTypeService
	checklist     *service.ChecklistService
	assignment    *service.AssignmentService
	course        *service.CourseService
	enrollment    *service.EnrollmentService
	assessment    *service.AssessmentService
	review        *service.ReviewService
}

type controllers struct {
	auth          *controller.AuthController
	user          *controller.UserController
	role          *controller.RoleController
	checklistType *controller.ChecklistTypeController
	checklist     *controller.ChecklistController
	assignment    *controller.AssignmentController
	course        *controller.CourseController
	enrollment    *controller.EnrollmentController
	assessment    *controller.AssessmentController
	review        *controller.ReviewController
	audit         *controller.AuditController
	health        *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// OnConfigReload 配置热更新回调，供 configwatcher 调用
func (a *App) OnConfigReload(cfg interface{}) {
	newCfg, ok := cfg.(*config.Config)
	if !ok {
		logger.Log.Warn("ignoring config reload with unexpected type")
		return
	}
	a.Config = newCfg
	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
	logger.Log.Info("config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		role:          repository.NewRoleRepository(db),
		checklistType: repository.NewChecklistTypeRepository(db),
		checklist:     repository.NewChecklistRepository(db),
		assignment:    repository.NewAssignmentRepository(db),
		course:        repository.NewCourseRepository(db),
		enrollment:    repository.NewEnrollmentRepository(db),
		assessment:    repository.NewAssessmentRepository(db),
		review:        repository.NewReviewRepository(db),
		audit:         repository.NewAuditRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.audit = service.NewAuditService(repos.audit)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.audit)
	s.role = service.NewRoleService(repos.role, s.audit)
	s.checklistType = service.NewChecklistTypeService(repos.checklistType, s.audit)
	s.checklist = service.NewChecklistService(repos.checklist, repos.checklistType, repos.role, s.audit, db, rdb)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.checklist, repos.user, s.audit, db)
	s.course = service.NewCourseService(repos.course, s.audit, db)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, s.audit, db)
	s.assessment = service.NewAssessmentService(repos.assessment, repos.enrollment, s.audit, db)
	s.review = service.NewReviewService(repos.review, repos.enrollment, repos.course, s.audit)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:          controller.NewAuthController(s.auth, s.user),
		user:          controller.NewUserController(s.user, s.storage),
		role:          controller.NewRoleController(s.role),
		checklistType: controller.NewChecklistTypeController(s.checklistType),
		checklist:     controller.NewChecklistController(s.checklist),
		assignment:    controller.NewAssignmentController(s.assignment),
		course:        controller.NewCourseController(s.course),
		enrollment:    controller.NewEnrollmentController(s.enrollment),
		assessment:    controller.NewAssessmentController(s.assessment),
		review:        controller.NewReviewController(s.review),
		audit:         controller.NewAuditController(s.audit),
		health:        controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("streamcrew-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
