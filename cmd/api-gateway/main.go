package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/academy-adp-api/api/swagger"
	"github.com/noah-isme/academy-adp-api/internal/handler"
	"github.com/noah-isme/academy-adp-api/internal/middleware"
	"github.com/noah-isme/academy-adp-api/internal/models"
	"github.com/noah-isme/academy-adp-api/internal/repository"
	"github.com/noah-isme/academy-adp-api/internal/service"
	"github.com/noah-isme/academy-adp-api/pkg/config"
	"github.com/noah-isme/academy-adp-api/pkg/database"
	"github.com/noah-isme/academy-adp-api/pkg/jobs"
	"github.com/noah-isme/academy-adp-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academy-adp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academy-adp-api/pkg/middleware/requestid"
	"github.com/noah-isme/academy-adp-api/pkg/storage"

	rediscache "github.com/noah-isme/academy-adp-api/pkg/cache"
)

// @title Academy ADP API
// @version 1.0.0
// @description Administration API for the sports academy platform
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Dashboard.Enabled {
		redisClient, err := rediscache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.Enabled)

	userRepo := repository.NewUserRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	sportRepo := repository.NewSportRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	coachRepo := repository.NewCoachRepository(db)
	traineeRepo := repository.NewTraineeRepository(db)
	groupRepo := repository.NewTraineeGroupRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	occurrenceRepo := repository.NewOccurrenceRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	minSearch := cfg.Search.MinTermLength

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	branchSvc := service.NewBranchService(branchRepo, validate, logr, minSearch)
	sportSvc := service.NewSportService(sportRepo, validate, logr, minSearch)
	employeeSvc := service.NewEmployeeService(employeeRepo, branchRepo, validate, logr, minSearch)
	coachSvc := service.NewCoachService(coachRepo, employeeRepo, sportRepo, validate, logr, minSearch)
	traineeSvc := service.NewTraineeService(traineeRepo, branchRepo, sportRepo, validate, logr, minSearch)
	groupSvc := service.NewTraineeGroupService(groupRepo, branchRepo, coachRepo, occurrenceRepo, validate, logr, minSearch)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, traineeRepo, groupRepo, subscriptionRepo, validate, logr)
	occurrenceSvc := service.NewOccurrenceService(occurrenceRepo, groupRepo, metricsSvc, validate, logr, service.OccurrenceServiceConfig{
		DefaultDurationDays: cfg.Generation.DefaultDurationDays,
		MaxDurationDays:     cfg.Generation.MaxDurationDays,
	})
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, logr, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(corsmiddleware.Config{AllowedOrigins: cfg.CORS.AllowedOrigins}))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	branchHandler := handler.NewBranchHandler(branchSvc)
	sportHandler := handler.NewSportHandler(sportSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeSvc)
	coachHandler := handler.NewCoachHandler(coachSvc)
	traineeHandler := handler.NewTraineeHandler(traineeSvc)
	groupHandler := handler.NewTraineeGroupHandler(groupSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	occurrenceHandler := handler.NewOccurrenceHandler(occurrenceSvc)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	admins := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleStaff)

	users := protected.Group("/users")
	{
		users.GET("", admins, userHandler.List)
		users.GET("/roles", admins, userHandler.Roles)
		users.GET("/:id", admins, userHandler.Get)
		users.POST("", middleware.RequireRoles(models.RoleSuperAdmin), userHandler.Create)
		users.PUT("/:id", middleware.RequireRoles(models.RoleSuperAdmin), userHandler.Update)
		users.POST("/:id/toggle-active", middleware.RequireRoles(models.RoleSuperAdmin), userHandler.ToggleActive)
		users.DELETE("/:id", middleware.RequireRoles(models.RoleSuperAdmin), userHandler.Delete)
	}

	branches := protected.Group("/branches")
	{
		branches.GET("", staff, branchHandler.List)
		branches.GET("/:id", staff, branchHandler.Get)
		branches.POST("", admins, branchHandler.Create)
		branches.PUT("/:id", admins, branchHandler.Update)
		branches.DELETE("/:id", admins, branchHandler.Delete)
	}

	sports := protected.Group("/sports")
	{
		sports.GET("", staff, sportHandler.List)
		sports.GET("/:id", staff, sportHandler.Get)
		sports.POST("", admins, sportHandler.Create)
		sports.PUT("/:id", admins, sportHandler.Update)
		sports.POST("/:id/skill-levels", admins, sportHandler.AddSkillLevel)
		sports.DELETE("/:id", admins, sportHandler.Delete)
	}

	employees := protected.Group("/employees")
	{
		employees.GET("", staff, employeeHandler.List)
		employees.GET("/:id", staff, employeeHandler.Get)
		employees.POST("", admins, employeeHandler.Create)
		employees.PUT("/:id", admins, employeeHandler.Update)
		employees.DELETE("/:id", admins, employeeHandler.Delete)
	}

	coaches := protected.Group("/coaches")
	{
		coaches.GET("", staff, coachHandler.List)
		coaches.GET("/:id", staff, coachHandler.Get)
		coaches.POST("", admins, coachHandler.Create)
		coaches.PUT("/:id", admins, coachHandler.Update)
		coaches.DELETE("/:id", admins, coachHandler.Delete)
	}

	trainees := protected.Group("/trainees")
	{
		trainees.GET("", staff, traineeHandler.List)
		trainees.GET("/:id", staff, traineeHandler.Get)
		trainees.POST("", staff, traineeHandler.Create)
		trainees.PUT("/:id", staff, traineeHandler.Update)
		trainees.DELETE("/:id", admins, traineeHandler.Delete)
	}

	groups := protected.Group("/trainee-groups")
	{
		groups.GET("", staff, groupHandler.List)
		groups.GET("/options", staff, groupHandler.Options)
		groups.GET("/:id", staff, groupHandler.Get)
		groups.POST("", admins, groupHandler.Create)
		groups.PUT("/:id", admins, groupHandler.Update)
		groups.DELETE("/:id", admins, groupHandler.Delete)
	}

	enrollments := protected.Group("/enrollments")
	{
		enrollments.GET("", staff, enrollmentHandler.List)
		enrollments.GET("/:id", staff, enrollmentHandler.Get)
		enrollments.POST("", staff, enrollmentHandler.Create)
		enrollments.PUT("/:id", staff, enrollmentHandler.Update)
		enrollments.DELETE("/:id", admins, enrollmentHandler.Delete)
	}

	sessions := protected.Group("/sessions")
	{
		sessions.GET("", staff, occurrenceHandler.List)
		sessions.GET("/:id", staff, occurrenceHandler.Get)
		sessions.POST("/generate", admins, occurrenceHandler.Generate)
		sessions.POST("/:id/complete", staff, occurrenceHandler.Complete)
		sessions.POST("/:id/cancel", staff, occurrenceHandler.Cancel)
	}

	subscriptions := protected.Group("/subscriptions")
	{
		subscriptions.GET("", staff, subscriptionHandler.List)
		subscriptions.GET("/:id", staff, subscriptionHandler.Get)
		subscriptions.POST("", admins, subscriptionHandler.Create)
		subscriptions.PUT("/:id", admins, subscriptionHandler.Update)
		subscriptions.DELETE("/:id", admins, subscriptionHandler.Delete)
	}

	if cfg.Dashboard.Enabled {
		protected.GET("/dashboard", staff, dashboardHandler.Admin)
	}
	protected.GET("/metrics/summary", admins, metricsHandler.Snapshot)

	shutdownCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var reportQueue *jobs.Queue
	if cfg.Reports.Enabled {
		store, err := storage.NewReportStore(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewDownloadSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc := service.NewExportService(occurrenceRepo, store, signer, cfg.APIPrefix, logr)
		worker := service.NewReportWorker(reportRepo, exportSvc, cfg.Reports.WorkerRetries, logr)
		reportQueue = jobs.NewQueue("attendance-reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportSvc := service.NewReportService(reportRepo, reportQueue, exportSvc, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: time.Hour,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})
		reportHandler := handler.NewReportHandler(reportSvc)

		reports := protected.Group("/reports")
		{
			reports.POST("/attendance", staff, reportHandler.Generate)
			reports.GET("/attendance/:id", staff, reportHandler.Status)
		}
		api.GET("/reports/download/:token", reportHandler.Download)

		reportQueue.Start(shutdownCtx)
		reportSvc.RecoverPendingJobs(shutdownCtx)
		reportSvc.StartCleanup(shutdownCtx)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Sugar().Infow("shutting down")

	stopWorkers()
	if reportQueue != nil {
		reportQueue.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
