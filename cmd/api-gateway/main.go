package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hailemariam-eyayu/dmudms-next-sub000/api/swagger"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/handler"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/middleware"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/repository"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/service"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/config"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/jobs"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/logger"
	corsmiddleware "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/middleware/requestid"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/cache"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/database"
)

// @title DMU Dormitory Management API
// @version 1.0.0
// @description Dormitory administration portal: students, blocks, rooms and automated placement
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("postgres connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	placementRepo := repository.NewPlacementRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	contactRepo := repository.NewEmergencyContactRepository(db)
	exitPaperRepo := repository.NewExitPaperRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// Services.
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
		defer cacheRepo.Close() //nolint:errcheck
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "dmudms-api",
		Audience:           []string{"dmudms-portal"},
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	blockSvc := service.NewBlockService(blockRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, blockRepo, validate, logr)

	assignmentSvc := service.NewAssignmentService(service.AssignmentServiceParams{
		Students:   studentRepo,
		Blocks:     blockRepo,
		Rooms:      roomRepo,
		Placements: placementRepo,
		Audit:      userRepo,
		Metrics:    metricsSvc,
		Logger:     logr,
		Config: service.AssignmentConfig{
			MaxBatchSize:         cfg.Placement.MaxBatchSize,
			ReactivateOnUnassign: cfg.Placement.ReactivateOnUnassign,
		},
	})
	placementSvc := service.NewPlacementService(placementRepo, nil, logr)
	importSvc := service.NewImportService(studentRepo, assignmentSvc, userRepo, validate, logr, service.ImportServiceConfig{
		MaxRows:        cfg.Imports.MaxRows,
		AssignOnImport: cfg.Placement.AssignOnImport,
	})
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, logr, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	})

	notifySvc := service.NewNotificationService(nil, service.NotificationConfig{
		Enabled: cfg.Notify.Enabled,
		Queue: jobs.QueueConfig{
			Workers:    cfg.Notify.Workers,
			BufferSize: cfg.Notify.BufferSize,
			MaxRetries: cfg.Notify.MaxRetries,
			RetryDelay: cfg.Notify.RetryDelay,
			Logger:     logr,
		},
	}, logr)

	exitPaperSvc := service.NewExitPaperService(service.ExitPaperServiceParams{
		Repo:      exitPaperRepo,
		Students:  studentRepo,
		Audit:     userRepo,
		Notifier:  notifySvc,
		Validator: validate,
		Logger:    logr,
		Config:    service.ExitPaperServiceConfig{PDFExport: cfg.ExitPaper.PDFExport},
	})
	maintenanceSvc := service.NewMaintenanceService(maintenanceRepo, roomRepo, notifySvc, validate, logr)
	employeeSvc := service.NewEmployeeService(employeeRepo, blockRepo, validate, logr)
	contactSvc := service.NewEmergencyContactService(contactRepo, studentRepo, validate, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, importSvc, assignmentSvc, dashboardSvc)
	blockHandler := handler.NewBlockHandler(blockSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	placementHandler := handler.NewPlacementHandler(placementSvc, assignmentSvc, dashboardSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeSvc)
	contactHandler := handler.NewEmergencyContactHandler(contactSvc)
	exitPaperHandler := handler.NewExitPaperHandler(exitPaperSvc)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	staffOnly := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleProctor)
	adminOnly := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	users := protected.Group("/users")
	{
		users.GET("", adminOnly, userHandler.List)
		users.GET("/:id", middleware.RBAC(string(models.RoleSuperAdmin), string(models.RoleAdmin), "SELF"), userHandler.Get)
		users.POST("", middleware.RequireRoles(models.RoleSuperAdmin), userHandler.Create)
		users.PUT("/:id", middleware.RequireRoles(models.RoleSuperAdmin), userHandler.Update)
		users.DELETE("/:id", middleware.RequireRoles(models.RoleSuperAdmin), userHandler.Deactivate)
	}

	students := protected.Group("/students")
	{
		students.GET("", staffOnly, studentHandler.List)
		students.GET("/:id", staffOnly, studentHandler.Get)
		students.POST("", adminOnly, studentHandler.Create)
		students.PUT("/:id", adminOnly, studentHandler.Update)
		students.DELETE("/:id", adminOnly, studentHandler.Deactivate)
		students.GET("/export", staffOnly, studentHandler.Export)
		students.POST("/import", adminOnly, studentHandler.Import)
		students.POST("/:id/placement", adminOnly, studentHandler.AssignPlacement)
		students.GET("/:id/contacts", staffOnly, contactHandler.ListByStudent)
		students.POST("/:id/contacts", staffOnly, contactHandler.Create)
	}

	contacts := protected.Group("/contacts")
	{
		contacts.PUT("/:id", staffOnly, contactHandler.Update)
		contacts.DELETE("/:id", staffOnly, contactHandler.Delete)
	}

	blocks := protected.Group("/blocks")
	{
		blocks.GET("", staffOnly, blockHandler.List)
		blocks.GET("/:id", staffOnly, blockHandler.Get)
		blocks.POST("", adminOnly, blockHandler.Create)
		blocks.PUT("/:id", adminOnly, blockHandler.Update)
		blocks.DELETE("/:id", adminOnly, middleware.Audit(userRepo, "BLOCK_DEACTIVATE", "blocks"), blockHandler.Deactivate)
	}

	rooms := protected.Group("/rooms")
	{
		rooms.GET("", staffOnly, roomHandler.List)
		rooms.GET("/:id", staffOnly, roomHandler.Get)
		rooms.POST("", adminOnly, roomHandler.Create)
		rooms.PUT("/:id", adminOnly, roomHandler.Update)
		rooms.PATCH("/:id/status", adminOnly, middleware.Audit(userRepo, "ROOM_STATUS_CHANGE", "rooms"), roomHandler.SetStatus)
	}

	placements := protected.Group("/placements")
	{
		placements.GET("", staffOnly, placementHandler.List)
		placements.POST("", adminOnly, placementHandler.Run)
		placements.DELETE("", middleware.RequireRoles(models.RoleSuperAdmin), placementHandler.UnassignAll)
		placements.GET("/export", staffOnly, placementHandler.Export)
	}

	employees := protected.Group("/employees")
	{
		employees.GET("", staffOnly, employeeHandler.List)
		employees.GET("/:id", staffOnly, employeeHandler.Get)
		employees.POST("", adminOnly, employeeHandler.Create)
		employees.PUT("/:id", adminOnly, employeeHandler.Update)
		employees.DELETE("/:id", adminOnly, employeeHandler.Deactivate)
	}

	if cfg.ExitPaper.Enabled {
		papers := protected.Group("/exit-papers")
		{
			papers.GET("", staffOnly, exitPaperHandler.List)
			papers.GET("/:id", staffOnly, exitPaperHandler.Get)
			papers.POST("", staffOnly, exitPaperHandler.Create)
			papers.POST("/:id/decision", staffOnly, exitPaperHandler.Decide)
			papers.GET("/:id/export", staffOnly, exitPaperHandler.Export)
		}
	}

	maintenance := protected.Group("/maintenance")
	{
		maintenance.GET("", staffOnly, maintenanceHandler.List)
		maintenance.POST("", staffOnly, maintenanceHandler.Create)
		maintenance.PATCH("/:id/status", staffOnly, maintenanceHandler.UpdateStatus)
	}

	if cfg.Dashboard.Enabled {
		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("/occupancy", staffOnly, dashboardHandler.Occupancy)
			dashboard.GET("/stats", adminOnly, dashboardHandler.Stats)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifySvc.Start(ctx)
	defer notifySvc.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
