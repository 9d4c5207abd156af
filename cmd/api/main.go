package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/handler"
	"github.com/dattajigosavi/centralized-admission-management-system/internal/middleware"
	"github.com/dattajigosavi/centralized-admission-management-system/internal/repository"
	"github.com/dattajigosavi/centralized-admission-management-system/internal/router"
	"github.com/dattajigosavi/centralized-admission-management-system/internal/service"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/cache"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/config"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/database"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/importer"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/logger"
	corsmiddleware "github.com/dattajigosavi/centralized-admission-management-system/pkg/middleware/cors"
	reqidmiddleware "github.com/dattajigosavi/centralized-admission-management-system/pkg/middleware/requestid"
)

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cacheRepo != nil)

	studentRepo := repository.NewStudentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	callRepo := repository.NewCallLogRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	auditSvc := service.NewAuditService(auditRepo, logr)
	authSvc := service.NewAuthService(userRepo, auditSvc, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, auditSvc, nil, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, studentRepo, auditSvc, nil, logr)
	callSvc := service.NewCallService(callRepo, auditSvc, nil, logr)
	userSvc := service.NewUserService(userRepo, auditSvc, nil, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, assignmentRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)

	importOpts := importer.Options{MaxRows: cfg.Import.MaxRows}

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Students:    handler.NewStudentHandler(studentSvc, metrics, importOpts, cfg.Import.MaxUploadBytes),
		Assignments: handler.NewAssignmentHandler(assignmentSvc),
		Calls:       handler.NewCallHandler(callSvc),
		Users:       handler.NewUserHandler(userSvc, metrics, importOpts, cfg.Import.MaxUploadBytes),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc),
		Audit:       handler.NewAuditHandler(auditSvc),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	router.Register(r, cfg.APIPrefix, handlers, authSvc, metrics)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
