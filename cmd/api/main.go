package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/jmtenga/attendance-api/api/swagger"
	"github.com/jmtenga/attendance-api/internal/handler"
	"github.com/jmtenga/attendance-api/internal/middleware"
	"github.com/jmtenga/attendance-api/internal/models"
	"github.com/jmtenga/attendance-api/internal/repository"
	"github.com/jmtenga/attendance-api/internal/service"
	"github.com/jmtenga/attendance-api/pkg/cache"
	"github.com/jmtenga/attendance-api/pkg/config"
	"github.com/jmtenga/attendance-api/pkg/database"
	"github.com/jmtenga/attendance-api/pkg/logger"
	corsmiddleware "github.com/jmtenga/attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/jmtenga/attendance-api/pkg/middleware/requestid"
	"github.com/jmtenga/attendance-api/pkg/storage"
)

// @title Student Attendance API
// @version 1.0.0
// @description Student registration, approval and daily attendance tracking
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	// Redis is optional; the roster falls back to direct queries without it.
	var cacheSvc *service.CacheService
	if cfg.Roster.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, roster caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Roster.CacheTTL, logr, true)
		}
	}

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare exports directory", "error", err)
	}
	if deleted, err := exportStore.CleanupOlderThan(cfg.Exports.RetainFor); err != nil {
		logr.Warn("export cleanup failed", zap.Error(err))
	} else if len(deleted) > 0 {
		logr.Info("expired exports removed", zap.Int("count", len(deleted)))
	}

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	authSvc := service.NewAuthService(studentRepo, validate, logr, service.AuthConfig{
		TokenSecret:   cfg.JWT.Secret,
		TokenExpiry:   cfg.JWT.Expiration,
		Issuer:        cfg.JWT.Issuer,
		AdminUsername: cfg.Admin.Username,
		AdminPassword: cfg.Admin.Password,
	})
	studentSvc := service.NewStudentService(studentRepo, cacheSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, cacheSvc, cfg.Roster.CacheTTL, logr)
	recordSvc := service.NewRecordService(attendanceRepo, logr)
	exportSvc := service.NewExportService(recordSvc, exportStore, logr, nil, nil, nil)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	recordHandler := handler.NewRecordHandler(recordSvc, exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/register", studentHandler.Register)

		authed := api.Group("", middleware.JWT(authSvc))

		me := authed.Group("/me", middleware.RequireRoles(models.RoleStudent))
		{
			me.GET("", studentHandler.Me)
			me.GET("/attendance", attendanceHandler.History)
			me.POST("/attendance", attendanceHandler.Mark)
		}

		admin := authed.Group("", middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/students", studentHandler.List)
			admin.GET("/students/:id", studentHandler.Get)
			admin.PUT("/students/:id", studentHandler.Update)
			admin.POST("/students/:id/confirm", studentHandler.Confirm)
			admin.DELETE("/students/:id", studentHandler.Delete)

			admin.GET("/attendance/roster", attendanceHandler.Roster)

			admin.GET("/records", recordHandler.Query)
			admin.GET("/records/export", recordHandler.Export)
			admin.GET("/records/export/all", recordHandler.ExportAll)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
