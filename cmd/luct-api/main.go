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
	"go.uber.org/zap"

	_ "github.com/noah-isme/luct-reporting-api/api/swagger"
	"github.com/noah-isme/luct-reporting-api/internal/handler"
	"github.com/noah-isme/luct-reporting-api/internal/repository"
	"github.com/noah-isme/luct-reporting-api/internal/service"
	"github.com/noah-isme/luct-reporting-api/pkg/cache"
	"github.com/noah-isme/luct-reporting-api/pkg/config"
	"github.com/noah-isme/luct-reporting-api/pkg/database"
	"github.com/noah-isme/luct-reporting-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/luct-reporting-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/luct-reporting-api/pkg/middleware/requestid"
)

// @title LUCT Reporting API
// @version 1.0.0
// @description Academic reporting portal for students, lecturers, PRLs and PLs
// @BasePath /api
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer client.Close()
			cacheRepo = repository.NewCacheRepository(client)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	validate := validator.New()

	users := repository.NewUserRepository(db)
	streams := repository.NewStreamRepository(db)
	modules := repository.NewModuleRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	reportsRepo := repository.NewReportRepository(db)
	ratingsRepo := repository.NewRatingRepository(db)
	notificationsRepo := repository.NewNotificationRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	complaintsRepo := repository.NewComplaintRepository(db)
	monitoringRepo := repository.NewMonitoringRepository(db)

	recipients := service.NewRecipientResolver(users)
	notifications := service.NewNotificationService(notificationsRepo, cacheSvc, metrics, logr, cfg.Notifications.ListLimit)

	authSvc := service.NewAuthService(users, db, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "luct-reporting-api",
		BcryptCost:        cfg.Auth.BcryptCost,
	})
	courseSvc := service.NewCourseService(service.CourseServiceParams{
		Streams:   streams,
		Modules:   modules,
		Staff:     users,
		Tx:        db,
		Cache:     cacheSvc,
		Validator: validate,
		Logger:    logr,
	})
	reportSvc := service.NewReportService(service.ReportServiceParams{
		Reports:    reportsRepo,
		Modules:    modules,
		Recipients: recipients,
		Notifier:   notifications,
		Tx:         db,
		Cache:      cacheSvc,
		Metrics:    metrics,
		Validator:  validate,
		Logger:     logr,
	})
	ratingSvc := service.NewRatingService(ratingsRepo, recipients, notifications, db, metrics, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, modules, recipients, notifications, db, validate, logr)
	complaintSvc := service.NewComplaintService(complaintsRepo, modules, recipients, notifications, db, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollments, users, db, validate, logr)
	monitoringSvc := service.NewMonitoringService(monitoringRepo, ratingsRepo, cacheSvc, logr)
	exportSvc := service.NewExportService(reportSvc, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	params := handler.RouterParams{
		Prefix:         cfg.APIPrefix,
		TokenValidator: authSvc,
		Health:         handler.NewHealthHandler(db, metrics),
		Auth:           handler.NewAuthHandler(authSvc, courseSvc),
		Lecturer:       handler.NewLecturerHandler(reportSvc, courseSvc, ratingSvc, enrollmentSvc, attendanceSvc),
		PRL:            handler.NewPRLHandler(reportSvc, courseSvc, ratingSvc),
		PL: handler.NewPLHandler(handler.PLHandlerParams{
			Reports:   reportSvc,
			Catalogue: courseSvc,
			Ratings:   ratingSvc,
			Dashboard: monitoringSvc,
			Exporter:  exportSvc,
		}),
		Reporting:     handler.NewReportingHandler(ratingSvc, reportSvc, monitoringSvc),
		Student:       handler.NewStudentHandler(courseSvc, attendanceSvc, complaintSvc),
		Notifications: handler.NewNotificationHandler(notifications),
		Classes:       handler.NewClassHandler(enrollmentSvc),
	}
	if cfg.Metrics.Enabled {
		params.Metrics = metrics
	}
	handler.RegisterRoutes(r, params)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
