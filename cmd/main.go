package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shenikar/ignis_incident_service/internal/auth"
	"github.com/shenikar/ignis_incident_service/internal/config"
	v1 "github.com/shenikar/ignis_incident_service/internal/handler/http/v1"
	"github.com/shenikar/ignis_incident_service/internal/metrics"
	"github.com/shenikar/ignis_incident_service/internal/repository"
	"github.com/shenikar/ignis_incident_service/internal/service"
	"github.com/shenikar/ignis_incident_service/internal/storage"
	"github.com/shenikar/ignis_incident_service/internal/webhook"
	"github.com/shenikar/ignis_incident_service/pkg/logger"
	"github.com/shenikar/ignis_incident_service/pkg/postgres"
	redisclient "github.com/shenikar/ignis_incident_service/pkg/redis"
	s3client "github.com/shenikar/ignis_incident_service/pkg/s3"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/ignis_incident_service/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Ignis Incident Service API
// @version 1.0
// @description Incident intake, finalization, signatures and media for fire and rescue operations.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
		migrationURL = strings.Replace(migrationURL, "postgresql://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.ServiceName)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	metrics.RegisterPgxPoolMetrics(dbpool)
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Объектное хранилище медиафайлов
	fileStorage := storage.NewObjectStorage(s3client.NewS3Client(cfg), cfg.S3Bucket, cfg.S3Endpoint, cfg.S3Region, cfg.S3UsePathStyle)

	// Инициализация издателя вебхуков
	webhookPublisher := webhook.NewRedisWebhookPublisher(redisClient)

	// Инициализация и запуск воркера вебхуков
	webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg)
	webhookWorker.Start(ctx)

	// Инициализация репозиториев
	txManager := repository.NewTxManager(dbpool)
	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient, cfg.IncidentCacheTTL)
	signatureRepo := repository.NewSignatureRepository(dbpool)
	mediaRepo := repository.NewMediaRepository(dbpool)

	// Инициализация сервисов
	services := v1.Services{
		Incidents:    service.NewIncidentService(txManager, incidentRepo, log),
		Finalization: service.NewFinalizationService(txManager, incidentRepo, signatureRepo, mediaRepo, webhookPublisher, log, cfg),
		Signatures:   service.NewSignatureService(txManager, incidentRepo, signatureRepo, mediaRepo, webhookPublisher, log, cfg),
		Media:        service.NewMediaService(mediaRepo, incidentRepo, fileStorage, log),
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(services, auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer), log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	router.MaxMultipartMemory = int64(cfg.MaxUploadSizeMB) << 20
	router.Use(metrics.GinMiddleware())
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Метрики Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	// Останавливаем воркер вебхуков
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
