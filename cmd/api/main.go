package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-attendance/internal/api"
	"github.com/sanosuguru/go-event-attendance/internal/api/handler"
	custommiddleware "github.com/sanosuguru/go-event-attendance/internal/api/middleware"
	"github.com/sanosuguru/go-event-attendance/internal/application"
	"github.com/sanosuguru/go-event-attendance/internal/config"
	"github.com/sanosuguru/go-event-attendance/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-event-attendance/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-attendance/internal/pkg/logger"
	"github.com/sanosuguru/go-event-attendance/internal/pkg/metrics"
	"github.com/sanosuguru/go-event-attendance/internal/worker"
)

func main() {
	cfg := config.Load()

	env := os.Getenv("APP_ENV")
	logger.Set(logger.NewLogger(env))
	defer logger.Sync()

	// メトリクス初期化
	m := metrics.Init()

	// PostgreSQL接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	// Redis接続
	redisClient := redisinfra.NewClient(&cfg.Redis)
	if err := redisinfra.Ping(context.Background(), redisClient); err != nil {
		logger.Fatal("Redis接続エラー", zap.Error(err))
	}
	defer redisClient.Close()

	lockManager := redisinfra.NewLockManager(redisClient)
	countCache := redisinfra.NewRegistrationCountCache(redisClient, cfg.Cache.ConfirmedCountTTL)

	// リポジトリ
	eventRepo := postgres.NewEventRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	txManager := postgres.NewTxManager(db)

	// サービス
	eventService := application.NewEventService(eventRepo)
	sessionService := application.NewSessionService(sessionRepo, eventRepo)
	registrationService := application.NewRegistrationService(txManager, registrationRepo, eventRepo, lockManager, countCache)
	attendanceService := application.NewAttendanceService(txManager, attendanceRepo, sessionRepo)
	eligibilityService := application.NewEligibilityService(eventRepo, sessionRepo, attendanceRepo, registrationRepo)

	// ハンドラー
	healthHandler := handler.NewHealthHandler()
	eventHandler := handler.NewEventHandler(eventService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	eligibilityHandler := handler.NewEligibilityHandler(eligibilityService)

	// Echo設定
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	custommiddleware.SetupMiddleware(e)
	e.Use(custommiddleware.PrometheusMiddleware(m))

	// メトリクスエンドポイント（Basic認証は環境変数で有効化）
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommiddleware.MetricsBasicAuth())

	// ルーティング
	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)

	v1.POST("/events", eventHandler.Create)
	v1.GET("/events", eventHandler.List)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.PUT("/events/:id", eventHandler.Update)
	v1.POST("/events/:id/publish", eventHandler.Publish)
	v1.POST("/events/:id/close-registration", eventHandler.CloseRegistration)
	v1.POST("/events/:id/cancel", eventHandler.Cancel)
	v1.POST("/events/:id/finish", eventHandler.Finish)

	v1.GET("/events/:id/sessions", sessionHandler.GetByEvent)
	v1.POST("/sessions", sessionHandler.Create)
	v1.GET("/sessions/:id", sessionHandler.GetByID)
	v1.PUT("/sessions/:id", sessionHandler.Update)

	v1.POST("/registrations", registrationHandler.Register)
	v1.GET("/registrations", registrationHandler.GetUserRegistrations)
	v1.GET("/registrations/:id", registrationHandler.GetByID)
	v1.POST("/registrations/:id/cancel", registrationHandler.Cancel)
	v1.GET("/events/:id/registrations", registrationHandler.GetEventRegistrations)
	v1.GET("/events/:id/registrations/count", registrationHandler.GetConfirmedCount)
	v1.POST("/admin/registrations/:id/cancel", registrationHandler.CancelByAdmin)

	v1.PUT("/sessions/:id/attendances", attendanceHandler.Reconcile)
	v1.GET("/sessions/:id/attendances", attendanceHandler.GetBySession)

	v1.GET("/events/:id/eligibility", eligibilityHandler.GetSummary)
	v1.GET("/events/:id/eligibility/:user_id", eligibilityHandler.GetForUser)

	// イベント状態更新ワーカー
	workerCtx, workerCancel := context.WithCancel(context.Background())
	statusUpdater := worker.NewEventStatusUpdater(eventService, cfg.Worker.StatusUpdateInterval)
	go statusUpdater.Start(workerCtx)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()
	logger.Info("サーバー起動", zap.String("port", cfg.Server.Port))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	// ワーカー停止
	workerCancel()
	statusUpdater.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
