package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/jobmarket-backend/internal/config"
	"github.com/ignatzorin/jobmarket-backend/internal/db"
	httpHandlers "github.com/ignatzorin/jobmarket-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/jobmarket-backend/internal/http/router"
	"github.com/ignatzorin/jobmarket-backend/internal/infrastructure/payments"
	"github.com/ignatzorin/jobmarket-backend/internal/logger"
	"github.com/ignatzorin/jobmarket-backend/internal/repository"
	"github.com/ignatzorin/jobmarket-backend/internal/service"
	"github.com/ignatzorin/jobmarket-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	gateway, err := payments.NewMercadoPagoGateway(cfg.GatewayAccessToken, cfg.GatewayTimeout)
	if err != nil {
		log.Fatalf("main: не удалось подготовить платёжный шлюз: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)
	quoteRepo := repository.NewQuoteRepository(dbConn)
	agreementRepo := repository.NewAgreementRepository(dbConn)
	subscriptionRepo := repository.NewSubscriptionRepository(dbConn)
	paymentRepo := repository.NewPaymentRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	go hub.Run()

	// Сервисы.
	notifier := service.NewNotificationService(notificationRepo, hub)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo)
	jobService := service.NewJobService(jobRepo, subscriptionRepo, userRepo, notifier)
	quoteService := service.NewQuoteService(quoteRepo, jobRepo, notifier)
	agreementService := service.NewAgreementService(agreementRepo, quoteRepo, jobRepo, notifier)
	paymentService := service.NewPaymentService(paymentRepo, jobRepo, agreementRepo, gateway, notifier)

	// HTTP хэндлеры.
	jobHandler := httpHandlers.NewJobHandler(jobService)
	quoteHandler := httpHandlers.NewQuoteHandler(quoteService)
	agreementHandler := httpHandlers.NewAgreementHandler(agreementService)
	subscriptionHandler := httpHandlers.NewSubscriptionHandler(subscriptionService, paymentService)
	paymentHandler := httpHandlers.NewPaymentHandler(paymentService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationRepo)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, jobHandler, quoteHandler, agreementHandler, subscriptionHandler, paymentHandler, notificationHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
