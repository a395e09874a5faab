package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"marketplace_api/config"
	"marketplace_api/internal/cache"
	"marketplace_api/internal/clients"
	"marketplace_api/internal/delivery"
	"marketplace_api/internal/domain"
	"marketplace_api/internal/events"
	"marketplace_api/internal/mailer"
	"marketplace_api/internal/middleware"
	"marketplace_api/internal/repository"
	"marketplace_api/internal/token"
	"marketplace_api/internal/usecase"
	"marketplace_api/pkg/db"
)

func main() {
	logger := setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s' in config, using default 'info'. Error: %v", cfg.LogLevel, err)
	} else {
		logger.SetLevel(logLevel)
	}
	logger.Info("Starting Marketplace API...")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Errorf("Error closing database connection: %v", err)
		} else {
			logger.Info("Database connection closed.")
		}
	}()

	tokens := token.NewManager(cfg.JWTSecretKey, cfg.EmailVerificationSecret)
	media := clients.NewMediaHTTPClient(cfg.MediaServiceURL, cfg.MediaAPIKey, 30*time.Second, logger)
	payments := clients.NewPaymentHTTPClient(cfg.PaymentAPIURL, cfg.PaymentSecretKey, 30*time.Second, logger)
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword, cfg.AppName, cfg.AppSupportEmail, logger)

	couponCache := cache.NewCouponCache(cache.NewRedisClient(cfg.RedisAddr), logger)
	if couponCache == nil {
		logger.Warn("REDIS_ADDR not set, coupon cache disabled")
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, events.TopicOrderStatusChanged, 256, logger)
	if publisher == nil {
		logger.Warn("KAFKA_BROKERS not set, order events disabled")
	}
	publisher.Start()
	defer publisher.Close()

	userRepo := repository.NewPostgresUserRepository(database, logger)
	shopRepo := repository.NewPostgresShopRepository(database, logger)
	productRepo := repository.NewPostgresProductRepository(database, logger)
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	couponRepo := repository.NewPostgresCouponRepository(database, logger)
	eventRepo := repository.NewPostgresEventRepository(database, logger)
	conversationRepo := repository.NewPostgresConversationRepository(database, logger)
	messageRepo := repository.NewPostgresMessageRepository(database, logger)
	withdrawRepo := repository.NewPostgresWithdrawRepository(database, logger)

	userUseCase := usecase.NewUserUseCase(userRepo, media, mail, tokens, cfg.ClientURL, logger)
	shopUseCase := usecase.NewShopUseCase(shopRepo, media, mail, tokens, cfg.ClientURL, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, orderRepo, shopRepo, media, logger)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, productRepo, shopRepo, publisher, logger)
	couponUseCase := usecase.NewCouponUseCase(couponRepo, couponCache, logger)
	eventUseCase := usecase.NewEventUseCase(eventRepo, shopRepo, media, logger)
	chatUseCase := usecase.NewChatUseCase(conversationRepo, messageRepo, media, logger)
	withdrawUseCase := usecase.NewWithdrawUseCase(withdrawRepo, shopRepo, mail, logger)

	authenticated := middleware.Authenticated(tokens, userUseCase, logger)
	seller := middleware.Seller(tokens, shopUseCase, logger)
	admin := middleware.Authorized(domain.RoleAdmin)

	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery(logger))
	router.NoRoute(func(c *gin.Context) {
		delivery.NotFound(c, "Route not found")
	})

	api := router.Group("/api/v1")
	delivery.NewUserHandler(userUseCase, logger).RegisterRoutes(api, authenticated, admin)
	delivery.NewShopHandler(shopUseCase, logger).RegisterRoutes(api, authenticated, seller, admin)
	delivery.NewProductHandler(productUseCase, logger).RegisterRoutes(api, authenticated, seller, admin)
	delivery.NewOrderHandler(orderUseCase, logger).RegisterRoutes(api, authenticated, seller, admin)
	delivery.NewCouponHandler(couponUseCase, logger).RegisterRoutes(api, seller)
	delivery.NewEventHandler(eventUseCase, logger).RegisterRoutes(api, authenticated, seller, admin)
	delivery.NewChatHandler(chatUseCase, logger).RegisterRoutes(api, authenticated, seller)
	delivery.NewPaymentHandler(payments, cfg.PaymentPublishableKey, logger).RegisterRoutes(api, authenticated)
	delivery.NewWithdrawHandler(withdrawUseCase, logger).RegisterRoutes(api, authenticated, seller, admin)

	server := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Warn("Shutdown signal received...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}
	logger.Info("Marketplace API shut down gracefully.")
}

func setupLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)
	return logger
}
