package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"shopauth/internal/config"
	"shopauth/internal/handlers"
	"shopauth/internal/metrics"
	"shopauth/internal/repositories"
	"shopauth/internal/repositories/memory"
	"shopauth/internal/routes"
	"shopauth/internal/services"
	"shopauth/internal/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "shopauth/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()
	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Database.StoreTimeout)
	if err := db.PingContext(pingCtx); err != nil {
		log.Printf("БД недоступна при старте: %v", err)
	}
	cancel()

	// === Denylist ===
	revocations, closeRevocations := newRevocationRepository(cfg)
	defer closeRevocations()

	// === Metrics ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	codeRepo := repositories.NewVerificationCodeRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	// SMS провайдер (Mobizon) из конфига
	mobizonClient := utils.NewClientWithOptions(
		cfg.Mobizon.APIKey,
		cfg.Mobizon.SenderID,
		cfg.Mobizon.DryRun,
	)

	tokenService := services.NewTokenService(services.TokenConfig{
		Secret:              []byte(cfg.JWT.Secret),
		AccessExpires:       cfg.JWT.AccessExpires,
		RefreshExpires:      cfg.JWT.RefreshExpires,
		RefreshEmbedsClaims: *cfg.JWT.RefreshEmbedsClaims,
	}, revocations)
	codeService := services.NewVerificationService(codeRepo, cfg.Codes.TTL, cfg.Codes.PurgeAfter, time.Now)
	userService := services.NewUserService(userRepo, emailService, authService, cfg.Database.StoreTimeout)
	sessionService := services.NewSessionService(
		sessionConfig(cfg),
		userRepo,
		authService,
		tokenService,
		codeService,
		services.NewCodeDelivery(emailService, mobizonClient),
		m,
	)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(sessionService, userService)
	userHandler := handlers.NewUserHandler(userService)
	passwordHandler := handlers.NewPasswordHandler(sessionService)

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		passwordHandler,
		sessionService,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func sessionConfig(cfg *config.Config) services.SessionConfig {
	return services.SessionConfig{
		StoreTimeout:        cfg.Database.StoreTimeout,
		DenylistEnabled:     cfg.JWT.DenylistEnabled != nil && *cfg.JWT.DenylistEnabled,
		DenylistTokenChecks: cfg.JWT.DenylistTokenChecks,
	}
}

// Без redis.addr denylist живёт в памяти процесса (один инстанс, dev).
func newRevocationRepository(cfg *config.Config) (repositories.RevocationRepository, func()) {
	if cfg.Redis.Addr == "" {
		log.Printf("[denylist] redis.addr is empty, using in-memory denylist")
		return memory.NewRevocationStore(time.Now), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.StoreTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[denylist] redis ping failed: %v", err)
	}
	return repositories.NewRedisRevocationRepository(client, cfg.Redis.KeyPrefix), func() {
		if err := client.Close(); err != nil {
			log.Printf("[denylist] redis close: %v", err)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
