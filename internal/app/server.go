// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"humanizer-service/internal/config"
	"humanizer-service/internal/db"
	sub "humanizer-service/internal/domain/subscription"
	adminHandler "humanizer-service/internal/handlers/admin"
	authHandler "humanizer-service/internal/handlers/auth"
	subscriptionHandler "humanizer-service/internal/handlers/subscription"
	textHandler "humanizer-service/internal/handlers/text"
	userHandler "humanizer-service/internal/handlers/user"
	"humanizer-service/internal/middleware"
	"humanizer-service/internal/pkg/jwt"
	"humanizer-service/internal/pkg/ratelimit"
	"humanizer-service/internal/repository/postgres"
	"humanizer-service/internal/scheduler"
	adminUsecase "humanizer-service/internal/service/admin"
	authUsecase "humanizer-service/internal/service/auth"
	"humanizer-service/internal/service/credits"
	"humanizer-service/internal/service/humanizer"
	"humanizer-service/internal/service/stats"
	subscriptionUsecase "humanizer-service/internal/service/subscription"
	textUsecase "humanizer-service/internal/service/text"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg     config.AppConfig
	engine  *gin.Engine
	logger  *zap.Logger
	renewal *scheduler.RenewalJob
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.Default()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- JWT Manager -----
	jwtManager, err := jwt.NewManager(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to build JWT manager: %w", err)
	}

	// ----- Rate Limiter -----
	rateLimiter := ratelimit.NewLimiter(redisClient)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	userRepo := postgres.NewUserRepository(pool)
	subRepo := postgres.NewSubscriptionRepository(pool)
	textRepo := postgres.NewTextRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)

	// ----- Plan catalog -----
	catalog := sub.DefaultCatalog()

	// ----- Humanization strategies -----
	fallbackStrategy := humanizer.NewFallbackStrategy()
	var primary humanizer.Strategy = fallbackStrategy
	if s.cfg.UseRemote && s.cfg.HumanizerAPIURL != "" {
		primary = humanizer.NewRemoteStrategy(s.cfg.HumanizerAPIURL, s.cfg.HumanizerAPIKey, s.cfg.HumanizerTimeout)
	}

	// ----- Services (Usecases) -----
	ledger := credits.NewLedger(subRepo, logger)
	usage := stats.NewAggregator(statsRepo, logger)
	authService := authUsecase.NewAuthService(dbWrapper, userRepo, subRepo, catalog, jwtManager, rateLimiter, logger)
	subService := subscriptionUsecase.NewSubscriptionService(dbWrapper, subRepo, catalog, logger)
	textService := textUsecase.NewService(primary, fallbackStrategy, ledger, textRepo, usage, logger)
	adminService := adminUsecase.NewAdminService(userRepo, subRepo, textRepo, usage, logger)

	// ----- Scheduler -----
	s.renewal = scheduler.NewRenewalJob(dbWrapper, subRepo, catalog, logger)
	if err := s.renewal.Start(); err != nil {
		return fmt.Errorf("failed to start renewal job: %w", err)
	}

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	userHandlerInst := userHandler.NewUserHandler(authService, subService, usage, logger)
	textHandlerInst := textHandler.NewTextHandler(textService, logger)
	subscriptionHandlerInst := subscriptionHandler.NewSubscriptionHandler(subService, logger)
	adminHandlerInst := adminHandler.NewAdminHandler(adminService, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:         authHandlerInst,
		UserHandler:         userHandlerInst,
		TextHandler:         textHandlerInst,
		SubscriptionHandler: subscriptionHandlerInst,
		AdminHandler:        adminHandlerInst,
		AuthMiddleware:      authMiddleware,
		RateLimiter:         rateLimiter,
		HumanizeRateLimit:   s.cfg.HumanizeMaxPerMinute,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// Stop halts background jobs before the process exits.
func (s *Server) Stop() {
	if s.renewal != nil {
		s.renewal.Stop()
	}
}
