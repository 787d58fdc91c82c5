package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/consultafit/nutriplan/backend/config"
	"github.com/consultafit/nutriplan/backend/internal/api"
	"github.com/consultafit/nutriplan/backend/internal/database"
	"github.com/consultafit/nutriplan/backend/internal/middleware"
	"github.com/consultafit/nutriplan/backend/internal/router"
	"github.com/consultafit/nutriplan/backend/internal/service"
)

// Server wires configuration, storage and services into a running HTTP
// server.
type Server struct {
	cfg    *config.Config
	http   *http.Server
	db     *gorm.DB
	health *database.DB
	redis  *redis.Client
	logger *zap.Logger
}

// New builds the full dependency graph. Redis and S3 are optional: without
// them the totals cache, rate limiting and S3 imports degrade gracefully.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	db, err := database.NewGorm(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	healthConn, err := database.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open health connection: %w", err)
	}

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Warn("redis unavailable, caching and rate limiting disabled", zap.Error(err))
		redisClient = nil
	}

	totalsCache := service.NewTotalsCache(redisClient, 0)
	foodService := service.NewFoodService(db)
	mealService := service.NewMealService(db, foodService, totalsCache)
	planService := service.NewPlanService(db, totalsCache)
	evolutionService := service.NewEvolutionService(db, planService)
	authService := service.NewAuthService(db, cfg.JWTSecret)

	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		logger.Warn("s3 unavailable, bulk imports limited to direct upload", zap.Error(err))
		s3cfg = &config.S3Config{}
	}
	importService := service.NewFoodImportService(db, s3cfg.Client, s3cfg.BucketName, logger)

	var remoteClient *service.RemoteFoodClient
	if cfg.FoodAPIBaseURL != "" {
		remoteClient = service.NewRemoteFoodClient(cfg.FoodAPIBaseURL, cfg.FoodAPIKey, logger)
	}

	handlers := router.Handlers{
		Auth:      api.NewAuthHandler(authService),
		Food:      api.NewFoodHandler(foodService, importService, remoteClient, logger),
		Plan:      api.NewPlanHandler(planService),
		Meal:      api.NewMealHandler(mealService),
		Energy:    api.NewEnergyHandler(),
		Evolution: api.NewEvolutionHandler(evolutionService),
	}
	limiters := router.Limiters{
		PlanMutation: middleware.NewPlanMutationRateLimiter(redisClient),
		Import:       middleware.NewImportRateLimiter(redisClient),
	}

	engine := router.Setup(handlers, authService, limiters, healthConn, cfg.AllowedOrigins, logger)

	return &Server{
		cfg:    cfg,
		db:     db,
		health: healthConn,
		redis:  redisClient,
		logger: logger,
		http: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	if s.health != nil {
		if err := s.health.Close(); err != nil {
			s.logger.Warn("failed to close health connection", zap.Error(err))
		}
	}
	return nil
}
