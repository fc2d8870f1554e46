package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"workload-tlx/internal/config"
	"workload-tlx/internal/db"
	apihttp "workload-tlx/internal/http"
	"workload-tlx/internal/repository"
	"workload-tlx/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	assessmentRepo := repository.NewPgAssessmentRepository(pool)
	hasher := service.NewParticipantHasher(cfg.ParticipantHashSalt)

	var (
		limiter     service.SubmitRateLimiter
		statsCache  service.StatsCache
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisSubmitRateLimiter(redisClient, time.Duration(cfg.SubmitRateWindowMin)*time.Minute, cfg.SubmitRateMax)
			statsCache = service.NewRedisStatsCache(redisClient)
		}
		cancel()
	}
	if statsCache == nil {
		statsCache = service.NewMemoryStatsCache()
	}

	adminTokens := service.NewAdminTokenService(cfg.AdminJWTSecret, time.Duration(cfg.AdminTokenTTLHours)*time.Hour)
	if cfg.AdminJWTSecret == "" {
		logger.Warn("admin jwt secret not configured; deletion endpoints will reject all tokens")
	}

	assessmentSvc := service.NewAssessmentService(logger, assessmentRepo, hasher, limiter, statsCache)
	statsSvc := service.NewStatsService(logger, assessmentRepo, statsCache, time.Duration(cfg.StatsCacheTTLSec)*time.Second)

	assessmentHandler := apihttp.NewAssessmentHandler(logger, assessmentSvc)
	statsHandler := apihttp.NewStatsHandler(logger, statsSvc)
	router := apihttp.NewRouter(logger, assessmentHandler, statsHandler, adminTokens, func(ctx context.Context) error {
		return db.Ping(ctx, pool)
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
