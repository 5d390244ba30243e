package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/internal/cache"
	"github.com/mentorlink/mentorlink-api/internal/database/postgres"
	"github.com/mentorlink/mentorlink-api/internal/handlers"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	"github.com/mentorlink/mentorlink-api/internal/services"
	"github.com/mentorlink/mentorlink-api/pkg/db"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	"github.com/mentorlink/mentorlink-api/pkg/profiling"
	"github.com/mentorlink/mentorlink-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting MentorLink API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.OTLPEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Continuous profiling (optional)
	if cfg.Profiling.Enabled {
		stopProfiler, profErr := profiling.InitProfiler(
			cfg.Profiling,
			cfg.Observability.ServiceName,
			cfg.Observability.ServiceNamespace,
			cfg.Observability.ServiceVersion,
			cfg.Observability.ServiceInstanceID,
			cfg.Server.AppEnv,
		)
		if profErr != nil {
			logger.Fatal("Failed to initialize profiler", zap.Error(profErr))
		}
		defer stopProfiler()
	}

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL connection pool
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations are run separately via the migrate command

	dbClient := postgres.NewClient(pool)

	// Initialize profile cache synchronously before accepting requests so the
	// container is only marked healthy with a populated directory snapshot.
	profileCache := cache.NewProfileCache(dbClient, cfg.Cache.ProfileTTLSeconds)
	if cfg.Cache.DisableProfilesCache {
		logger.Warn("Profile cache is DISABLED - reading from database on every request")
	} else {
		if err := profileCache.Initialize(); err != nil {
			logger.Fatal("Failed to initialize profile cache", zap.Error(err))
		}
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(dbClient, profileCache, !cfg.Cache.DisableProfilesCache)
	requestRepo := repository.NewMentorshipRequestRepository(dbClient)

	// Initialize services
	profileService := services.NewProfileService(profileRepo)
	matchmakingService := services.NewMatchmakingService(profileRepo, cfg)
	requestService := services.NewMentorshipRequestService(requestRepo, profileRepo)

	// Initialize handlers
	profileHandler := handlers.NewProfileHandler(profileService)
	matchmakingHandler := handlers.NewMatchmakingHandler(matchmakingService)
	requestHandler := handlers.NewMentorshipRequestHandler(requestService)

	// Health check: if the cache is disabled, skip the readiness gate
	cacheReadyFunc := profileCache.IsReady
	if cfg.Cache.DisableProfilesCache {
		cacheReadyFunc = func() bool { return true }
	}
	healthHandler := handlers.NewHealthHandler(dbClient.Ping, cacheReadyFunc)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.CallerIDHeader, "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters with different limits for different endpoint types
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	writeRateLimiter := middleware.NewRateLimiter(10, 20)     // 10 req/sec, burst of 20 (request spam)

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Public directory and matchmaking routes
	v1.GET("/profiles", generalRateLimiter.Middleware(), profileHandler.ListProfiles)
	v1.GET("/profiles/:id", generalRateLimiter.Middleware(), profileHandler.GetProfile)
	v1.GET("/profiles/:id/matches", generalRateLimiter.Middleware(), matchmakingHandler.GetMatches)

	// Mentorship request lifecycle routes (caller identity required)
	requests := v1.Group("/mentorship/requests")
	requests.Use(middleware.CallerIdentityMiddleware(profileRepo))
	requests.GET("/status", generalRateLimiter.Middleware(), requestHandler.GetStatus)
	requests.GET("/incoming", generalRateLimiter.Middleware(), requestHandler.ListIncoming)
	requests.POST("", writeRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), requestHandler.CreateRequest)
	requests.POST("/:id/accept", writeRateLimiter.Middleware(), requestHandler.AcceptRequest)
	requests.POST("/:id/decline", writeRateLimiter.Middleware(), requestHandler.DeclineRequest)

	// Bind to all interfaces for container networking; isolation is enforced
	// at the orchestrator level.
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
