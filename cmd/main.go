package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/saipabi/server/config"
	"github.com/saipabi/server/internal/core"
	"github.com/saipabi/server/internal/core/repository"
	"github.com/saipabi/server/internal/logging"
	logicv1 "github.com/saipabi/server/internal/logic/v1"
	webv1 "github.com/saipabi/server/internal/web/v1"
	"github.com/saipabi/server/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	// Initialize Zerolog with LOG_LEVEL from config
	logging.Setup(cfg.Logging.Level)

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("env", cfg.Service.Env).
		Str("port", cfg.Service.Port).
		Msg("Service starting")

	// Initialize OpenTelemetry tracing
	var tp interface{ Shutdown(context.Context) error }
	var err error
	if cfg.Tracing.Enabled {
		tp, err = middleware.InitTracing(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize tracing")
		} else {
			log.Info().
				Str("endpoint", cfg.Tracing.Endpoint).
				Float64("sample_rate", cfg.Tracing.SampleRate).
				Msg("Tracing initialized")
		}
	} else {
		log.Info().Msg("Tracing disabled (TRACING_ENABLED=false)")
	}

	// Initialize Pyroscope profiling
	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize profiling")
		} else {
			log.Info().
				Str("endpoint", cfg.Profiling.Endpoint).
				Msg("Profiling initialized")
			defer middleware.StopProfiling()
		}
	} else {
		log.Info().Msg("Profiling disabled (PROFILING_ENABLED=false)")
	}

	// Initialize database connection pool (pgx)
	pool, err := core.Connect(context.Background(), cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("Database connection pool established")

	// Initialize Redis session cache. A dead cache is tolerated: session
	// records are a tracking layer, the signed token gates access.
	redisClient, err := core.ConnectRedis(context.Background(), cfg.RedisAddr(), cfg.Redis.Password)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr()).Msg("Redis unreachable, session records degraded")
	} else {
		log.Info().Str("addr", cfg.RedisAddr()).Msg("Redis session cache connected")
	}
	defer redisClient.Close()

	// Token issuer: the signing secret was validated at startup, an empty
	// secret never reaches this point.
	tokens, err := logicv1.NewTokenIssuer(cfg.Auth.JWTSecret, logicv1.DefaultTokenLifetime)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token issuer")
	}

	// Wire layers: repository -> logic -> web
	users := repository.NewUserRepository(pool)
	sessions := repository.NewSessionCache(redisClient, cfg.GetSessionExpiryDuration())
	auth := logicv1.NewAuthService(users, sessions, tokens)
	handler := webv1.NewHandler(auth)

	r := gin.Default()

	var isShuttingDown atomic.Bool

	// CORS: configured client origin plus local dev origins, with credentials
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	if cfg.CORS.ClientOrigin != "" {
		allowedOrigins = append([]string{cfg.CORS.ClientOrigin}, allowedOrigins...)
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", webv1.SessionTokenHeader},
		AllowCredentials: true,
	}))

	// Tracing middleware
	r.Use(middleware.TracingMiddleware(cfg.Service.Name))

	// Logging middleware
	r.Use(middleware.LoggingMiddleware())

	// Prometheus middleware
	r.Use(middleware.PrometheusMiddleware())

	// Readiness check
	// Returns 503 once shutdown has started, to drain traffic before HTTP shutdown.
	r.GET("/ready", func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.POST("/auth/signup", handler.Signup)
		api.POST("/auth/login", handler.Login)
		api.POST("/logout", handler.Logout)

		profile := api.Group("/profile", middleware.RequireAuth(tokens))
		profile.GET("", handler.GetProfile)
		profile.PUT("", handler.UpdateProfile)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Service.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Service.Port).Msg("Starting auth service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	// Fail readiness first and wait for propagation before HTTP shutdown.
	isShuttingDown.Store(true)
	drainDelay := cfg.GetReadinessDrainDelayDuration()
	if drainDelay > 0 {
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay started")
		time.Sleep(drainDelay)
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay completed")
	}

	// Shutdown context with configurable timeout
	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Dur("timeout", shutdownTimeout).Msg("Shutting down server...")

	// 1. Shutdown HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		log.Info().Msg("HTTP server shutdown complete")
	}

	// 2. Close database and cache connections
	pool.Close()
	log.Info().Msg("Database pool closed")
	if err := redisClient.Close(); err != nil {
		log.Error().Err(err).Msg("Redis close error")
	}

	// 3. Shutdown tracer
	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Tracer shutdown error")
		} else {
			log.Info().Msg("Tracer shutdown complete")
		}
	}

	log.Info().Msg("Graceful shutdown complete")
}
