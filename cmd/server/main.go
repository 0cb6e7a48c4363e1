package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/chatterhq/chatter/internal/chat"
	"github.com/chatterhq/chatter/internal/featureflags"
	"github.com/chatterhq/chatter/internal/handler"
	"github.com/chatterhq/chatter/internal/infrastructure/logger"
	"github.com/chatterhq/chatter/internal/infrastructure/redis"
	"github.com/chatterhq/chatter/internal/observability/metrics"
	"github.com/chatterhq/chatter/internal/observability/tracing"
	"github.com/chatterhq/chatter/internal/repository"
	"github.com/chatterhq/chatter/internal/security/audit"
	"github.com/chatterhq/chatter/internal/security/auth"
	"github.com/chatterhq/chatter/internal/security/middleware"
	"github.com/chatterhq/chatter/internal/security/ratelimit"
	"github.com/chatterhq/chatter/internal/service"
	"github.com/chatterhq/chatter/internal/validation"
	"github.com/chatterhq/chatter/internal/worker"
	"github.com/chatterhq/chatter/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel, cfg.Environment)
	log.Info("starting chatter server", slog.String("environment", cfg.Environment))

	// 3. Initialize tracing (no-op without an OTLP endpoint)
	shutdownTracing, err := tracing.Init(context.Background(), log, cfg.TracingEndpoint, "chatter", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Initialize Redis client
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	// 5. Connect to MongoDB and ensure indexes
	mongoCtx, mongoCancel := context.WithTimeout(context.Background(), 15*time.Second)
	mongoClient, db, err := repository.Connect(mongoCtx, cfg.MongoURI, cfg.MongoDatabase, log)
	mongoCancel()
	if err != nil {
		log.Error("failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = repository.EnsureIndexes(idxCtx, db)
	idxCancel()
	if err != nil {
		log.Error("failed to ensure indexes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. Initialize repositories
	userRepo := repository.NewMongoUserRepository(db, log)
	postRepo := repository.NewMongoPostRepository(db, log)
	commentRepo := repository.NewMongoCommentRepository(db, log)
	groupRepo := repository.NewMongoGroupRepository(db, log)
	postBodyRepo := repository.NewMongoPostBodyRepository(db, log)

	// 7. Initialize security components
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "chatter")
	rateLimiter := ratelimit.NewLimiter(
		redisClient,
		cfg.AuthRateLimit,
		time.Duration(cfg.AuthRateWindowSecs)*time.Second,
		log,
	)
	auditLogger := audit.NewLogger(log)

	// 8. Initialize services
	userService := service.NewUserService(userRepo, tokenManager, log)
	postService := service.NewPostService(postRepo, commentRepo, log)
	commentService := service.NewCommentService(commentRepo, postRepo, log)
	groupService := service.NewGroupService(groupRepo, log)
	postBodyService := service.NewPostBodyService(postBodyRepo, log)

	// 9. Initialize handlers
	validate := validation.New()
	hub := chat.NewHub(log)

	userHandler := handler.NewUserHandler(userService, validate, auditLogger, log)
	postHandler := handler.NewPostHandler(postService, postBodyService, validate, log)
	commentHandler := handler.NewCommentHandler(commentService, validate, auditLogger, log)
	groupHandler := handler.NewGroupHandler(groupService, validate, log)
	chatHandler := handler.NewChatHandler(hub, groupService, tokenManager, log, cfg.CORSAllowedOrigins)
	healthHandler := handler.NewHealthHandler(mongoClient, redisClient, log)

	requireAuth := middleware.RequireAuth(tokenManager, log)
	rateLimit := middleware.RateLimit(rateLimiter, log)

	// 10. Setup HTTP routes
	mux := http.NewServeMux()

	mux.Handle("POST /user/signup", rateLimit(http.HandlerFunc(userHandler.Signup)))
	mux.Handle("POST /user/login", rateLimit(http.HandlerFunc(userHandler.Login)))
	mux.Handle("POST /user/update", requireAuth(http.HandlerFunc(userHandler.Update)))

	mux.Handle("POST /posts", requireAuth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("GET /posts/{id}", requireAuth(http.HandlerFunc(postHandler.Get)))
	mux.Handle("PUT /posts/{id}", requireAuth(http.HandlerFunc(postHandler.Update)))
	mux.Handle("DELETE /posts/{id}", requireAuth(http.HandlerFunc(postHandler.Delete)))

	mux.Handle("POST /comments/{postId}", requireAuth(http.HandlerFunc(commentHandler.Create)))
	mux.Handle("GET /comments/{id}", requireAuth(http.HandlerFunc(commentHandler.Get)))
	mux.Handle("PUT /comments/{id}", requireAuth(http.HandlerFunc(commentHandler.Update)))
	mux.Handle("DELETE /comments/{id}", requireAuth(http.HandlerFunc(commentHandler.Delete)))

	mux.Handle("POST /group/create", requireAuth(http.HandlerFunc(groupHandler.Create)))
	mux.Handle("GET /group/{id}", requireAuth(http.HandlerFunc(groupHandler.Get)))
	mux.Handle("GET /groups", requireAuth(http.HandlerFunc(groupHandler.List)))

	if featureflags.EnabledDefault("chat", true) {
		mux.Handle("GET /ws/groups/{id}/chat", chatHandler)
	} else {
		log.Info("chat disabled by feature flag")
	}

	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("/", handler.NotFound(log))

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> otel -> metrics -> CORS -> routes.
	// Metrics sit inside otel so they observe the route pattern the mux
	// stamps on the request.
	rootHandler := middleware.RequestID(log)(
		otelhttp.NewHandler(
			metrics.HTTPMetricsMiddleware(handlerWithCORS),
			"chatter.http",
		),
	)

	// 11. Start lifecycle worker in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if featureflags.EnabledDefault("lifecycle_worker", true) {
		lifecycleWorker := worker.NewLifecycleWorker(
			postRepo,
			log,
			time.Duration(cfg.WorkerIntervalMins)*time.Minute,
			time.Duration(cfg.PostActivationMins)*time.Minute,
		)
		go lifecycleWorker.Start(ctx)
	} else {
		log.Info("lifecycle worker disabled by feature flag")
	}

	// 12. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Int("auth_rate_limit", cfg.AuthRateLimit),
		slog.Int("auth_rate_window_seconds", cfg.AuthRateWindowSecs),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("shutdown signal received")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop lifecycle worker
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
