package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/jobprep-2025.net/internal/adapter/crypto"
	"gitlab.com/jobprep-2025.net/internal/adapter/judge0"
	"gitlab.com/jobprep-2025.net/internal/adapter/metrics"
	"gitlab.com/jobprep-2025.net/internal/adapter/openai"
	"gitlab.com/jobprep-2025.net/internal/adapter/postgres/questionrepository"
	"gitlab.com/jobprep-2025.net/internal/adapter/postgres/schema"
	"gitlab.com/jobprep-2025.net/internal/adapter/postgres/submissionrepository"
	"gitlab.com/jobprep-2025.net/internal/adapter/rabbitmq/verdictpublisher"
	"gitlab.com/jobprep-2025.net/internal/adapter/redis/ratelimit"
	"gitlab.com/jobprep-2025.net/internal/config"
	"gitlab.com/jobprep-2025.net/internal/core/harness"
	"gitlab.com/jobprep-2025.net/internal/core/ports/secondary"
	"gitlab.com/jobprep-2025.net/internal/core/services/grading"
	"gitlab.com/jobprep-2025.net/internal/core/services/templates"
	logger2 "gitlab.com/jobprep-2025.net/internal/global/logger"
	"gitlab.com/jobprep-2025.net/internal/handlers"
	http2 "gitlab.com/jobprep-2025.net/internal/http"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()
	logger := logger2.Init(sysCfg.LoggingConfig)
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting grading service")

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		logger.Error("Failed to set up database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := schema.EnsureTablesExist(context.Background(), db, logger); err != nil {
		logger.Error("Failed to apply database schema", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	registry, err := harness.NewRegistry()
	if err != nil {
		logger.Error("Failed to load language registry", "error", err)
		os.Exit(1)
	}

	// SECONDARY PORTS
	executor := judge0.NewClient(sysCfg.ExecutionConfig, logger.Named("judge0"))
	questionRepo := questionrepository.NewQuestionRepository(db, logger, "public")
	submissionRepo := submissionrepository.NewSubmissionRepository(db, logger, "public")
	gradingMetrics := metrics.NewGradingMetrics()

	templateSvc := templates.NewTemplateService(registry, questionRepo, logger.Named("templates"))

	//primary ports
	jwtProvider := crypto.NewJWTService(sysCfg.JwtConfig)

	//services
	gradingSvc := grading.NewGradingService(registry, executor, questionRepo, submissionRepo, logger.Named("grading"))
	gradingSvc.SetMetrics(gradingMetrics)
	gradingSvc.SetMaxParallelCases(sysCfg.ExecutionConfig.MaxParallelCases)
	if sysCfg.ReviewConfig.Enabled() {
		gradingSvc.SetReviewer(openai.NewReviewer(sysCfg.ReviewConfig, logger.Named("review")))
	} else {
		logger.Warn("OPENAI_API_KEY not set, submissions get the fallback review")
	}

	if sysCfg.EventsConfig.AmqpURL != "" {
		conn, ch, err := verdictpublisher.Dial(sysCfg.EventsConfig.AmqpURL)
		if err != nil {
			logger.Error("Verdict events disabled", "error", err)
		} else {
			defer conn.Close()
			publisher, err := verdictpublisher.NewPublisher(ch, sysCfg.EventsConfig.Queue, logger)
			if err != nil {
				logger.Error("Verdict events disabled", "error", err)
			} else {
				gradingSvc.SetPublisher(publisher)
			}
		}
	}

	var limiter secondary.RateLimiter
	if sysCfg.RateLimitConfig.Enabled {
		limiter = ratelimit.NewLimiter(redisClient, sysCfg.RateLimitConfig, logger)
	}
	middleware := handlers.New(jwtProvider, sysCfg.JwtConfig.Method, limiter, logger)

	//server
	serviceProvider := http2.NewServiceProvider(gradingSvc, templateSvc, registry, middleware, gradingMetrics.Handler())
	httpServer := http2.NewServer(sysCfg.HTTPConfig.Port, sysCfg.HTTPConfig.MetricsPort, "grader", *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		logger.Error("Failed to init http server", "error", err)
		os.Exit(1)
	}
	ctxBg := context.Background()
	httpServer.Start(ctxBg)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, 5*time.Second)
	defer cancel()
	httpServer.Stop(ctx)

	logger.Info("successfully shutdown server")
}

// setupDatabase opens the PostgreSQL connection and pings it
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	return sqlx.Connect("postgres", cfg.Url)
}

// InitReader loads <env>.env when an environment name is given as the first
// argument, otherwise an optional .env in the working directory.
func InitReader() {
	if len(os.Args) >= 2 {
		environment := os.Args[1]
		if err := godotenv.Load(environment + ".env"); err != nil {
			logger2.Error("Error loading env file", "env", environment, "error", err)
			os.Exit(1)
		}
		return
	}
	_ = godotenv.Load()
}
