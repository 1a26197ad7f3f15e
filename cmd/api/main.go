package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/serenetouch/booking-assistant/internal/api/router"
	"github.com/serenetouch/booking-assistant/internal/appointments"
	"github.com/serenetouch/booking-assistant/internal/chat"
	"github.com/serenetouch/booking-assistant/internal/config"
	"github.com/serenetouch/booking-assistant/internal/dialogue"
	"github.com/serenetouch/booking-assistant/internal/intent"
	"github.com/serenetouch/booking-assistant/internal/memorystore"
	"github.com/serenetouch/booking-assistant/internal/observability/metrics"
	"github.com/serenetouch/booking-assistant/internal/pricing"
	"github.com/serenetouch/booking-assistant/internal/timeparse"
	"github.com/serenetouch/booking-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking assistant", "env", cfg.Env, "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage: Postgres when configured, in-memory otherwise.
	var repo appointments.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = appointments.NewPostgresRepository(pool)
		logger.Info("using postgres appointments repository")
	} else {
		repo = appointments.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory appointments repository")
	}

	// Conversation memory: redis when configured, in-memory otherwise.
	var memories chat.MemoryStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		memories = memorystore.NewRedisStore(redis.NewClient(opts), cfg.MemoryTTL)
		logger.Info("using redis conversation memory", "addr", cfg.RedisAddr)
	} else {
		memories = memorystore.NewInMemoryStore()
		logger.Warn("REDIS_ADDR not set, using in-memory conversation memory")
	}

	classifier, err := buildClassifier(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build classifier", "error", err)
		os.Exit(1)
	}

	turnMetrics := metrics.NewTurnMetrics(nil)
	extractor := timeparse.NewRuleBased()
	resolver := intent.NewResolver(classifier, extractor, turnMetrics, logger)
	engine := dialogue.NewEngine(resolver, repo, pricing.NewService(), extractor, turnMetrics, logger)
	handler := chat.NewHandler(engine, memories, logger)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.New(&router.Config{
			Logger:         logger,
			ChatHandler:    handler,
			MetricsHandler: promhttp.Handler(),
			AllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimitRPS:   cfg.ChatRateLimitRPS,
			RateLimitBurst: cfg.ChatRateLimitBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildClassifier assembles the intent classifier for the configured
// provider. Bedrock gets a Gemini fallback when a Gemini key is present.
func buildClassifier(ctx context.Context, cfg *config.Config, logger *logging.Logger) (intent.Classifier, error) {
	switch cfg.ClassifierProvider {
	case "bedrock":
		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.AWSRegion),
		}
		if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
			))
		}
		if cfg.AWSEndpointOverride != "" {
			opts = append(opts, awsconfig.WithBaseEndpoint(cfg.AWSEndpointOverride))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, err
		}

		var llm intent.LLMClient = intent.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
		if cfg.GeminiAPIKey != "" {
			gemini, err := intent.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
			if err != nil {
				return nil, err
			}
			llm = intent.NewFallbackLLMClient(llm, gemini, logger.Logger)
		}
		return intent.NewLLMClassifier(llm, cfg.BedrockModelID), nil

	case "gemini":
		gemini, err := intent.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, err
		}
		return intent.NewLLMClassifier(gemini, ""), nil

	default:
		logger.Info("using static classifier, keyword rules only")
		return intent.NewStaticClassifier(), nil
	}
}
