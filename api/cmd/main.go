package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/application/event"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/config"
	rediscache "github.com/baechuer/real-time-ressys/services/organizer-service/internal/infrastructure/caching/redis"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/infrastructure/db/postgres"
	rabbitpub "github.com/baechuer/real-time-ressys/services/organizer-service/internal/infrastructure/messaging/rabbitmq"
	s3store "github.com/baechuer/real-time-ressys/services/organizer-service/internal/infrastructure/storage/s3"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/tracing"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/transport/http/handlers"
	appmw "github.com/baechuer/real-time-ressys/services/organizer-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/transport/http/router"
)

const serviceVersion = "1.0.0"

// sysClock implements event.Clock using system time
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB
	Repo   *postgres.Repo
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracing(ctx, tracing.Config{
		ServiceName:    "organizer-service",
		ServiceVersion: serviceVersion,
		OTLPEndpoint:   cfg.OTelEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("tracing init failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(sctx)
	}()

	if u, err := url.Parse(cfg.DatabaseURL); err == nil {
		zlog.Info().
			Str("db_user", u.User.Username()).
			Str("db_host", u.Host).
			Str("db_db", u.Path).
			Msg("db config loaded")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := db.PingContext(pctx)
		cancel()
		if err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
	}

	images, err := s3store.NewImageStore(ctx, s3store.Options{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    cfg.S3UsePathStyle,
		PublicBaseURL:   cfg.ImageBaseURL,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("image store init failed")
	}
	if err := images.EnsureBucket(ctx); err != nil {
		// uploads fail until the bucket exists; everything else still works
		zlog.Error().Err(err).Str("bucket", cfg.S3Bucket).Msg("image bucket unavailable")
	}

	var versions *rediscache.Client
	if cfg.RedisURL != "" {
		versions, err = rediscache.New(cfg.RedisURL)
		if err != nil {
			zlog.Fatal().Err(err).Msg("redis init failed")
		}
		defer versions.Close()
	} else {
		zlog.Warn().Msg("REDIS_URL empty: revoked tokens are accepted until expiry")
	}

	app := NewApp(cfg, db, images, versions)

	if cfg.RabbitURL != "" {
		pub, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit publisher init failed")
		}
		defer pub.Close()
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
		app.Repo.StartOutboxWorker(ctx, pub, cfg.OutboxInterval)
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: domain events stay in the outbox")
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Server.Shutdown(sctx); err != nil {
			zlog.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Fatal().Err(err).Msg("server crashed")
	}
	zlog.Info().Msg("server stopped")
}

// NewApp wires the HTTP stack. versions may be nil.
func NewApp(cfg *config.Config, db *sql.DB, images event.ImageStore, versions *rediscache.Client) *App {
	// 1) Infrastructure
	repo := postgres.New(db)

	checks := map[string]handlers.Check{"postgres": db.PingContext}
	var checker appmw.TokenVersionChecker
	if versions != nil {
		checker = versions
		checks["redis"] = versions.Ping
	}

	// 2) Application
	svc := event.New(repo, images, sysClock{}, cfg.MaxImageBytes)

	// 3) Transport
	h := handlers.NewEventsHandler(svc, sysClock{})
	auth := appmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer, checker)
	z := handlers.NewHealthHandler(checks)

	// 4) Router
	httpHandler := router.New(h, auth, z, cfg)

	// 5) Server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &App{
		Config: cfg,
		Server: srv,
		DB:     db,
		Repo:   repo,
	}
}
