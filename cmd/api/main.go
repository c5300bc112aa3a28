package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace-api/internal/api"
	"github.com/servicehub/marketplace-api/internal/api/handler"
	"github.com/servicehub/marketplace-api/internal/core/ports"
	"github.com/servicehub/marketplace-api/internal/core/service"
	"github.com/servicehub/marketplace-api/internal/infrastructure/config"
	mongostore "github.com/servicehub/marketplace-api/internal/infrastructure/db/mongo"
	pgstore "github.com/servicehub/marketplace-api/internal/infrastructure/db/postgres"
	redisstore "github.com/servicehub/marketplace-api/internal/infrastructure/db/redis"
	"github.com/servicehub/marketplace-api/internal/infrastructure/otp"
	"github.com/servicehub/marketplace-api/internal/infrastructure/sms"
	"github.com/servicehub/marketplace-api/pkg/logger"
)

const (
	serviceName     = "marketplace-api"
	shutdownTimeout = 10 * time.Second
)

type repositories struct {
	accounts  ports.AccountRepository
	executors ports.ExecutorRepository
	requests  ports.RequestRepository
}

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	health := map[string]handler.Pinger{}
	var closers []func(context.Context) error
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](closeCtx); err != nil {
				log.Warn().Err(err).Msg("close dependency")
			}
		}
	}()

	repos, err := openStore(ctx, cfg, health, &closers)
	if err != nil {
		return err
	}

	codes, err := openCodeStore(ctx, cfg, health, &closers)
	if err != nil {
		return err
	}

	// The log sender only delivers in development; elsewhere send-code fails
	// with a delivery error until a gateway client is wired here.
	if !cfg.IsDevelopment() {
		log.Warn().Str("env", cfg.Env).Msg("no SMS gateway configured: one-time code delivery is disabled")
	}
	sender := sms.NewLogSender(logger.Component("sms"), cfg.IsDevelopment())
	issuer := service.NewCodeIssuer(codes, sender, logger.Component("credentials"))

	approvals := service.NewApprovalService(repos.accounts, cfg.Auth.ElevationSecret, logger.Component("approval"))
	identity := service.NewIdentityService(repos.accounts, repos.executors, approvals, cfg.AccountRoles(), logger.Component("identity"))
	session, err := service.NewSessionService(repos.accounts, issuer, service.SessionConfig{
		Secret:    cfg.Auth.JWTSecret,
		Algorithm: cfg.Auth.JWTAlgorithm,
		TTL:       cfg.Auth.TokenTTL,
	}, logger.Component("session"))
	if err != nil {
		return err
	}
	requests := service.NewRequestService(repos.requests, repos.accounts, repos.executors, logger.Component("requests"))

	e := api.NewRouter(api.Services{
		Identity:  identity,
		Session:   session,
		Approvals: approvals,
		Requests:  requests,
	}, api.Options{
		SendCodeRate: cfg.Auth.SendCodeRate,
		HealthChecks: health,
		Logger:       logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Str("code_store", cfg.Store.CodeStore).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, health map[string]handler.Pinger, closers *[]func(context.Context) error) (*repositories, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := pgstore.Connect(ctx, pgstore.Config{
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
		})
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func(context.Context) error { return db.Close() })
		if err := pgstore.Migrate(db); err != nil {
			return nil, err
		}

		store := pgstore.NewStore(db)
		health["postgres"] = store.Ping
		return &repositories{accounts: store.Accounts, executors: store.Executors, requests: store.Requests}, nil

	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  serviceName,
		})
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, client.Disconnect)

		store := mongostore.NewStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		health["mongodb"] = store.Ping
		return &repositories{accounts: store.Accounts, executors: store.Executors, requests: store.Requests}, nil
	}
}

func openCodeStore(ctx context.Context, cfg *config.Config, health map[string]handler.Pinger, closers *[]func(context.Context) error) (ports.CodeStore, error) {
	if cfg.Store.CodeStore != config.CodeStoreRedis {
		return otp.NewMemoryStore(cfg.Auth.CodeTTL), nil
	}

	client, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, func(context.Context) error { return client.Close() })
	health["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return redisstore.NewCodeStore(client, cfg.Auth.CodeTTL), nil
}
