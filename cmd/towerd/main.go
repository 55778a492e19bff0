// Command towerd runs the tower admin API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/towerops/toweradmin/internal/api"
	"github.com/towerops/toweradmin/internal/core/domain"
	"github.com/towerops/toweradmin/internal/infrastructure/config"
	mongodb "github.com/towerops/toweradmin/internal/infrastructure/db/mongo"
	redisdb "github.com/towerops/toweradmin/internal/infrastructure/db/redis"
	"github.com/towerops/toweradmin/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()

	if err := prepareStorage(ctx, db, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare storage")
	}

	e := api.NewRouter(cfg, db, rdb, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// prepareStorage creates indexes and, when the user collection is empty,
// seeds the bootstrap admin account from the environment.
func prepareStorage(ctx context.Context, db *mongo.Database, cfg *config.Config) error {
	users := mongodb.NewUserRepository(db)
	audits := mongodb.NewAuditRepository(db)

	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := audits.EnsureIndexes(ctx); err != nil {
		return err
	}

	if cfg.BootstrapAdmin == "" || cfg.BootstrapPassword == "" {
		return nil
	}
	existing, err := users.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = users.Create(ctx, &domain.User{
		Username:     cfg.BootstrapAdmin,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return err
	}
	l := logger.Get()
	l.Info().Str("username", cfg.BootstrapAdmin).Msg("bootstrap admin created")
	return nil
}
