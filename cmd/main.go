package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"staff-service/internal/api"
	"staff-service/internal/config"
	"staff-service/internal/events"
	"staff-service/internal/ratelimit"
	"staff-service/internal/repository"
	"staff-service/internal/service"
	"staff-service/migrations"
)

func connectDB(dialect repository.Dialect, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(dialect.DriverName(), cfg.URL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	for i := 0; i < cfg.ConnectRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			log.Info().Str("driver", dialect.Name()).Msg("connected to database")
			return db, nil
		}
		log.Warn().Err(err).Msgf("retry %d: failed to connect to database", i+1)
		time.Sleep(3 * time.Second)
	}
	_ = db.Close()
	return nil, fmt.Errorf("failed to connect to %s database after %d retries: %w", dialect.Name(), cfg.ConnectRetries, err)
}

func rateLimitStore(cfg *config.Config) (middleware.RateLimiterStore, *redis.Client) {
	if cfg.Redis.Addr == "" || cfg.HTTP.RateLimit <= 0 {
		return api.NewMemoryRateStore(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst), nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	// RateBurst requests per window, averaging out to RateLimit per second.
	window := time.Duration(float64(cfg.HTTP.RateBurst) / cfg.HTTP.RateLimit * float64(time.Second))
	return ratelimit.NewRedisStore(rdb, cfg.HTTP.RateBurst, window), rdb
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Info().Msg(cfg.String())

	dialect, err := repository.DialectFor(cfg.Database.Driver)
	if err != nil {
		log.Fatal().Err(err).Msg("unsupported database driver")
	}

	db, err := connectDB(dialect, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}

	if err := migrations.AutoMigrateUsers(3, dialect, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate users table")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if w := config.NewKafkaWriter(cfg.Kafka); w != nil {
		publisher = events.NewKafkaPublisher(w)
	}

	userService := service.NewUserService(db, dialect, publisher)
	if err := userService.CheckDB(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("startup probe failed")
	}
	userHandler := api.NewUserHandler(userService)

	store, rdb := rateLimitStore(cfg)

	e := api.NewRouter(userHandler)
	e.Use(middleware.Recover())
	e.Use(api.RequestID())
	e.Use(api.RequestLogger(log.Logger))
	e.Use(api.RateLimiter(store))
	e.Use(api.Timeout(cfg.HTTP.RequestTimeout))

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = e.Shutdown(shutdownCtx)
	err = multierr.Append(err, publisher.Close())
	if rdb != nil {
		err = multierr.Append(err, rdb.Close())
	}
	err = multierr.Append(err, db.Close())
	if err != nil {
		log.Error().Err(err).Msg("unclean shutdown")
		os.Exit(1)
	}
	log.Info().Msg("shutdown complete")
}
