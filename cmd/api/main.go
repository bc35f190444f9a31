package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	jwtauth "pet-medical-records/internal/adapters/auth/jwt"
	"pet-medical-records/internal/adapters/changefeed/kafka"
	"pet-medical-records/internal/adapters/changefeed/rabbitmq"
	pg "pet-medical-records/internal/adapters/storage/postgres"
	"pet-medical-records/internal/config"
	"pet-medical-records/internal/platform/logger"
	"pet-medical-records/internal/ports/auth"
	"pet-medical-records/internal/ports/changefeed"
	"pet-medical-records/internal/router"
)

// @title Pet Medical Records API
// @version 1.0
// @description Mascotas, registros médicos e historial de cambios por dueño.
// @BasePath /
func main() {
	_ = godotenv.Load() // .env opcional

	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
		Env:    cfg.Env,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"error": err})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	verifier, issuer, err := authFromConfig(cfg)
	if err != nil {
		return err
	}

	feed, err := changefeedFromConfig(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = feed.Close() }()

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		TokenIssuer:  issuer,
		DB:           db,
		Changefeed:   feed,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":       srv.Addr,
			"auth_mode":  cfg.AuthMode,
			"storage":    storageName(db),
			"changefeed": feed.Name(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down server", nil)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server exited properly", nil)
	return nil
}

func openDB(cfg *config.Config, log logger.Logger) (*sqlx.DB, error) {
	if cfg.DBDSN == "" {
		return nil, nil
	}
	db, err := pg.Open(cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.DBMigrate {
		log.Info("running migrations", nil)
		if err := pg.Migrate(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return db, nil
}

// authFromConfig: modo header => verifier/issuer nil (identidad por user-id).
func authFromConfig(cfg *config.Config) (auth.AuthVerifier, auth.TokenIssuer, error) {
	switch cfg.AuthMode {
	case config.AuthModeHeader:
		return nil, nil, nil
	case config.AuthModeJWT:
		m, err := jwtauth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
		if err != nil {
			return nil, nil, err
		}
		return m, m, nil
	default:
		return nil, nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
	}
}

func changefeedFromConfig(cfg *config.Config) (changefeed.Publisher, error) {
	switch cfg.ChangefeedDriver {
	case config.ChangefeedNoop, "":
		return changefeed.Noop{}, nil
	case config.ChangefeedKafka:
		return kafka.New(cfg.Brokers(), cfg.KafkaTopic)
	case config.ChangefeedRabbitMQ:
		return rabbitmq.New(cfg.RabbitMQURL, cfg.RabbitMQQueue)
	default:
		return nil, fmt.Errorf("unknown CHANGEFEED_DRIVER %q", cfg.ChangefeedDriver)
	}
}

func storageName(db *sqlx.DB) string {
	if db != nil {
		return "postgres"
	}
	return "memory"
}
