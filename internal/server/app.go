// Package server initializes and runs the authd server: it opens the
// database, runs migrations, wires the services and serves the REST API
// until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmatveev/authd/internal/logging"
	"github.com/dmatveev/authd/internal/server/auth"
	"github.com/dmatveev/authd/internal/server/config"
	"github.com/dmatveev/authd/internal/server/mail"
	"github.com/dmatveev/authd/internal/server/password"
	"github.com/dmatveev/authd/internal/server/repositories/repomanager"
	"github.com/dmatveev/authd/internal/server/rest"
	"github.com/dmatveev/authd/internal/server/services"
	"github.com/dmatveev/authd/internal/server/verification"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	issuer := auth.NewIssuer([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)

	var sender mail.Sender
	if cfg.SendGridAPIKey == "" {
		logger.Warn(context.Background(), "no sendgrid api key, codes will be logged")
		sender = mail.NewLogSender(logger)
	} else {
		sender = mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridFromName, cfg.SendGridFromAddr, cfg.SendGridTemplateID)
	}

	authSvc := services.NewAuthService(
		db, rm,
		verification.NewMachine(cfg.VerificationCodeTTL),
		password.NewBcryptHasher(),
		issuer, sender, logger,
	)
	userSvc := services.NewUserService(db, rm, password.NewBcryptHasher(), logger)

	handler := rest.NewHandler(authSvc, userSvc, logger)
	server := rest.NewServer(cfg.EndpointAddrHTTP, handler, issuer, logger)

	return &App{config: cfg, logger: logger, db: db, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")
	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, err.Error())
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
	app.logger.Info(ctx, "app stopped")
}
