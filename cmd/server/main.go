package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "insulin_drip/docs"
	"insulin_drip/internal/config"
	"insulin_drip/internal/handlers"
	"insulin_drip/internal/logger"
	"insulin_drip/internal/repository"
	"insulin_drip/internal/repository/db"
	"insulin_drip/internal/server"
	"insulin_drip/internal/service"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// @title                       Insulin Drip API
// @version                     1.0
// @description                 Insulin infusion titration for adult ICU patients.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load(os.Getenv("DRIP_CONFIG"))
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.Log.Level)
	log.Infow("config_loaded", "file", cfg.File, "port", cfg.Port, "db", cfg.DB.Path)

	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Options{
		SigningKey: cfg.Auth.SigningKey,
		TokenTTL:   cfg.Auth.TokenTTL,
		Log:        log,
	})
	if cfg.Auth.SigningKey == "" {
		log.Warnw("auth_signing_key_unset", "hint", "set DRIP_AUTH_SIGNING_KEY")
	}
	apiHandler := handlers.NewHandler(services, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Timeouts{
		ReadHeader: cfg.HTTP.ReadHeaderTimeout,
		Write:      cfg.HTTP.WriteTimeout,
		Idle:       cfg.HTTP.IdleTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		services.RampScheduler.Run(gctx, cfg.Scheduler.Tick)
		return nil
	})
	if cfg.File != "" {
		g.Go(func() error {
			return config.Watch(gctx, cfg.File, log, func(next *config.Config) {
				log.SetLevel(next.Log.Level)
			})
		})
	}
	g.Go(func() error {
		log.Infow("http_server_starting", "port", cfg.Port)
		return srv.Run(cfg.Port, apiHandler.InitRoutes())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("server_exited", "err", err)
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DB.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", config.DefaultDBPath)
		path = config.DefaultDBPath
	}
	return db.InitDB(path)
}
