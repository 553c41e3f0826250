// @title PawMatch API
// @version 1.0
// @description Matching de adopción entre fundaciones y adoptantes por compatibilidad de personalidad.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <token>
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-adoption-match/docs"
	"pet-adoption-match/internal/adapters/storage/postgres"
	"pet-adoption-match/internal/config"
	"pet-adoption-match/internal/platform/logger"
	"pet-adoption-match/internal/router"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.NewFromEnv().Error("load config", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Format: logger.ParseFormat(cfg.Logging.Format),
		App:    cfg.Logging.App,
	})
	if cfg.Auth.DevSecret {
		log.Warn("using development JWT secret; set JWT_SECRET outside dev", nil)
	}

	opts := router.Options{
		JWTSecret:   cfg.Auth.JWTSecret,
		TokenTTL:    cfg.Auth.TokenTTL,
		Logger:      log,
		APIPrefix:   cfg.Server.APIPrefix,
		CORSOrigins: cfg.Server.CORSOrigins,
	}

	if cfg.Database.DSN != "" {
		db, err := postgres.Open(cfg.Database.DSN)
		if err != nil {
			log.Error("open postgres", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = postgres.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Error("migrate", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.DB = db
		log.Info("using postgres storage", nil)
	} else {
		log.Info("using in-memory storage", nil)
	}

	docs.SwaggerInfo.BasePath = cfg.Server.APIPrefix

	h, err := router.NewRouter(opts)
	if err != nil {
		log.Error("build router", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// sin WriteTimeout: cortaría los WebSocket de chat
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env, "api_prefix": cfg.Server.APIPrefix})
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutting down", map[string]any{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown", map[string]any{"error": err.Error()})
	}
}
