package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"forum/docs"
	"forum/internal/auth"
	"forum/internal/cache"
	"forum/internal/config"
	"forum/internal/db"
	"forum/internal/handler"
	"forum/internal/logger"
	"forum/internal/repository"
	"forum/internal/router"
	"forum/internal/service"
)

// @title Forum API
// @version 1.0
// @description Forum backend with cookie sessions, posts and upvotes.
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
// @description Session cookie issued by /login.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if cfg.Database.Reset {
		log.Warn("database reset requested, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatalf("reset database: %v", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		// sessions fail closed until redis comes back
		log.WithError(err).Warn("redis unreachable at startup")
	}
	cancelPing()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Initialize services
	accountService := service.NewAccountService(userRepo, log)
	sessionService := service.NewSessionService(
		accountService,
		auth.NewTokenService(cfg.Session.Secret),
		auth.NewSessionStore(cacheClient),
		cfg.Session.TTL,
		log,
	)
	postService := service.NewPostService(postRepo, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(accountService, sessionService, handler.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
		TTL:    cfg.Session.TTL,
	})
	postHandler := handler.NewPostHandler(postService)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, cfg, log, sessionService, authHandler, postHandler)

	if cfg.Swagger.Host != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.Swagger.Host, "https://"), "http://")
	}
	log.Infof("swagger documentation available at http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("bye")
}
