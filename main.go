package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/v3blogs/api-go/config"
	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/mailer"
	"github.com/v3blogs/api-go/middleware"
	"github.com/v3blogs/api-go/routes"
	"github.com/v3blogs/api-go/services"
	"github.com/v3blogs/api-go/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("v3blogs-api", "info").WithError(err).Fatal("load config")
	}

	log := logger.New("v3blogs-api", cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("initialize database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("database handle")
	}
	defer sqlDB.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, "v3blogs"),
	)

	var store storage.ObjectStore
	if cfg.Storage.Enabled() {
		store = storage.NewS3Store(cfg.Storage)
	} else {
		log.Warn("S3 storage not configured, avatar uploads disabled")
	}

	deps := routes.Dependencies{
		Config:   cfg,
		Log:      log,
		Metrics:  middleware.NewMetrics(reg),
		Gatherer: reg,
		Auth:     services.NewAuthService(db, cfg, mailer.New(cfg, log)),
		Graph:    services.NewGraphService(db),
		Feed:     services.NewFeedService(db),
		Profiles: services.NewProfileService(db, store).WithLogger(log),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on SIGINT, SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("port", cfg.Port).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("shutdown completed")
}
