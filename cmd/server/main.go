// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/javajoker/chemist-backend/internal/config"
	"github.com/javajoker/chemist-backend/internal/database"
	"github.com/javajoker/chemist-backend/internal/middleware"
	"github.com/javajoker/chemist-backend/internal/repository"
	"github.com/javajoker/chemist-backend/internal/router"
	"github.com/javajoker/chemist-backend/internal/seed"
	"github.com/javajoker/chemist-backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	configureLogging(cfg)

	// Initialize store
	store, db, err := openStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize store")
	}
	if db != nil {
		defer database.Close(db)
	}

	if cfg.Database.Seed {
		medicineService := services.NewMedicineService(store, cfg.Inventory, services.SystemClock)
		seeder := seed.NewSeeder(store, medicineService, services.SystemClock, time.Now().UnixNano())
		if _, err := seeder.Run(context.Background()); err != nil {
			logrus.WithError(err).Fatal("Failed to seed inventory")
		}
	}

	// Optional report archive
	var archiver services.ReportArchiver
	if cfg.ReportArchiveEnabled() {
		s3Archiver, err := services.NewS3ReportArchiver(cfg.AWS)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize report archive")
		}
		archiver = s3Archiver
		logrus.WithField("bucket", cfg.AWS.ReportBucket).Info("Inventory report archive enabled")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		defer limiter.Stop()
	}

	// Initialize router
	r := router.Initialize(cfg, router.Dependencies{
		Store:       store,
		Archiver:    archiver,
		Clock:       services.SystemClock,
		RateLimiter: limiter,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": srv.Addr,
			"driver":  cfg.Database.Driver,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}

func configureLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Log.Format == "json" || (cfg.Log.Format == "" && cfg.Environment == "production") {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// openStore returns the repositories for the configured driver. The gorm
// handle is nil for the in-memory store.
func openStore(cfg *config.Config) (*repository.Store, *gorm.DB, error) {
	if cfg.Database.Driver == "memory" {
		logrus.Warn("Using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), nil, nil
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	if err := database.RunMigrations(db); err != nil {
		database.Close(db)
		return nil, nil, err
	}

	return repository.NewGormStore(db), db, nil
}
