package main

import (
	"context"
	_ "gymclass/docs"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"gymclass/internal/api"
	"gymclass/internal/auth"
	"gymclass/internal/booking"
	"gymclass/internal/config"
	"gymclass/internal/db"
	"gymclass/internal/email"
	"gymclass/internal/events"
	"gymclass/internal/logger"
	"gymclass/internal/schedule"
	"gymclass/internal/server"
	"gymclass/internal/trainee"
	"gymclass/internal/trainer"
	"gymclass/internal/user"

	"github.com/redis/go-redis/v9"
)

// @title Gym Class Scheduling API
// @version 1.0
// @description Class scheduling and booking for gyms with admins, trainers and trainees.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting gym class scheduling service")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]server.HealthCheck{
		"postgres": database.PingContext,
	}

	var notifier booking.Notifier
	if cfg.EmailEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		mailer := email.New(rdb, email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     strconv.Itoa(cfg.SMTPPort),
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
			FromName: cfg.EmailFromName,
		})
		defer mailer.Close()

		go mailer.Start(ctx)
		notifier = mailer
		checks["redis"] = mailer.Ping
		logger.Info("Email service initialized", "redis", cfg.RedisAddr)
	} else {
		logger.Warn("SMTP_HOST not set, booking emails disabled")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.Fatalf("Failed to create event publisher: %v", err)
		}
		publisher = kp
		logger.Info("Publishing domain events", "topic", cfg.KafkaTopic)
	}
	defer publisher.Close()

	api.RegisterValidators()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	scheduleService := schedule.NewService(schedule.NewRepository(database), publisher)
	handlers := server.Handlers{
		User:     user.NewHandler(user.NewService(user.NewRepository(database), tokens)),
		Trainer:  trainer.NewHandler(trainer.NewService(trainer.NewRepository(database), scheduleService)),
		Trainee:  trainee.NewHandler(trainee.NewService(trainee.NewRepository(database))),
		Schedule: schedule.NewHandler(scheduleService),
		Booking:  booking.NewHandler(booking.NewService(booking.NewRepository(database), notifier, publisher)),
	}

	srv := server.New(cfg, tokens, handlers, checks)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
