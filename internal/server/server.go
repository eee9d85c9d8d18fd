package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gymclass/internal/auth"
	"gymclass/internal/booking"
	"gymclass/internal/config"
	"gymclass/internal/logger"
	"gymclass/internal/schedule"
	"gymclass/internal/trainee"
	"gymclass/internal/trainer"
	"gymclass/internal/user"

	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	User     *user.Handler
	Trainer  *trainer.Handler
	Trainee  *trainee.Handler
	Schedule *schedule.Handler
	Booking  *booking.Handler
}

type Server struct {
	httpServer *http.Server
	limiter    *RateLimiter
}

func New(cfg *config.Config, tokens auth.AccessValidator, h Handlers, checks map[string]HealthCheck) *Server {
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, tokens, h, checks, limiter),
			ReadHeaderTimeout: 10 * time.Second,
		},
		limiter: limiter,
	}
}

// NewRouter mounts every route. limiter throttles /api per client IP; its
// owner stops it.
func NewRouter(cfg *config.Config, tokens auth.AccessValidator, h Handlers, checks map[string]HealthCheck, limiter *RateLimiter) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	router.GET("/health", Health(checks))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	apiGroup := router.Group("/api")
	apiGroup.Use(RateLimitMiddleware(limiter))

	authed := auth.AuthMiddleware(tokens)
	admin := auth.RequireRole(auth.RoleAdmin)
	trainerOnly := auth.RequireRole(auth.RoleTrainer)
	traineeOnly := auth.RequireRole(auth.RoleTrainee)

	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", h.User.Register)
		authRoutes.POST("/login", h.User.Login)
		authRoutes.POST("/refresh", h.User.Refresh)
	}

	users := apiGroup.Group("/users", authed)
	{
		users.GET("/me", h.User.GetMe)
		users.POST("/create", admin, h.User.CreateUser)
		users.GET("", admin, h.User.ListUsers)
	}

	trainees := apiGroup.Group("/trainees", authed, traineeOnly)
	{
		trainees.GET("/profile", h.Trainee.GetProfile)
		trainees.PUT("/profile", h.Trainee.UpdateProfile)
	}

	trainers := apiGroup.Group("/trainers", authed, trainerOnly)
	{
		trainers.GET("/profile", h.Trainer.GetProfile)
		trainers.PUT("/profile", h.Trainer.UpdateProfile)
		trainers.GET("/schedules", h.Trainer.MySchedules)
	}

	schedules := apiGroup.Group("/schedules", authed)
	{
		schedules.POST("/create", admin, h.Schedule.Create)
		schedules.GET("", h.Schedule.List)
		schedules.GET("/:id", h.Schedule.Get)
		schedules.DELETE("/:id", admin, h.Schedule.Delete)
	}

	bookings := apiGroup.Group("/bookings", authed)
	{
		bookings.POST("/book", traineeOnly, h.Booking.Book)
		bookings.GET("/my-bookings", traineeOnly, h.Booking.MyBookings)
		bookings.DELETE("/:id", traineeOnly, h.Booking.Cancel)
		bookings.GET("", admin, h.Booking.ListAll)
	}

	return router
}

func (s *Server) Start() error {
	logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer s.limiter.Stop()
	return s.httpServer.Shutdown(ctx)
}
