package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/homebuddy/homebuddy-api/internal/http/handlers"
	"github.com/homebuddy/homebuddy-api/internal/http/middleware"
	"github.com/homebuddy/homebuddy-api/internal/platform/auth"
	"github.com/homebuddy/homebuddy-api/internal/platform/mailer"
	"github.com/homebuddy/homebuddy-api/internal/repo/postgres"
	"github.com/homebuddy/homebuddy-api/internal/service"
	"github.com/homebuddy/homebuddy-api/pkg/config"
	"github.com/homebuddy/homebuddy-api/pkg/database"
	"github.com/homebuddy/homebuddy-api/pkg/events"
	"github.com/homebuddy/homebuddy-api/pkg/logger"
	mw "github.com/homebuddy/homebuddy-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database.URL, database.Options{
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		MaxLifetime: cfg.Database.MaxLifetime,
	})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var eventBus events.EventBus
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		eventBus = natsBus
	} else {
		eventBus = events.NewNoopEventBus()
	}
	defer eventBus.Close()

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("Invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	// Initialize repositories
	adminRepo := postgres.NewAdminRepo(pool)
	bookingRepo := postgres.NewBookingRepo(pool)
	messageRepo := postgres.NewMessageRepo(pool)

	// Initialize services
	hasher := auth.NewBcryptHasher()
	mailSvc := buildMailer(cfg)
	adminService := service.NewAdminService(adminRepo, hasher, eventBus, cfg)
	bookingService := service.NewBookingService(bookingRepo, eventBus, mailSvc)
	messageService := service.NewMessageService(messageRepo, eventBus, mailSvc, cfg.Email.StaffEmail)

	// First boot: create the seed super admin when no admin exists yet.
	if err := adminService.EnsureSeedSuperAdmin(ctx); err != nil {
		logger.Error("Failed to seed super admin", "error", err)
		os.Exit(1)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(adminService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	messageHandler := handlers.NewMessageHandler(messageService)

	loginLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})
	formLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Requests: 20,
		Window:   time.Minute,
	})

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health)

	requireJWT := middleware.RequireJWT(cfg.Auth.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware()).Post("/login", authHandler.Login)
			r.Get("/check-admins", authHandler.CheckAdmins)
			r.Post("/register/super-admin", authHandler.RegisterSuperAdmin)

			r.Group(func(r chi.Router) {
				r.Use(requireJWT)
				r.Post("/register/admin", authHandler.RegisterAdmin)
				r.Post("/activate/{id}", authHandler.Activate)
				r.Post("/deactivate/{id}", authHandler.Deactivate)
				r.Post("/update-password/{id}", authHandler.UpdatePassword)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			// Customer-facing form submission stays public.
			r.With(formLimiter.Middleware()).Post("/", bookingHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(requireJWT)
				r.Get("/", bookingHandler.List)
				r.Get("/{id}", bookingHandler.GetByID)
				r.Put("/{id}/status", bookingHandler.UpdateStatus)
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.With(formLimiter.Middleware()).Post("/", messageHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(requireJWT)
				r.Get("/", messageHandler.List)
				r.Get("/{id}", messageHandler.GetByID)
				r.Put("/{id}/read", messageHandler.MarkRead)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting API server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigChan:
		case <-gctx.Done():
		}

		logger.Info("Shutting down API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}

func buildMailer(cfg *config.Config) mailer.Service {
	if cfg.Email.DevMode {
		return mailer.NewDevMailer()
	}
	if cfg.Email.MailerSendKey != "" {
		return mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	}
	return mailer.NewSMTPMailer(
		cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom,
		cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS,
	)
}
