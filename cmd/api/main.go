package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketingai-backend/internal/auth"
	"marketingai-backend/internal/cache"
	"marketingai-backend/internal/config"
	"marketingai-backend/internal/contact"
	"marketingai-backend/internal/db"
	"marketingai-backend/internal/demo"
	"marketingai-backend/internal/jobs"
	"marketingai-backend/internal/middleware"
	"marketingai-backend/internal/system"
	"marketingai-backend/internal/user"
	"marketingai-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "marketingai-backend",
		}
	}

	dispatcher := jobs.NewDispatcher(cfg.QueueRedisAddr, cfg.Timezone)
	if dispatcher == nil {
		logger.Info("task queue disabled")
	} else {
		logger.Info("task queue enabled", slog.String("addr", cfg.QueueRedisAddr))
		defer dispatcher.Close()
	}

	val := validation.New()
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	userRepo := user.NewRepository(cols.Users)
	userService := user.NewService(userRepo, jwtManager, notifierOrNil(dispatcher), time.Duration(cfg.OTPTTLMinutes)*time.Minute)
	userHandler := user.NewHandler(userService, val, logger, time.Duration(cfg.AccessTTLMinutes)*time.Minute, cfg.CookieSecure)

	demoRepo := demo.NewRepository(cols.Demos)
	demoService := demo.NewService(demoRepo, userRepo, demoNotifierOrNil(dispatcher), cfg.Timezone)
	demoHandler := demo.NewHandler(demoService, val, logger, cfg.Timezone)

	contactRepo := contact.NewRepository(cols.ContactMessages, cols.ContactInfo)
	contactService := contact.NewService(contactRepo, cacheStore, contactNotifierOrNil(dispatcher), cacheTTL)
	contactHandler := contact.NewHandler(contactService, val, logger)

	systemHandler := system.NewHandler(client, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	window := time.Duration(cfg.RateLimitWindowSec) * time.Second
	authLimiter := middleware.NewRateLimiter(cfg.RateLimitAuth, window)
	contactLimiter := middleware.NewRateLimiter(cfg.RateLimitContact, window)
	demosLimiter := middleware.NewRateLimiter(cfg.RateLimitDemos, window)

	r.Route("/api", func(api chi.Router) {
		api.Get("/uptime", systemHandler.Uptime)
		api.Get("/db-status", systemHandler.DBStatus)

		api.Route("/schedule-demo", func(demos chi.Router) {
			demos.With(demosLimiter.Middleware).Post("/", demoHandler.Create)

			demos.Group(func(protected chi.Router) {
				protected.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))
				protected.Get("/", demoHandler.List)
				protected.Get("/{id}", demoHandler.GetByID)
				protected.Patch("/{id}/status", demoHandler.UpdateStatus)
				protected.Patch("/{id}/reschedule", demoHandler.Reschedule)
				protected.Post("/{id}/notes", demoHandler.AddNote)
				protected.Delete("/{id}", demoHandler.Delete)
			})
		})

		api.Route("/contact", func(c chi.Router) {
			c.Get("/info", contactHandler.GetInfo)
			c.With(contactLimiter.Middleware).Post("/submit", contactHandler.Submit)

			c.Group(func(protected chi.Router) {
				protected.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))
				protected.Get("/messages", contactHandler.ListMessages)
				protected.Put("/messages/{id}", contactHandler.UpdateMessage)
			})
		})

		api.Route("/auth", func(a chi.Router) {
			a.With(authLimiter.Middleware).Post("/register", userHandler.Register)
			a.Post("/verify-email", userHandler.VerifyEmail)
			a.With(authLimiter.Middleware).Post("/resend-otp", userHandler.ResendOTP)
			a.With(authLimiter.Middleware).Post("/login", userHandler.Login)
			a.Post("/logout", userHandler.Logout)

			a.Group(func(protected chi.Router) {
				protected.Use(middleware.Auth(jwtManager))
				protected.Get("/profile", userHandler.GetProfile)
				protected.Put("/profile", userHandler.UpdateProfile)
			})
		})

		api.With(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager)).Get("/admin/users", userHandler.List)
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}

// A nil *Dispatcher stored in an interface is not a nil interface, so it
// would slip past the services' nil checks and panic on first use.
func notifierOrNil(d *jobs.Dispatcher) user.Notifier {
	if d == nil {
		return nil
	}
	return d
}

func demoNotifierOrNil(d *jobs.Dispatcher) demo.Notifier {
	if d == nil {
		return nil
	}
	return d
}

func contactNotifierOrNil(d *jobs.Dispatcher) contact.Notifier {
	if d == nil {
		return nil
	}
	return d
}
