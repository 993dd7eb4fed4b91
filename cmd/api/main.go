package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/messages"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/notifications"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/settings"
	"portfolio-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	var logger zerolog.Logger
	if cfg.Env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Str("service", "portfolio-backend").Logger()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("mongo connection failed")
	}
	logger.Info().Str("db", cfg.MongoDB).Msg("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Fatal().Err(err).Msg("index creation failed")
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisCache.Close()
		logger.Info().Msg("redis connected")
		cacheStore = redisCache
	}

	var tx db.TxRunner = db.NoTx{}
	if cfg.MongoTransactions {
		tx = db.MongoTx{Client: client}
		logger.Info().Msg("project reset runs in a transaction")
	}

	secret := auth.NewSecret(cfg.AdminPassword, cfg.AdminPasswordHash)
	if !secret.Configured() {
		logger.Warn().Msg("no admin password configured; admin routes are disabled")
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "portfolio-backend",
		}
	}

	var notifier messages.Notifier
	if mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.NotifyEmail, cfg.BrevoSandbox); mailer != nil {
		notifier = mailer
		logger.Info().Str("sender", cfg.BrevoSenderEmail).Bool("sandbox", cfg.BrevoSandbox).Msg("brevo mailer enabled")
	} else {
		logger.Info().Msg("brevo mailer disabled")
	}

	val := validation.New()

	projectRepo := projects.NewRepository(cols.Projects)
	imageRepo := projects.NewImageRepository(cols.ProjectImages)
	seeder := projects.NewSeeder(projectRepo, imageRepo, tx, cfg.Timezone)
	projectService := projects.NewService(projectRepo, seeder, cfg.Timezone)

	messageService := messages.NewService(messages.NewRepository(cols.Messages), cfg.Timezone, notifier)
	settingsService := settings.NewService(settings.NewRepository(cols.Settings), cfg.Timezone)

	server := &handlers.Server{
		Cfg:      cfg,
		Secret:   secret,
		Tokens:   jwtManager,
		Projects: projectService,
		Messages: messageService,
		Val:      val,
		Log:      logger,
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}

	contactLimiter := middleware.NewRateLimiter(cfg.RateLimitContact, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	routes := handlers.Routes{
		Server:       server,
		Projects:     projects.NewHandler(projectService, seeder, val, logger, cacheStore, cfg.CacheTTL()),
		Messages:     messages.NewHandler(messageService, val, logger),
		Settings:     settings.NewHandler(settingsService, secret, logger, cacheStore, cfg.CacheTTL()),
		Admin:        middleware.AdminAuth(secret, jwtManager),
		ContactLimit: contactLimiter.Middleware,
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))
	routes.Mount(r)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
}
