package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"MessAPI/internal/auth"
	"MessAPI/internal/common"
	"MessAPI/internal/config"
	"MessAPI/internal/databases"
	"MessAPI/internal/env"
	"MessAPI/internal/logging"
	"MessAPI/internal/metrics"
	"MessAPI/internal/notify"
	"MessAPI/internal/realtime"
	"MessAPI/internal/v0/announcements"
	"MessAPI/internal/v0/booking"
	"MessAPI/internal/v0/complaints"
	"MessAPI/internal/v0/feedback"
	"MessAPI/internal/v0/menu"
	"MessAPI/internal/v0/profile"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load(env.GetEnv(env.EnvConfigPath, config.DefaultPath))
	if err != nil {
		l := logging.New("info", true)
		l.Fatal().Err(err).Msg("load config")
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Console)
	if envErr != nil {
		logger.Debug().Msg("no .env file found, using system environment variables")
	}

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Mess database
	db, err := databases.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("open database")
	}
	defer db.Close()
	if err := databases.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migrate database")
	}

	// Redis is optional. Without it the menu is uncached and realtime stays in-process.
	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Address).Msg("redis unavailable, continuing without it")
			rdb = nil
		}
	}

	hub := realtime.NewHub(&logger)
	if rdb != nil {
		hub.UseRedis(rdb, cfg.Redis.RealtimeChannel)
	}
	if err := hub.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("start realtime hub")
	}
	defer hub.Stop()

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
	}

	// Initialize auth components
	authRepo := auth.NewRepository(db)
	oauthConfig := auth.NewOAuthConfig(
		auth.ProviderConfig{
			ClientID:     cfg.Auth.Google.ClientID,
			ClientSecret: cfg.Auth.Google.ClientSecret,
		},
		auth.ProviderConfig{
			ClientID:     cfg.Auth.GitHub.ClientID,
			ClientSecret: cfg.Auth.GitHub.ClientSecret,
		},
		cfg.Auth.CallbackBaseURL,
	)
	stateStore := auth.NewOAuthStateStore(authRepo)
	sessionStore := auth.NewSessionStore(authRepo, cfg.SessionDuration(), cfg.Auth.SecureCookies)
	limiter := auth.NewRateLimiter(cfg.RateLimit())

	janitor := auth.NewJanitor(sessionStore, stateStore, limiter, &logger)
	janitor.Start(ctx)

	authHandler := auth.NewHandler(authRepo, oauthConfig, stateStore, sessionStore, &logger)
	adminHandler := auth.NewAdminHandler(authRepo, sessionStore)
	authMiddleware := auth.NewMiddleware(sessionStore, limiter)

	// Initialize booking components
	loc := cfg.Location()
	bookingRepo := booking.NewRepository(db, cfg.Booking.EnforceUnique)
	viewOpts := booking.ViewOptions{Location: loc, Publisher: hub, Logger: &logger}
	views := booking.NewViewStore(cfg.ViewIdleTimeout(), booking.HubViews(bookingRepo, hub, viewOpts))
	go views.Run(ctx, time.Minute)
	sessionStore.OnSignOut(views.Drop)
	bookingHandler := booking.NewHandler(bookingRepo, views, viewOpts)

	// Initialize menu components
	menuService := menu.NewService(menu.NewRepository(db), hub, loc, &logger)
	if rdb != nil {
		menuService.UseRedisCache(rdb, cfg.MenuCacheTTL())
	}
	menuHandler := menu.NewHandler(menuService, &logger)

	announcementHandler := announcements.NewHandler(
		announcements.NewService(announcements.NewRepository(db), hub, &logger))
	complaintHandler := complaints.NewHandler(
		complaints.NewService(complaints.NewRepository(db), hub, &logger))
	feedbackHandler := feedback.NewHandler(
		feedback.NewService(feedback.NewRepository(db), hub, &logger))
	profileHandler := profile.NewHandler(profile.NewRepository(db), &logger)

	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		startTelegram(ctx, cfg, hub, &logger)
	}

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware(&logger))
	if cfg.Monitoring.PrometheusEnabled {
		router.Use(metrics.Middleware())
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Global routes
	global := router.Group("/api")
	common.RegisterRoutes(router, global, common.NewHealth(db, rdb))

	// v0 API routes
	v0Group := router.Group("/api/v0")
	{
		auth.RegisterRoutes(v0Group, authHandler, adminHandler, authMiddleware)
		booking.RegisterRoutes(v0Group, bookingHandler, authMiddleware)
		menu.RegisterRoutes(v0Group, menuHandler, authMiddleware)
		announcements.RegisterRoutes(v0Group, announcementHandler, authMiddleware)
		complaints.RegisterRoutes(v0Group, complaintHandler, authMiddleware)
		feedback.RegisterRoutes(v0Group, feedbackHandler, authMiddleware)
		profile.RegisterRoutes(v0Group, profileHandler, authMiddleware)
		realtime.RegisterRoutes(v0Group, realtime.NewHandler(hub), authMiddleware)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("mess api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	janitor.Stop()
}

// startTelegram forwards new announcements to the configured chat.
func startTelegram(ctx context.Context, cfg *config.Config, hub *realtime.Hub, logger *zerolog.Logger) {
	bot, err := notify.NewBot(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram bot unavailable, announcements will not be forwarded")
		return
	}
	logger.Info().Str("bot", bot.Self.UserName).Int64("chat", cfg.Telegram.ChatID).Msg("forwarding announcements to telegram")

	sub := hub.Subscribe(notify.AnnouncementFilter(), 0)
	go func() {
		defer sub.Close()
		notify.NewTelegram(bot, cfg.Telegram.ChatID, logger).Run(ctx, sub)
	}()
}


/*
This project is the backend API for the hostel mess. Meal slot bookings, weekly menus, announcements, complaints and feedback for residents and the mess office.
MessAPI Copyright (C) 2025 MessAPI contributors
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
