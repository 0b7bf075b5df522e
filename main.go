package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"color-engine/catalog"
	"color-engine/config"
	"color-engine/controller"
	"color-engine/repository"
	"color-engine/router"
	"color-engine/service"
	"color-engine/utils"
	"color-engine/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newLogger(cfg config.AppConfig) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Development() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func main() {
	cfg, dotenv := config.FromEnv()
	logger := newLogger(cfg)
	defer logger.Sync()
	if !dotenv {
		logger.Info("no .env file found, reading environment variables directly")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		logger.Warn("game settings unreadable, using defaults", zap.String("path", cfg.SettingsPath), zap.Error(err))
	}
	settings.ApplyEnv()
	if problems := settings.Validate(); len(problems) > 0 {
		logger.Warn("invalid game settings, applying defaults", zap.String("problems", strings.Join(problems, "; ")))
		settings.ApplyDefaults()
	}
	logger.Info("game settings", zap.Stringer("settings", settings))

	cards, err := catalog.LoadFile(cfg.CardsPath, logger)
	if err != nil {
		logger.Error("card catalog unreadable, using fallback card", zap.String("path", cfg.CardsPath), zap.Error(err))
	}
	logger.Info("card catalog loaded", zap.Int("cards", len(cards)))

	opts := service.Options{Logger: logger}
	if cfg.RedisAddr != "" {
		store, err := repository.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RoomIdleTTL)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer store.Close()
		opts.Rooms = store
		logger.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Info("REDIS_ADDR not set, keeping room metadata in memory")
	}
	if cfg.MySQLDSN != "" {
		results, err := repository.NewMySQLResults(ctx, cfg.MySQLDSN)
		if err != nil {
			logger.Fatal("failed to connect to mysql", zap.Error(err))
		}
		defer results.Close()
		opts.Results = results
	}

	svc := service.NewService(settings, cards, opts)
	tokens := utils.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	hub := ws.NewHub(svc, tokens, logger)

	sched, err := svc.StartSweeper(service.SweepPolicy{
		Interval:    cfg.SweepInterval,
		IdleTTL:     cfg.RoomIdleTTL,
		FinishedTTL: cfg.FinishedRoomTTL,
	}, hub.CloseRoom)
	if err != nil {
		logger.Fatal("failed to start room sweeper", zap.Error(err))
	}
	defer sched.Shutdown()

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	router.InitRouter(r, controller.NewRoomController(svc, hub, tokens, logger), hub, tokens)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
