package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"curbside-service/internal/cache"
	"curbside-service/internal/config"
	"curbside-service/internal/db"
	handlers "curbside-service/internal/http"
	"curbside-service/internal/hydrant"
	"curbside-service/internal/opendata"
	"curbside-service/internal/repository"
	"curbside-service/internal/service"
	"curbside-service/internal/violation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	var snapshots service.SnapshotStore
	if cfg.Database.DSN != "" {
		gdb, err := db.Connect(cfg.Database.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		snapshots = repository.NewSnapshotRepository(gdb)
		log.Info().Msg("snapshot store enabled")
	} else {
		log.Warn().Msg("no database configured, running without snapshot fallback")
	}

	httpCache := cache.NewTTL()
	openData := opendata.NewClient(
		cfg.OpenData.BaseURL,
		cfg.OpenData.Timeout(),
		cfg.OpenData.CacheTTL(),
		httpCache,
		log,
	)

	catalog := violation.Init(cfg.FineCatalog.Path)
	locator := hydrant.NewLocator(openData)

	parkingService := service.NewParkingService(openData, snapshots, catalog, locator.NearestDistanceFt, log)
	handler := handlers.NewHandler(parkingService, httpCache, cfg, log)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.RequestID())
	router.Use(handlers.Metrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.Register(router, handlers.JWTAuth(cfg.Auth.JWTSecret))

	scheduler := cron.New()
	if snapshots != nil {
		_, err := scheduler.AddFunc(cfg.Snapshots.PruneSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := parkingService.PruneSnapshots(ctx, cfg.Snapshots.RetentionDays); err != nil {
				log.Error().Err(err).Msg("scheduled snapshot prune failed")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Snapshots.PruneSchedule).Msg("invalid prune schedule")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("curbside service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
