package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/devkoalaa/cs2-smokes-hub-api/internal/config"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/database"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/handler"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/httperr"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/middleware"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/queue"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/repository"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/router"
	"github.com/devkoalaa/cs2-smokes-hub-api/internal/steam"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.SeedMaps(ctx, db); err != nil {
		log.Fatalf("seed maps: %v", err)
	}

	// Redis is optional; a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	mapRepo := repository.NewMapRepo(db)
	smokeRepo := repository.NewSmokeRepo(db)
	ratingRepo := repository.NewRatingRepo(db)
	reportRepo := repository.NewReportRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	openID := steam.NewOpenID(cfg.SteamRealm, cfg.SteamReturnURL)
	steamClient := steam.NewClient(cfg.SteamAPIKey)

	authHandler := handler.NewAuthHandler(cfg, openID, steamClient, userRepo, tokenRepo)
	mapHandler := handler.NewMapHandler(mapRepo)
	smokeHandler := handler.NewSmokeHandler(smokeRepo, mapRepo)
	ratingHandler := handler.NewRatingHandler(ratingRepo)
	reportHandler := handler.NewReportHandler(reportRepo, smokeRepo)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httperr.Handler()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, userRepo)
	router.RegisterPublic(e, mapHandler, smokeHandler, cache)
	router.RegisterProtected(e, smokeHandler, ratingHandler, reportHandler, cfg.JWTSecret, userRepo)

	// Moderation trail consumer; runs its own reconnect loop.
	go func() {
		if err := queue.StartReportConsumer(); err != nil {
			log.Printf("report consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
