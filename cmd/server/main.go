package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/allocation"
	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/database"
	"github.com/iliyamo/train-seat-reservation/internal/handler"
	"github.com/iliyamo/train-seat-reservation/internal/logger"
	"github.com/iliyamo/train-seat-reservation/internal/metrics"
	appmw "github.com/iliyamo/train-seat-reservation/internal/middleware"
	"github.com/iliyamo/train-seat-reservation/internal/queue"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/router"
)

func main() {
	cfg := config.Load()
	slg := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx, cfg.Layout); err != nil {
		log.Fatalf("seat store init failed: %v", err)
	}

	engine := allocation.NewEngine(store, cfg.Layout, slg)
	m := metrics.New()
	if n, err := store.CountAvailable(ctx); err == nil {
		m.SetFreeSeats(n)
	}

	// Redis is optional: with no client, caching and rate limiting are off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		slg.Warn("redis unavailable, caching and rate limiting disabled")
	}
	cacheMW := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	b := handler.NewBookingHandler(engine, store, m, slg)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, b, m, cacheMW, rateMW)

	// Background consumer mirrors bookings into logs/booking.log.
	go queue.StartBookingConsumer()

	addr := ":" + cfg.Port
	slg.Info("listening", "addr", addr, "env", cfg.Env,
		"seats", cfg.Layout.SeatCount, "row_width", cfg.Layout.RowWidth)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
