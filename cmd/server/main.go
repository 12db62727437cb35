package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-pnr-terminal/internal/config"
	"github.com/iliyamo/airline-pnr-terminal/internal/database"
	"github.com/iliyamo/airline-pnr-terminal/internal/handler"
	"github.com/iliyamo/airline-pnr-terminal/internal/queue"
	"github.com/iliyamo/airline-pnr-terminal/internal/repository"
	"github.com/iliyamo/airline-pnr-terminal/internal/router"
	"github.com/iliyamo/airline-pnr-terminal/internal/service"
	"github.com/iliyamo/airline-pnr-terminal/internal/session"
	"github.com/iliyamo/airline-pnr-terminal/internal/terminal"
	"github.com/iliyamo/airline-pnr-terminal/internal/utils"
	"github.com/iliyamo/airline-pnr-terminal/pkg/logger"
	"github.com/iliyamo/airline-pnr-terminal/pkg/metrics"
)

// sessionSweepInterval is how often idle sessions are evicted.
const sessionSweepInterval = 5 * time.Minute

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	log := logger.NewLogger()
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("open database", "error", err.Error())
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("migrate", "error", err.Error())
	}
	if err := database.Seed(ctx, db, time.Now()); err != nil {
		log.Fatal("seed", "error", err.Error())
	}

	sessions := session.NewStore(time.Now)
	go func() {
		for range time.Tick(sessionSweepInterval) {
			if n := sessions.EvictIdle(cfg.SessionIdleTimeout); n > 0 {
				log.Info("idle sessions evicted", "count", n)
			}
		}
	}()

	var events terminal.EventPublisher
	if cfg.AMQPURL != "" {
		events = service.NewQueuePublisher(cfg.AMQPURL, cfg.AMQPQueue, log)
		go func() {
			if err := queue.StartCommittedConsumer(cfg.AMQPURL, cfg.AMQPQueue); err != nil {
				log.Error("pnr consumer stopped", "error", err.Error())
			}
		}()
	}

	// Separate generators: locator and fault paths lock independently.
	locatorRNG := rand.New(rand.NewSource(time.Now().UnixNano()))
	faultRNG := rand.New(rand.NewSource(time.Now().UnixNano() + 1))
	term := terminal.New(terminal.Config{
		Flights:    repository.NewFlightRepo(db),
		Inventory:  repository.NewFareClassRepo(db),
		PNRs:       repository.NewPNRRepo(db, cfg.AgentSign),
		Passengers: repository.NewPassengerRepo(db),
		Segments:   repository.NewSegmentRepo(db),
		Phones:     repository.NewPhoneRepo(db),
		History:    repository.NewHistoryRepo(db, cfg.AgentSign),
		Locators:   utils.NewLocatorGenerator(locatorRNG),
		Faults:     terminal.NewFaultInjector(cfg.FaultProbability, faultRNG),
		Events:     events,
		Log:        log,
		Metrics:    metrics.NewMetrics("gds_terminal"),
		StaleAfter: cfg.StaleTimeout,
		AgentSign:  cfg.AgentSign,
	})

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterTerminal(e,
		handler.NewTerminalHandler(term, sessions, cfg.JWTSecret, log),
		cfg.JWTSecret,
		config.LoadRateLimitConfig(),
		config.NewRedisClient(),
	)

	addr := ":" + cfg.Port
	log.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", "error", err.Error())
	}
}
