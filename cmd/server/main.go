package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/salimi-my/campus-parking-spot-booking/internal/config"
	"github.com/salimi-my/campus-parking-spot-booking/internal/handler"
	"github.com/salimi-my/campus-parking-spot-booking/internal/pipeline"
	"github.com/salimi-my/campus-parking-spot-booking/internal/queue"
	"github.com/salimi-my/campus-parking-spot-booking/internal/repository"
	"github.com/salimi-my/campus-parking-spot-booking/internal/router"
	queue_publisher "github.com/salimi-my/campus-parking-spot-booking/internal/service"
	"github.com/salimi-my/campus-parking-spot-booking/internal/telemetry"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	bus := telemetry.NewBus(cfg.TelemetryBuffer)
	drainCtx, stopDrain := context.WithCancel(context.Background())
	defer stopDrain()
	go bus.DrainToLog(drainCtx)

	var publish pipeline.SettledPublisher
	if cfg.EventsEnabled {
		publish = queue_publisher.PublishBookingSettled
	}
	coord := pipeline.NewCoordinator(pipeline.Config{
		ZoneCapacities: cfg.Zones,
		QueueCapacity:  cfg.QueueCapacity,
		Latencies:      cfg.Latencies,
		RecordPath:     cfg.RecordPath,
		CurrencyPrefix: cfg.CurrencyPrefix,
		PollInterval:   cfg.PollInterval,
		Calculator:     cfg.Calculator(),
		PublishSettled: publish,
	}, bus)
	if err := coord.Start(context.Background()); err != nil {
		log.Fatalf("start pipeline: %v", err)
	}

	if cfg.ConsumerEnabled {
		go func() {
			if err := queue.StartSettledConsumer(); err != nil {
				log.Printf("settled consumer stopped: %v", err)
			}
		}()
	}

	bookings := repository.NewBookingRepo()
	h := handler.NewBookingHandler(coord, bookings)

	e := echo.New()
	e.HideBanner = true
	rdb := config.NewRedisClient() // nil is fine; middleware degrades
	router.RegisterRoutes(e, h, rdb)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	// Block until asked to stop, then drain in order: no new intake,
	// then the pipeline with its per-stage timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := coord.Shutdown(cfg.ShutdownTimeout); err != nil {
		log.Printf("pipeline shutdown: %v", err)
	}
	if n := bus.Dropped(); n > 0 {
		log.Printf("telemetry: %d lines dropped", n)
	}
}
