package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/sync/errgroup"

	"shopfront/internal/config"
	"shopfront/internal/events"
	"shopfront/internal/http/handlers"
	applog "shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	store := repos.NewStore(repos.Options{Dir: cfg.DataDir, Seed: cfg.SeedData})
	if err := store.Init(); err != nil {
		log.Fatal(err)
	}
	db, err := repos.OpenSessionDB(cfg.SessionDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker := events.NewBroker(32)
	var extra []events.Publisher
	if cfg.OrderEventsQueueURL != "" {
		sqsPub, err := events.NewSQSPublisherFromEnv(ctx, cfg.AWSRegion, cfg.OrderEventsQueueURL)
		if err != nil {
			log.Fatal(err)
		}
		extra = append(extra, sqsPub)
		log.Printf("[events] order-created -> %s", cfg.OrderEventsQueueURL)
	}
	deps := handlers.NewDeps(store, repos.NewSessionRepo(db), cfg, broker, extra...)
	deps.EventsHandler.Done = ctx.Done()

	app := fiber.New(fiber.Config{
		Views:        web.Views(),
		ErrorHandler: handlers.ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(applog.Timer())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.Session(deps.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			// SSE streams are long-lived; one request per subscription.
			return c.Path() == "/api/admin/events" || c.Path() == "/healthz"
		},
	}))

	deps.Mount(app, handlers.Limits{})

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[server] listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Printf("[server] shutting down")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
