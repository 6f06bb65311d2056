package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gameshelf/internal/config"
	"gameshelf/internal/events"
	"gameshelf/internal/handler"
	"gameshelf/internal/middleware"
	"gameshelf/internal/pkg/i18n"
	applog "gameshelf/internal/pkg/logger"
	"gameshelf/internal/repository"
	"gameshelf/internal/service"
	"gameshelf/internal/service/dispatch"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := applog.Init(cfg.Environment, cfg.LogLevel)
	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}

	if cfg.JWTSecret == "" {
		fatal(log, "JWT_SECRET is required", nil)
	}

	if err := i18n.Load(); err != nil {
		fatal(log, "failed to load translations", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		fatal(log, "failed to connect to database", err)
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Warn("failed to connect to Redis, unread counts will not be cached", slog.Any("error", err))
	}
	if redis != nil {
		defer redis.Close()
	}

	fcm, err := config.NewFirebaseMessaging(ctx, cfg)
	if err != nil {
		log.Warn("failed to initialise Firebase, push delivery will be logged only", slog.Any("error", err))
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, fcm, cfg, log)
	handlers := handler.NewHandlers(services)

	nc, err := config.NewNATSConn(cfg)
	if err != nil {
		fatal(log, "failed to connect to NATS", err)
	}
	var subscriber *events.Subscriber
	if nc != nil {
		defer nc.Close()
		subscriber = events.NewSubscriber(nc, cfg.NATSSubject, services.Notification, log)
		if err := subscriber.Start(); err != nil {
			fatal(log, "failed to start event subscriber", err)
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Queue, cfg)

	go func() {
		log.Info("server starting", slog.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("http shutdown failed", slog.Any("error", err))
	}
	if subscriber != nil {
		if err := subscriber.Stop(); err != nil {
			log.Error("event subscriber drain failed", slog.Any("error", err))
		}
	}
	if err := services.Queue.Wait(shutdownCtx); err != nil {
		log.Warn("dispatch queue not drained, pending jobs dropped", slog.Int("pending", services.Queue.Depth()))
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, queue *dispatch.Queue, cfg *config.Config) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":           "ok",
			"dispatch_queue":   queue.Depth(),
			"dispatch_running": queue.Running(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1", middleware.AuthRequired(cfg.JWTSecret))
	handler.RegisterRoutes(v1, h)
}

func fatal(log *slog.Logger, msg string, err error) {
	if err != nil {
		log.Error(msg, slog.Any("error", err))
	} else {
		log.Error(msg)
	}
	os.Exit(1)
}
