package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"backoffice/cmd"
	"backoffice/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	configs := getConfigs()

	gormDB, err := postgres.Open(configs.ConnectionSettings())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if app.HasDefaultRestaurant() {
		jobManager := app.CreateJobManager()
		if err = jobManager.StartAll(); err != nil {
			log.Fatalf("Failed to start jobs: %v", err)
		}
		defer jobManager.StopAll()
	} else {
		logger.Warn("RESTAURANT_ID is not set, rating recompute job disabled")
	}

	if configs.AMQPURL != "" {
		consumer := app.CreateReviewConsumer()
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("review consumer stopped", "error", err)
			}
		}()
	} else {
		logger.Warn("AMQP_URL is not set, review event consumer disabled")
	}

	startWebServer(ctx, app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load(".env")

	recentLimit, err := strconv.Atoi(envOr("RECENT_ORDERS_LIMIT", "0"))
	if err != nil {
		log.Fatalf("Invalid RECENT_ORDERS_LIMIT: %v", err)
	}

	return cmd.Config{
		HTTPPort:                envOr("HTTP_PORT", "8080"),
		DBHost:                  os.Getenv("DB_HOST"),
		DBPort:                  envOr("DB_PORT", "5432"),
		DBUser:                  os.Getenv("DB_USER"),
		DBPassword:              os.Getenv("DB_PASSWORD"),
		DBName:                  os.Getenv("DB_NAME"),
		DBSslMode:               os.Getenv("DB_SSLMODE"),
		DBSchema:                os.Getenv("DB_SCHEMA"),
		RestaurantID:            os.Getenv("RESTAURANT_ID"),
		BusinessTimezone:        os.Getenv("BUSINESS_TIMEZONE"),
		RatingRecomputeSchedule: os.Getenv("RATING_RECOMPUTE_SCHEDULE"),
		RecentOrdersLimit:       recentLimit,
		AMQPURL:                 os.Getenv("AMQP_URL"),
		AMQPExchange:            envOr("AMQP_EXCHANGE", "reviews"),
		AMQPReviewQueue:         envOr("AMQP_REVIEW_QUEUE", "backoffice.item-ratings"),
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func startWebServer(ctx context.Context, app cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	app.CreateHTTPServer().Register(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
