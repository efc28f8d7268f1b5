package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/app"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/config"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/services/metrics"
	"github.com/Nazarious-ucu/weather-lookup-api/pkg/logger"
)

const serviceName = "weather_lookup"

// @title Outdoorec Weather Service
// @version 1.0
// @description Current weather conditions for a ZIP code, city or landmark
// @host localhost:8000
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	l := logger.NewLogger(cfg.Log.LogsPath, serviceName, cfg.Log.Level)

	application := app.New(*cfg, l, metrics.NewMetrics(serviceName))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		l.Error().Err(err).Msg("application failed to run")
		stop()
		os.Exit(1)
	}
}
