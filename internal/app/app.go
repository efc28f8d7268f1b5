package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	_ "github.com/Nazarious-ucu/weather-lookup-api/docs"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/config"
	http2 "github.com/Nazarious-ucu/weather-lookup-api/internal/handlers/http"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/services/geocode"
	loggerT "github.com/Nazarious-ucu/weather-lookup-api/internal/services/logger"
	metricsSvc "github.com/Nazarious-ucu/weather-lookup-api/internal/services/metrics"
	serviceWeather "github.com/Nazarious-ucu/weather-lookup-api/internal/services/weather"
	fLogger "github.com/Nazarious-ucu/weather-lookup-api/pkg/logger"
)

const (
	shutdownTimeout = 5 * time.Second

	// HealthServiceName is reported by the gRPC health server next to the
	// empty overall-status entry.
	HealthServiceName = "weather.lookup"
)

// ServiceContainer holds initialized dependencies for servers.
type ServiceContainer struct {
	LookupService *serviceWeather.Service

	Router *gin.Engine
	Srv    *http.Server

	GrpcServer *grpc.Server
	Health     *health.Server

	fileLogger *zap.Logger
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
}

// New prepares a new App with given config, zerolog logger, and metrics.
func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics) *App {
	return &App{
		cfg: cfg,
		l:   logger,
		m:   met,
	}
}

// Start initializes services, serves HTTP and gRPC health until ctx is done
// or a server fails, then shuts everything down.
func (a *App) Start(ctx context.Context) error {
	srvContainer := a.Init()

	errCh := make(chan error, 2)

	go func() {
		a.l.Info().Str("address", srvContainer.Srv.Addr).Msg("HTTP server running")
		if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if srvContainer.GrpcServer != nil {
		addrGrpc := a.cfg.GrpcAddress()
		l, err := net.Listen("tcp", addrGrpc)
		if err != nil {
			a.l.Error().Err(err).Str("address", addrGrpc).Msg("failed to listen on gRPC port")
			errCh <- fmt.Errorf("grpc listen: %w", err)
		} else {
			go func() {
				a.l.Info().Str("address", addrGrpc).Msg("gRPC health server running")
				if serveErr := srvContainer.GrpcServer.Serve(l); serveErr != nil {
					errCh <- fmt.Errorf("grpc server: %w", serveErr)
				}
			}()
			srvContainer.Health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
			srvContainer.Health.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_SERVING)
		}
	}

	a.l.Info().
		Str("http_address", a.cfg.ServerAddress()).
		Str("grpc_address", a.cfg.GrpcAddress()).
		Msg("weather lookup service started")

	var runErr error
	select {
	case <-ctx.Done():
		a.l.Info().Msg("shutdown signal received, stopping weather lookup service")
	case runErr = <-errCh:
		a.l.Error().Err(runErr).Msg("server failed")
	}

	if err := a.Shutdown(srvContainer); err != nil {
		a.l.Error().Err(err).Msg("failed to shutdown application")
		return errors.Join(runErr, err)
	}
	a.l.Info().Msg("application shutdown successfully")
	return runErr
}

// Shutdown stops both servers and syncs the upstream traffic logger.
func (a *App) Shutdown(srvContainer ServiceContainer) error {
	a.l.Info().Msg("stopping weather lookup service…")

	defer func(logger *zap.Logger) {
		if err := logger.Sync(); err != nil {
			a.l.Error().Err(err).Msg("failed to sync file logger")
		} else {
			a.l.Info().Msg("file logger synced successfully")
		}
	}(srvContainer.fileLogger)

	if srvContainer.Health != nil {
		srvContainer.Health.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		shutdownErr = fmt.Errorf("http shutdown: %w", err)
	} else {
		a.l.Info().Msg("HTTP server stopped")
	}

	if srvContainer.GrpcServer != nil {
		a.l.Info().Msg("shutting down gRPC server")
		srvContainer.GrpcServer.GracefulStop()
	}

	a.l.Info().Msg("shutdown complete")
	return shutdownErr
}

// Init wires adapters, the lookup service, routes and servers without
// starting them.
func (a *App) Init() ServiceContainer {
	a.l.Info().
		Str("geocode_api_url", a.cfg.GeocodeAPIURL).
		Str("weather_api_url", a.cfg.WeatherAPIURL).
		Bool("breaker_enabled", a.cfg.Breaker.Enabled).
		Dur("request_timeout", a.cfg.RequestTimeout()).
		Msg("initializing weather lookup service")

	fileLogger, err := fLogger.NewFileLogger(a.cfg.Log.UpstreamLogsPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create file logger, upstream traffic will not be logged")
		fileLogger = zap.NewNop()
	}

	// HTTP client logging
	roundTripper := loggerT.NewRoundTripper(fileLogger)
	httpLogClient := &http.Client{Transport: roundTripper}

	var geocoder serviceWeather.Geocoder = geocode.NewGoogleClient(
		a.cfg.GoogleAPIKey,
		a.cfg.GeocodeAPIURL,
		httpLogClient,
		a.l.With().Str("component", "geocode").Logger(),
	)
	var conditions serviceWeather.ConditionsProvider = serviceWeather.NewGoogleClient(
		a.cfg.GoogleAPIKey,
		a.cfg.WeatherAPIURL,
		httpLogClient,
		a.l.With().Str("component", "weather").Logger(),
	)

	if a.cfg.Breaker.Enabled {
		breakerCfg := serviceWeather.BreakerConfig{
			TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
			TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
			RepeatNumber: a.cfg.Breaker.RepeatNumber,
		}
		geocoder = serviceWeather.NewBreakerGeocoder("GoogleGeocoding", breakerCfg, geocoder)
		conditions = serviceWeather.NewBreakerConditions("GoogleWeather", breakerCfg, conditions)
	}

	lookupService := serviceWeather.NewService(a.l, geocoder, conditions)

	// Setup Gin router
	gin.SetMode(a.cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), a.m.HTTPMiddleware())

	weatherHandler := http2.NewHandler(lookupService, a.l, a.cfg.RequestTimeout())
	router.GET("/weather", a.m.LookupMiddleware(), weatherHandler.GetWeather)
	router.GET("/metrics", gin.WrapH(a.m.Handler()))
	router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))

	httpServer := &http.Server{
		Addr:              a.cfg.ServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: a.cfg.ReadTimeout(),
		ReadTimeout:       a.cfg.ReadTimeout(),
	}

	srvContainer := ServiceContainer{
		LookupService: lookupService,
		Router:        router,
		Srv:           httpServer,
		fileLogger:    fileLogger,
	}

	if a.cfg.GrpcAddress() != "" {
		grpcServer := grpc.NewServer(
			grpc.UnaryInterceptor(a.m.UnaryInterceptor()),
			grpc.StreamInterceptor(a.m.StreamInterceptor()),
		)
		healthServer := health.NewServer()
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
		healthpb.RegisterHealthServer(grpcServer, healthServer)
		a.m.GRPCServer.InitializeMetrics(grpcServer)

		srvContainer.GrpcServer = grpcServer
		srvContainer.Health = healthServer
	}

	return srvContainer
}
