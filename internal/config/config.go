package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ErrConfiguration is returned when the process cannot start with the
// environment it was given.
var ErrConfiguration = errors.New("invalid configuration")

type Server struct {
	Host           string `envconfig:"HOST" default:"0.0.0.0"`
	Port           string `envconfig:"PORT" default:"8000"`
	GrpcPort       string `envconfig:"GRPC_PORT" default:"8081"`
	ReadTimeout    int    `envconfig:"SERVER_TIMEOUT" default:"10"`
	RequestTimeout int    `envconfig:"REQUEST_TIMEOUT" default:"10"`
	GinMode        string `envconfig:"GIN_MODE" default:"release"`
}

type Breaker struct {
	Enabled      bool   `envconfig:"BREAKER_ENABLED" default:"true"`
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Log struct {
	Level            string `envconfig:"LOG_LEVEL" default:"debug"`
	LogsPath         string `envconfig:"LOGS_PATH" default:""`
	UpstreamLogsPath string `envconfig:"UPSTREAM_LOGS_PATH" default:"./log/upstream.log"`
}

// Config is built once at startup and handed to every component that needs
// it. Both providers share one Google API key.
type Config struct {
	GoogleAPIKey  string `envconfig:"GOOGLE_API_KEY" required:"true"`
	GeocodeAPIURL string `envconfig:"GEOCODE_API_URL" default:"https://maps.googleapis.com/maps/api/geocode/json"`
	WeatherAPIURL string `envconfig:"WEATHER_API_URL" default:"https://weather.googleapis.com/v1/currentConditions:lookup"`

	Server  Server
	Breaker Breaker
	Log     Log
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	cfg.GoogleAPIKey = strings.TrimSpace(cfg.GoogleAPIKey)
	if cfg.GoogleAPIKey == "" {
		return nil, fmt.Errorf("%w: GOOGLE_API_KEY is empty", ErrConfiguration)
	}

	return &cfg, nil
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// GrpcAddress is empty when the gRPC health server is disabled.
func (c *Config) GrpcAddress() string {
	if c.Server.GrpcPort == "" {
		return ""
	}
	return c.Server.Host + ":" + c.Server.GrpcPort
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeout) * time.Second
}
