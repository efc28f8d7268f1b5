package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/models"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

func newCircuitBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		IsSuccessful: isProviderHealthy,
	})
}

// isProviderHealthy reports whether err says nothing bad about the provider.
// Answers the provider produced itself, not-found or an HTTP error status,
// belong to one request and never trip the breaker.
func isProviderHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var notFound *models.LocationNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	var upstream *models.UpstreamWeatherError
	return errors.As(err, &upstream)
}

func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T

	result, err := cb.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w: %w", cb.Name(), models.ErrUpstreamUnavailable, err)
		}
		return zero, err
	}

	res, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%s returned unexpected result", cb.Name())
	}
	return res, nil
}

// BreakerGeocoder guards a geocoder with a circuit breaker.
type BreakerGeocoder struct {
	cb      *gobreaker.CircuitBreaker
	wrapped Geocoder
}

func NewBreakerGeocoder(name string, cfg BreakerConfig, wrapped Geocoder) *BreakerGeocoder {
	return &BreakerGeocoder{cb: newCircuitBreaker(name, cfg), wrapped: wrapped}
}

func (b *BreakerGeocoder) Geocode(ctx context.Context, location string) (models.Coordinates, error) {
	return execute(b.cb, func() (models.Coordinates, error) {
		return b.wrapped.Geocode(ctx, location)
	})
}

// BreakerConditions guards a conditions provider with a circuit breaker.
type BreakerConditions struct {
	cb      *gobreaker.CircuitBreaker
	wrapped ConditionsProvider
}

func NewBreakerConditions(name string, cfg BreakerConfig, wrapped ConditionsProvider) *BreakerConditions {
	return &BreakerConditions{cb: newCircuitBreaker(name, cfg), wrapped: wrapped}
}

func (b *BreakerConditions) CurrentConditions(
	ctx context.Context,
	coords models.Coordinates,
) (models.Forecast, error) {
	return execute(b.cb, func() (models.Forecast, error) {
		return b.wrapped.CurrentConditions(ctx, coords)
	})
}
