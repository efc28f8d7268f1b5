package weather

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/models"
)

type Geocoder interface {
	Geocode(ctx context.Context, location string) (models.Coordinates, error)
}

type ConditionsProvider interface {
	CurrentConditions(ctx context.Context, coords models.Coordinates) (models.Forecast, error)
}

// Service chains the geocoding and weather lookups.
type Service struct {
	logger     zerolog.Logger
	geocoder   Geocoder
	conditions ConditionsProvider
}

func NewService(logger zerolog.Logger, g Geocoder, c ConditionsProvider) *Service {
	return &Service{logger: logger, geocoder: g, conditions: c}
}

// Resolve geocodes location and returns the current conditions there.
// Errors from either step are returned as is; the weather step never runs
// when geocoding fails.
func (s *Service) Resolve(ctx context.Context, location string) (models.Forecast, error) {
	s.logger.Debug().
		Ctx(ctx).
		Str("location", location).
		Msg("resolving location")

	coords, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		s.logger.Debug().
			Ctx(ctx).
			Str("location", location).
			Err(err).
			Msg("geocode step failed")
		return models.Forecast{}, err
	}

	forecast, err := s.conditions.CurrentConditions(ctx, coords)
	if err != nil {
		s.logger.Debug().
			Ctx(ctx).
			Str("location", location).
			Float64("lat", coords.Latitude).
			Float64("lng", coords.Longitude).
			Err(err).
			Msg("weather step failed")
		return models.Forecast{}, err
	}

	return forecast, nil
}
