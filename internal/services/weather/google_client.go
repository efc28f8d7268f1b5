package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/models"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// GoogleClient fetches current conditions from the Google Weather API.
type GoogleClient struct {
	apiKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

func NewGoogleClient(apiKey, apiURL string, httpClient HTTPClient, logger zerolog.Logger) *GoogleClient {
	return &GoogleClient{apiKey: apiKey, apiURL: apiURL, client: httpClient, logger: logger}
}

// CurrentConditions retrieves and normalizes the conditions at coords.
func (c *GoogleClient) CurrentConditions(ctx context.Context, coords models.Coordinates) (models.Forecast, error) {
	start := time.Now()

	endpoint, err := c.buildURL(coords)
	if err != nil {
		return models.Forecast{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Forecast{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		err = models.WithoutURL(err)
		c.logger.Error().
			Ctx(ctx).
			Err(err).
			Float64("lat", coords.Latitude).
			Float64("lng", coords.Longitude).
			Msg("error sending HTTP request to weather API")
		return models.Forecast{}, fmt.Errorf("%w: weather request: %w", models.ErrUpstreamUnavailable, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error().
				Err(cerr).
				Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, rerr := io.ReadAll(resp.Body)
		if rerr != nil {
			c.logger.Error().Ctx(ctx).Err(rerr).Msg("failed to read weather error body")
		}
		c.logger.Error().
			Ctx(ctx).
			Int("status_code", resp.StatusCode).
			Str("body", string(body)).
			Msg("weather API returned non-200 status")
		return models.Forecast{}, &models.UpstreamWeatherError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var raw conditionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.logger.Error().
			Ctx(ctx).
			Err(err).
			Msg("failed to decode weather response")
		return models.Forecast{}, fmt.Errorf("%w: decode weather response: %w", models.ErrUpstreamUnavailable, err)
	}

	forecast := normalize(coords, raw)

	c.logger.Info().
		Ctx(ctx).
		Float64("lat", coords.Latitude).
		Float64("lng", coords.Longitude).
		Str("condition", forecast.Condition).
		Dur("duration_ms", time.Since(start)).
		Msg("successfully fetched weather data")

	return forecast, nil
}

func normalize(coords models.Coordinates, raw conditionsResponse) models.Forecast {
	return models.Forecast{
		Location: models.Location{
			Lat: coords.Latitude,
			Lon: coords.Longitude,
		},
		Condition:       raw.WeatherCondition.text(),
		TemperatureF:    fahrenheit(raw.Temperature.degrees()),
		FeelsLikeF:      fahrenheit(raw.FeelsLikeTemperature.degrees()),
		HumidityPercent: raw.RelativeHumidity,
		Wind: models.Wind{
			SpeedKph:  raw.Wind.speed(),
			Direction: raw.Wind.cardinal(),
		},
	}
}

func (c *GoogleClient) buildURL(coords models.Coordinates) (string, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("parse weather url: %w", err)
	}

	q := u.Query()
	q.Set("key", c.apiKey)
	q.Set("location.latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("location.longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	u.RawQuery = q.Encode()

	return u.String(), nil
}
