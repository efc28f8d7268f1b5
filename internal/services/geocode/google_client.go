package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/models"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// GoogleClient resolves free-form locations through the Google Geocoding API.
type GoogleClient struct {
	apiKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

func NewGoogleClient(apiKey, apiURL string, httpClient HTTPClient, logger zerolog.Logger) *GoogleClient {
	return &GoogleClient{apiKey: apiKey, apiURL: apiURL, client: httpClient, logger: logger}
}

// Geocode returns the coordinates of the first result for location.
func (c *GoogleClient) Geocode(ctx context.Context, location string) (models.Coordinates, error) {
	endpoint, err := c.buildURL(location)
	if err != nil {
		return models.Coordinates{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Coordinates{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		err = models.WithoutURL(err)
		c.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("location", location).
			Msg("error sending geocode request")
		return models.Coordinates{}, fmt.Errorf("%w: geocode request: %w", models.ErrUpstreamUnavailable, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error().
				Err(cerr).
				Str("location", location).
				Msg("failed to close response body")
		}
	}()

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.logger.Error().
			Ctx(ctx).
			Err(err).
			Int("status_code", resp.StatusCode).
			Str("location", location).
			Msg("failed to decode geocode response")
		return models.Coordinates{}, fmt.Errorf("%w: decode geocode response: %w", models.ErrUpstreamUnavailable, err)
	}

	if raw.Status != statusOK || len(raw.Results) == 0 {
		c.logger.Warn().
			Ctx(ctx).
			Str("location", location).
			Str("status", raw.Status).
			Str("provider_message", raw.ErrorMessage).
			Int("results", len(raw.Results)).
			Msg("location could not be geocoded")
		return models.Coordinates{}, &models.LocationNotFoundError{Query: location, Status: raw.Status}
	}

	first := raw.Results[0]
	lat, lng, ok := first.coordinates()
	if !ok {
		c.logger.Error().
			Ctx(ctx).
			Str("location", location).
			Str("formatted_address", first.FormattedAddress).
			Msg("geocode result has no geometry.location")
		return models.Coordinates{}, fmt.Errorf("%w: geocode result for %q has no location", models.ErrUpstreamUnavailable, location)
	}

	c.logger.Debug().
		Ctx(ctx).
		Str("location", location).
		Str("formatted_address", first.FormattedAddress).
		Float64("lat", lat).
		Float64("lng", lng).
		Msg("location geocoded")

	return models.Coordinates{Latitude: lat, Longitude: lng}, nil
}

func (c *GoogleClient) buildURL(location string) (string, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("parse geocode url: %w", err)
	}

	q := u.Query()
	q.Set("address", location)
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
