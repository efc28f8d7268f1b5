package models

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrUpstreamUnavailable marks failures to talk to a provider at all:
// transport errors, unreadable payloads or an open circuit.
var ErrUpstreamUnavailable = errors.New("upstream provider unavailable")

// LocationNotFoundError is returned when the geocoding provider has no
// usable result for the query.
type LocationNotFoundError struct {
	Query  string
	Status string
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("could not geocode location %q: status %s", e.Query, e.Status)
}

// UpstreamWeatherError is returned when the weather provider answers with a
// non-200 status. Body holds the raw response for diagnostics.
type UpstreamWeatherError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamWeatherError) Error() string {
	return fmt.Sprintf("weather API error: status %d: %s", e.StatusCode, e.Body)
}

// WithoutURL drops the request URL, which carries the API key, from
// transport errors returned by net/http.
func WithoutURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
