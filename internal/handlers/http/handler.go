package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/models"
)

const (
	geocodeFailedPrefix  = "Could not geocode location: "
	weatherFailedPrefix  = "Error retrieving weather data: "
	upstreamDownPrefix   = "Error contacting upstream provider: "
	missingLocationError = "location query parameter is required"
)

type forecastResolver interface {
	Resolve(ctx context.Context, location string) (models.Forecast, error)
}

type Handler struct {
	service forecastResolver
	logger  zerolog.Logger
	timeout time.Duration
}

func NewHandler(svc forecastResolver, logger zerolog.Logger, timeout time.Duration) *Handler {
	return &Handler{service: svc, logger: logger, timeout: timeout}
}

// GetWeather
// @Summary Get current weather
// @Description Resolves a ZIP code, city or landmark and returns its current conditions
// @Tags weather
// @Produce json
// @Param location query string true "ZIP code, city, or landmark"
// @Success 200 {object} models.Forecast
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	location := c.Query("location")
	if strings.TrimSpace(location) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: missingLocationError})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	forecast, err := h.service.Resolve(ctx, location)
	if err != nil {
		status, detail := h.classify(location, err)
		h.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("location", location).
			Int("status", status).
			Msg("weather lookup failed")
		c.JSON(status, models.ErrorResponse{Detail: detail})
		return
	}

	c.JSON(http.StatusOK, forecast)
}

func (h *Handler) classify(location string, err error) (int, string) {
	var notFound *models.LocationNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusBadRequest, geocodeFailedPrefix + location
	}

	var upstream *models.UpstreamWeatherError
	if errors.As(err, &upstream) {
		return http.StatusInternalServerError, weatherFailedPrefix + upstream.Body
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, upstreamDownPrefix + err.Error()
	}

	if errors.Is(err, models.ErrUpstreamUnavailable) {
		return http.StatusBadGateway, upstreamDownPrefix + err.Error()
	}

	return http.StatusInternalServerError, err.Error()
}
