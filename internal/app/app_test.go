package app_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/app"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/config"
	"github.com/Nazarious-ucu/weather-lookup-api/internal/services/metrics"
)

const (
	testAPIKey = "secret-key-google"

	geocodeFixture = `{
		"status": "OK",
		"results": [{"formatted_address": "Boulder, CO 80301, USA",
			"geometry": {"location": {"lat": 40.0, "lng": -105.0}}}]
	}`

	weatherFixture = `{
		"weatherCondition": {"description": {"text": "Clear"}},
		"temperature": {"degrees": 20},
		"relativeHumidity": 55,
		"wind": {"speed": {"value": 10}, "direction": {"cardinal": "N"}}
	}`
)

type fakeUpstream struct {
	srv   *httptest.Server
	calls atomic.Int32

	mu        sync.Mutex
	lastQuery url.Values
}

func newFakeUpstream(t *testing.T, handle func(w http.ResponseWriter, q url.Values)) *fakeUpstream {
	t.Helper()

	f := &fakeUpstream{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.mu.Lock()
		f.lastQuery = r.URL.Query()
		f.mu.Unlock()

		if r.URL.Query().Get("key") != testAPIKey {
			http.Error(w, `{"error":"API key not valid"}`, http.StatusForbidden)
			return
		}
		handle(w, r.URL.Query())
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) query() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

func respond(status int, body string) func(http.ResponseWriter, url.Values) {
	return func(w http.ResponseWriter, _ url.Values) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func testConfig(geocodeURL, weatherURL string) config.Config {
	return config.Config{
		GoogleAPIKey:  testAPIKey,
		GeocodeAPIURL: geocodeURL,
		WeatherAPIURL: weatherURL,
		Server: config.Server{
			Host:           "127.0.0.1",
			Port:           "0",
			RequestTimeout: 5,
			ReadTimeout:    5,
			GinMode:        gin.TestMode,
		},
		Breaker: config.Breaker{
			Enabled:      true,
			TimeInterval: 30,
			TimeTimeOut:  30,
			RepeatNumber: 5,
		},
	}
}

func newRouter(t *testing.T, geo, wx *fakeUpstream) *gin.Engine {
	t.Helper()

	cfg := testConfig(geo.srv.URL+"/maps/api/geocode/json", wx.srv.URL+"/v1/currentConditions:lookup")
	application := app.New(cfg, zerolog.Nop(), metrics.NewMetrics("weather_lookup_test"))

	return application.Init().Router
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	router.ServeHTTP(rec, req)
	return rec
}

func TestWeather_EndToEnd(t *testing.T) {
	geo := newFakeUpstream(t, respond(http.StatusOK, geocodeFixture))
	wx := newFakeUpstream(t, respond(http.StatusOK, weatherFixture))
	router := newRouter(t, geo, wx)

	rec := get(t, router, "/weather?location=80301")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"location": {"lat": 40.0, "lon": -105.0},
		"condition": "Clear",
		"temperature_F": 68.0,
		"humidity_percent": 55,
		"wind": {"speed_kph": 10, "direction": "N"}
	}`, rec.Body.String())

	assert.Equal(t, "80301", geo.query().Get("address"))
	assert.Equal(t, "40", wx.query().Get("location.latitude"))
	assert.Equal(t, "-105", wx.query().Get("location.longitude"))
	assert.Equal(t, testAPIKey, wx.query().Get("key"))
}

func TestWeather_UpstreamWeatherFailure(t *testing.T) {
	const upstreamBody = `{"error":{"code":503,"message":"The service is currently unavailable."}}`

	geo := newFakeUpstream(t, respond(http.StatusOK, geocodeFixture))
	wx := newFakeUpstream(t, respond(http.StatusServiceUnavailable, upstreamBody))
	router := newRouter(t, geo, wx)

	rec := get(t, router, "/weather?location=80301")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t,
		`{"detail":"Error retrieving weather data: {\"error\":{\"code\":503,\"message\":\"The service is currently unavailable.\"}}"}`,
		rec.Body.String())
}

func TestWeather_GeocodeFailureSkipsWeather(t *testing.T) {
	geo := newFakeUpstream(t, respond(http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`))
	wx := newFakeUpstream(t, respond(http.StatusOK, weatherFixture))
	router := newRouter(t, geo, wx)

	rec := get(t, router, "/weather?location=Nowhere%20Land")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Could not geocode location: Nowhere Land"}`, rec.Body.String())
	assert.Equal(t, "Nowhere Land", geo.query().Get("address"))
	assert.Zero(t, wx.calls.Load())
}

func TestWeather_MissingCondition(t *testing.T) {
	geo := newFakeUpstream(t, respond(http.StatusOK, geocodeFixture))
	wx := newFakeUpstream(t, respond(http.StatusOK, `{"temperature": {"degrees": 20}}`))
	router := newRouter(t, geo, wx)

	rec := get(t, router, "/weather?location=80301")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"location": {"lat": 40.0, "lon": -105.0},
		"condition": "Unknown",
		"temperature_F": 68.0,
		"wind": {}
	}`, rec.Body.String())
}

func TestWeather_MissingLocation(t *testing.T) {
	geo := newFakeUpstream(t, respond(http.StatusOK, geocodeFixture))
	wx := newFakeUpstream(t, respond(http.StatusOK, weatherFixture))
	router := newRouter(t, geo, wx)

	rec := get(t, router, "/weather")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"location query parameter is required"}`, rec.Body.String())
	assert.Zero(t, geo.calls.Load())
}

func TestWeather_BreakerOpensOnRepeatedTransportFailures(t *testing.T) {
	geo := newFakeUpstream(t, respond(http.StatusOK, geocodeFixture))
	wx := newFakeUpstream(t, respond(http.StatusOK, `<html>proxy error</html>`))
	router := newRouter(t, geo, wx)

	for i := 0; i < 5; i++ {
		rec := get(t, router, "/weather?location=80301")
		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "decode weather response")
	}

	rec := get(t, router, "/weather?location=80301")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error contacting upstream provider")
	assert.Contains(t, rec.Body.String(), "circuit breaker is open")
	assert.Equal(t, int32(5), wx.calls.Load())
}

func TestWeather_RepeatedWeatherErrorsKeepTheirBody(t *testing.T) {
	const upstreamBody = `{"error":{"code":503,"message":"The service is currently unavailable."}}`

	geo := newFakeUpstream(t, respond(http.StatusOK, geocodeFixture))
	wx := newFakeUpstream(t, respond(http.StatusServiceUnavailable, upstreamBody))
	router := newRouter(t, geo, wx)

	for i := 0; i < 6; i++ {
		rec := get(t, router, "/weather?location=80301")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t,
			`{"detail":"Error retrieving weather data: {\"error\":{\"code\":503,\"message\":\"The service is currently unavailable.\"}}"}`,
			rec.Body.String())
	}

	assert.Equal(t, int32(6), wx.calls.Load())
}

func TestWeather_UnsupportedLocationDoesNotAffectOthers(t *testing.T) {
	const unsupported = `{"error":{"code":404,"message":"Information is not supported for this location."}}`

	var healthy atomic.Bool
	geo := newFakeUpstream(t, respond(http.StatusOK, geocodeFixture))
	wx := newFakeUpstream(t, func(w http.ResponseWriter, q url.Values) {
		if healthy.Load() {
			respond(http.StatusOK, weatherFixture)(w, q)
			return
		}
		respond(http.StatusNotFound, unsupported)(w, q)
	})
	router := newRouter(t, geo, wx)

	for i := 0; i < 5; i++ {
		rec := get(t, router, "/weather?location=80301")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Information is not supported for this location.")
	}

	healthy.Store(true)

	rec := get(t, router, "/weather?location=80301")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"condition":"Clear"`)
	assert.Equal(t, int32(6), wx.calls.Load())
}

func TestMetricsEndpoint(t *testing.T) {
	geo := newFakeUpstream(t, respond(http.StatusOK, geocodeFixture))
	wx := newFakeUpstream(t, respond(http.StatusOK, weatherFixture))
	router := newRouter(t, geo, wx)

	get(t, router, "/weather?location=80301")
	rec := get(t, router, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `weather_lookup_test_lookups_total{outcome="ok"} 1`)
}

func TestSwaggerDoc(t *testing.T) {
	geo := newFakeUpstream(t, respond(http.StatusOK, geocodeFixture))
	wx := newFakeUpstream(t, respond(http.StatusOK, weatherFixture))
	router := newRouter(t, geo, wx)

	rec := get(t, router, "/swagger/doc.json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/weather"`)
	assert.Contains(t, rec.Body.String(), "Outdoorec Weather Service")
}
