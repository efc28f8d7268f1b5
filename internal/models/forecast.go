package models

// Coordinates is a resolved geographic point.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type Location struct {
	Lat float64 `json:"lat" example:"40.0"`
	Lon float64 `json:"lon" example:"-105.0"`
}

type Wind struct {
	SpeedKph  *float64 `json:"speed_kph,omitempty" example:"10"`
	Direction *string  `json:"direction,omitempty" example:"N"`
}

// Forecast is the normalized current-conditions payload. Optional readings
// are nil when the provider did not report them and are omitted from JSON.
type Forecast struct {
	Location        Location `json:"location"`
	Condition       string   `json:"condition" example:"Clear"`
	TemperatureF    *float64 `json:"temperature_F,omitempty" example:"68.0"`
	FeelsLikeF      *float64 `json:"feels_like_F,omitempty" example:"66.2"`
	HumidityPercent *float64 `json:"humidity_percent,omitempty" example:"55"`
	Wind            Wind     `json:"wind"`
}

// ErrorResponse is the body returned for every failed lookup.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
