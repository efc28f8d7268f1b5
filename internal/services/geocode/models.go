package geocode

const statusOK = "OK"

type apiResponse struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message,omitempty"`
	Results      []result `json:"results"`
}

type result struct {
	FormattedAddress string    `json:"formatted_address"`
	Geometry         *geometry `json:"geometry"`
}

type geometry struct {
	Location *latLng `json:"location"`
}

type latLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// coordinates is nil-safe; ok is false when any level is missing.
func (r result) coordinates() (lat, lng float64, ok bool) {
	if r.Geometry == nil || r.Geometry.Location == nil {
		return 0, 0, false
	}
	loc := r.Geometry.Location
	if loc.Lat == nil || loc.Lng == nil {
		return 0, 0, false
	}
	return *loc.Lat, *loc.Lng, true
}
