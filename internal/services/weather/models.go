package weather

const unknownCondition = "Unknown"

// conditionsResponse mirrors the parts of currentConditions:lookup we read.
// Every level is optional; accessors are nil-safe.
type conditionsResponse struct {
	WeatherCondition     *weatherCondition `json:"weatherCondition"`
	Temperature          *temperature      `json:"temperature"`
	FeelsLikeTemperature *temperature      `json:"feelsLikeTemperature"`
	RelativeHumidity     *float64          `json:"relativeHumidity"`
	Wind                 *wind             `json:"wind"`
}

type weatherCondition struct {
	Description *localizedText `json:"description"`
	Type        string         `json:"type"`
}

type localizedText struct {
	Text *string `json:"text"`
}

type temperature struct {
	Degrees *float64 `json:"degrees"`
	Unit    string   `json:"unit"`
}

type wind struct {
	Speed     *windSpeed     `json:"speed"`
	Direction *windDirection `json:"direction"`
}

type windSpeed struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

type windDirection struct {
	Degrees  *float64 `json:"degrees"`
	Cardinal *string  `json:"cardinal"`
}

func (c *weatherCondition) text() string {
	if c == nil || c.Description == nil || c.Description.Text == nil {
		return unknownCondition
	}
	return *c.Description.Text
}

func (t *temperature) degrees() *float64 {
	if t == nil {
		return nil
	}
	return t.Degrees
}

func (w *wind) speed() *float64 {
	if w == nil || w.Speed == nil {
		return nil
	}
	return w.Speed.Value
}

func (w *wind) cardinal() *string {
	if w == nil || w.Direction == nil {
		return nil
	}
	return w.Direction.Cardinal
}
