package weather

import "math"

// CelsiusToFahrenheit converts c and rounds to one decimal place.
func CelsiusToFahrenheit(c float64) float64 {
	return math.Round((c*9/5+32)*10) / 10
}

// fahrenheit maps an optional Celsius reading; nil stays nil.
func fahrenheit(c *float64) *float64 {
	if c == nil {
		return nil
	}
	f := CelsiusToFahrenheit(*c)
	return &f
}
