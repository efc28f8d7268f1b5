package weather

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCelsiusToFahrenheit(t *testing.T) {
	testCases := []struct {
		celsius float64
		want    float64
	}{
		{celsius: 20, want: 68.0},
		{celsius: 0, want: 32.0},
		{celsius: -40, want: -40.0},
		{celsius: 100, want: 212.0},
		{celsius: 37, want: 98.6},
		{celsius: 21.3, want: 70.3},
		{celsius: -17.8, want: -0.0},
		{celsius: 15.55, want: 60.0},
	}

	for _, tc := range testCases {
		got := CelsiusToFahrenheit(tc.celsius)
		assert.InDelta(t, tc.want, got, 1e-9, "celsius=%v", tc.celsius)
	}
}

func TestCelsiusToFahrenheit_MatchesFormula(t *testing.T) {
	for c := -60.0; c <= 60.0; c += 0.37 {
		want := math.Round((c*9/5+32)*10) / 10
		got := CelsiusToFahrenheit(c)
		assert.InDelta(t, want, got, 1e-9)
		assert.InDelta(t, c*9/5+32, got, 0.05+1e-9)
	}
}

func TestFahrenheit_Absent(t *testing.T) {
	assert.Nil(t, fahrenheit(nil))

	c := 25.0
	f := fahrenheit(&c)
	if assert.NotNil(t, f) {
		assert.InDelta(t, 77.0, *f, 1e-9)
	}
}
