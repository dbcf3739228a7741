package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		a, b  Point
		want  float64
		delta float64
	}{
		{name: "same point", a: Point{0, 0}, b: Point{0, 0}, want: 0, delta: 1e-9},
		{name: "just under fifty km", a: Point{0, 0}, b: Point{0, 0.449}, want: 49.93, delta: 0.05},
		{name: "just over fifty km", a: Point{0, 0}, b: Point{0, 0.451}, want: 50.15, delta: 0.05},
		{name: "one degree of latitude", a: Point{10, 20}, b: Point{11, 20}, want: 111.19, delta: 0.05},
		{name: "london to paris", a: Point{51.5074, -0.1278}, b: Point{48.8566, 2.3522}, want: 343.5, delta: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Haversine(tt.a, tt.b), tt.delta)
		})
	}
}

func TestHaversineIsSymmetric(t *testing.T) {
	t.Parallel()

	a := Point{Lat: 40.7128, Lon: -74.0060}
	b := Point{Lat: 34.0522, Lon: -118.2437}
	assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-9)
}

func TestHaversinePropagatesNaN(t *testing.T) {
	t.Parallel()

	d := Haversine(Point{Lat: math.NaN()}, Point{})
	assert.True(t, math.IsNaN(d))
}
