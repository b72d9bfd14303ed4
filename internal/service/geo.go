package service

import (
	"math"

	"github.com/leadscope/opportunity-finder/api/internal/places"
)

const (
	earthRadiusKm = 6371
	milesPerKm    = 0.621371
)

// haversineMiles computes the great-circle distance between two coordinates.
func haversineMiles(from, to places.Coordinate) float64 {
	dLat := degToRad(to.Lat - from.Lat)
	dLng := degToRad(to.Lng - from.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degToRad(from.Lat))*math.Cos(degToRad(to.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c * milesPerKm
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
