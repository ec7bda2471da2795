package valueobjects

import (
	"errors"
	"math"
)

const earthRadiusKm = 6371.0

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Coordinates representa um ponto geográfico (graus decimais)
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// NewCoordinates valida latitude [-90, 90] e longitude [-180, 180]
func NewCoordinates(lat, lng float64) (Coordinates, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 || math.IsNaN(lat) || math.IsNaN(lng) {
		return Coordinates{}, ErrInvalidCoordinates
	}
	return Coordinates{Latitude: lat, Longitude: lng}, nil
}

// DistanceKm calcula a distância pela fórmula de haversine
func (c Coordinates) DistanceKm(other Coordinates) float64 {
	lat1 := degToRad(c.Latitude)
	lat2 := degToRad(other.Latitude)
	dLat := lat2 - lat1
	dLng := degToRad(other.Longitude - c.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// LngRange é um intervalo fechado de longitudes
type LngRange struct {
	Min float64
	Max float64
}

// BoundingBox é o retângulo envolvente de um raio. Quando o raio cruza o
// antimeridiano a longitude vira dois intervalos; perto dos polos cobre todas.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	Lng    []LngRange
}

// Contains indica se o ponto está dentro do retângulo
func (b BoundingBox) Contains(p Coordinates) bool {
	if p.Latitude < b.MinLat || p.Latitude > b.MaxLat {
		return false
	}
	for _, r := range b.Lng {
		if p.Longitude >= r.Min && p.Longitude <= r.Max {
			return true
		}
	}
	return false
}

// BoundingBox calcula o retângulo envolvente de um raio em km.
// Usado como pré-filtro barato no banco antes do cálculo exato.
func (c Coordinates) BoundingBox(radiusKm float64) BoundingBox {
	angular := radiusKm / earthRadiusKm
	dLat := angular * 180 / math.Pi
	box := BoundingBox{
		MinLat: math.Max(-90, c.Latitude-dLat),
		MaxLat: math.Min(90, c.Latitude+dLat),
	}

	full := []LngRange{{Min: -180, Max: 180}}
	// o raio alcança um polo: qualquer longitude serve
	if c.Latitude+dLat >= 90 || c.Latitude-dLat <= -90 {
		box.Lng = full
		return box
	}
	ratio := math.Sin(angular) / math.Cos(degToRad(c.Latitude))
	if ratio >= 1 {
		box.Lng = full
		return box
	}
	dLng := math.Asin(ratio) * 180 / math.Pi

	minLng, maxLng := c.Longitude-dLng, c.Longitude+dLng
	switch {
	case minLng < -180:
		box.Lng = []LngRange{{Min: minLng + 360, Max: 180}, {Min: -180, Max: maxLng}}
	case maxLng > 180:
		box.Lng = []LngRange{{Min: minLng, Max: 180}, {Min: -180, Max: maxLng - 360}}
	default:
		box.Lng = []LngRange{{Min: minLng, Max: maxLng}}
	}
	return box
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180
}
