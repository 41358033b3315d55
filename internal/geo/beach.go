package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"imobiliaria/server/internal/models"
)

// shoreline traces the Cabo Branco and Tambau beachfront from north to
// south, ending at the Cabo Branco lighthouse. Points are orb convention:
// {longitude, latitude}.
var shoreline = orb.LineString{
	{-34.8205, -7.1035},
	{-34.8230, -7.1120},
	{-34.8258, -7.1210},
	{-34.8276, -7.1300},
	{-34.8270, -7.1390},
	{-34.8210, -7.1460},
	{-34.8090, -7.1500},
	{-34.7972, -7.1486},
}

// Position classification thresholds in meters.
const (
	beiraMarMaxMeters  = 100
	quadraMarMaxMeters = 300
)

// DistanceToBeach returns the distance in meters from the given coordinates
// to the nearest point of the shoreline.
func DistanceToBeach(c models.Coordinates) float64 {
	point := orb.Point{c.Lng, c.Lat}

	min := math.MaxFloat64
	for i := 0; i < len(shoreline)-1; i++ {
		closest := closestOnSegment(point, shoreline[i], shoreline[i+1])
		if d := orbgeo.Distance(point, closest); d < min {
			min = d
		}
	}
	return min
}

// ClassifyPosition maps a beach distance onto the position_to_sea enum.
func ClassifyPosition(distanceMeters float64) models.PositionToSea {
	switch {
	case distanceMeters <= beiraMarMaxMeters:
		return models.PositionBeiraMar
	case distanceMeters <= quadraMarMaxMeters:
		return models.PositionQuadraMar
	default:
		return models.PositionMiolo
	}
}

// closestOnSegment projects p onto the segment [a, b] in a local
// equirectangular plane. The spans involved are a few kilometers at most,
// so the flat-plane projection error is negligible for classification.
func closestOnSegment(p, a, b orb.Point) orb.Point {
	cosLat := math.Cos(p[1] * math.Pi / 180)

	ax, ay := (a[0]-p[0])*cosLat, a[1]-p[1]
	bx, by := (b[0]-p[0])*cosLat, b[1]-p[1]

	dx, dy := bx-ax, by-ay
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return a
	}

	t := -(ax*dx + ay*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))

	return orb.Point{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
	}
}
