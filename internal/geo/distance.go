// Package geo computes surface distances between geographic coordinates.
package geo

import "github.com/tidwall/geodesic"

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Distance returns the geodesic distance between a and b in kilometers on the
// WGS-84 ellipsoid (Karney's algorithm). It is defined for every pair of valid
// coordinates, antipodal ones included.
func Distance(a, b Point) float64 {
	if a == b {
		return 0
	}

	var meters float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &meters, nil, nil)
	return meters / 1000
}
