package geohash

import "math"

// EarthRadiusKm is the mean earth radius.
const EarthRadiusKm = 6371.0088

// HaversineKm returns the great-circle distance in kilometers between two
// points given in degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(normalizeLonDelta(lon2 - lon1))

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// Floating point can push a just outside [0, 1] for near-identical or
	// near-antipodal points, which would make the square roots NaN.
	if a > 1 {
		a = 1
	}
	if a < 0 {
		a = 0
	}

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// normalizeLonDelta reduces a longitude difference modulo 360 into ±180.
func normalizeLonDelta(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	}
	if d < -180 {
		d += 360
	}
	return d
}
