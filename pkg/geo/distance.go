package geo

import "math"

const (
	earthRadiusKM = 6371.0
	earthRadiusM  = 6371007
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func radiansToDegree(angle float64) float64 {
	return angle * (180.0 / math.Pi)
}

// CalculateHaversineDistance returns the great-circle distance in kilometers.
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = degreeToRadians(latOne)
	longOne = degreeToRadians(longOne)
	latTwo = degreeToRadians(latTwo)
	longTwo = degreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// HaversineMeter returns the great-circle distance in meters.
func HaversineMeter(latOne, longOne, latTwo, longTwo float64) float64 {
	return CalculateHaversineDistance(latOne, longOne, latTwo, longTwo) * 1000.0
}

// GetDestinationPoint offsets (lat, lon) by distKM kilometers along the given
// bearing (degrees, clockwise from north).
func GetDestinationPoint(lat, lon float64, bearingDeg, distKM float64) (float64, float64) {
	angularDist := distKM / earthRadiusKM
	bearing := degreeToRadians(bearingDeg)
	latRad := degreeToRadians(lat)
	lonRad := degreeToRadians(lon)

	destLat := math.Asin(math.Sin(latRad)*math.Cos(angularDist) +
		math.Cos(latRad)*math.Sin(angularDist)*math.Cos(bearing))
	destLon := lonRad + math.Atan2(
		math.Sin(bearing)*math.Sin(angularDist)*math.Cos(latRad),
		math.Cos(angularDist)-math.Sin(latRad)*math.Sin(destLat))

	return radiansToDegree(destLat), radiansToDegree(destLon)
}

// MidPoint returns the midpoint between two coordinates. For the spans this
// engine deals with (tens of kilometers at most) the arithmetic mean is
// within centimeters of the geodesic midpoint.
func MidPoint(latOne, longOne, latTwo, longTwo float64) (float64, float64) {
	return (latOne + latTwo) / 2.0, (longOne + longTwo) / 2.0
}

// InterpolatePoint places a point at ratio (0..1) along the straight segment
// between two coordinates. Linear in lat/lon, which is accurate enough for
// the short road segments resampling works with.
func InterpolatePoint(fromLat, fromLon, toLat, toLon, ratio float64) (float64, float64) {
	return fromLat + (toLat-fromLat)*ratio, fromLon + (toLon-fromLon)*ratio
}
