package itinerary

import "math"

// Accumulator tracks per-step and cumulative travel distance over an
// ordered coordinate stream. The zero value is ready to use.
type Accumulator struct {
	lastLat, lastLon float64
	started          bool
	cumulative       float64
}

// Step returns the distance from the previous coordinate and the
// running total, both in kilometers. The first step of a run is always
// zero. The previous coordinate advances on every call, so waypoints
// suppressed downstream still count toward the physical path.
func (a *Accumulator) Step(lat, lon float64) (stepKM, cumulativeKM float64) {
	if a.started {
		stepKM = DistanceKM(a.lastLat, a.lastLon, lat, lon)
	}
	a.lastLat, a.lastLon, a.started = lat, lon, true
	a.cumulative += stepKM
	return stepKM, a.cumulative
}

// CumulativeKM returns the total distance accumulated so far.
func (a *Accumulator) CumulativeKM() float64 { return a.cumulative }

// WGS84 ellipsoid.
const (
	wgs84A = 6378137.0
	wgs84F = 1 / 298.257223563
)

const deg2rad = math.Pi / 180

// DistanceKM returns the geodesic distance in kilometers between two
// points, computed with Vincenty's inverse formula on the WGS84
// ellipsoid. Near-antipodal pairs where the iteration does not converge
// fall back to the spherical haversine distance.
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	const b = wgs84A * (1 - wgs84F)

	u1 := math.Atan((1 - wgs84F) * math.Tan(lat1*deg2rad))
	u2 := math.Atan((1 - wgs84F) * math.Tan(lat2*deg2rad))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	l := (lon2 - lon1) * deg2rad
	lambda := l

	for i := 0; i < 100; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma := math.Hypot(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
		if sinSigma == 0 {
			return 0 // coincident points
		}
		cosSigma := sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma := math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha := 1 - sinAlpha*sinAlpha
		var cos2SigmaM float64
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		c := wgs84F / 16 * cosSqAlpha * (4 + wgs84F*(4-3*cosSqAlpha))
		prev := lambda
		lambda = l + (1-c)*wgs84F*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-prev) < 1e-12 {
			uSq := cosSqAlpha * (wgs84A*wgs84A - b*b) / (b * b)
			bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
			bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
			deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
				(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
					bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
			return b * bigA * (sigma - deltaSigma) / 1000
		}
	}

	return haversineKM(lat1, lon1, lat2, lon2)
}

// haversineKM is the spherical fallback for pairs where Vincenty does
// not converge.
func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const r = 6371.0088 // mean earth radius, km

	dLat := (lat2 - lat1) * deg2rad
	dLon := (lon2 - lon1) * deg2rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*deg2rad)*math.Cos(lat2*deg2rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return r * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
