package catalog

import "math"

// Sky geometry helpers. Longitudes and latitudes are in degrees throughout;
// separations are returned in degrees.

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }

// Separation computes the great-circle distance between two sky positions
// using the Haversine formula. This is the one separation formula used by the
// whole engine; the likelihood code applies no further geometric
// approximation on top of it.
func Separation(lon1, lat1, lon2, lat2 float64) float64 {
	sdlat := math.Sin(radians(lat2-lat1) / 2)
	sdlon := math.Sin(radians(lon2-lon1) / 2)
	h := sdlat*sdlat + math.Cos(radians(lat1))*math.Cos(radians(lat2))*sdlon*sdlon
	if h > 1 {
		h = 1
	}
	return degrees(2 * math.Asin(math.Sqrt(h)))
}

// ConstantLatSeparation is the Haversine formula in the limit that the
// separation is purely longitudinal: r = 2 asin(|cos(lat) sin(dlon/2)|).
// Used by the rectangular sky-slice cuts.
func ConstantLatSeparation(lon, lat, lon0 float64) float64 {
	return degrees(2 * math.Asin(math.Abs(math.Cos(radians(lat))*math.Sin(radians(lon-lon0)/2))))
}

// MinMaxLon returns the effective minimum and maximum longitude of a set of
// sky coordinates, re-wrapping to [-180, +180) when the data straddle the
// 0/360 boundary so that 358 deg and -2 deg compare as 2 degrees apart.
func MinMaxLon(lons []float64) (float64, float64) {
	minLon, maxLon := math.Inf(1), math.Inf(-1)
	anyMid := false
	for _, l := range lons {
		if l < minLon {
			minLon = l
		}
		if l > maxLon {
			maxLon = l
		}
		if math.Abs(l-180) < 1 {
			anyMid = true
		}
	}
	if minLon <= 1 && maxLon >= 359 {
		if anyMid {
			// Data on both sides of 0/360 and at the anti-longitude: the
			// limits are the whole circle.
			return 0, 360
		}
		// Data either side of zero degrees only: wrap to [-180, +180).
		minLon, maxLon = math.Inf(1), math.Inf(-1)
		for _, l := range lons {
			v := l
			if v > 180 {
				v -= 360
			}
			if v < minLon {
				minLon = v
			}
			if v > maxLon {
				maxLon = v
			}
		}
	}
	return minLon, maxLon
}
