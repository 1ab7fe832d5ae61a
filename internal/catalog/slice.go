package catalog

// RectangularSlice reports, for every source, whether it lies within padding
// degrees of the sky rectangle [lon1, lon2] x [lat1, lat2]. The longitude
// comparison shifts all coordinates so the rectangle's centre sits at 180
// degrees, sidestepping 0/360 wrap-around; the padded longitude test uses the
// constant-latitude Haversine limit so the cut is a true on-sky distance.
// Chunked loading of very large catalogues uses this to pull each chunk's
// sources (plus their possible cross-boundary matches) out of the full
// memory-mapped arrays.
func RectangularSlice(s *Sources, lon1, lon2, lat1, lat2, padding float64) []bool {
	shift := 180 - (lon1+lon2)/2
	cut := make([]bool, s.Len())
	for i := range cut {
		cut[i] = lonCut(s.Lon[i], s.Lat[i], lon1, padding, shift, false) &&
			lonCut(s.Lon[i], s.Lat[i], lon2, padding, shift, true) &&
			latCut(s.Lat[i], lat1, padding, false) &&
			latCut(s.Lat[i], lat2, padding, true)
	}
	return cut
}

// lonCut tests one side of the longitude cut. lesser selects sources below
// the boundary, otherwise above. A small epsilon absorbs floating-point
// rounding in the comparison.
func lonCut(lon, lat, bound, padding, shift float64, lesser bool) bool {
	b := lon + shift
	if b > 360 {
		b -= 360
	} else if b < 0 {
		b += 360
	}
	nb := bound + shift
	var inside bool
	if lesser {
		inside = b <= nb+1e-6
	} else {
		inside = b >= nb-1e-6
	}
	if padding > 0 {
		// A source the "wrong" side of the boundary still belongs to the
		// slice when its on-sky distance to the boundary is within padding.
		return inside || ConstantLatSeparation(lon, lat, bound) <= padding
	}
	return inside
}

// latCut is the latitude analogue; padding folds directly into the delta-lat
// comparison since constant-longitude Haversine distance reduces to it.
func latCut(lat, bound, padding float64, lesser bool) bool {
	if lesser {
		return lat <= bound+padding+1e-6
	}
	return lat >= bound-padding-1e-6
}
