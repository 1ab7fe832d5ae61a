package catalog

import (
	"math"
	"testing"
)

func TestSeparation_SmallAngleAgreesWithPlanar(t *testing.T) {
	// At sub-arcminute separations the great-circle distance must agree with
	// the flat sqrt((dlon*cos(lat))^2 + dlat^2) approximation to well below
	// the likelihood tolerance.
	cases := []struct{ lon1, lat1, lon2, lat2 float64 }{
		{0, 0, 1e-4, 5e-5},
		{0.1, 0.1, 0.1001, 0.09995},
		{359.9999, -0.1, 0.0001, -0.10005},
	}
	for _, c := range cases {
		got := Separation(c.lon1, c.lat1, c.lon2, c.lat2)
		dlon := c.lon2 - c.lon1
		if dlon > 180 {
			dlon -= 360
		} else if dlon < -180 {
			dlon += 360
		}
		dlon *= math.Cos(c.lat2 * math.Pi / 180)
		dlat := c.lat2 - c.lat1
		want := math.Sqrt(dlon*dlon + dlat*dlat)
		if math.Abs(got-want) > 1e-6*want {
			t.Errorf("Separation(%v) = %v, planar reference %v", c, got, want)
		}
	}
}

func TestSeparation_Symmetric(t *testing.T) {
	a := Separation(10, 20, 11, 21)
	b := Separation(11, 21, 10, 20)
	if math.Abs(a-b) > 1e-12 {
		t.Errorf("separation not symmetric: %v vs %v", a, b)
	}
	if Separation(42, -13, 42, -13) != 0 {
		t.Error("zero separation expected for identical positions")
	}
}

func TestConstantLatSeparation(t *testing.T) {
	// At the equator the constant-lat distance is just delta-lon.
	if got := ConstantLatSeparation(10, 0, 12); math.Abs(got-2) > 1e-9 {
		t.Errorf("equator: got %v, want 2", got)
	}
	// At 60 degrees latitude a degree of longitude is half a degree of sky.
	got := ConstantLatSeparation(100, 60, 101)
	if math.Abs(got-0.5) > 1e-4 {
		t.Errorf("lat 60: got %v, want ~0.5", got)
	}
}

func TestMinMaxLon(t *testing.T) {
	// Plain case, no wrap.
	lo, hi := MinMaxLon([]float64{10, 20, 30})
	if lo != 10 || hi != 30 {
		t.Errorf("plain: got (%v, %v)", lo, hi)
	}
	// Data either side of zero: wrap to [-180, 180).
	lo, hi = MinMaxLon([]float64{359, 0.5, 1})
	if lo != -1 || hi != 1 {
		t.Errorf("wrap: got (%v, %v), want (-1, 1)", lo, hi)
	}
	// Data either side of zero and at the anti-longitude: whole circle.
	lo, hi = MinMaxLon([]float64{0.5, 179.5, 359.5})
	if lo != 0 || hi != 360 {
		t.Errorf("full circle: got (%v, %v), want (0, 360)", lo, hi)
	}
}
