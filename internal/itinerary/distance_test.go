package itinerary

import (
	"math"
	"testing"
)

func TestFirstStepIsZero(t *testing.T) {
	var acc Accumulator
	step, cum := acc.Step(48.8566, 2.3522)
	if step != 0 {
		t.Errorf("first step should be 0, got %f", step)
	}
	if cum != 0 {
		t.Errorf("cumulative after first step should be 0, got %f", cum)
	}
}

func TestKnownDistance(t *testing.T) {
	// Paris to London, roughly 344 km on the WGS84 ellipsoid
	d := DistanceKM(48.8566, 2.3522, 51.5074, -0.1278)
	if d < 340 || d > 348 {
		t.Errorf("Paris-London distance out of range: %f km", d)
	}

	// symmetry
	back := DistanceKM(51.5074, -0.1278, 48.8566, 2.3522)
	if math.Abs(d-back) > 1e-6 {
		t.Errorf("distance not symmetric: %f vs %f", d, back)
	}
}

func TestZeroDistanceSamePoint(t *testing.T) {
	if d := DistanceKM(10, 10, 10, 10); d != 0 {
		t.Errorf("identical points should be 0 km apart, got %f", d)
	}
}

func TestNearAntipodalFallsBack(t *testing.T) {
	// Vincenty struggles near antipodes; must still return a sane value
	d := DistanceKM(0, 0, 0.5, 179.7)
	if d < 19000 || d > 20100 {
		t.Errorf("near-antipodal distance implausible: %f km", d)
	}
}

func TestCumulativeSumsEverySteps(t *testing.T) {
	var acc Accumulator
	points := [][2]float64{
		{50.0, 10.0},
		{50.1, 10.0},
		{50.2, 10.1},
		{50.2, 10.1}, // no movement
		{50.0, 10.0},
	}

	var sum float64
	var lastCum float64
	for i, p := range points {
		step, cum := acc.Step(p[0], p[1])
		sum += step
		if math.Abs(cum-sum) > 1e-9 {
			t.Fatalf("point %d: cumulative %f != running sum %f", i, cum, sum)
		}
		if cum < lastCum {
			t.Fatalf("point %d: cumulative decreased", i)
		}
		lastCum = cum
	}

	if acc.CumulativeKM() != lastCum {
		t.Errorf("CumulativeKM %f != last step cumulative %f", acc.CumulativeKM(), lastCum)
	}
	if sum <= 0 {
		t.Error("expected non-zero travel over the track")
	}
}

func TestVincentyAgreesWithHaversine(t *testing.T) {
	// For moderate distances the two should agree within ~0.6%
	cases := [][4]float64{
		{50, 10, 51, 11},
		{-33.8688, 151.2093, -37.8136, 144.9631}, // Sydney-Melbourne
		{59.9139, 10.7522, 59.3293, 18.0686},     // Oslo-Stockholm
	}
	for _, c := range cases {
		v := DistanceKM(c[0], c[1], c[2], c[3])
		h := haversineKM(c[0], c[1], c[2], c[3])
		if diff := math.Abs(v-h) / h; diff > 0.006 {
			t.Errorf("(%v): vincenty %f vs haversine %f differ by %f%%", c, v, h, diff*100)
		}
	}
}
