package shading

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestToneMapReinhardBoundedMonotone(t *testing.T) {
	inputs := []float32{0, 0.1, 0.5, 1, 2, 10, 100, 10000}
	prev := float32(-1)
	for _, x := range inputs {
		out := ToneMapReinhard(mgl32.Vec3{x, x, x}).X()
		if out < 0 || out >= 1 {
			t.Errorf("ToneMapReinhard(%v) = %v, expected in [0,1)", x, out)
		}
		if out <= prev {
			t.Errorf("ToneMapReinhard(%v) = %v, expected above %v (monotone)", x, out, prev)
		}
		prev = out
	}
}

func TestGammaRoundTrip(t *testing.T) {
	for _, x := range []float32{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		c := mgl32.Vec3{x, x, x}
		back := GammaDecode(GammaEncode(c))
		if diff := math.Abs(float64(back.X() - x)); diff > 1e-5 {
			t.Errorf("decode(encode(%v)) = %v, expected round trip within 1e-5", x, back.X())
		}
	}
}
