package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const invGamma = 1.0 / 2.2

// ToneMapReinhard compresses an unbounded HDR color into [0,1) per channel,
// monotonically, preserving relative brightness ordering.
func ToneMapReinhard(c mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		c.X() / (c.X() + 1),
		c.Y() / (c.Y() + 1),
		c.Z() / (c.Z() + 1),
	}
}

// GammaEncode applies the 1/2.2 power approximation of the sRGB transfer
// function.
func GammaEncode(c mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Pow(float64(c.X()), invGamma)),
		float32(math.Pow(float64(c.Y()), invGamma)),
		float32(math.Pow(float64(c.Z()), invGamma)),
	}
}

// GammaDecode inverts GammaEncode (x^2.2 per channel).
func GammaDecode(c mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Pow(float64(c.X()), 2.2)),
		float32(math.Pow(float64(c.Y()), 2.2)),
		float32(math.Pow(float64(c.Z()), 2.2)),
	}
}
