package shading

import "github.com/go-gl/mathgl/mgl32"

// Material holds the metallic-roughness factors of one material. Factors
// multiply the corresponding texture samples, they never replace them.
type Material struct {
	BaseColorFactor   mgl32.Vec4 // RGB albedo multiplier + alpha multiplier
	MetallicFactor    float32    // [0,1]
	RoughnessFactor   float32    // [0,1]
	NormalScale       float32    // multiplier on the decoded normal's XY
	OcclusionStrength float32    // [0,1] blend weight toward the occlusion sample
	EmissiveFactor    mgl32.Vec3
}

// DefaultMaterial matches the glTF defaults: white base color, fully
// metallic and fully rough until the texture samples say otherwise.
var DefaultMaterial = Material{
	BaseColorFactor:   mgl32.Vec4{1, 1, 1, 1},
	MetallicFactor:    1.0,
	RoughnessFactor:   1.0,
	NormalScale:       1.0,
	OcclusionStrength: 1.0,
	EmissiveFactor:    mgl32.Vec3{0, 0, 0},
}

// DirectionalLight is the single light of the shading model. Direction
// points from the light toward the surface; the shading stage negates it.
type DirectionalLight struct {
	Direction    mgl32.Vec3
	Color        mgl32.Vec3
	Intensity    float32
	IBLIntensity float32 // scales only the ambient term of the full variant
}

// TextureSamples carries the five material texture fetches for one pixel,
// all taken at the interpolated texture coordinate.
//
// Channel conventions are fixed by glTF: MetallicRoughness green carries
// roughness and blue carries metallic (red is reserved for occlusion
// packing); Occlusion uses only the red channel; Normal is tangent-space
// encoded in [0,1].
type TextureSamples struct {
	BaseColor         mgl32.Vec4
	MetallicRoughness mgl32.Vec3
	Normal            mgl32.Vec3
	Occlusion         float32
	Emissive          mgl32.Vec3
}

// NeutralSamples returns texture samples that leave every material factor
// unchanged: white base color, full metallic-roughness channels, flat
// +Z normal, no occlusion, white emissive carrier.
func NeutralSamples() TextureSamples {
	return TextureSamples{
		BaseColor:         mgl32.Vec4{1, 1, 1, 1},
		MetallicRoughness: mgl32.Vec3{1, 1, 1},
		Normal:            mgl32.Vec3{0.5, 0.5, 1},
		Occlusion:         1,
		Emissive:          mgl32.Vec3{1, 1, 1},
	}
}
