package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon added to the specular denominator so grazing view or light
// directions never divide by zero.
const specularEpsilon = 0.0001

// DistributionGGX is the GGX/Trowbridge-Reitz normal distribution function.
// It returns the fraction of microfacets oriented toward the half-vector h
// for the given roughness. The +1 term in the denominator keeps it finite
// even at roughness 0 with NdotH 1.
func DistributionGGX(n, h mgl32.Vec3, roughness float32) float32 {
	a := roughness * roughness
	a2 := a * a
	ndotH := maxf(n.Dot(h), 0)
	ndotH2 := ndotH * ndotH

	denom := ndotH2*(a2-1) + 1
	denom = math.Pi * denom * denom

	return a2 / denom
}

// GeometrySchlickGGX is the per-direction Smith masking-shadowing term using
// the Schlick-GGX approximation with k = (roughness+1)^2 / 8 (direct lighting
// remapping).
func GeometrySchlickGGX(ndotX, roughness float32) float32 {
	r := roughness + 1
	k := (r * r) / 8

	return ndotX / (ndotX*(1-k)+k)
}

// GeometrySmith combines the masking term for the view direction with the
// shadowing term for the light direction.
func GeometrySmith(n, v, l mgl32.Vec3, roughness float32) float32 {
	ndotV := maxf(n.Dot(v), 0)
	ndotL := maxf(n.Dot(l), 0)
	return GeometrySchlickGGX(ndotV, roughness) * GeometrySchlickGGX(ndotL, roughness)
}

// FresnelSchlick is Schlick's approximation of the Fresnel reflectance.
// f0 is the reflectivity at normal incidence; cosTheta is clamped to [0,1]
// before the fifth power.
func FresnelSchlick(cosTheta float32, f0 mgl32.Vec3) mgl32.Vec3 {
	c := clampf(cosTheta, 0, 1)
	p := float32(math.Pow(float64(1-c), 5))
	one := mgl32.Vec3{1, 1, 1}
	return f0.Add(one.Sub(f0).Mul(p))
}

// SpecularCookTorrance evaluates the full Cook-Torrance specular term
// D*G*F / (4*NdotV*NdotL + eps) for the given shading geometry.
func SpecularCookTorrance(n, v, l, h mgl32.Vec3, roughness float32, f0 mgl32.Vec3) mgl32.Vec3 {
	d := DistributionGGX(n, h, roughness)
	g := GeometrySmith(n, v, l, roughness)
	f := FresnelSchlick(maxf(h.Dot(v), 0), f0)

	ndotV := maxf(n.Dot(v), 0)
	ndotL := maxf(n.Dot(l), 0)
	denom := 4*ndotV*ndotL + specularEpsilon

	return f.Mul(d * g / denom)
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// lerpf is linear interpolation between a and b by t.
func lerpf(a, b, t float32) float32 {
	return a + (b-a)*t
}

// lerp3 is component-wise linear interpolation between two vectors.
func lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
