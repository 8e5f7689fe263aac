package shading

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// dielectricF0 is the base reflectivity at normal incidence for
// non-metallic surfaces.
var dielectricF0 = mgl32.Vec3{0.04, 0.04, 0.04}

const ambientFactor = 0.03

// ShadeFragment is the full shading stage. It perturbs the surface normal
// with the tangent-space normal-map sample, evaluates the Cook-Torrance
// BRDF against the directional light, adds the flat ambient and emissive
// terms, then tone maps and gamma encodes. Returns RGB in [0,1) plus the
// modulated alpha.
func ShadeFragment(s SurfaceSample, mat Material, tex TextureSamples, cameraPos mgl32.Vec3, light DirectionalLight) mgl32.Vec4 {
	albedo := mulv3(tex.BaseColor.Vec3(), mat.BaseColorFactor.Vec3())
	alpha := tex.BaseColor.W() * mat.BaseColorFactor.W()

	// glTF packing: green = roughness, blue = metallic
	metallic := tex.MetallicRoughness.Z() * mat.MetallicFactor
	roughness := tex.MetallicRoughness.Y() * mat.RoughnessFactor

	occlusion := lerpf(1, tex.Occlusion, mat.OcclusionStrength)
	emissive := mulv3(tex.Emissive, mat.EmissiveFactor)

	n := perturbNormal(s, tex.Normal, mat.NormalScale)

	color := shadeCommon(s, n, albedo, metallic, roughness, cameraPos, light)

	ambient := albedo.Mul(ambientFactor * occlusion * light.IBLIntensity)
	color = color.Add(ambient).Add(emissive)

	color = GammaEncode(ToneMapReinhard(color))
	return color.Vec4(alpha)
}

// ShadeFragmentSimple is the shading stage for geometry without a
// metallic-roughness/normal texture set. The interpolated vertex normal is
// used unperturbed, metallic and roughness come straight from the material
// factors, and the occlusion and emissive contributions are skipped.
func ShadeFragmentSimple(s SurfaceSample, mat Material, baseColor mgl32.Vec4, cameraPos mgl32.Vec3, light DirectionalLight) mgl32.Vec4 {
	albedo := mulv3(baseColor.Vec3(), mat.BaseColorFactor.Vec3())
	alpha := baseColor.W() * mat.BaseColorFactor.W()

	n := s.Normal.Normalize()

	color := shadeCommon(s, n, albedo, mat.MetallicFactor, mat.RoughnessFactor, cameraPos, light)
	color = color.Add(albedo.Mul(ambientFactor))

	color = GammaEncode(ToneMapReinhard(color))
	return color.Vec4(alpha)
}

// shadeCommon evaluates the direct-lighting part shared by both variants:
// Cook-Torrance specular plus energy-conserving Lambert diffuse.
func shadeCommon(s SurfaceSample, n mgl32.Vec3, albedo mgl32.Vec3, metallic, roughness float32, cameraPos mgl32.Vec3, light DirectionalLight) mgl32.Vec3 {
	v := cameraPos.Sub(s.WorldPosition).Normalize()
	// Light.Direction points from the light toward the surface.
	l := light.Direction.Mul(-1).Normalize()
	h := v.Add(l).Normalize()

	f0 := lerp3(dielectricF0, albedo, metallic)

	specular := SpecularCookTorrance(n, v, l, h, roughness, f0)

	// kS is the Fresnel fraction; metals have no diffuse component.
	kS := FresnelSchlick(maxf(h.Dot(v), 0), f0)
	kD := mgl32.Vec3{1, 1, 1}.Sub(kS).Mul(1 - metallic)

	diffuse := mulv3(kD, albedo).Mul(1 / math.Pi)

	radiance := light.Color.Mul(light.Intensity)
	ndotL := maxf(n.Dot(l), 0)

	return mulv3(diffuse.Add(specular), radiance).Mul(ndotL)
}

// perturbNormal decodes a tangent-space normal-map sample and rotates it
// into world space through the interpolated TBN basis. The sample's XY are
// remapped from [0,1] to [-1,1] and scaled by normalScale; Z is remapped
// but left unscaled.
func perturbNormal(s SurfaceSample, sample mgl32.Vec3, normalScale float32) mgl32.Vec3 {
	tn := mgl32.Vec3{
		(sample.X()*2 - 1) * normalScale,
		(sample.Y()*2 - 1) * normalScale,
		sample.Z()*2 - 1,
	}

	t := s.Tangent.Normalize()
	b := s.Bitangent.Normalize()
	n := s.Normal.Normalize()

	world := t.Mul(tn.X()).Add(b.Mul(tn.Y())).Add(n.Mul(tn.Z()))
	return world.Normalize()
}

func mulv3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}
