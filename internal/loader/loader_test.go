package loader

import (
	"testing"

	"Shade3D/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

func TestExtractMaterialsDefaults(t *testing.T) {
	doc := &gltf.Document{
		Materials: []*gltf.Material{
			{Name: "bare"},
		},
	}

	mats := extractMaterials(doc, nil)
	if len(mats) != 1 {
		t.Fatalf("got %d materials, expected 1", len(mats))
	}

	m := mats[0].factors
	if m.BaseColorFactor != (mgl32.Vec4{1, 1, 1, 1}) {
		t.Errorf("base color factor %v, expected white", m.BaseColorFactor)
	}
	if m.MetallicFactor != 1 || m.RoughnessFactor != 1 {
		t.Errorf("metallic/roughness %v/%v, expected glTF defaults 1/1", m.MetallicFactor, m.RoughnessFactor)
	}
	if m.NormalScale != 1 || m.OcclusionStrength != 1 {
		t.Errorf("normalScale/occlusionStrength %v/%v, expected 1/1", m.NormalScale, m.OcclusionStrength)
	}
}

func TestExtractMaterialsFactors(t *testing.T) {
	baseColor := [4]float64{0.5, 0.25, 0.125, 1}
	metallic := float64(0.75)
	roughness := float64(0.3)

	doc := &gltf.Document{
		Materials: []*gltf.Material{
			{
				Name: "factored",
				PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
					BaseColorFactor: &baseColor,
					MetallicFactor:  &metallic,
					RoughnessFactor: &roughness,
				},
				EmissiveFactor: [3]float64{1, 0.5, 0},
			},
		},
	}

	m := extractMaterials(doc, nil)[0].factors
	if m.BaseColorFactor != (mgl32.Vec4{0.5, 0.25, 0.125, 1}) {
		t.Errorf("base color factor %v", m.BaseColorFactor)
	}
	if m.MetallicFactor != 0.75 {
		t.Errorf("metallic %v, expected 0.75", m.MetallicFactor)
	}
	if m.RoughnessFactor != 0.3 {
		t.Errorf("roughness %v, expected 0.3", m.RoughnessFactor)
	}
	if m.EmissiveFactor != (mgl32.Vec3{1, 0.5, 0}) {
		t.Errorf("emissive factor %v", m.EmissiveFactor)
	}
}

func TestTextureAtRange(t *testing.T) {
	textures := []*texture.Texture{texture.White()}

	if textureAt(textures, 0) == nil {
		t.Error("index 0 should resolve")
	}
	if textureAt(textures, 1) != nil {
		t.Error("out-of-range index should resolve to nil")
	}
	if textureAt(textures, -1) != nil {
		t.Error("negative index should resolve to nil")
	}
}
