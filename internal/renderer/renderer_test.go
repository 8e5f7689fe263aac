package renderer

import (
	"math"
	"testing"

	"Shade3D/internal/shading"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRenderFrameSphereSmoke(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.Width = 64
	cfg.Height = 64
	cfg.Workers = 2

	r := New(cfg)
	defer r.Cleanup()

	sphere := NewUVSphere(16, 8)
	sphere.Material = DefaultMaterialFromConfig(cfg)
	r.AddMesh(sphere)

	r.Camera.Position = mgl32.Vec3{0, 0, 4}
	r.Camera.LookAt(mgl32.Vec3{0, 0, 0})

	img := r.RenderFrame()

	bounds := img.Bounds()
	if bounds.Dx() != 64 || bounds.Dy() != 64 {
		t.Fatalf("image %dx%d, expected 64x64", bounds.Dx(), bounds.Dy())
	}

	// The sphere fills the image center; the lit pixels must be non-black.
	r8, g8, b8, _ := img.At(32, 32).RGBA()
	if r8 == 0 && g8 == 0 && b8 == 0 {
		t.Error("center pixel black, expected a lit sphere")
	}

	// A corner stays background.
	cr, cg, cb, _ := img.At(0, 0).RGBA()
	if cr != 0 || cg != 0 || cb != 0 {
		t.Error("corner pixel lit, expected background")
	}
}

func TestRenderFrameFullVariantSmoke(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.Width = 48
	cfg.Height = 48
	cfg.Workers = 2

	r := New(cfg)
	defer r.Cleanup()

	sphere := NewUVSphere(16, 8)
	sphere.Material = DefaultMaterialFromConfig(cfg)
	sphere.Textures = ProceduralTextureSet(3, mgl32.Vec3{0.8, 0.6, 0.4}, 0.5, 0)
	r.AddMesh(sphere)

	r.Camera.Position = mgl32.Vec3{0, 0, 4}
	r.Camera.LookAt(mgl32.Vec3{0, 0, 0})

	img := r.RenderFrame()

	// Every pixel must be a displayable value; NaN would encode as 0 across
	// a lit region, so demand the center is lit and the whole image finite.
	lit := false
	for y := 20; y < 28; y++ {
		for x := 20; x < 28; x++ {
			pr, _, _, _ := img.At(x, y).RGBA()
			if pr > 0 {
				lit = true
			}
		}
	}
	if !lit {
		t.Error("no lit pixels in sphere center region")
	}
}

func TestApplyConfigUpdatesLightAndLens(t *testing.T) {
	cfg := DefaultRenderConfig()
	cfg.Width = 32
	cfg.Height = 32
	cfg.Workers = 1

	r := New(cfg)
	defer r.Cleanup()

	next := cfg
	next.LightIntensity = 9
	next.LightDirection = [3]float32{0, -1, 0}
	next.Fov = 60
	next.Width = 64
	next.Height = 32
	r.ApplyConfig(next)

	if r.Light.Intensity != 9 {
		t.Errorf("light intensity %v, expected 9", r.Light.Intensity)
	}
	if r.Light.Direction != (mgl32.Vec3{0, -1, 0}) {
		t.Errorf("light direction %v, expected (0,-1,0)", r.Light.Direction)
	}
	if r.Camera.AspectRatio != 2 {
		t.Errorf("aspect ratio %v, expected 2", r.Camera.AspectRatio)
	}

	img := r.RenderFrame()
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 32 {
		t.Errorf("frame %dx%d after resize, expected 64x32",
			img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestMeshTangentGeneration(t *testing.T) {
	// Strip the authored tangents and regenerate them from UV gradients:
	// every result must be unit length and orthogonal to its normal.
	sphere := NewUVSphere(8, 4)
	for i := range sphere.Vertices {
		sphere.Vertices[i].Tangent = mgl32.Vec4{}
	}
	sphere.GenerateTangents()

	for i, v := range sphere.Vertices {
		tan := v.Tangent.Vec3()
		if math.Abs(float64(tan.Len()-1)) > 1e-4 {
			t.Fatalf("vertex %d tangent %v not unit length", i, tan)
		}
		if math.Abs(float64(tan.Dot(v.Normal))) > 1e-3 {
			t.Fatalf("vertex %d tangent %v not orthogonal to normal %v", i, tan, v.Normal)
		}
		if v.Tangent.W() != 1 {
			t.Fatalf("vertex %d handedness %v, expected 1", i, v.Tangent.W())
		}
	}
}

// uvQuad builds a single +Z-facing unit quad with the given texture
// coordinates and no authored tangents.
func uvQuad(uvs [4]mgl32.Vec2) *Mesh {
	positions := [4]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	vertices := make([]shading.VertexAttributes, 4)
	for i := range vertices {
		vertices[i] = shading.VertexAttributes{
			Position: positions[i],
			Normal:   mgl32.Vec3{0, 0, 1},
			TexCoord: uvs[i],
		}
	}
	return NewMesh("quad", vertices, []uint32{0, 1, 2, 0, 2, 3})
}

func TestGenerateTangentsMirroredUVHandedness(t *testing.T) {
	plain := uvQuad([4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	plain.GenerateTangents()

	mirrored := uvQuad([4]mgl32.Vec2{{1, 0}, {0, 0}, {0, 1}, {1, 1}})
	mirrored.GenerateTangents()

	for i := range plain.Vertices {
		pt := plain.Vertices[i].Tangent
		mt := mirrored.Vertices[i].Tangent

		if !approxVec3(pt.Vec3(), mgl32.Vec3{1, 0, 0}, 1e-5) {
			t.Fatalf("vertex %d plain tangent %v, expected +X", i, pt.Vec3())
		}
		if pt.W() != 1 {
			t.Fatalf("vertex %d plain handedness %v, expected 1", i, pt.W())
		}

		if !approxVec3(mt.Vec3(), mgl32.Vec3{-1, 0, 0}, 1e-5) {
			t.Fatalf("vertex %d mirrored tangent %v, expected -X", i, mt.Vec3())
		}
		if mt.W() != -1 {
			t.Fatalf("vertex %d mirrored handedness %v, expected -1", i, mt.W())
		}

		// Either way the derived bitangent must follow UV-space +V.
		n := mirrored.Vertices[i].Normal
		b := n.Cross(mt.Vec3()).Mul(mt.W())
		if !approxVec3(b, mgl32.Vec3{0, 1, 0}, 1e-5) {
			t.Fatalf("vertex %d mirrored bitangent %v, expected +Y", i, b)
		}
	}
}

func approxVec3(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() < eps
}

func TestUVSphereWellFormed(t *testing.T) {
	sphere := NewUVSphere(16, 8)

	if len(sphere.Indices)%3 != 0 {
		t.Fatal("index count not a multiple of 3")
	}
	for _, v := range sphere.Vertices {
		if math.Abs(float64(v.Normal.Len()-1)) > 1e-5 {
			t.Fatalf("normal %v not unit length", v.Normal)
		}
		if math.Abs(float64(v.Position.Len()-1)) > 1e-5 {
			t.Fatalf("position %v not on the unit sphere", v.Position)
		}
	}
}
