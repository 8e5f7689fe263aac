package renderer

import (
	"testing"

	"Shade3D/internal/shading"

	"github.com/go-gl/mathgl/mgl32"
)

// clipSample fabricates a transform-stage output already in clip space
// (w=1, so NDC == clip).
func clipSample(x, y, z float32) shading.SurfaceSample {
	return shading.SurfaceSample{
		ClipPosition: mgl32.Vec4{x, y, z, 1},
		Normal:       mgl32.Vec3{0, 0, 1},
	}
}

func TestRasterizeTriangleCoversCenter(t *testing.T) {
	mesh := NewCube()
	frags := make([]fragment, 16*16)

	// Full-viewport triangle; the center pixel must be covered.
	rasterizeTriangle(
		clipSample(-1, -1, 0),
		clipSample(3, -1, 0),
		clipSample(-1, 3, 0),
		mesh, 16, 16, frags,
	)

	center := frags[8*16+8]
	if !center.covered {
		t.Fatal("center pixel not covered by full-screen triangle")
	}
	if center.mesh != mesh {
		t.Error("fragment should record the source mesh")
	}
}

func TestRasterizeTriangleDepthTest(t *testing.T) {
	mesh := NewCube()
	frags := make([]fragment, 8*8)

	far := clipSample(-1, -1, 0.9)
	rasterizeTriangle(far, clipSample(3, -1, 0.9), clipSample(-1, 3, 0.9), mesh, 8, 8, frags)
	firstDepth := frags[0].depth

	near := clipSample(-1, -1, 0.1)
	rasterizeTriangle(near, clipSample(3, -1, 0.1), clipSample(-1, 3, 0.1), mesh, 8, 8, frags)

	if frags[0].depth >= firstDepth {
		t.Errorf("nearer triangle depth %v did not replace %v", frags[0].depth, firstDepth)
	}

	// Re-drawing the far triangle must not win the depth test.
	nearDepth := frags[0].depth
	rasterizeTriangle(far, clipSample(3, -1, 0.9), clipSample(-1, 3, 0.9), mesh, 8, 8, frags)
	if frags[0].depth != nearDepth {
		t.Errorf("far triangle overwrote nearer fragment (depth %v)", frags[0].depth)
	}
}

func TestRasterizeTriangleBehindCameraCulled(t *testing.T) {
	mesh := NewCube()
	frags := make([]fragment, 8*8)

	s := clipSample(0, 0, 0)
	s.ClipPosition[3] = -1 // behind the near plane

	rasterizeTriangle(s, clipSample(3, -1, 0), clipSample(-1, 3, 0), mesh, 8, 8, frags)

	for i := range frags {
		if frags[i].covered {
			t.Fatal("triangle crossing the near plane should be culled")
		}
	}
}

func TestRasterizeTriangleOutsideDepthRangeRejected(t *testing.T) {
	mesh := NewCube()

	// Full-viewport triangles entirely beyond the far plane or in
	// front of the near plane must leave no fragments behind.
	for _, z := range []float32{2, -2} {
		frags := make([]fragment, 8*8)
		rasterizeTriangle(
			clipSample(-1, -1, z),
			clipSample(3, -1, z),
			clipSample(-1, 3, z),
			mesh, 8, 8, frags,
		)
		for i := range frags {
			if frags[i].covered {
				t.Fatalf("fragment %d covered by triangle at NDC depth %v", i, z)
			}
		}
	}
}

func TestFramebufferImageEncoding(t *testing.T) {
	fb := NewFramebuffer(2, 1)
	fb.Color[0] = mgl32.Vec4{0, 0.5, 1, 1}
	fb.Color[1] = mgl32.Vec4{-0.5, 2, 0.25, 1}

	img := fb.Image()

	r, g, b, _ := img.At(0, 0).RGBA()
	if r != 0 || uint8(g>>8) != 128 || uint8(b>>8) != 255 {
		t.Errorf("pixel 0 encoded as (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	// Out-of-range channels clamp.
	r, g, _, _ = img.At(1, 0).RGBA()
	if r != 0 || uint8(g>>8) != 255 {
		t.Errorf("clamped pixel encoded as (%d,%d)", r>>8, g>>8)
	}
}
