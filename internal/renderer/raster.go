package renderer

import (
	"image"
	"image/color"

	"Shade3D/internal/shading"

	"github.com/go-gl/mathgl/mgl32"
)

// Framebuffer is the color and depth target of one offline frame.
type Framebuffer struct {
	Width  int
	Height int
	Color  []mgl32.Vec4
	Depth  []float32
}

func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Color:  make([]mgl32.Vec4, width*height),
		Depth:  make([]float32, width*height),
	}
	fb.Clear(mgl32.Vec4{0, 0, 0, 1})
	return fb
}

// Clear resets every pixel to the given color and the depth buffer to the
// far plane.
func (fb *Framebuffer) Clear(c mgl32.Vec4) {
	for i := range fb.Color {
		fb.Color[i] = c
		fb.Depth[i] = 1
	}
}

// Image converts the framebuffer into an 8-bit RGBA image. Color values are
// already display-encoded by the shading stage.
func (fb *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.Color[y*fb.Width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: encodeByte(c.X()),
				G: encodeByte(c.Y()),
				B: encodeByte(c.Z()),
				A: encodeByte(c.W()),
			})
		}
	}
	return img
}

func encodeByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// fragment is one covered pixel awaiting shading: the interpolated surface
// sample plus the mesh whose material shades it.
type fragment struct {
	sample  shading.SurfaceSample
	mesh    *Mesh
	depth   float32
	covered bool
}

// rasterizeTriangle stands in for the external rasterization stage: it maps
// three transform-stage outputs to screen space, walks the covered pixels,
// and records the nearest surface sample per pixel. Interpolation of the
// five shading fields is delegated to shading.LerpSamples.
func rasterizeTriangle(s0, s1, s2 shading.SurfaceSample, mesh *Mesh, width, height int, frags []fragment) {
	// Cull triangles crossing the near plane rather than clipping them.
	if s0.ClipPosition.W() <= 0 || s1.ClipPosition.W() <= 0 || s2.ClipPosition.W() <= 0 {
		return
	}

	x0, y0, z0 := toScreen(s0.ClipPosition, width, height)
	x1, y1, z1 := toScreen(s1.ClipPosition, width, height)
	x2, y2, z2 := toScreen(s2.ClipPosition, width, height)

	area := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
	if area == 0 {
		return
	}

	minX := clampi(int(min3(x0, x1, x2)), 0, width-1)
	maxX := clampi(int(max3(x0, x1, x2))+1, 0, width-1)
	minY := clampi(int(min3(y0, y1, y2)), 0, height-1)
	maxY := clampi(int(max3(y0, y1, y2))+1, 0, height-1)

	invArea := 1 / area
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			py := float32(y) + 0.5

			w0 := ((x1-px)*(y2-py) - (x2-px)*(y1-py)) * invArea
			w1 := ((x2-px)*(y0-py) - (x0-px)*(y2-py)) * invArea
			w2 := 1 - w0 - w1

			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			depth := w0*z0 + w1*z1 + w2*z2
			// NDC depth outside [-1, 1] lies beyond the near or far plane.
			if depth < -1 || depth > 1 {
				continue
			}
			idx := y*width + x
			if frags[idx].covered && depth >= frags[idx].depth {
				continue
			}

			frags[idx] = fragment{
				sample:  shading.LerpSamples(s0, s1, s2, w0, w1, w2),
				mesh:    mesh,
				depth:   depth,
				covered: true,
			}
		}
	}
}

// toScreen performs the perspective divide and viewport mapping.
func toScreen(clip mgl32.Vec4, width, height int) (x, y, z float32) {
	invW := 1 / clip.W()
	ndcX := clip.X() * invW
	ndcY := clip.Y() * invW
	ndcZ := clip.Z() * invW

	x = (ndcX + 1) * 0.5 * float32(width)
	y = (1 - ndcY) * 0.5 * float32(height)
	z = ndcZ
	return
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func clampi(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
