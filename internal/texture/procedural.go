package texture

import (
	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// Checker generates a two-tone checkerboard, the classic fallback base-color
// map for meshes shipped without textures.
func Checker(size, cells int, a, b mgl32.Vec4) *Texture {
	t := New("checker", size, size)
	cell := size / cells
	if cell < 1 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				t.SetPixel(x, y, a)
			} else {
				t.SetPixel(x, y, b)
			}
		}
	}
	return t
}

// PerlinBaseColor generates a noise-modulated tint around the given color.
func PerlinBaseColor(size int, seed int64, tint mgl32.Vec3) *Texture {
	p := perlin.NewPerlin(2, 2, 3, seed)
	t := New("perlin_basecolor", size, size)
	scale := 8.0 / float64(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// Noise2D returns roughly [-1,1]; remap to a gentle 0.7..1 band.
			n := float32(p.Noise2D(float64(x)*scale, float64(y)*scale))
			f := 0.85 + 0.15*n
			t.SetPixel(x, y, mgl32.Vec4{tint.X() * f, tint.Y() * f, tint.Z() * f, 1})
		}
	}
	return t
}

// PerlinMetallicRoughness generates a glTF-packed metallic-roughness map:
// green carries noise-varied roughness, blue a constant metallic.
func PerlinMetallicRoughness(size int, seed int64, roughnessMid, metallic float32) *Texture {
	p := perlin.NewPerlin(2, 2, 3, seed)
	t := New("perlin_metallic_roughness", size, size)
	scale := 6.0 / float64(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := float32(p.Noise2D(float64(x)*scale, float64(y)*scale))
			r := roughnessMid + 0.25*n
			if r < 0 {
				r = 0
			}
			if r > 1 {
				r = 1
			}
			t.SetPixel(x, y, mgl32.Vec4{0, r, metallic, 1})
		}
	}
	return t
}

// FlatNormal returns a 1x1 normal map encoding the unperturbed +Z normal.
func FlatNormal() *Texture {
	t := New("flat_normal", 1, 1)
	t.SetPixel(0, 0, mgl32.Vec4{0.5, 0.5, 1, 1})
	return t
}

// White returns a 1x1 white texture, the neutral sample for every factor.
func White() *Texture {
	t := New("white", 1, 1)
	t.SetPixel(0, 0, mgl32.Vec4{1, 1, 1, 1})
	return t
}
