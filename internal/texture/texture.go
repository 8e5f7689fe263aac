package texture

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture is a CPU-resident RGBA image sampled by the shading stage.
// Channel values are normalized to [0,1].
type Texture struct {
	Name   string
	Width  int
	Height int
	pixels []float32 // RGBA, row-major
}

// New creates an empty texture of the given size.
func New(name string, width, height int) *Texture {
	return &Texture{
		Name:   name,
		Width:  width,
		Height: height,
		pixels: make([]float32, width*height*4),
	}
}

// FromImage converts a decoded image into a sampleable texture.
func FromImage(name string, img image.Image) *Texture {
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	w := rgba.Rect.Dx()
	h := rgba.Rect.Dy()
	t := New(name, w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := rgba.PixOffset(x+rgba.Rect.Min.X, y+rgba.Rect.Min.Y)
			o := (y*w + x) * 4
			t.pixels[o+0] = float32(rgba.Pix[i+0]) / 255
			t.pixels[o+1] = float32(rgba.Pix[i+1]) / 255
			t.pixels[o+2] = float32(rgba.Pix[i+2]) / 255
			t.pixels[o+3] = float32(rgba.Pix[i+3]) / 255
		}
	}
	return t
}

// Load reads and decodes an image file into a texture.
func Load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return FromImage(path, img), nil
}

// SetPixel writes one texel. Coordinates outside the image are ignored.
func (t *Texture) SetPixel(x, y int, c mgl32.Vec4) {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return
	}
	o := (y*t.Width + x) * 4
	t.pixels[o+0] = c.X()
	t.pixels[o+1] = c.Y()
	t.pixels[o+2] = c.Z()
	t.pixels[o+3] = c.W()
}

// texel fetches one texel with repeat wrapping.
func (t *Texture) texel(x, y int) mgl32.Vec4 {
	x = wrap(x, t.Width)
	y = wrap(y, t.Height)
	o := (y*t.Width + x) * 4
	return mgl32.Vec4{t.pixels[o], t.pixels[o+1], t.pixels[o+2], t.pixels[o+3]}
}

// Sample fetches the texture at uv with bilinear filtering and repeat wrap,
// the shared sampling configuration every material texture uses.
func (t *Texture) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	// Texel centers sit at (i+0.5)/size.
	fx := uv.X()*float32(t.Width) - 0.5
	fy := uv.Y()*float32(t.Height) - 0.5

	x0 := floorInt(fx)
	y0 := floorInt(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	c00 := t.texel(x0, y0)
	c10 := t.texel(x0+1, y0)
	c01 := t.texel(x0, y0+1)
	c11 := t.texel(x0+1, y0+1)

	top := c00.Mul(1 - tx).Add(c10.Mul(tx))
	bottom := c01.Mul(1 - tx).Add(c11.Mul(tx))
	return top.Mul(1 - ty).Add(bottom.Mul(ty))
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func floorInt(f float32) int {
	i := int(f)
	if f < 0 && float32(i) != f {
		i--
	}
	return i
}

// Set is the five material textures of one metallic-roughness material.
// Any entry may be nil; the shading plumbing substitutes neutral samples.
type Set struct {
	BaseColor         *Texture
	MetallicRoughness *Texture
	Normal            *Texture
	Occlusion         *Texture
	Emissive          *Texture
}
