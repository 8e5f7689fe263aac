package renderer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"
	"time"

	"Shade3D/internal/logger"
	"Shade3D/internal/shading"
	"Shade3D/internal/texture"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Renderer drives the two shading stages over a scene: it runs the geometry
// transform per vertex, hands the results to the software rasterizer, then
// shades the covered pixels through a worker pool. Each pixel is a pure
// function of its inputs, so the shading pass is embarrassingly parallel.
type Renderer struct {
	Camera *Camera
	Light  shading.DirectionalLight

	config RenderConfig
	meshes []*Mesh
	pool   pond.Pool
}

// New creates a renderer from a validated config.
func New(cfg RenderConfig) *Renderer {
	logger.Init()
	logger.SetDebug(cfg.Debug)
	cfg.Validate()

	camera := NewDefaultCamera(int32(cfg.Width), int32(cfg.Height))
	camera.SetFov(cfg.Fov)
	camera.SetNear(cfg.Near)
	camera.SetFar(cfg.Far)

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	return &Renderer{
		Camera: camera,
		Light: shading.DirectionalLight{
			Direction:    mgl32.Vec3(cfg.LightDirection),
			Color:        mgl32.Vec3(cfg.LightColor),
			Intensity:    cfg.LightIntensity,
			IBLIntensity: cfg.IBLIntensity,
		},
		config: cfg,
		pool:   pond.NewPool(workers),
	}
}

// ApplyConfig adopts new render settings without rebuilding the scene or the
// worker pool: light, camera lens, and output size take effect on the next
// frame.
func (r *Renderer) ApplyConfig(cfg RenderConfig) {
	cfg.Validate()

	r.Light = shading.DirectionalLight{
		Direction:    mgl32.Vec3(cfg.LightDirection),
		Color:        mgl32.Vec3(cfg.LightColor),
		Intensity:    cfg.LightIntensity,
		IBLIntensity: cfg.IBLIntensity,
	}

	r.Camera.SetAspectRatio(float32(cfg.Width) / float32(cfg.Height))
	r.Camera.Fov = cfg.Fov
	r.Camera.Near = cfg.Near
	r.Camera.SetFar(cfg.Far)

	cfg.Workers = r.config.Workers
	r.config = cfg
}

// AddMesh registers a mesh for rendering.
func (r *Renderer) AddMesh(m *Mesh) {
	r.meshes = append(r.meshes, m)
}

// RemoveMesh unregisters a mesh.
func (r *Renderer) RemoveMesh(m *Mesh) {
	for i, existing := range r.meshes {
		if existing == m {
			r.meshes = append(r.meshes[:i], r.meshes[i+1:]...)
			return
		}
	}
}

// RenderFrame renders the scene into an RGBA image.
//
// Pass 1 transforms every vertex and rasterizes the triangles into a
// per-pixel surface-sample buffer with depth testing. Pass 2 shades the
// covered pixels in parallel; pixels never alias, so the workers share
// nothing but read-only inputs.
func (r *Renderer) RenderFrame() *image.RGBA {
	start := time.Now()

	fb := NewFramebuffer(r.config.Width, r.config.Height)
	frags := make([]fragment, r.config.Width*r.config.Height)
	cam := r.Camera.Params()

	for _, mesh := range r.meshes {
		model := mesh.Params()

		samples := make([]shading.SurfaceSample, len(mesh.Vertices))
		for i, v := range mesh.Vertices {
			samples[i] = shading.TransformVertex(v, cam, model)
		}

		for i := 0; i+2 < len(mesh.Indices); i += 3 {
			rasterizeTriangle(
				samples[mesh.Indices[i]],
				samples[mesh.Indices[i+1]],
				samples[mesh.Indices[i+2]],
				mesh,
				fb.Width, fb.Height,
				frags,
			)
		}
	}

	group := r.pool.NewGroup()
	for y := 0; y < fb.Height; y++ {
		y := y
		group.Submit(func() {
			for x := 0; x < fb.Width; x++ {
				idx := y*fb.Width + x
				if !frags[idx].covered {
					continue
				}
				fb.Color[idx] = r.shadePixel(frags[idx])
				fb.Depth[idx] = frags[idx].depth
			}
		})
	}
	group.Wait()

	logger.Log.Debug("Frame rendered",
		zap.Int("meshes", len(r.meshes)),
		zap.Duration("elapsed", time.Since(start)))

	return fb.Image()
}

// shadePixel picks the shading variant for one fragment: the full
// normal-mapped path when the mesh carries a texture set, the simplified
// path otherwise.
func (r *Renderer) shadePixel(f fragment) mgl32.Vec4 {
	mesh := f.mesh
	uv := f.sample.TexCoord

	if mesh.HasTextureSet() {
		samples := shading.TextureSamples{
			BaseColor:         mesh.Textures.BaseColor.Sample(uv),
			MetallicRoughness: mesh.Textures.MetallicRoughness.Sample(uv).Vec3(),
			Normal:            mesh.Textures.Normal.Sample(uv).Vec3(),
			Occlusion:         1,
			Emissive:          mgl32.Vec3{1, 1, 1},
		}
		if mesh.Textures.Occlusion != nil {
			samples.Occlusion = mesh.Textures.Occlusion.Sample(uv).X()
		}
		if mesh.Textures.Emissive != nil {
			samples.Emissive = mesh.Textures.Emissive.Sample(uv).Vec3()
		}
		return shading.ShadeFragment(f.sample, mesh.Material, samples, r.Camera.Position, r.Light)
	}

	baseColor := mgl32.Vec4{1, 1, 1, 1}
	if mesh.Textures.BaseColor != nil {
		baseColor = mesh.Textures.BaseColor.Sample(uv)
	}
	return shading.ShadeFragmentSimple(f.sample, mesh.Material, baseColor, r.Camera.Position, r.Light)
}

// RenderToPNG renders one frame and writes it to disk.
func (r *Renderer) RenderToPNG(path string) error {
	img := r.RenderFrame()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}
	logger.Log.Info("Frame written", zap.String("path", path))
	return nil
}

// Cleanup stops the worker pool.
func (r *Renderer) Cleanup() {
	r.pool.StopAndWait()
}

// DefaultMaterialFromConfig builds the fallback material from the config's
// factor block.
func DefaultMaterialFromConfig(cfg RenderConfig) shading.Material {
	return shading.Material{
		BaseColorFactor:   mgl32.Vec4{1, 1, 1, 1},
		MetallicFactor:    cfg.Metallic,
		RoughnessFactor:   cfg.Roughness,
		NormalScale:       cfg.NormalScale,
		OcclusionStrength: cfg.OcclusionStrength,
	}
}

// ProceduralTextureSet builds a perlin-noise texture set so untextured
// meshes can still exercise the full shading path.
func ProceduralTextureSet(seed int64, tint mgl32.Vec3, roughnessMid, metallic float32) texture.Set {
	return texture.Set{
		BaseColor:         texture.PerlinBaseColor(256, seed, tint),
		MetallicRoughness: texture.PerlinMetallicRoughness(256, seed+1, roughnessMid, metallic),
		Normal:            texture.FlatNormal(),
		Occlusion:         texture.White(),
		Emissive:          texture.White(),
	}
}
