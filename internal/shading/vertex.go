package shading

import "github.com/go-gl/mathgl/mgl32"

// VertexAttributes is one vertex as authored in the mesh: local-space
// position and normal, a texture coordinate, and a tangent whose W component
// carries the handedness sign (+1 or -1) of the tangent frame.
type VertexAttributes struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
	Tangent  mgl32.Vec4
}

// SurfaceSample is the transform stage's output: the clip-space position for
// the rasterizer plus the five fields it interpolates across the primitive
// for the shading stage.
type SurfaceSample struct {
	ClipPosition  mgl32.Vec4
	WorldPosition mgl32.Vec3
	Normal        mgl32.Vec3
	Tangent       mgl32.Vec3
	Bitangent     mgl32.Vec3
	TexCoord      mgl32.Vec2
}

// CameraParams holds the per-draw camera state. ViewProjection must equal
// Projection*View; the transform stage trusts the precomputed product.
type CameraParams struct {
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	ViewProjection mgl32.Mat4
	Position       mgl32.Vec3
}

// NewCameraParams derives the combined view-projection product once so every
// vertex invocation reuses it.
func NewCameraParams(view, projection mgl32.Mat4, position mgl32.Vec3) CameraParams {
	return CameraParams{
		View:           view,
		Projection:     projection,
		ViewProjection: projection.Mul4(view),
		Position:       position,
	}
}

// ModelParams holds the per-draw model state. NormalMatrix is the
// inverse-transpose of the model matrix, which transforms normals and
// tangents correctly under non-uniform scale.
type ModelParams struct {
	Model        mgl32.Mat4
	NormalMatrix mgl32.Mat4
}

// NewModelParams derives the normal matrix from the model matrix.
func NewModelParams(model mgl32.Mat4) ModelParams {
	return ModelParams{
		Model:        model,
		NormalMatrix: model.Inv().Transpose(),
	}
}

// TransformVertex is the geometry transform stage. It maps one vertex to
// world and clip space and builds the world-space tangent basis that the
// rasterizer interpolates for per-pixel normal perturbation.
//
// Degenerate normals or tangents are not rejected; zero-length inputs
// propagate NaN downstream. Well-formed geometry is the caller's contract.
func TransformVertex(v VertexAttributes, cam CameraParams, model ModelParams) SurfaceSample {
	worldPos4 := model.Model.Mul4x1(v.Position.Vec4(1))

	normal := model.NormalMatrix.Mul4x1(v.Normal.Vec4(0)).Vec3().Normalize()
	tangent := model.NormalMatrix.Mul4x1(v.Tangent.Vec3().Vec4(0)).Vec3().Normalize()
	bitangent := normal.Cross(tangent).Mul(v.Tangent.W())

	return SurfaceSample{
		ClipPosition:  cam.ViewProjection.Mul4x1(worldPos4),
		WorldPosition: worldPos4.Vec3(),
		Normal:        normal,
		Tangent:       tangent,
		Bitangent:     bitangent,
		TexCoord:      v.TexCoord,
	}
}

// LerpSamples interpolates three transform-stage outputs with barycentric
// weights (w0+w1+w2 = 1), producing the per-pixel surface sample an external
// rasterizer would feed the shading stage. Basis vectors are interpolated
// linearly and left unnormalized; the shading stage normalizes.
func LerpSamples(s0, s1, s2 SurfaceSample, w0, w1, w2 float32) SurfaceSample {
	return SurfaceSample{
		ClipPosition:  weigh4(s0.ClipPosition, s1.ClipPosition, s2.ClipPosition, w0, w1, w2),
		WorldPosition: weigh3(s0.WorldPosition, s1.WorldPosition, s2.WorldPosition, w0, w1, w2),
		Normal:        weigh3(s0.Normal, s1.Normal, s2.Normal, w0, w1, w2),
		Tangent:       weigh3(s0.Tangent, s1.Tangent, s2.Tangent, w0, w1, w2),
		Bitangent:     weigh3(s0.Bitangent, s1.Bitangent, s2.Bitangent, w0, w1, w2),
		TexCoord:      s0.TexCoord.Mul(w0).Add(s1.TexCoord.Mul(w1)).Add(s2.TexCoord.Mul(w2)),
	}
}

func weigh3(a, b, c mgl32.Vec3, w0, w1, w2 float32) mgl32.Vec3 {
	return a.Mul(w0).Add(b.Mul(w1)).Add(c.Mul(w2))
}

func weigh4(a, b, c mgl32.Vec4, w0, w1, w2 float32) mgl32.Vec4 {
	return a.Mul(w0).Add(b.Mul(w1)).Add(c.Mul(w2))
}
