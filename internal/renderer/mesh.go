package renderer

import (
	"math"

	"Shade3D/internal/shading"
	"Shade3D/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is one triangle-mesh primitive plus its transform and material.
// Vertex data uses the fixed layout the shading core expects: position,
// normal, texture coordinate, tangent with handedness in W.
type Mesh struct {
	// HOT DATA - used every frame
	ModelMatrix mgl32.Mat4
	Position    mgl32.Vec3
	Scale       mgl32.Vec3
	Rotation    mgl32.Quat
	Material    shading.Material
	Textures    texture.Set

	// COLD DATA
	Name     string
	Vertices []shading.VertexAttributes
	Indices  []uint32
}

// NewMesh wraps vertex data with an identity transform and the default
// material.
func NewMesh(name string, vertices []shading.VertexAttributes, indices []uint32) *Mesh {
	m := &Mesh{
		Name:     name,
		Position: mgl32.Vec3{0, 0, 0},
		Scale:    mgl32.Vec3{1, 1, 1},
		Rotation: mgl32.QuatIdent(),
		Material: shading.DefaultMaterial,
		Vertices: vertices,
		Indices:  indices,
	}
	m.updateModelMatrix()
	return m
}

// HasTextureSet reports whether the mesh carries the full metallic-roughness
// texture set the normal-mapped shading variant needs.
func (m *Mesh) HasTextureSet() bool {
	return m.Textures.BaseColor != nil &&
		m.Textures.MetallicRoughness != nil &&
		m.Textures.Normal != nil
}

func (m *Mesh) SetPosition(x, y, z float32) {
	m.Position = mgl32.Vec3{x, y, z}
	m.updateModelMatrix()
}

func (m *Mesh) SetScale(x, y, z float32) {
	m.Scale = mgl32.Vec3{x, y, z}
	m.updateModelMatrix()
}

func (m *Mesh) Rotate(angleX, angleY, angleZ float32) {
	rotationX := mgl32.QuatRotate(mgl32.DegToRad(angleX), mgl32.Vec3{1, 0, 0})
	rotationY := mgl32.QuatRotate(mgl32.DegToRad(angleY), mgl32.Vec3{0, 1, 0})
	rotationZ := mgl32.QuatRotate(mgl32.DegToRad(angleZ), mgl32.Vec3{0, 0, 1})
	m.Rotation = m.Rotation.Mul(rotationX).Mul(rotationY).Mul(rotationZ)
	m.updateModelMatrix()
}

func (m *Mesh) updateModelMatrix() {
	// TRS order: scale first, then rotate, then translate
	scaleMatrix := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	rotationMatrix := m.Rotation.Mat4()
	translationMatrix := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	m.ModelMatrix = translationMatrix.Mul4(rotationMatrix).Mul4(scaleMatrix)
}

// Params snapshots the mesh transform into the per-draw parameter block,
// deriving the inverse-transpose normal matrix.
func (m *Mesh) Params() shading.ModelParams {
	return shading.NewModelParams(m.ModelMatrix)
}

// GenerateTangents fills in per-vertex tangents from UV-space edge
// gradients for meshes authored without them. Handedness is taken from the
// orientation of the UV triangle relative to the geometric normal.
func (m *Mesh) GenerateTangents() {
	accumT := make([]mgl32.Vec3, len(m.Vertices))
	accumB := make([]mgl32.Vec3, len(m.Vertices))

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du1 := v1.TexCoord.Sub(v0.TexCoord)
		du2 := v2.TexCoord.Sub(v0.TexCoord)

		det := du1.X()*du2.Y() - du2.X()*du1.Y()
		if det == 0 {
			continue
		}
		r := 1 / det
		tangent := e1.Mul(du2.Y() * r).Sub(e2.Mul(du1.Y() * r))
		bitangent := e2.Mul(du1.X() * r).Sub(e1.Mul(du2.X() * r))

		accumT[i0] = accumT[i0].Add(tangent)
		accumT[i1] = accumT[i1].Add(tangent)
		accumT[i2] = accumT[i2].Add(tangent)
		accumB[i0] = accumB[i0].Add(bitangent)
		accumB[i1] = accumB[i1].Add(bitangent)
		accumB[i2] = accumB[i2].Add(bitangent)
	}

	for i := range m.Vertices {
		n := m.Vertices[i].Normal
		t := accumT[i]
		w := float32(1)
		if t.Len() == 0 {
			// Pick any direction orthogonal to the normal.
			t = n.Cross(mgl32.Vec3{0, 1, 0})
			if t.Len() < 1e-6 {
				t = n.Cross(mgl32.Vec3{1, 0, 0})
			}
		} else if n.Cross(t).Dot(accumB[i]) < 0 {
			// Mirrored UVs: the UV-space +V direction opposes cross(N,T).
			w = -1
		}
		// Gram-Schmidt against the normal.
		t = t.Sub(n.Mul(n.Dot(t))).Normalize()
		m.Vertices[i].Tangent = t.Vec4(w)
	}
}

// NewUVSphere generates a unit sphere with authored tangents, the demo and
// test geometry of choice: normals are exact and UVs cover [0,1].
func NewUVSphere(segments, rings int) *Mesh {
	var vertices []shading.VertexAttributes
	var indices []uint32

	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)

			sinPhi, cosPhi := math.Sincos(phi)
			sinTheta, cosTheta := math.Sincos(theta)

			normal := mgl32.Vec3{
				float32(sinPhi * cosTheta),
				float32(cosPhi),
				float32(sinPhi * sinTheta),
			}
			// Tangent follows increasing theta (east).
			tangent := mgl32.Vec3{
				float32(-sinTheta),
				0,
				float32(cosTheta),
			}

			vertices = append(vertices, shading.VertexAttributes{
				Position: normal,
				Normal:   normal,
				TexCoord: mgl32.Vec2{float32(s) / float32(segments), float32(r) / float32(rings)},
				Tangent:  tangent.Vec4(1),
			})
		}
	}

	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}

	return NewMesh("uv_sphere", vertices, indices)
}

// NewCube generates a unit cube with per-face normals, UVs, and tangents.
func NewCube() *Mesh {
	type face struct {
		normal  mgl32.Vec3
		tangent mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}},
	}

	var vertices []shading.VertexAttributes
	var indices []uint32
	uvs := []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	for _, f := range faces {
		bitangent := f.normal.Cross(f.tangent)
		base := uint32(len(vertices))
		for i, uv := range uvs {
			corner := f.normal.
				Add(f.tangent.Mul([]float32{-1, 1, 1, -1}[i])).
				Add(bitangent.Mul([]float32{-1, -1, 1, 1}[i]))
			vertices = append(vertices, shading.VertexAttributes{
				Position: corner.Mul(0.5),
				Normal:   f.normal,
				TexCoord: uv,
				Tangent:  f.tangent.Vec4(1),
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return NewMesh("cube", vertices, indices)
}
