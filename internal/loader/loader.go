package loader

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"

	"Shade3D/internal/logger"
	"Shade3D/internal/renderer"
	"Shade3D/internal/shading"
	"Shade3D/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

// LoadGLTF opens a .glb or .gltf file and returns one mesh per primitive,
// with metallic-roughness material factors and texture sets populated.
// Primitives without authored tangents get them generated from UV gradients.
func LoadGLTF(path string, manager *texture.Manager) ([]*renderer.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	textures := loadTextures(doc, dir, manager)
	materials := extractMaterials(doc, textures)

	var meshes []*renderer.Mesh
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			mesh, err := loadPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				logger.Log.Warn("Skipping primitive",
					zap.Int("mesh", mi), zap.Int("primitive", pi), zap.Error(err))
				continue
			}
			if prim.Material != nil && int(*prim.Material) < len(materials) {
				m := materials[*prim.Material]
				mesh.Material = m.factors
				mesh.Textures = m.textures
			}
			meshes = append(meshes, mesh)
		}
	}

	logger.Log.Info("glTF loaded",
		zap.String("path", path),
		zap.Int("meshes", len(meshes)),
		zap.Int("materials", len(doc.Materials)))
	return meshes, nil
}

type importedMaterial struct {
	factors  shading.Material
	textures texture.Set
}

// extractMaterials converts glTF materials into shading factors plus a
// texture set. Missing factors fall back to the glTF defaults.
func extractMaterials(doc *gltf.Document, textures []*texture.Texture) []importedMaterial {
	out := make([]importedMaterial, len(doc.Materials))
	for i, gm := range doc.Materials {
		m := importedMaterial{factors: shading.DefaultMaterial}

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			m.factors.BaseColorFactor = mgl32.Vec4{
				float32(cf[0]), float32(cf[1]), float32(cf[2]), float32(cf[3]),
			}
			m.factors.MetallicFactor = float32(pbr.MetallicFactorOrDefault())
			m.factors.RoughnessFactor = float32(pbr.RoughnessFactorOrDefault())

			if pbr.BaseColorTexture != nil {
				m.textures.BaseColor = textureAt(textures, int(pbr.BaseColorTexture.Index))
			}
			if pbr.MetallicRoughnessTexture != nil {
				m.textures.MetallicRoughness = textureAt(textures, int(pbr.MetallicRoughnessTexture.Index))
			}
		}

		if nt := gm.NormalTexture; nt != nil {
			if nt.Index != nil {
				m.textures.Normal = textureAt(textures, int(*nt.Index))
			}
			m.factors.NormalScale = float32(nt.ScaleOrDefault())
		}
		if ot := gm.OcclusionTexture; ot != nil {
			if ot.Index != nil {
				m.textures.Occlusion = textureAt(textures, int(*ot.Index))
			}
			m.factors.OcclusionStrength = float32(ot.StrengthOrDefault())
		}
		if gm.EmissiveTexture != nil {
			m.textures.Emissive = textureAt(textures, int(gm.EmissiveTexture.Index))
		}
		m.factors.EmissiveFactor = mgl32.Vec3{
			float32(gm.EmissiveFactor[0]),
			float32(gm.EmissiveFactor[1]),
			float32(gm.EmissiveFactor[2]),
		}

		out[i] = m
	}
	return out
}

func textureAt(textures []*texture.Texture, index int) *texture.Texture {
	if index < 0 || index >= len(textures) {
		return nil
	}
	return textures[index]
}

// loadTextures decodes every referenced image: embedded buffer views from
// GLB files directly, external URIs through the caching manager.
func loadTextures(doc *gltf.Document, dir string, manager *texture.Manager) []*texture.Texture {
	out := make([]*texture.Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]

		switch {
		case img.BufferView != nil:
			raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				logger.Log.Warn("Image buffer view unreadable", zap.Int("image", int(*gt.Source)), zap.Error(err))
				continue
			}
			decoded, _, err := image.Decode(bytes.NewReader(raw))
			if err != nil {
				logger.Log.Warn("Embedded image undecodable", zap.Int("image", int(*gt.Source)), zap.Error(err))
				continue
			}
			name := img.Name
			if name == "" {
				name = fmt.Sprintf("gltf_img_%d", *gt.Source)
			}
			out[i] = texture.FromImage(name, decoded)

		case img.URI != "" && !img.IsEmbeddedResource():
			tex, err := manager.Load(filepath.Join(dir, img.URI))
			if err != nil {
				logger.Log.Warn("Image file unreadable", zap.String("uri", img.URI), zap.Error(err))
				continue
			}
			out[i] = tex
		}
	}
	return out
}

// loadPrimitive converts one glTF primitive into a renderer mesh with the
// shading core's vertex layout.
func loadPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*renderer.Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	var tangents [][4]float32

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TANGENT"]; ok {
		tangents, _ = modeler.ReadTangent(doc, doc.Accessors[idx], nil)
	}

	vertices := make([]shading.VertexAttributes, len(positions))
	for i, p := range positions {
		v := shading.VertexAttributes{
			Position: mgl32.Vec3{p[0], p[1], p[2]},
			Normal:   mgl32.Vec3{0, 1, 0},
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3{normals[i][0], normals[i][1], normals[i][2]}
		}
		if i < len(uvs) {
			v.TexCoord = mgl32.Vec2{uvs[i][0], uvs[i][1]}
		}
		if i < len(tangents) {
			v.Tangent = mgl32.Vec4{tangents[i][0], tangents[i][1], tangents[i][2], tangents[i][3]}
		}
		vertices[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	mesh := renderer.NewMesh(name, vertices, indices)
	if len(tangents) == 0 {
		mesh.GenerateTangents()
	}
	return mesh, nil
}
