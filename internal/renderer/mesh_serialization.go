package renderer

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"Shade3D/internal/shading"

	"github.com/go-gl/mathgl/mgl32"
)

// Binary mesh cache format. Procedurally generated or imported geometry can
// be written once and reloaded without re-running generation or glTF import.
// Texture references are not stored; only geometry, material factors, and
// the transform survive a round trip.

const (
	meshMagic   = uint32(0x4D455348) // "MESH"
	meshVersion = uint32(1)

	// floats per vertex: position 3, normal 3, texcoord 2, tangent 4
	vertexStride = 12
)

// EncodeMeshBinary encodes a mesh to the compressed binary cache format.
func EncodeMeshBinary(m *Mesh) ([]byte, error) {
	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)

	if err := binary.Write(gzWriter, binary.LittleEndian, meshMagic); err != nil {
		return nil, err
	}
	if err := binary.Write(gzWriter, binary.LittleEndian, meshVersion); err != nil {
		return nil, err
	}
	if err := writeString(gzWriter, m.Name); err != nil {
		return nil, err
	}

	if err := writeFloat32Slice(gzWriter, interleaveVertices(m.Vertices)); err != nil {
		return nil, err
	}
	if err := writeUint32Slice(gzWriter, m.Indices); err != nil {
		return nil, err
	}

	transform := [10]float32{
		m.Position.X(), m.Position.Y(), m.Position.Z(),
		m.Scale.X(), m.Scale.Y(), m.Scale.Z(),
		m.Rotation.W, m.Rotation.V.X(), m.Rotation.V.Y(), m.Rotation.V.Z(),
	}
	if err := binary.Write(gzWriter, binary.LittleEndian, transform); err != nil {
		return nil, err
	}

	material := [12]float32{
		m.Material.BaseColorFactor.X(), m.Material.BaseColorFactor.Y(),
		m.Material.BaseColorFactor.Z(), m.Material.BaseColorFactor.W(),
		m.Material.MetallicFactor, m.Material.RoughnessFactor,
		m.Material.NormalScale, m.Material.OcclusionStrength,
		m.Material.EmissiveFactor.X(), m.Material.EmissiveFactor.Y(),
		m.Material.EmissiveFactor.Z(),
		0, // reserved
	}
	if err := binary.Write(gzWriter, binary.LittleEndian, material); err != nil {
		return nil, err
	}

	if err := gzWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeMeshBinary reconstructs a mesh from the binary cache format.
func DecodeMeshBinary(data []byte) (*Mesh, error) {
	gzReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	var magic uint32
	if err := binary.Read(gzReader, binary.LittleEndian, &magic); err != nil {
		return nil, err
	}
	if magic != meshMagic {
		return nil, fmt.Errorf("invalid mesh file magic: %x", magic)
	}

	var version uint32
	if err := binary.Read(gzReader, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != meshVersion {
		return nil, fmt.Errorf("unsupported mesh version: %d", version)
	}

	name, err := readString(gzReader)
	if err != nil {
		return nil, err
	}

	interleaved, err := readFloat32Slice(gzReader)
	if err != nil {
		return nil, err
	}
	if len(interleaved)%vertexStride != 0 {
		return nil, fmt.Errorf("vertex data length %d not a multiple of stride %d",
			len(interleaved), vertexStride)
	}
	indices, err := readUint32Slice(gzReader)
	if err != nil {
		return nil, err
	}

	var transform [10]float32
	if err := binary.Read(gzReader, binary.LittleEndian, &transform); err != nil {
		return nil, err
	}
	var material [12]float32
	if err := binary.Read(gzReader, binary.LittleEndian, &material); err != nil {
		return nil, err
	}

	mesh := NewMesh(name, deinterleaveVertices(interleaved), indices)
	mesh.Position = mgl32.Vec3{transform[0], transform[1], transform[2]}
	mesh.Scale = mgl32.Vec3{transform[3], transform[4], transform[5]}
	mesh.Rotation = mgl32.Quat{
		W: transform[6],
		V: mgl32.Vec3{transform[7], transform[8], transform[9]},
	}
	mesh.updateModelMatrix()

	mesh.Material = shading.Material{
		BaseColorFactor:   mgl32.Vec4{material[0], material[1], material[2], material[3]},
		MetallicFactor:    material[4],
		RoughnessFactor:   material[5],
		NormalScale:       material[6],
		OcclusionStrength: material[7],
		EmissiveFactor:    mgl32.Vec3{material[8], material[9], material[10]},
	}
	return mesh, nil
}

// SaveMeshFile writes a mesh cache file to disk.
func SaveMeshFile(path string, m *Mesh) error {
	data, err := EncodeMeshBinary(m)
	if err != nil {
		return fmt.Errorf("encoding mesh %q: %w", m.Name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing mesh file %q: %w", path, err)
	}
	return nil
}

// LoadMeshFile reads a mesh cache file from disk.
func LoadMeshFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mesh file %q: %w", path, err)
	}
	mesh, err := DecodeMeshBinary(data)
	if err != nil {
		return nil, fmt.Errorf("decoding mesh file %q: %w", path, err)
	}
	return mesh, nil
}

func interleaveVertices(vertices []shading.VertexAttributes) []float32 {
	out := make([]float32, 0, len(vertices)*vertexStride)
	for _, v := range vertices {
		out = append(out,
			v.Position.X(), v.Position.Y(), v.Position.Z(),
			v.Normal.X(), v.Normal.Y(), v.Normal.Z(),
			v.TexCoord.X(), v.TexCoord.Y(),
			v.Tangent.X(), v.Tangent.Y(), v.Tangent.Z(), v.Tangent.W(),
		)
	}
	return out
}

func deinterleaveVertices(data []float32) []shading.VertexAttributes {
	out := make([]shading.VertexAttributes, len(data)/vertexStride)
	for i := range out {
		f := data[i*vertexStride:]
		out[i] = shading.VertexAttributes{
			Position: mgl32.Vec3{f[0], f[1], f[2]},
			Normal:   mgl32.Vec3{f[3], f[4], f[5]},
			TexCoord: mgl32.Vec2{f[6], f[7]},
			Tangent:  mgl32.Vec4{f[8], f[9], f[10], f[11]},
		}
	}
	return out
}

// Helper functions for binary encoding
func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return "", err
	}
	if count < 0 {
		return "", fmt.Errorf("negative string length %d", count)
	}
	buf := make([]byte, count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeFloat32Slice(w io.Writer, data []float32) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(data))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, data)
}

func writeUint32Slice(w io.Writer, data []uint32) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(data))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, data)
}

func readFloat32Slice(r io.Reader) ([]float32, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("negative slice length %d", count)
	}
	data := make([]float32, count)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

func readUint32Slice(r io.Reader) ([]uint32, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("negative slice length %d", count)
	}
	data := make([]uint32, count)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}
