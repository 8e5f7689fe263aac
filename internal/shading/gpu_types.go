package shading

import (
	"encoding/binary"
	"math"
)

// GPUSceneUniforms mirrors binding group A of the host pipeline: camera,
// model, material scalars, and lighting, in std140 layout. Vector fields sit
// on 16-byte boundaries with explicit padding so Marshal output is binary
// compatible with an existing uniform buffer.
//
// Size: 416 bytes.
type GPUSceneUniforms struct {
	View           [16]float32 // offset 0
	Projection     [16]float32 // offset 64
	ViewProjection [16]float32 // offset 128
	Model          [16]float32 // offset 192
	NormalMatrix   [16]float32 // offset 256

	CameraPosition [3]float32 // offset 320
	Pad0           float32    // offset 332

	BaseColorFactor [4]float32 // offset 336

	MetallicFactor    float32 // offset 352
	RoughnessFactor   float32 // offset 356
	NormalScale       float32 // offset 360
	OcclusionStrength float32 // offset 364

	EmissiveFactor [3]float32 // offset 368
	Pad1           float32    // offset 380

	LightDirection [3]float32 // offset 384
	LightIntensity float32    // offset 396

	LightColor   [3]float32 // offset 400
	IBLIntensity float32    // offset 412
}

// GPUSceneUniformsSize is the byte size of the marshalled uniform block.
const GPUSceneUniformsSize = 416

// NewGPUSceneUniforms packs the per-draw parameters into the uniform block
// layout.
func NewGPUSceneUniforms(cam CameraParams, model ModelParams, mat Material, light DirectionalLight) GPUSceneUniforms {
	return GPUSceneUniforms{
		View:           [16]float32(cam.View),
		Projection:     [16]float32(cam.Projection),
		ViewProjection: [16]float32(cam.ViewProjection),
		Model:          [16]float32(model.Model),
		NormalMatrix:   [16]float32(model.NormalMatrix),

		CameraPosition: [3]float32(cam.Position),

		BaseColorFactor: [4]float32(mat.BaseColorFactor),

		MetallicFactor:    mat.MetallicFactor,
		RoughnessFactor:   mat.RoughnessFactor,
		NormalScale:       mat.NormalScale,
		OcclusionStrength: mat.OcclusionStrength,

		EmissiveFactor: [3]float32(mat.EmissiveFactor),

		LightDirection: [3]float32(light.Direction),
		LightIntensity: light.Intensity,

		LightColor:   [3]float32(light.Color),
		IBLIntensity: light.IBLIntensity,
	}
}

// Size returns the size of the marshalled struct in bytes.
func (g *GPUSceneUniforms) Size() int {
	return GPUSceneUniformsSize
}

// Marshal serializes the uniform block into a little-endian byte buffer
// suitable for GPU upload.
func (g *GPUSceneUniforms) Marshal() []byte {
	buf := make([]byte, 0, GPUSceneUniformsSize)

	buf = putFloats(buf, g.View[:])
	buf = putFloats(buf, g.Projection[:])
	buf = putFloats(buf, g.ViewProjection[:])
	buf = putFloats(buf, g.Model[:])
	buf = putFloats(buf, g.NormalMatrix[:])

	buf = putFloats(buf, g.CameraPosition[:])
	buf = putFloats(buf, []float32{g.Pad0})

	buf = putFloats(buf, g.BaseColorFactor[:])

	buf = putFloats(buf, []float32{g.MetallicFactor, g.RoughnessFactor, g.NormalScale, g.OcclusionStrength})

	buf = putFloats(buf, g.EmissiveFactor[:])
	buf = putFloats(buf, []float32{g.Pad1})

	buf = putFloats(buf, g.LightDirection[:])
	buf = putFloats(buf, []float32{g.LightIntensity})

	buf = putFloats(buf, g.LightColor[:])
	buf = putFloats(buf, []float32{g.IBLIntensity})

	return buf
}

func putFloats(buf []byte, vals []float32) []byte {
	for _, v := range vals {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
