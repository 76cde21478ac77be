package renderer

import (
	"encoding/binary"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/levelbatch/engine/math"
	"github.com/spaghettifunk/levelbatch/engine/resources"
)

/**
 * @brief The material attribute block as laid out in the material buffer.
 * Each vec3 shares a 16 byte slot with the scalar that follows it.
 */
type GPUMaterial struct {
	Kd        math.Vec3
	D         float32
	Ks        math.Vec3
	Ns        float32
	Ka        math.Vec3
	Sharpness float32
	Tf        math.Vec3
	Ni        float32
	Ke        math.Vec3
	Illum     int32
}

const (
	GPUMaterialSize    = 80
	IndexSize          = 4
	IndirectRecordSize = 20
)

func NewGPUMaterial(m resources.Material) GPUMaterial {
	return GPUMaterial{
		Kd:        m.Kd,
		D:         m.D,
		Ks:        m.Ks,
		Ns:        m.Ns,
		Ka:        m.Ka,
		Sharpness: m.Sharpness,
		Tf:        m.Tf,
		Ni:        m.Ni,
		Ke:        m.Ke,
		Illum:     m.Illum,
	}
}

func packVertices(vertices []math.Vertex3D) RenderBuffer {
	return RenderBuffer{
		RenderBufferType: RENDERBUFFER_TYPE_VERTEX,
		Stride:           math.Vertex3DSize,
		Count:            uint32(len(vertices)),
		Data:             pack(vertices),
	}
}

func packIndices(indices []uint32) RenderBuffer {
	return RenderBuffer{
		RenderBufferType: RENDERBUFFER_TYPE_INDEX,
		Stride:           IndexSize,
		Count:            uint32(len(indices)),
		Data:             pack(indices),
	}
}

func packTransforms(transforms []math.Mat4) RenderBuffer {
	return RenderBuffer{
		RenderBufferType: RENDERBUFFER_TYPE_STORAGE,
		Stride:           math.Mat4Size,
		Count:            uint32(len(transforms)),
		Data:             pack(transforms),
	}
}

func packMaterials(materials []resources.Material) RenderBuffer {
	gpu := make([]GPUMaterial, len(materials))
	for i, m := range materials {
		gpu[i] = NewGPUMaterial(m)
	}
	return RenderBuffer{
		RenderBufferType: RENDERBUFFER_TYPE_UNIFORM,
		Stride:           GPUMaterialSize,
		Count:            uint32(len(materials)),
		Data:             pack(gpu),
	}
}

// packCommands writes the records field by field: the vk struct carries
// cgo bookkeeping that binary cannot encode.
func packCommands(commands []vk.DrawIndexedIndirectCommand) RenderBuffer {
	data := make([]byte, 0, len(commands)*IndirectRecordSize)
	for _, c := range commands {
		data = binary.LittleEndian.AppendUint32(data, c.IndexCount)
		data = binary.LittleEndian.AppendUint32(data, c.InstanceCount)
		data = binary.LittleEndian.AppendUint32(data, c.FirstIndex)
		data = binary.LittleEndian.AppendUint32(data, uint32(c.VertexOffset))
		data = binary.LittleEndian.AppendUint32(data, c.FirstInstance)
	}
	return RenderBuffer{
		RenderBufferType: RENDERBUFFER_TYPE_INDIRECT,
		Stride:           IndirectRecordSize,
		Count:            uint32(len(commands)),
		Data:             data,
	}
}

// pack encodes a slice of fixed-size values. Every packed type is made of
// 4 byte fields only, so it cannot fail.
func pack(data any) []byte {
	out, err := binary.Append(nil, binary.LittleEndian, data)
	if err != nil {
		panic(err)
	}
	return out
}
