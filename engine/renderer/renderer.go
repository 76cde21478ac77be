package renderer

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/levelbatch/engine/core"
	"github.com/spaghettifunk/levelbatch/engine/systems"
)

type RenderBufferType int

const (
	/** @brief Buffer is use is unknown. Default, but usually invalid. */
	RENDERBUFFER_TYPE_UNKNOWN RenderBufferType = iota
	/** @brief Buffer is used for vertex data. */
	RENDERBUFFER_TYPE_VERTEX
	/** @brief Buffer is used for index data. */
	RENDERBUFFER_TYPE_INDEX
	/** @brief Buffer is used for per-instance transforms, indexed from the shader. */
	RENDERBUFFER_TYPE_STORAGE
	/** @brief Buffer is used for the material attribute blocks. */
	RENDERBUFFER_TYPE_UNIFORM
	/** @brief Buffer holds indirect draw records. */
	RENDERBUFFER_TYPE_INDIRECT
)

func (t RenderBufferType) String() string {
	switch t {
	case RENDERBUFFER_TYPE_VERTEX:
		return "vertex"
	case RENDERBUFFER_TYPE_INDEX:
		return "index"
	case RENDERBUFFER_TYPE_STORAGE:
		return "storage"
	case RENDERBUFFER_TYPE_UNIFORM:
		return "uniform"
	case RENDERBUFFER_TYPE_INDIRECT:
		return "indirect"
	default:
		return "unknown"
	}
}

/** @brief Host-side contents of one GPU buffer, ready for upload. */
type RenderBuffer struct {
	/** @brief The type of buffer, which typically determines its use. */
	RenderBufferType RenderBufferType
	/** @brief The size of one element in bytes. */
	Stride uint32
	/** @brief The number of elements. */
	Count uint32
	/** @brief The little-endian packed elements. */
	Data []byte
}

// TotalSize is the buffer size in bytes.
func (rb *RenderBuffer) TotalSize() uint64 {
	return uint64(len(rb.Data))
}

/**
 * @brief Everything a renderer needs to draw a level: the packed buffers and
 * one draw record plus push constant block per drawable, in draw order.
 */
type FrameData struct {
	/** @brief The load this frame data was built from. */
	LevelID core.LoadID
	/** @brief One indexed draw per drawable. */
	Commands []vk.DrawIndexedIndirectCommand
	/** @brief Pushed before the matching draw in Commands. */
	PushConstants []PushConstants

	Vertices   RenderBuffer
	Indices    RenderBuffer
	Transforms RenderBuffer
	Materials  RenderBuffer
	Indirect   RenderBuffer
}

// NewFrameData packs a finished level for upload.
func NewFrameData(lvl *systems.Level) (*FrameData, error) {
	if lvl == nil {
		err := fmt.Errorf("func NewFrameData - a level is required")
		core.LogError(err.Error())
		return nil, err
	}

	commands, constants := DrawList(lvl)
	fd := &FrameData{
		LevelID:       lvl.ID,
		Commands:      commands,
		PushConstants: constants,
		Vertices:      packVertices(lvl.Vertices()),
		Indices:       packIndices(lvl.Indices()),
		Transforms:    packTransforms(lvl.Transforms()),
		Materials:     packMaterials(lvl.Materials()),
		Indirect:      packCommands(commands),
	}

	core.LogDebug("[%s] frame data: %d draws, %d vertex bytes, %d index bytes, %d transform bytes, %d material bytes",
		lvl.ID.Short(), len(commands), fd.Vertices.TotalSize(), fd.Indices.TotalSize(), fd.Transforms.TotalSize(), fd.Materials.TotalSize())
	return fd, nil
}

// CommandRecorder is the subset of a command buffer a level draw needs.
type CommandRecorder interface {
	PushConstants(stageFlags vk.ShaderStageFlags, offset uint32, values PushConstants)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32)
}

// Record issues every draw of the frame: the push constants for the
// drawable, then one instanced indexed draw.
func (fd *FrameData) Record(cmd CommandRecorder) {
	stages := PushConstantRange().StageFlags
	for i, c := range fd.Commands {
		cmd.PushConstants(stages, 0, fd.PushConstants[i])
		cmd.DrawIndexed(c.IndexCount, c.InstanceCount, c.FirstIndex, c.VertexOffset, c.FirstInstance)
	}
}
