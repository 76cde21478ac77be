package renderer

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/levelbatch/engine/systems"
)

// PushConstants is the per-draw block read by the vertex shader. The shader
// fetches transforms[TransformOffset + gl_InstanceIndex] and
// materials[MaterialIndex].
type PushConstants struct {
	TransformOffset uint32
	MaterialIndex   uint32
}

// PushConstantsSize is the byte size of PushConstants.
const PushConstantsSize = 8

// PushConstantRange describes PushConstants for the pipeline layout.
func PushConstantRange() vk.PushConstantRange {
	return vk.PushConstantRange{
		StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit) | vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		Offset:     0,
		Size:       PushConstantsSize,
	}
}

// DrawList turns the level's drawables into indexed draw records, in draw
// order. Indices are local to each mesh, so VertexOffset is the base vertex.
// FirstInstance stays 0: the transform run is addressed via push constants.
func DrawList(lvl *systems.Level) ([]vk.DrawIndexedIndirectCommand, []PushConstants) {
	drawables := lvl.Drawables()
	commands := make([]vk.DrawIndexedIndirectCommand, 0, len(drawables))
	constants := make([]PushConstants, 0, len(drawables))

	for _, d := range drawables {
		commands = append(commands, vk.DrawIndexedIndirectCommand{
			IndexCount:    d.IndexCount,
			InstanceCount: d.InstanceCount,
			FirstIndex:    d.FirstIndex,
			VertexOffset:  int32(d.VertexOffset),
			FirstInstance: 0,
		})
		constants = append(constants, PushConstants{
			TransformOffset: d.TransformOffset,
			MaterialIndex:   d.MaterialIndex,
		})
	}
	return commands, constants
}
