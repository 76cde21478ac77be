package resources

import (
	"fmt"

	"github.com/spaghettifunk/levelbatch/engine/core"
	"github.com/spaghettifunk/levelbatch/engine/math"
)

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Not an asset this engine knows how to read. */
	ResourceTypeNone ResourceType = iota
	/** @brief Mesh asset: vertices, indices, submeshes and materials. */
	ResourceTypeMesh
	/** @brief Level description: an ordered list of mesh instances. */
	ResourceTypeLevel
)

func (rt ResourceType) String() string {
	switch rt {
	case ResourceTypeMesh:
		return "mesh"
	case ResourceTypeLevel:
		return "level"
	default:
		return "none"
	}
}

/**
 * @brief Surface attributes of a submesh. The field order matches the
 * material block read by the shaders, so a material buffer can be
 * uploaded as-is.
 */
type Material struct {
	/** @brief The material name, informational only. Not uploaded. */
	Name string
	/** @brief Diffuse reflectivity. */
	Kd math.Vec3
	/** @brief Dissolve (transparency), in [0, 1]. */
	D float32
	/** @brief Specular reflectivity. */
	Ks math.Vec3
	/** @brief Specular exponent. */
	Ns float32
	/** @brief Ambient reflectivity. */
	Ka math.Vec3
	/** @brief Local reflection map sharpness. */
	Sharpness float32
	/** @brief Transmission filter. */
	Tf math.Vec3
	/** @brief Optical density (index of refraction). */
	Ni float32
	/** @brief Emissive reflectivity. */
	Ke math.Vec3
	/** @brief Illumination model. */
	Illum int32
}

/**
 * @brief A contiguous slice of a mesh asset's indices drawn with one material.
 */
type Submesh struct {
	/** @brief Offset of the first index, in index elements. */
	IndexOffset uint32
	/** @brief Number of indices. */
	IndexCount uint32
	/** @brief Index into MeshAsset.Materials. */
	MaterialID uint32
}

/**
 * @brief A parsed mesh asset. Index values are local to Vertices.
 * The level builder only reads from it.
 */
type MeshAsset struct {
	Name      string
	Vertices  []math.Vertex3D
	Indices   []uint32
	Submeshes []Submesh
	Materials []Material
}

// Validate checks that every submesh addresses existing indices and
// materials and that every index addresses an existing vertex.
func (ma *MeshAsset) Validate() error {
	if len(ma.Submeshes) == 0 {
		return fmt.Errorf("mesh '%s' has no submeshes: %w", ma.Name, core.ErrMalformedMesh)
	}
	indexCount := uint64(len(ma.Indices))
	for i, sm := range ma.Submeshes {
		if uint64(sm.IndexOffset)+uint64(sm.IndexCount) > indexCount {
			return fmt.Errorf("mesh '%s' submesh %d range [%d, %d) exceeds %d indices: %w",
				ma.Name, i, sm.IndexOffset, uint64(sm.IndexOffset)+uint64(sm.IndexCount), indexCount, core.ErrMalformedMesh)
		}
		if int(sm.MaterialID) >= len(ma.Materials) {
			return fmt.Errorf("mesh '%s' submesh %d material %d out of range (materials=%d): %w",
				ma.Name, i, sm.MaterialID, len(ma.Materials), core.ErrMalformedMesh)
		}
	}
	vertexCount := uint32(len(ma.Vertices))
	for i, idx := range ma.Indices {
		if idx >= vertexCount {
			return fmt.Errorf("mesh '%s' index %d references vertex %d (vertices=%d): %w",
				ma.Name, i, idx, vertexCount, core.ErrMalformedMesh)
		}
	}
	return nil
}

// SubmeshIndices returns the index slice owned by submesh i.
func (ma *MeshAsset) SubmeshIndices(i int) []uint32 {
	sm := ma.Submeshes[i]
	return ma.Indices[sm.IndexOffset : sm.IndexOffset+sm.IndexCount]
}

/** @brief One placement of a mesh in a level. */
type SceneInstance struct {
	/** @brief The mesh name, without file extension. */
	MeshName string
	/** @brief Row-major world transform. */
	Transform math.Mat4
}

// SceneReader produces the ordered instance list of a level.
type SceneReader interface {
	ReadScene() ([]SceneInstance, error)
}

// MeshLoader resolves a mesh name to its parsed asset. A name with no asset
// must yield an error wrapping core.ErrMeshNotFound.
type MeshLoader interface {
	LoadMesh(name string) (*MeshAsset, error)
}
