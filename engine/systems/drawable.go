package systems

import "fmt"

type DrawableState uint8

const (
	// Created from the scene, geometry not known yet.
	DrawableDiscovered DrawableState = iota
	// Geometry, material and instance range are all set. Drawn.
	DrawableResolved
	// Fanned out into one Resolved drawable per submesh. Not drawn itself.
	DrawableSplit
	// The mesh asset could not be resolved. Not drawn.
	DrawableFailed
)

func (s DrawableState) String() string {
	switch s {
	case DrawableDiscovered:
		return "discovered"
	case DrawableResolved:
		return "resolved"
	case DrawableSplit:
		return "split"
	case DrawableFailed:
		return "failed"
	default:
		return fmt.Sprintf("DrawableState(%d)", uint8(s))
	}
}

/**
 * @brief One indexed-instanced draw call worth of metadata. All offsets
 * are in elements of the matching combined buffer, not bytes.
 */
type Drawable struct {
	/** @brief Unique key: the mesh name, or mesh name + "_submeshK" when split. */
	Key string
	/** @brief The scene mesh name this drawable comes from. */
	Mesh string
	/** @brief Zero-based submesh index within the mesh asset. */
	Submesh uint32
	/** @brief Number of indices to draw. */
	IndexCount uint32
	/** @brief First index in the combined index buffer. */
	FirstIndex uint32
	/** @brief Base vertex: index values are local to the run starting here. */
	VertexOffset uint32
	/** @brief Entry in the combined material buffer. */
	MaterialIndex uint32
	/** @brief First matrix of this drawable's instances in the transform buffer. */
	TransformOffset uint32
	/** @brief Number of instances, contiguous from TransformOffset. */
	InstanceCount uint32
	/** @brief Where the drawable is in its lifecycle. Only Resolved drawables are drawn. */
	State DrawableState
}

// submeshKey names the K-th (1-based) submesh of a split mesh.
func submeshKey(mesh string, k int) string {
	return fmt.Sprintf("%s_submesh%d", mesh, k)
}

// transformEnd is one past the last transform of the drawable.
func (d *Drawable) transformEnd() uint32 {
	return d.TransformOffset + d.InstanceCount
}
