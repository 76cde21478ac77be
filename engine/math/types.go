package math

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

/**
 * @brief a 4x4 row-major matrix, typically used to represent object transformations.
 * Translation lives in the fourth row (Data[12], Data[13], Data[14]).
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

/**
 * @brief Represents a single vertex of a mesh asset. The layout is fixed
 * and opaque to the level builder, which only copies whole records.
 */
type Vertex3D struct {
	/** @brief The position of the vertex */
	Position Vec3
	/** @brief The texture coordinate of the vertex (u, v, w). */
	Texcoord Vec3
	/** @brief The normal of the vertex. */
	Normal Vec3
}

// Vertex3DSize is the byte size of one Vertex3D as laid out in a vertex buffer.
const Vertex3DSize = 9 * 4

// Mat4Size is the byte size of one Mat4 as laid out in a transform buffer.
const Mat4Size = 16 * 4
