package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/** @brief A quaternion, used to represent rotational orientation. */
type Quaternion Vec4

/**
 * @brief A 4x4 matrix stored column-major: element (row, col) lives at Data[col*4+row].
 * The layout matches OpenGL uniforms and mgl32.Mat4.
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

/**
 * @brief Represents a single textured vertex: a position plus a texture coordinate.
 */
type Vertex3D struct {
	/** @brief The position of the vertex */
	Position Vec3
	/** @brief The texture coordinate of the vertex. */
	Texcoord Vec2
}

/**
 * @brief Represents the transform of an object in the world. The fields are
 * private: mutate through the methods in transform.go so the cached matrix
 * and basis vectors are invalidated correctly. The zero value is the
 * identity transform, the same as NewTransform.
 */
type Transform struct {
	/** @brief The position in the world. */
	position Vec3
	/** @brief The rotation in the world. */
	rotation Quaternion
	/** @brief Euler mirror of rotation in degrees, always derived from it. */
	eulerRotation Vec3
	/** @brief The scale in the world. */
	scale Vec3
	/**
	 * @brief Indicates if the position, rotation or scale have changed,
	 * indicating that the cached state needs to be recalculated.
	 */
	isDirty bool
	/** @brief False until rotation and scale hold real values. */
	initialized bool
	/** @brief The model matrix, translate * rotate * scale. */
	matrix  Mat4
	forward Vec3
	up      Vec3
	right   Vec3
}
