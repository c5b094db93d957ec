package math

import (
	m "math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief An approximate representation of PI divided by 2. */
	K_HALF_PI float32 = 0.5 * K_PI
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

func ksin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func kcos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func ktan(x float32) float32 {
	return float32(m.Tan(float64(x)))
}

func kacos(x float32) float32 {
	return float32(m.Acos(float64(x)))
}

func kasin(x float32) float32 {
	return float32(m.Asin(float64(x)))
}

func katan2(y, x float32) float32 {
	return float32(m.Atan2(float64(y), float64(x)))
}

func ksqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

func kabs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

// Vector 2
// ------------------------------------------

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec2Zero() Vec2 {
	return Vec2{}
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

func (v Vec2) MulScalar(scalar float32) Vec2 {
	return Vec2{v.X * scalar, v.Y * scalar}
}

func (v Vec2) Length() float32 {
	return ksqrt(v.X*v.X + v.Y*v.Y)
}

/**
 * @brief Compares all elements of v and other and ensures the difference
 * is less than tolerance.
 */
func (v Vec2) Compare(other Vec2, tolerance float32) bool {
	return kabs(v.X-other.X) <= tolerance && kabs(v.Y-other.Y) <= tolerance
}

// Vector 3
// ------------------------------------------

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func NewVec3Zero() Vec3 {
	return Vec3{}
}

func NewVec3One() Vec3 {
	return Vec3{1.0, 1.0, 1.0}
}

/** @brief The world up hint used by LookAt: +Z. */
func NewVec3UpZ() Vec3 {
	return Vec3{0.0, 0.0, 1.0}
}

func NewVec3Up() Vec3 {
	return Vec3{0.0, 1.0, 0.0}
}

/** @brief Local forward, pointing down -Z. */
func NewVec3Forward() Vec3 {
	return Vec3{0.0, 0.0, -1.0}
}

func NewVec3Right() Vec3 {
	return Vec3{1.0, 0.0, 0.0}
}

func (v Vec3) ToVec4(w float32) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

/** @brief Component-wise multiplication. */
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

func (v Vec3) MulScalar(scalar float32) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

func (v Vec3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float32 {
	return ksqrt(v.LengthSquared())
}

/**
 * @brief Returns a unit-length copy of v. The zero vector is returned unchanged.
 */
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

/**
 * @brief Linearly interpolates between v and other. t is not clamped.
 */
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return Vec3{
		v.X + (other.X-v.X)*t,
		v.Y + (other.Y-v.Y)*t,
		v.Z + (other.Z-v.Z)*t,
	}
}

func (v Vec3) Compare(other Vec3, tolerance float32) bool {
	return kabs(v.X-other.X) <= tolerance &&
		kabs(v.Y-other.Y) <= tolerance &&
		kabs(v.Z-other.Z) <= tolerance
}

/**
 * @brief Transforms v as a point (w = 1) by the matrix mt.
 */
func (v Vec3) Transform(mt Mat4) Vec3 {
	return mt.MulVec4(v.ToVec4(1.0)).ToVec3()
}

// Vector 4
// ------------------------------------------

func NewVec4Create(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func NewVec4Zero() Vec4 {
	return Vec4{}
}

func NewVec4One() Vec4 {
	return Vec4{1.0, 1.0, 1.0, 1.0}
}

func (v Vec4) ToVec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

func (v Vec4) IsZero() bool {
	return v == Vec4{}
}

func (v Vec4) Compare(other Vec4, tolerance float32) bool {
	return kabs(v.X-other.X) <= tolerance &&
		kabs(v.Y-other.Y) <= tolerance &&
		kabs(v.Z-other.Z) <= tolerance &&
		kabs(v.W-other.W) <= tolerance
}

// Matrix 4
// ------------------------------------------

/**
 * @brief Creates and returns an identity matrix.
 */
func NewMat4Identity() Mat4 {
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0
	out_matrix.Data[5] = 1.0
	out_matrix.Data[10] = 1.0
	out_matrix.Data[15] = 1.0
	return out_matrix
}

func newMat4FromMGL(mm mgl32.Mat4) Mat4 {
	return Mat4{Data: [16]float32(mm)}
}

func (mt Mat4) mgl() mgl32.Mat4 {
	return mgl32.Mat4(mt.Data)
}

/** @brief Returns the element at the given row and column. */
func (mt Mat4) At(row, col int) float32 {
	return mt.Data[col*4+row]
}

/** @brief Returns the column as a 4-element vector. */
func (mt Mat4) Column(col int) Vec4 {
	return Vec4{mt.Data[col*4], mt.Data[col*4+1], mt.Data[col*4+2], mt.Data[col*4+3]}
}

/**
 * @brief Returns mt * other. Applied to a vector, other acts first.
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	out_matrix := Mat4{}
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			sum := float32(0)
			for i := 0; i < 4; i++ {
				sum += mt.Data[i*4+row] * other.Data[col*4+i]
			}
			out_matrix.Data[col*4+row] = sum
		}
	}
	return out_matrix
}

/** @brief Returns mt * v. */
func (mt Mat4) MulVec4(v Vec4) Vec4 {
	d := mt.Data
	return Vec4{
		d[0]*v.X + d[4]*v.Y + d[8]*v.Z + d[12]*v.W,
		d[1]*v.X + d[5]*v.Y + d[9]*v.Z + d[13]*v.W,
		d[2]*v.X + d[6]*v.Y + d[10]*v.Z + d[14]*v.W,
		d[3]*v.X + d[7]*v.Y + d[11]*v.Z + d[15]*v.W,
	}
}

/**
 * @brief Creates and returns a perspective matrix using the symmetric frustum formula.
 *
 * @param fov_radians The vertical field of view in radians.
 * @param aspect_ratio The aspect ratio (width / height).
 * @param near_clip The near clipping plane distance.
 * @param far_clip The far clipping plane distance.
 * @return A new perspective matrix.
 */
func NewMat4Perspective(fov_radians, aspect_ratio, near_clip, far_clip float32) Mat4 {
	half_tan_fov := ktan(fov_radians * 0.5)
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0 / (aspect_ratio * half_tan_fov)
	out_matrix.Data[5] = 1.0 / half_tan_fov
	out_matrix.Data[10] = -((far_clip + near_clip) / (far_clip - near_clip))
	out_matrix.Data[11] = -1.0
	out_matrix.Data[14] = -((2.0 * far_clip * near_clip) / (far_clip - near_clip))
	return out_matrix
}

func NewMat4Translation(position Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[12] = position.X
	out_matrix.Data[13] = position.Y
	out_matrix.Data[14] = position.Z
	return out_matrix
}

func NewMat4Scale(scale Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = scale.X
	out_matrix.Data[5] = scale.Y
	out_matrix.Data[10] = scale.Z
	return out_matrix
}

func (mt Mat4) Transposed() Mat4 {
	return newMat4FromMGL(mt.mgl().Transpose())
}

/**
 * @brief Returns the inverse of the matrix. A singular matrix yields the zero matrix.
 */
func (mt Mat4) Inverse() Mat4 {
	return newMat4FromMGL(mt.mgl().Inv())
}

/**
 * @brief Splits an affine T*R*S matrix back into its translation, rotation and scale.
 */
func (mt Mat4) Decompose() (Vec3, Quaternion, Vec3) {
	position := Vec3{mt.Data[12], mt.Data[13], mt.Data[14]}
	scale := Vec3{
		mt.Column(0).ToVec3().Length(),
		mt.Column(1).ToVec3().Length(),
		mt.Column(2).ToVec3().Length(),
	}
	rotation := NewMat4Identity()
	for col, s := range [3]float32{scale.X, scale.Y, scale.Z} {
		if s == 0 {
			continue
		}
		for row := 0; row < 3; row++ {
			rotation.Data[col*4+row] = mt.Data[col*4+row] / s
		}
	}
	return position, NewQuatFromMat4(rotation), scale
}

func (mt Mat4) Compare(other Mat4, tolerance float32) bool {
	for i := range mt.Data {
		if kabs(mt.Data[i]-other.Data[i]) > tolerance {
			return false
		}
	}
	return true
}

// Quaternion
// ------------------------------------------

func NewQuatIdentity() Quaternion {
	return Quaternion{0, 0, 0, 1.0}
}

func (q Quaternion) Length() float32 {
	return ksqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

/**
 * @brief Returns a normalized copy of the quaternion. A zero quaternion
 * normalizes to the identity.
 */
func (q Quaternion) Normalize() Quaternion {
	length := q.Length()
	if length == 0 {
		return NewQuatIdentity()
	}
	return Quaternion{q.X / length, q.Y / length, q.Z / length, q.W / length}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{-q.X, -q.Y, -q.Z, q.W}
}

func (q Quaternion) Inverse() Quaternion {
	return q.Conjugate().Normalize()
}

/**
 * @brief Hamilton product q * other. As a rotation, other is applied first.
 */
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

func (q Quaternion) Dot(other Quaternion) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

/**
 * @brief Compares two quaternions as rotations: q and -q are equal.
 */
func (q Quaternion) Compare(other Quaternion, tolerance float32) bool {
	return kabs(kabs(q.Normalize().Dot(other.Normalize()))-1.0) <= tolerance
}

/** @brief Rotates v by the quaternion. */
func (q Quaternion) Rotate(v Vec3) Vec3 {
	return v.Transform(q.ToMat4())
}

/**
 * @brief Creates a column-major rotation matrix from the quaternion.
 */
func (q Quaternion) ToMat4() Mat4 {
	n := q.Normalize()
	out_matrix := NewMat4Identity()

	out_matrix.Data[0] = 1.0 - 2.0*(n.Y*n.Y+n.Z*n.Z)
	out_matrix.Data[1] = 2.0 * (n.X*n.Y + n.Z*n.W)
	out_matrix.Data[2] = 2.0 * (n.X*n.Z - n.Y*n.W)

	out_matrix.Data[4] = 2.0 * (n.X*n.Y - n.Z*n.W)
	out_matrix.Data[5] = 1.0 - 2.0*(n.X*n.X+n.Z*n.Z)
	out_matrix.Data[6] = 2.0 * (n.Y*n.Z + n.X*n.W)

	out_matrix.Data[8] = 2.0 * (n.X*n.Z + n.Y*n.W)
	out_matrix.Data[9] = 2.0 * (n.Y*n.Z - n.X*n.W)
	out_matrix.Data[10] = 1.0 - 2.0*(n.X*n.X+n.Y*n.Y)

	return out_matrix
}

/**
 * @brief Creates a quaternion from the given axis and angle. The axis is normalized.
 *
 * @param axis The axis of rotation.
 * @param angle The angle of rotation in radians.
 * @return A new unit quaternion.
 */
func NewQuatFromAxisAngle(axis Vec3, angle float32) Quaternion {
	a := axis.Normalize()
	half_angle := 0.5 * angle
	s := ksin(half_angle)
	return Quaternion{s * a.X, s * a.Y, s * a.Z, kcos(half_angle)}
}

/**
 * @brief Creates the quaternion for Rx * Ry * Rz from Euler angles in radians.
 */
func NewQuatFromEuler(euler Vec3) Quaternion {
	qx := NewQuatFromAxisAngle(Vec3{1, 0, 0}, euler.X)
	qy := NewQuatFromAxisAngle(Vec3{0, 1, 0}, euler.Y)
	qz := NewQuatFromAxisAngle(Vec3{0, 0, 1}, euler.Z)
	return qx.Mul(qy).Mul(qz).Normalize()
}

/**
 * @brief Extracts the pure rotation of a matrix (upper 3x3, no scale) as a quaternion.
 */
func NewQuatFromMat4(mt Mat4) Quaternion {
	mq := mgl32.Mat4ToQuat(mt.mgl())
	return Quaternion{mq.V[0], mq.V[1], mq.V[2], mq.W}.Normalize()
}

/**
 * @brief Returns the rotation whose forward (-Z) points along direction with its
 * up as close as possible to the up hint. When direction and up are parallel the
 * hint is swapped for another world axis.
 */
func NewQuatLookRotation(direction, up Vec3) Quaternion {
	f := direction.Normalize()
	r := f.Cross(up)
	if r.LengthSquared() < 1e-12 {
		r = f.Cross(NewVec3Up())
		if r.LengthSquared() < 1e-12 {
			r = f.Cross(NewVec3Right())
		}
	}
	r = r.Normalize()
	u := r.Cross(f)

	basis := NewMat4Identity()
	basis.Data[0], basis.Data[1], basis.Data[2] = r.X, r.Y, r.Z
	basis.Data[4], basis.Data[5], basis.Data[6] = u.X, u.Y, u.Z
	basis.Data[8], basis.Data[9], basis.Data[10] = -f.X, -f.Y, -f.Z
	return NewQuatFromMat4(basis)
}

/**
 * @brief Returns the X, Y, Z Euler angles (radians) such that Rx * Ry * Rz equals
 * the quaternion's rotation.
 */
func (q Quaternion) ToEuler() Vec3 {
	mt := q.ToMat4()
	m02 := Clamp(mt.At(0, 2), -1.0, 1.0)
	y := kasin(m02)
	if kabs(m02) < 0.9999999 {
		return Vec3{
			X: katan2(-mt.At(1, 2), mt.At(2, 2)),
			Y: y,
			Z: katan2(-mt.At(0, 1), mt.At(0, 0)),
		}
	}
	// Gimbal lock: X and Z share an axis, fold everything into X.
	return Vec3{
		X: katan2(mt.At(2, 1), mt.At(1, 1)),
		Y: y,
		Z: 0,
	}
}

/**
 * @brief Calculates the shortest-arc spherical linear interpolation between two
 * quaternions. The percentage is not clamped.
 */
func (q Quaternion) Slerp(other Quaternion, percentage float32) Quaternion {
	// Only unit quaternions are valid rotations.
	v0 := q.Normalize()
	v1 := other.Normalize()

	dot := v0.Dot(v1)

	// v1 and -v1 are the same rotation; flip to take the shorter path.
	if dot < 0.0 {
		v1 = Quaternion{-v1.X, -v1.Y, -v1.Z, -v1.W}
		dot = -dot
	}

	const DOT_THRESHOLD float32 = 0.9995
	if dot > DOT_THRESHOLD {
		// Too close for acos, lerp and normalize instead.
		qt := Quaternion{
			v0.X + ((v1.X - v0.X) * percentage),
			v0.Y + ((v1.Y - v0.Y) * percentage),
			v0.Z + ((v1.Z - v0.Z) * percentage),
			v0.W + ((v1.W - v0.W) * percentage)}
		return qt.Normalize()
	}

	theta_0 := kacos(dot)
	theta := theta_0 * percentage
	sin_theta := ksin(theta)
	sin_theta_0 := ksin(theta_0)

	s0 := kcos(theta) - dot*sin_theta/sin_theta_0
	s1 := sin_theta / sin_theta_0

	return Quaternion{
		(v0.X * s0) + (v1.X * s1),
		(v0.Y * s0) + (v1.Y * s1),
		(v0.Z * s0) + (v1.Z * s1),
		(v0.W * s0) + (v1.W * s1)}
}

/**
 * @brief Converts provided degrees to radians.
 */
func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

/**
 * @brief Converts provided radians to degrees.
 */
func RadToDeg(radians float32) float32 {
	return radians * K_RAD2DEG_MULTIPLIER
}
