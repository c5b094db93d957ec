package math

// NewTransform returns a transform at the origin with no rotation and unit scale.
func NewTransform() Transform {
	return NewTransformFromPositionRotationScale(NewVec3Zero(), NewVec3Zero(), NewVec3One())
}

func NewTransformFromPosition(position Vec3) Transform {
	return NewTransformFromPositionRotationScale(position, NewVec3Zero(), NewVec3One())
}

// NewTransformFromPositionRotationScale takes the rotation as Euler angles in degrees.
func NewTransformFromPositionRotationScale(position, rotation, scale Vec3) Transform {
	t := Transform{position: position}
	t.init()
	t.scale = scale
	t.SetRotation(rotation)
	return t
}

// init turns a zero Transform into the identity: no rotation, unit scale.
func (t *Transform) init() {
	if t.initialized {
		return
	}
	t.rotation = NewQuatIdentity()
	t.scale = NewVec3One()
	t.matrix = NewMat4Identity()
	t.isDirty = true
	t.initialized = true
}

func (t *Transform) SetPosition(position Vec3) {
	t.position = position
	t.isDirty = true
}

func (t *Transform) GetPosition() Vec3 {
	return t.position
}

func (t *Transform) Translate(translation Vec3) {
	t.position = t.position.Add(translation)
	t.isDirty = true
}

// SetRotation overwrites the rotation from Euler angles in degrees, applied as Rx * Ry * Rz.
func (t *Transform) SetRotation(eulerDegrees Vec3) {
	t.setRotation(NewQuatFromEuler(Vec3{
		DegToRad(eulerDegrees.X),
		DegToRad(eulerDegrees.Y),
		DegToRad(eulerDegrees.Z),
	}))
}

func (t *Transform) SetRotationQuat(rotation Quaternion) {
	t.setRotation(rotation)
}

// GetRotation returns the Euler mirror of the rotation, in degrees.
func (t *Transform) GetRotation() Vec3 {
	t.init()
	return t.eulerRotation
}

func (t *Transform) GetRotationQuat() Quaternion {
	t.init()
	return t.rotation
}

// Rotate composes a local-space rotation of angleDegrees around axis onto the
// current rotation. A zero axis leaves the transform untouched.
func (t *Transform) Rotate(angleDegrees float32, axis Vec3) {
	t.init()
	if axis.LengthSquared() == 0 {
		return
	}
	t.setRotation(t.rotation.Mul(NewQuatFromAxisAngle(axis, DegToRad(angleDegrees))))
}

func (t *Transform) SetScale(scale Vec3) {
	t.init()
	t.scale = scale
	t.isDirty = true
}

func (t *Transform) GetScale() Vec3 {
	t.init()
	return t.scale
}

// Scale multiplies the current scale component-wise.
func (t *Transform) Scale(factor Vec3) {
	t.init()
	t.scale = t.scale.Mul(factor)
	t.isDirty = true
}

// LookAt orients the transform towards target using +Z as the up hint.
func (t *Transform) LookAt(target Vec3) {
	t.LookAtUp(target, NewVec3UpZ())
}

// LookAtUp orients the forward vector towards target. Nothing happens when
// target equals the current position.
func (t *Transform) LookAtUp(target, up Vec3) {
	if target == t.position {
		return
	}
	t.setRotation(NewQuatLookRotation(target.Sub(t.position), up))
}

// Lerp moves this transform towards target. t is not clamped.
func (t *Transform) Lerp(target Transform, factor float32) {
	t.init()
	target.init()
	t.position = t.position.Lerp(target.position, factor)
	t.scale = t.scale.Lerp(target.scale, factor)
	t.setRotation(t.rotation.Slerp(target.rotation, factor))
}

// TransformLerp returns the interpolation between a and b without touching either.
func TransformLerp(a, b Transform, factor float32) Transform {
	out := a
	out.Lerp(b, factor)
	return out
}

// GetMatrix returns the model matrix, translate * rotate * scale.
func (t *Transform) GetMatrix() Mat4 {
	t.recalculate()
	return t.matrix
}

func (t *Transform) GetForward() Vec3 {
	t.recalculate()
	return t.forward
}

func (t *Transform) GetUp() Vec3 {
	t.recalculate()
	return t.up
}

func (t *Transform) GetRight() Vec3 {
	t.recalculate()
	return t.right
}

func (t *Transform) IsDirty() bool {
	t.init()
	return t.isDirty
}

func (t *Transform) setRotation(rotation Quaternion) {
	t.init()
	t.rotation = rotation.Normalize()
	euler := t.rotation.ToEuler()
	t.eulerRotation = Vec3{RadToDeg(euler.X), RadToDeg(euler.Y), RadToDeg(euler.Z)}
	t.isDirty = true
}

func (t *Transform) recalculate() {
	t.init()
	if !t.isDirty {
		return
	}
	t.matrix = NewMat4Translation(t.position).
		Mul(t.rotation.ToMat4()).
		Mul(NewMat4Scale(t.scale))

	t.right = t.matrix.Column(0).ToVec3().Normalize()
	t.up = t.matrix.Column(1).ToVec3().Normalize()
	t.forward = t.matrix.Column(2).ToVec3().MulScalar(-1).Normalize()
	t.isDirty = false
}
