package components

import (
	"github.com/spaghettifunk/nabla/engine/math"
)

/** @brief Perspective projection parameters. FOV is vertical, in degrees. */
type ProjectionSettings struct {
	FOV         float32
	AspectRatio float32
	Near        float32
	Far         float32
}

func DefaultProjectionSettings() ProjectionSettings {
	return ProjectionSettings{
		FOV:         45.0,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         100.0,
	}
}

/**
 * @brief Represents a camera used for rendering. Every setter writes to a pending
 * copy of the transform or projection; nothing observable changes until Update
 * commits it. Reading the matrices after a setter and before Update returns the
 * previous values.
 */
type Camera struct {
	transform  Pending[math.Transform]
	projection Pending[ProjectionSettings]

	/** @brief Cached from the committed transform on Update. */
	forward math.Vec3
	up      math.Vec3
	right   math.Vec3

	viewMatrix           math.Mat4
	projectionMatrix     math.Mat4
	projectionViewMatrix math.Mat4
}

type CameraLookup struct {
	ID             uint16
	ReferenceCount uint16
	Camera         *Camera
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

/**
 * @brief Creates a camera and commits its initial state, so the matrices are
 * valid right away.
 *
 * @param position The initial position.
 * @param rotation The initial rotation as Euler angles in degrees.
 * @param settings The projection settings.
 */
func NewCamera(position, rotation math.Vec3, settings ProjectionSettings) *Camera {
	c := &Camera{}
	c.reset(position, rotation, settings)
	return c
}

// Reset puts the camera back at the origin with default projection settings.
func (c *Camera) Reset() {
	c.reset(math.NewVec3Zero(), math.NewVec3Zero(), DefaultProjectionSettings())
}

func (c *Camera) reset(position, rotation math.Vec3, settings ProjectionSettings) {
	c.transform = NewPending(math.NewTransformFromPositionRotationScale(position, rotation, math.NewVec3One()))
	c.projection = NewPending(settings)
	c.Update()
}

/**
 * @brief Commits pending state and recomputes the cached matrices. View is the
 * inverse of the transform's model matrix; projection-view is P * V.
 */
func (c *Camera) Update() {
	transformChanged := c.transform.Commit()
	projectionChanged := c.projection.Commit()

	if transformChanged {
		t := c.transform.Current()
		c.viewMatrix = t.GetMatrix().Inverse()
		c.forward = t.GetForward()
		c.up = t.GetUp()
		c.right = t.GetRight()
	}
	if projectionChanged {
		p := c.projection.Current()
		c.projectionMatrix = math.NewMat4Perspective(math.DegToRad(p.FOV), p.AspectRatio, p.Near, p.Far)
	}
	if transformChanged || projectionChanged {
		c.projectionViewMatrix = c.projectionMatrix.Mul(c.viewMatrix)
	}
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.transform.Next().SetPosition(position)
}

func (c *Camera) Translate(translation math.Vec3) {
	c.transform.Next().Translate(translation)
}

/** @brief Rotation as Euler angles in degrees. */
func (c *Camera) SetRotation(eulerDegrees math.Vec3) {
	c.transform.Next().SetRotation(eulerDegrees)
}

func (c *Camera) SetRotationQuat(rotation math.Quaternion) {
	c.transform.Next().SetRotationQuat(rotation)
}

func (c *Camera) Rotate(angleDegrees float32, axis math.Vec3) {
	c.transform.Next().Rotate(angleDegrees, axis)
}

/** @brief Looks at target from the pending position, with +Z as the up hint. */
func (c *Camera) LookAt(target math.Vec3) {
	c.transform.Next().LookAt(target)
}

func (c *Camera) LookAtUp(target, up math.Vec3) {
	c.transform.Next().LookAtUp(target, up)
}

/** @brief Moves along the pending forward vector. */
func (c *Camera) MoveForward(amount float32) {
	next := c.transform.Next()
	next.Translate(next.GetForward().MulScalar(amount))
}

/** @brief Moves along the pending right vector. */
func (c *Camera) MoveRight(amount float32) {
	next := c.transform.Next()
	next.Translate(next.GetRight().MulScalar(amount))
}

/** @brief Moves along the pending up vector. */
func (c *Camera) MoveUp(amount float32) {
	next := c.transform.Next()
	next.Translate(next.GetUp().MulScalar(amount))
}

func (c *Camera) SetProjectionSettings(settings ProjectionSettings) {
	c.projection.Set(settings)
}

/** @brief Updates only the pending aspect ratio, typically after a resize. */
func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.projection.Next().AspectRatio = aspectRatio
}

func (c *Camera) GetProjectionSettings() ProjectionSettings {
	return c.projection.Current()
}

func (c *Camera) GetPosition() math.Vec3 {
	t := c.transform.Current()
	return t.GetPosition()
}

/** @brief Committed rotation as Euler angles in degrees. */
func (c *Camera) GetRotation() math.Vec3 {
	t := c.transform.Current()
	return t.GetRotation()
}

func (c *Camera) GetRotationQuat() math.Quaternion {
	t := c.transform.Current()
	return t.GetRotationQuat()
}

/** @brief Committed transform, as a copy. */
func (c *Camera) GetTransform() math.Transform {
	return c.transform.Current()
}

func (c *Camera) GetForward() math.Vec3 {
	return c.forward
}

func (c *Camera) GetUp() math.Vec3 {
	return c.up
}

func (c *Camera) GetRight() math.Vec3 {
	return c.right
}

func (c *Camera) GetViewMatrix() math.Mat4 {
	return c.viewMatrix
}

func (c *Camera) GetProjectionMatrix() math.Mat4 {
	return c.projectionMatrix
}

func (c *Camera) GetProjectionViewMatrix() math.Mat4 {
	return c.projectionViewMatrix
}

/** @brief Reports whether a setter was called since the last Update. */
func (c *Camera) HasPendingChanges() bool {
	return c.transform.IsDirty() || c.projection.IsDirty()
}
