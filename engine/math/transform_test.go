package math

import "testing"

const tolerance = 1e-4

func TestNewTransformDefaults(t *testing.T) {
	tr := NewTransform()

	if got := tr.GetPosition(); got != NewVec3Zero() {
		t.Errorf("GetPosition() = %v, want zero", got)
	}
	if got := tr.GetScale(); got != NewVec3One() {
		t.Errorf("GetScale() = %v, want one", got)
	}
	if got := tr.GetRotationQuat(); !got.Compare(NewQuatIdentity(), tolerance) {
		t.Errorf("GetRotationQuat() = %v, want identity", got)
	}
	if got := tr.GetMatrix(); !got.Compare(NewMat4Identity(), tolerance) {
		t.Errorf("GetMatrix() = %v, want identity", got)
	}
	if got := tr.GetForward(); !got.Compare(NewVec3Forward(), tolerance) {
		t.Errorf("GetForward() = %v, want %v", got, NewVec3Forward())
	}
	if got := tr.GetUp(); !got.Compare(NewVec3Up(), tolerance) {
		t.Errorf("GetUp() = %v, want %v", got, NewVec3Up())
	}
	if got := tr.GetRight(); !got.Compare(NewVec3Right(), tolerance) {
		t.Errorf("GetRight() = %v, want %v", got, NewVec3Right())
	}
}

func TestZeroValueTransformIsIdentity(t *testing.T) {
	var tr Transform

	if !tr.IsDirty() {
		t.Errorf("IsDirty() = false, want true before the first matrix")
	}
	if got := tr.GetMatrix(); !got.Compare(NewMat4Identity(), tolerance) {
		t.Errorf("GetMatrix() = %v, want identity", got)
	}
	if got := tr.GetRotationQuat(); !got.Compare(NewQuatIdentity(), tolerance) {
		t.Errorf("GetRotationQuat() = %v, want identity", got)
	}
	if got := tr.GetScale(); got != NewVec3One() {
		t.Errorf("GetScale() = %v, want one", got)
	}
	if got := tr.GetForward(); !got.Compare(NewVec3Forward(), tolerance) {
		t.Errorf("GetForward() = %v, want %v", got, NewVec3Forward())
	}

	// Mutating a zero value behaves like mutating NewTransform.
	var moved Transform
	moved.SetPosition(NewVec3(1, 2, 3))
	moved.Rotate(90, NewVec3(0, 0, 1))
	want := NewTransform()
	want.SetPosition(NewVec3(1, 2, 3))
	want.Rotate(90, NewVec3(0, 0, 1))
	if got := moved.GetMatrix(); !got.Compare(want.GetMatrix(), tolerance) {
		t.Errorf("GetMatrix() = %v, want %v", got, want.GetMatrix())
	}

	var scaled Transform
	scaled.SetScale(NewVec3(2, 2, 2))
	if got := scaled.GetMatrix().Column(0).ToVec3(); !got.Compare(NewVec3(2, 0, 0), tolerance) {
		t.Errorf("first column = %v, want (2, 0, 0)", got)
	}
}

func TestTransformMatrixRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(tr *Transform)
	}{
		{
			name:   "position only",
			mutate: func(tr *Transform) { tr.SetPosition(NewVec3(1, 2, 3)) },
		},
		{
			name: "euler rotation and scale",
			mutate: func(tr *Transform) {
				tr.SetRotation(NewVec3(30, 45, 60))
				tr.SetScale(NewVec3(2, 3, 4))
			},
		},
		{
			name: "incremental mutators",
			mutate: func(tr *Transform) {
				tr.SetPosition(NewVec3(-4, 0.5, 9))
				tr.Translate(NewVec3(1, 1, 1))
				tr.Rotate(90, NewVec3(0, 0, 1))
				tr.Rotate(-35, NewVec3(1, 1, 0))
				tr.SetScale(NewVec3(1, 2, 1))
				tr.Scale(NewVec3(3, 0.5, 2))
			},
		},
		{
			name: "look at then move",
			mutate: func(tr *Transform) {
				tr.SetPosition(NewVec3(3, -2, 7))
				tr.LookAt(NewVec3(0, 0, 0))
				tr.Translate(NewVec3(0, 0, 1))
				tr.SetScale(NewVec3(0.25, 0.25, 0.25))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransform()
			tt.mutate(&tr)

			position, rotation, scale := tr.GetMatrix().Decompose()
			if !position.Compare(tr.GetPosition(), tolerance) {
				t.Errorf("position = %v, want %v", position, tr.GetPosition())
			}
			if !scale.Compare(tr.GetScale(), tolerance) {
				t.Errorf("scale = %v, want %v", scale, tr.GetScale())
			}
			if !rotation.Compare(tr.GetRotationQuat(), tolerance) {
				t.Errorf("rotation = %v, want %v", rotation, tr.GetRotationQuat())
			}
		})
	}
}

func TestTransformDirtyFlag(t *testing.T) {
	tr := NewTransform()
	if !tr.IsDirty() {
		t.Fatalf("new transform should be dirty until first read")
	}
	tr.GetMatrix()
	if tr.IsDirty() {
		t.Fatalf("GetMatrix() should clear the dirty flag")
	}

	mutators := map[string]func(tr *Transform){
		"SetPosition":     func(tr *Transform) { tr.SetPosition(NewVec3(1, 0, 0)) },
		"Translate":       func(tr *Transform) { tr.Translate(NewVec3(1, 0, 0)) },
		"SetRotation":     func(tr *Transform) { tr.SetRotation(NewVec3(0, 10, 0)) },
		"SetRotationQuat": func(tr *Transform) { tr.SetRotationQuat(NewQuatIdentity()) },
		"Rotate":          func(tr *Transform) { tr.Rotate(10, NewVec3(0, 1, 0)) },
		"SetScale":        func(tr *Transform) { tr.SetScale(NewVec3(2, 2, 2)) },
		"Scale":           func(tr *Transform) { tr.Scale(NewVec3(2, 2, 2)) },
		"LookAt":          func(tr *Transform) { tr.LookAt(NewVec3(5, 5, 5)) },
		"Lerp":            func(tr *Transform) { tr.Lerp(NewTransform(), 0.5) },
	}
	for name, mutate := range mutators {
		tr := NewTransform()
		tr.GetMatrix()
		mutate(&tr)
		if !tr.IsDirty() {
			t.Errorf("%s did not set the dirty flag", name)
		}
		tr.GetForward()
		if tr.IsDirty() {
			t.Errorf("GetForward() after %s did not recompute", name)
		}
	}
}

func TestTransformRotateIsLocal(t *testing.T) {
	tr := NewTransform()
	tr.Rotate(90, NewVec3(0, 0, 1))

	if got, want := tr.GetRight(), NewVec3(0, 1, 0); !got.Compare(want, tolerance) {
		t.Fatalf("GetRight() = %v, want %v", got, want)
	}

	// A second rotation about local X after yawing 90 degrees around Z
	// rotates around the world Y axis.
	tr.Rotate(90, NewVec3(1, 0, 0))
	if got, want := tr.GetForward(), NewVec3(-1, 0, 0); !got.Compare(want, tolerance) {
		t.Fatalf("GetForward() = %v, want %v", got, want)
	}
}

func TestTransformRotateZeroAxis(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(NewVec3(0, 30, 0))
	before := tr.GetRotationQuat()
	tr.Rotate(45, NewVec3Zero())
	if got := tr.GetRotationQuat(); got != before {
		t.Fatalf("Rotate with zero axis changed rotation: %v, want %v", got, before)
	}
}

func TestTransformEulerMirror(t *testing.T) {
	tests := []Vec3{
		NewVec3(10, 20, 30),
		NewVec3(-45, 0, 90),
		NewVec3(0, -60, 0),
	}
	for _, euler := range tests {
		tr := NewTransform()
		tr.SetRotation(euler)
		if got := tr.GetRotation(); !got.Compare(euler, 1e-2) {
			t.Errorf("SetRotation(%v): GetRotation() = %v", euler, got)
		}

		mirror := NewTransform()
		mirror.SetRotationQuat(tr.GetRotationQuat())
		if got := mirror.GetRotation(); !got.Compare(euler, 1e-2) {
			t.Errorf("SetRotationQuat mirror = %v, want %v", got, euler)
		}
	}
}

func TestTransformLookAt(t *testing.T) {
	tr := NewTransform()
	tr.LookAtUp(NewVec3(0, 5, 0), NewVec3UpZ())

	if got, want := tr.GetForward(), NewVec3(0, 1, 0); !got.Compare(want, tolerance) {
		t.Errorf("GetForward() = %v, want %v", got, want)
	}
	if got, want := tr.GetUp(), NewVec3(0, 0, 1); !got.Compare(want, tolerance) {
		t.Errorf("GetUp() = %v, want %v", got, want)
	}

	// Looking straight along the up hint still yields a valid rotation.
	tr.SetPosition(NewVec3(0, 0, 5))
	tr.LookAt(NewVec3Zero())
	if got, want := tr.GetForward(), NewVec3(0, 0, -1); !got.Compare(want, tolerance) {
		t.Errorf("degenerate up: GetForward() = %v, want %v", got, want)
	}
}

func TestTransformLookAtSamePosition(t *testing.T) {
	tr := NewTransformFromPosition(NewVec3(1, 2, 3))
	tr.SetRotation(NewVec3(0, 0, 45))
	tr.GetMatrix()
	before := tr.GetRotationQuat()

	tr.LookAt(NewVec3(1, 2, 3))

	if tr.IsDirty() {
		t.Errorf("LookAt at own position should not touch the transform")
	}
	if got := tr.GetRotationQuat(); got != before {
		t.Errorf("rotation = %v, want %v", got, before)
	}
}

func TestTransformLerp(t *testing.T) {
	a := NewTransform()
	b := NewTransformFromPositionRotationScale(NewVec3(10, -4, 2), NewVec3(0, 90, 0), NewVec3(2, 2, 2))

	start := TransformLerp(a, b, 0)
	if !start.GetPosition().Compare(a.GetPosition(), tolerance) ||
		!start.GetScale().Compare(a.GetScale(), tolerance) ||
		!start.GetRotationQuat().Compare(a.GetRotationQuat(), tolerance) {
		t.Errorf("Lerp(a, b, 0) = %v, want a", start)
	}

	end := TransformLerp(a, b, 1)
	if !end.GetPosition().Compare(b.GetPosition(), tolerance) ||
		!end.GetScale().Compare(b.GetScale(), tolerance) ||
		!end.GetRotationQuat().Compare(b.GetRotationQuat(), tolerance) {
		t.Errorf("Lerp(a, b, 1) = %v, want b", end)
	}

	mid := TransformLerp(a, b, 0.5)
	if got, want := mid.GetPosition(), NewVec3(5, -2, 1); !got.Compare(want, tolerance) {
		t.Errorf("Lerp(a, b, 0.5) position = %v, want %v", got, want)
	}
	if got, want := mid.GetRotationQuat(), NewQuatFromAxisAngle(NewVec3(0, 1, 0), DegToRad(45)); !got.Compare(want, tolerance) {
		t.Errorf("Lerp(a, b, 0.5) rotation = %v, want %v", got, want)
	}

	// Inputs are untouched.
	if a.GetPosition() != NewVec3Zero() {
		t.Errorf("TransformLerp mutated its first argument")
	}

	// t is not clamped.
	over := TransformLerp(a, b, 2)
	if got, want := over.GetPosition(), NewVec3(20, -8, 4); !got.Compare(want, tolerance) {
		t.Errorf("Lerp(a, b, 2) position = %v, want %v", got, want)
	}
}
