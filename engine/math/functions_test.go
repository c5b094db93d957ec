package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMat4MulMatchesMGL(t *testing.T) {
	a := NewMat4Translation(NewVec3(1, 2, 3)).Mul(NewQuatFromAxisAngle(NewVec3(0, 1, 0), 0.7).ToMat4())
	b := NewMat4Scale(NewVec3(2, 3, 4))

	got := a.Mul(b)
	want := newMat4FromMGL(a.mgl().Mul4(b.mgl()))
	if !got.Compare(want, tolerance) {
		t.Fatalf("Mul() = %v, want %v", got, want)
	}
}

func TestMat4Inverse(t *testing.T) {
	tr := NewTransformFromPositionRotationScale(NewVec3(4, -1, 2), NewVec3(15, 30, 45), NewVec3(1, 2, 3))
	model := tr.GetMatrix()

	if got := model.Mul(model.Inverse()); !got.Compare(NewMat4Identity(), tolerance) {
		t.Fatalf("m * inverse(m) = %v, want identity", got)
	}
}

func TestQuaternionToMat4MatchesMGL(t *testing.T) {
	axis := NewVec3(1, 2, -1)
	angle := DegToRad(73)

	got := NewQuatFromAxisAngle(axis, angle).ToMat4()
	want := newMat4FromMGL(mgl32.HomogRotate3D(angle, mgl32.Vec3{axis.X, axis.Y, axis.Z}.Normalize()))
	if !got.Compare(want, tolerance) {
		t.Fatalf("ToMat4() = %v, want %v", got, want)
	}
}

func TestQuatFromEulerOrder(t *testing.T) {
	x, y, z := DegToRad(20), DegToRad(-35), DegToRad(110)

	got := NewQuatFromEuler(NewVec3(x, y, z)).ToMat4()
	want := newMat4FromMGL(mgl32.HomogRotate3DX(x).Mul4(mgl32.HomogRotate3DY(y)).Mul4(mgl32.HomogRotate3DZ(z)))
	if !got.Compare(want, tolerance) {
		t.Fatalf("euler matrix = %v, want Rx*Ry*Rz %v", got, want)
	}
}

func TestPerspectiveMatchesMGL(t *testing.T) {
	fov := DegToRad(45)
	got := NewMat4Perspective(fov, 16.0/9.0, 0.1, 100)
	want := newMat4FromMGL(mgl32.Perspective(fov, 16.0/9.0, 0.1, 100))
	if !got.Compare(want, 1e-5) {
		t.Fatalf("NewMat4Perspective() = %v, want %v", got, want)
	}
}

func TestSlerpShortestArc(t *testing.T) {
	a := NewQuatFromAxisAngle(NewVec3(0, 0, 1), DegToRad(10))
	b := NewQuatFromAxisAngle(NewVec3(0, 0, 1), DegToRad(350))
	// Negating b keeps the rotation and forces the flip branch.
	negB := Quaternion{-b.X, -b.Y, -b.Z, -b.W}

	want := NewQuatFromAxisAngle(NewVec3(0, 0, 1), 0)
	for _, target := range []Quaternion{b, negB} {
		if got := a.Slerp(target, 0.5); !got.Compare(want, tolerance) {
			t.Errorf("Slerp(%v, 0.5) = %v, want %v", target, got, want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		value, low, high, want float32
	}{
		{0.5, 1, 10, 1},
		{5, 1, 10, 5},
		{50, 1, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.value, tt.low, tt.high); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.value, tt.low, tt.high, got, tt.want)
		}
	}
}

func TestGenerateGrid(t *testing.T) {
	points, indices := GenerateGrid(1, 4)
	if got, want := len(points), 20; got != want {
		t.Fatalf("len(points) = %d, want %d", got, want)
	}
	if len(indices) != len(points) {
		t.Fatalf("len(indices) = %d, want %d", len(indices), len(points))
	}
	if got, want := points[0], NewVec3(-0.5, -0.5, 0); got != want {
		t.Errorf("points[0] = %v, want %v", got, want)
	}
	if got := len(FlattenPoints(points)); got != 60 {
		t.Errorf("len(FlattenPoints) = %d, want 60", got)
	}
}
