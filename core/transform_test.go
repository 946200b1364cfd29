package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTransformComposition(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{10, 20, 30}
	tr.Rotation = mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0})
	tr.Scale = mgl32.Vec3{2, 2, 2}

	o2w := tr.ObjectToWorld()
	w2o := tr.WorldToObject()

	identity := o2w.Mul4(w2o)
	for i := 0; i < 4; i++ {
		if !closeEnough(identity.At(i, i), 1.0, 0.001) {
			t.Errorf("Identity diagonal [%d,%d] should be 1.0, got %f", i, i, identity.At(i, i))
		}
	}
}

func TestTransformMovesOrigin(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{5, -3, 2}

	world := tr.ObjectToWorld().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	if !closeEnough(world.X(), 5, 1e-5) || !closeEnough(world.Y(), -3, 1e-5) || !closeEnough(world.Z(), 2, 1e-5) {
		t.Errorf("Object origin should land at the transform position, got %v", world)
	}
}
