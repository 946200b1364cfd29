package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a yaw/pitch fly camera in a Y-up world. Yaw 0 looks down -Z;
// positive pitch looks up. Callers keep Pitch inside (-pi/2, pi/2) so the
// forward axis never degenerates against the world up.
type Camera struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	Speed       float32
	Sensitivity float32
}

func NewCamera() *Camera {
	return &Camera{
		Position:    mgl32.Vec3{0, 3, 12},
		Yaw:         0,
		Pitch:       0,
		Speed:       10.0,
		Sensitivity: 0.003,
	}
}

func (c *Camera) Forward() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Sin(float64(c.Yaw)) * math.Cos(float64(c.Pitch))),
		float32(math.Sin(float64(c.Pitch))),
		float32(-math.Cos(float64(c.Yaw)) * math.Cos(float64(c.Pitch))),
	}
}

func (c *Camera) Right() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Cos(float64(c.Yaw))),
		0,
		float32(math.Sin(float64(c.Yaw))),
	}
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	eye := c.Position
	target := eye.Add(c.Forward())
	return mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
}

// WorldTransform returns the camera's world matrix, the inverse of the
// view matrix: column 0 right, column 1 up, column 2 back, column 3
// position. Particle emitters orient their billboards from columns 1
// and 3 of this matrix.
func (c *Camera) WorldTransform() mgl32.Mat4 {
	f := c.Forward()
	s := f.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	u := s.Cross(f)
	return mgl32.Mat4{
		s.X(), s.Y(), s.Z(), 0,
		u.X(), u.Y(), u.Z(), 0,
		-f.X(), -f.Y(), -f.Z(), 0,
		c.Position.X(), c.Position.Y(), c.Position.Z(), 1,
	}
}
