package preview

import (
	"math"

	"github.com/philipparndt/alphashape/pkg/geometry"
)

// maxPitch keeps the camera off the poles where Up and the view direction
// become parallel
const maxPitch = math.Pi/2 - 0.1

// Camera orbits a target point at a fixed distance
type Camera struct {
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // vertical field of view in radians
	Distance float64
	Pitch    float64 // rotation about the horizontal axis
	Yaw      float64 // rotation about Up
}

// NewCamera frames a bounding box, looking down -Z at its center
func NewCamera(bbox geometry.BoundingBox) *Camera {
	size := bbox.Size()
	distance := math.Max(size.X, math.Max(size.Y, size.Z)) * 2.0
	if distance == 0 {
		distance = 1
	}

	return &Camera{
		Target:   bbox.Center(),
		Up:       geometry.NewVector3(0, 1, 0),
		FOV:      math.Pi / 4,
		Distance: distance,
	}
}

// Position returns the eye point derived from yaw, pitch and distance
func (c *Camera) Position() geometry.Vector3 {
	x := c.Distance * math.Cos(c.Pitch) * math.Sin(c.Yaw)
	y := c.Distance * math.Sin(c.Pitch)
	z := c.Distance * math.Cos(c.Pitch) * math.Cos(c.Yaw)
	return c.Target.Add(geometry.NewVector3(x, y, z))
}

// Orbit rotates the camera by the given angles in radians
func (c *Camera) Orbit(deltaPitch, deltaYaw float64) {
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, c.Pitch+deltaPitch))
	c.Yaw += deltaYaw
}

// Zoom scales the distance by 1+delta
func (c *Camera) Zoom(delta float64) {
	c.Distance = math.Max(0.1, c.Distance*(1.0+delta))
}

// basis returns the view frame: right, up and forward unit vectors
func (c *Camera) basis() (right, up, forward geometry.Vector3) {
	forward = c.Target.Sub(c.Position()).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return right, up, forward
}

// Project maps a point to screen coordinates and its depth along the view
// direction. Points behind the camera are clamped to a small depth.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	right, up, forward := c.basis()

	relative := point.Sub(c.Position())
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := math.Max(relative.Dot(forward), 0.01)

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + width/2
	screenY := (-y/(z*fovScale))*(height/2) + height/2
	return screenX, screenY, z
}

// ViewDirection is the unit vector from the eye to the target
func (c *Camera) ViewDirection() geometry.Vector3 {
	_, _, forward := c.basis()
	return forward
}
