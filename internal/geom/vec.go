package geom

import "math"

// Vec3 is a world-space position. Y is up; spawning and jitter happen on the XZ plane.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}
func (v Vec3) IsZero() bool { return v == Vec3{} }

// PlanarLen returns the length of v projected onto the XZ plane.
func (v Vec3) PlanarLen() float64 {
	return math.Hypot(v.X, v.Z)
}

// Transform is a position plus a heading in radians around the Y axis.
type Transform struct {
	Position Vec3
	Yaw      float64
}
