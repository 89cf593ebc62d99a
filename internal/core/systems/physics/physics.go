package physics

import "math"

// Vec2 is a 2D vector or point.
type Vec2 struct{ X, Y float64 }

func (v Vec2) Add(o Vec2) Vec2        { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2        { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2   { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Neg() Vec2              { return Vec2{-v.X, -v.Y} }
func (v Vec2) Dot(o Vec2) float64     { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Length() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec2) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Angle() float64         { return math.Atan2(v.Y, v.X) }

// Perp returns v rotated by +90 degrees.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vec2) IsFinite() bool { return isFinite(v.X) && isFinite(v.Y) }

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
