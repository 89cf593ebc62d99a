package physics

// LaunchVelocity maps a drag gesture to the launch body's velocity. The body
// flies opposite to the drag, scaled by k.
func LaunchVelocity(start, end Vec2, k float64) Vec2 {
	return end.Sub(start).Scale(-k)
}

// AimPreview describes the aiming indicator shown while dragging.
type AimPreview struct {
	// Arrow points from the dragged position back to the launch origin.
	Arrow    Vec2
	Length   float64
	Angle    float64
	Velocity Vec2
}

func Aim(start, current Vec2, k float64) AimPreview {
	arrow := current.Sub(start).Neg()
	return AimPreview{
		Arrow:    arrow,
		Length:   arrow.Length(),
		Angle:    arrow.Angle(),
		Velocity: LaunchVelocity(start, current, k),
	}
}
