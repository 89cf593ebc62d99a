package physics

// ResolveWalls moves b to C+v and reflects it off the arena edges. Each axis
// is handled on its own: an edge crossing clamps the centre so the circle
// touches that edge and negates the axis velocity. Every colliding axis
// counts one rebound.
func ResolveWalls(b *Body, w, h float64, s *Session) {
	next := b.Center.Add(b.Velocity)
	r := b.radius

	if clamped, hit := reflect(next.X, r, w); hit {
		next.X = clamped
		b.Velocity.X = -b.Velocity.X
		s.Hit()
	}
	if clamped, hit := reflect(next.Y, r, h); hit {
		next.Y = clamped
		b.Velocity.Y = -b.Velocity.Y
		s.Hit()
	}

	b.Center = next
}

func reflect(pos, r, extent float64) (float64, bool) {
	switch {
	case pos-r < 0:
		return r, true
	case pos+r > extent:
		return extent - r, true
	default:
		return pos, false
	}
}
