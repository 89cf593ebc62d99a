package physics

import "math"

// ResolvePair handles one unordered pair of bodies. Bodies overlap when the
// centre distance is strictly below the sum of radii; touching is not a
// collision. An overlap counts one rebound, pushes the bodies apart by half
// the overlap each along the contact normal and swaps their normal velocity
// components, which is the elastic exchange for equal masses.
//
// Coincident centres have no normal. The rebound still counts but the pair
// is left untouched for this tick.
func ResolvePair(a, b *Body, s *Session) bool {
	delta := b.Center.Sub(a.Center)
	sum := a.radius + b.radius
	distSq := delta.LengthSquared()
	if distSq >= sum*sum {
		return false
	}

	s.Hit()

	dist := math.Sqrt(distSq)
	if dist == 0 {
		return true
	}

	n := delta.Scale(1 / dist)
	correction := n.Scale((sum - dist) * 0.5)
	a.Center = a.Center.Sub(correction)
	b.Center = b.Center.Add(correction)

	t := n.Perp()
	aNormal, aTangent := a.Velocity.Dot(n), a.Velocity.Dot(t)
	bNormal, bTangent := b.Velocity.Dot(n), b.Velocity.Dot(t)

	a.Velocity = n.Scale(bNormal).Add(t.Scale(aTangent))
	b.Velocity = n.Scale(aNormal).Add(t.Scale(bTangent))

	return true
}

// ResolvePairs scans every pair once, i before j, in slice order.
func ResolvePairs(bodies []*Body, s *Session) int {
	hits := 0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if ResolvePair(bodies[i], bodies[j], s) {
				hits++
			}
		}
	}
	return hits
}
