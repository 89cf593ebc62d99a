package physics

import "math/rand/v2"

// PlacementAttemptsPerBody bounds the rejection sampling budget.
const PlacementAttemptsPerBody = 1000

// Place draws up to count centres for bodies of the given diameter inside a
// w x h arena. Every centre stays at least 1.5*diameter away from every
// other and from the arena centre, which is reserved for the launch body.
// Sampling gives up after count*1000 draws and returns what it has.
func Place(rng *rand.Rand, count int, diameter, w, h float64) []Vec2 {
	if count <= 0 {
		return nil
	}

	radius := diameter / 2
	minDistSq := (diameter * 1.5) * (diameter * 1.5)
	reserved := Vec2{w / 2, h / 2}
	spanX, spanY := w-diameter, h-diameter
	if spanX < 0 || spanY < 0 {
		return nil
	}

	positions := make([]Vec2, 0, count)
	budget := count * PlacementAttemptsPerBody
	for attempts := 0; len(positions) < count && attempts < budget; attempts++ {
		candidate := Vec2{
			X: radius + rng.Float64()*spanX,
			Y: radius + rng.Float64()*spanY,
		}
		if candidate.Sub(reserved).LengthSquared() < minDistSq {
			continue
		}
		if tooClose(candidate, positions, minDistSq) {
			continue
		}
		positions = append(positions, candidate)
	}
	return positions
}

func tooClose(p Vec2, placed []Vec2, minDistSq float64) bool {
	for _, q := range placed {
		if p.Sub(q).LengthSquared() < minDistSq {
			return true
		}
	}
	return false
}
