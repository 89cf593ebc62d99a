package physics

const (
	DefaultFriction         = 0.99
	DefaultStopThreshold    = 0.1
	DefaultLaunchMultiplier = 0.8
)

// Params are the integration constants.
type Params struct {
	Friction      float64
	StopThreshold float64
}

func DefaultParams() Params {
	return Params{
		Friction:      DefaultFriction,
		StopThreshold: DefaultStopThreshold,
	}
}

// Step advances all bodies by one tick: friction, move with wall
// reflection, then pairwise collisions. It reports whether everything came
// to rest; in that case the launch body's velocity is zeroed while passive
// bodies keep their residual velocity.
func Step(bodies []*Body, arena Arena, p Params, s *Session) bool {
	w, h := arena.Size()

	for _, b := range bodies {
		b.Velocity = b.Velocity.Scale(p.Friction)
		ResolveWalls(b, w, h, s)
	}

	ResolvePairs(bodies, s)

	if !AtRest(bodies, p.StopThreshold) {
		return false
	}
	for _, b := range bodies {
		if b.Kind == KindLaunch {
			b.Velocity = Vec2{}
		}
	}
	return true
}

// AtRest reports whether every body is below the stop threshold on both axes.
func AtRest(bodies []*Body, threshold float64) bool {
	for _, b := range bodies {
		if !b.Resting(threshold) {
			return false
		}
	}
	return true
}
