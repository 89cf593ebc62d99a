package physics

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRadius is returned by NewBody for a non-positive radius.
var ErrInvalidRadius = errors.New("body radius must be positive")

// Kind tags a body as the player-controlled launch body or a passive one.
type Kind uint8

const (
	KindPassive Kind = iota
	KindLaunch
)

func (k Kind) String() string {
	if k == KindLaunch {
		return "launch"
	}
	return "passive"
}

// Body is a circular rigid body. Radius never changes after construction;
// only Center and Velocity mutate.
type Body struct {
	ID       int
	Kind     Kind
	Center   Vec2
	Velocity Vec2
	radius   float64
}

func NewBody(id int, kind Kind, center Vec2, radius float64) (*Body, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}
	return &Body{ID: id, Kind: kind, Center: center, radius: radius}, nil
}

func (b *Body) Radius() float64 { return b.radius }

// Rect is an axis-aligned rectangle given by its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Footprint is the drawn square of the body. For the launch body it is the
// box; for passive bodies it is the bounding square of the circle. Either
// way it is centred on Center with side 2*Radius.
func (b *Body) Footprint() Rect {
	return Rect{
		X: b.Center.X - b.radius,
		Y: b.Center.Y - b.radius,
		W: 2 * b.radius,
		H: 2 * b.radius,
	}
}

// Resting reports whether both velocity components are below threshold.
func (b *Body) Resting(threshold float64) bool {
	return math.Abs(b.Velocity.X) < threshold && math.Abs(b.Velocity.Y) < threshold
}
