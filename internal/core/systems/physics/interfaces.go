package physics

// Arena is the rectangular container the bodies live in. Size is read once
// per tick; implementations may change between ticks (viewport resize).
type Arena interface {
	Size() (w, h float64)
}
