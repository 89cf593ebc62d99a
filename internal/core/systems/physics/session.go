package physics

// Session holds the rebound counter of one launch. It is owned by the tick
// loop and handed to the resolvers by pointer.
type Session struct {
	rebounds int
}

// Hit records one wall-axis touch or body overlap.
func (s *Session) Hit() {
	if s != nil {
		s.rebounds++
	}
}

func (s *Session) Rebounds() int { return s.rebounds }

func (s *Session) Reset() { s.rebounds = 0 }
