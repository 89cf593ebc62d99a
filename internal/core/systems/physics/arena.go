package physics

import "sync"

// FixedArena is an arena whose size never changes.
type FixedArena struct{ W, H float64 }

func (a FixedArena) Size() (float64, float64) { return a.W, a.H }

// Center is the reserved spot of the launch body.
func Center(a Arena) Vec2 {
	w, h := a.Size()
	return Vec2{w / 2, h / 2}
}

// ResizableArena follows a viewport that may be resized from another
// goroutine.
type ResizableArena struct {
	mu   sync.RWMutex
	w, h float64
}

func NewResizableArena(w, h float64) *ResizableArena {
	return &ResizableArena{w: w, h: h}
}

func (a *ResizableArena) Size() (float64, float64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.w, a.h
}

func (a *ResizableArena) Resize(w, h float64) {
	a.mu.Lock()
	a.w, a.h = w, h
	a.mu.Unlock()
}
