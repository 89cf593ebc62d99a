package sandbox

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/rebound/internal/core/systems/physics"
	"github.com/zeusync/rebound/pkg/generic"
)

// BodyState is what a renderer needs to draw one body.
type BodyState struct {
	ID        int          `json:"id"`
	Kind      string       `json:"kind"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Radius    float64      `json:"radius"`
	VX        float64      `json:"vx"`
	VY        float64      `json:"vy"`
	Footprint physics.Rect `json:"footprint"`
}

// Frame is a point-in-time view of the sandbox.
type Frame struct {
	Tick     uint64      `json:"tick"`
	Launch   uint64      `json:"launch"`
	Phase    string      `json:"phase"`
	Rebounds int         `json:"rebounds"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Bodies   []BodyState `json:"bodies"`
	Digest   uint64      `json:"digest"`
}

func newFrame(tick, launch uint64, phase Phase, rebounds int, arena physics.Arena, bodies []*physics.Body) Frame {
	w, h := arena.Size()
	f := Frame{
		Tick:     tick,
		Launch:   launch,
		Phase:    phase.String(),
		Rebounds: rebounds,
		Width:    w,
		Height:   h,
		Bodies:   make([]BodyState, len(bodies)),
	}
	for i, b := range bodies {
		f.Bodies[i] = BodyState{
			ID:        b.ID,
			Kind:      b.Kind.String(),
			X:         b.Center.X,
			Y:         b.Center.Y,
			Radius:    b.Radius(),
			VX:        b.Velocity.X,
			VY:        b.Velocity.Y,
			Footprint: b.Footprint(),
		}
	}
	f.Digest = digest(f)
	return f
}

// Frames are hashed by the tick goroutine and by request handlers calling
// Snapshot; a few warm digests cover both.
var digests = generic.NewHotPool(xxhash.New, func(d *xxhash.Digest) { d.Reset() }, 4)

// digest hashes what is visible: body positions, the counter, the arena and
// the phase. Tick numbers are left out so a resting scene keeps its digest.
func digest(f Frame) uint64 {
	d := digests.Get()
	defer digests.Put(d)

	var buf [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	write(uint64(f.Rebounds))
	write(math.Float64bits(f.Width))
	write(math.Float64bits(f.Height))
	for _, b := range f.Bodies {
		write(math.Float64bits(b.X))
		write(math.Float64bits(b.Y))
	}
	_, _ = d.WriteString(f.Phase)
	return d.Sum64()
}
