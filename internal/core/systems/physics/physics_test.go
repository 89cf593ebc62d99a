package physics

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBody(t *testing.T, kind Kind, x, y, r float64) *Body {
	t.Helper()
	b, err := NewBody(0, kind, Vec2{x, y}, r)
	require.NoError(t, err)
	return b
}

func TestNewBodyRejectsBadRadius(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewBody(1, KindPassive, Vec2{}, r)
		require.ErrorIs(t, err, ErrInvalidRadius)
	}
}

func TestVec2IsFinite(t *testing.T) {
	assert.True(t, Vec2{1e308, -1e308}.IsFinite())
	assert.False(t, Vec2{math.Inf(-1), 0}.IsFinite())
	assert.False(t, Vec2{0, math.NaN()}.IsFinite())
	assert.False(t, LaunchVelocity(Vec2{-1e308, 0}, Vec2{1e308, 0}, 0.8).IsFinite())
}

func TestFootprintCentredOnBody(t *testing.T) {
	b := mustBody(t, KindLaunch, 100, 80, 25)
	assert.Equal(t, Rect{X: 75, Y: 55, W: 50, H: 50}, b.Footprint())
}

func TestResolveWalls(t *testing.T) {
	t.Run("bottom edge clamps and reflects", func(t *testing.T) {
		b := mustBody(t, KindPassive, 30, 48, 25)
		b.Velocity = Vec2{0, 3}
		var s Session

		ResolveWalls(b, 100, 60, &s)

		assert.Equal(t, Vec2{30, 35}, b.Center)
		assert.Equal(t, Vec2{0, -3}, b.Velocity)
		assert.Equal(t, 1, s.Rebounds())
	})

	t.Run("no contact moves freely", func(t *testing.T) {
		b := mustBody(t, KindPassive, 30, 48, 25)
		b.Velocity = Vec2{0, 3}
		var s Session

		ResolveWalls(b, 100, 100, &s)

		assert.Equal(t, Vec2{30, 51}, b.Center)
		assert.Equal(t, Vec2{0, 3}, b.Velocity)
		assert.Zero(t, s.Rebounds())
	})

	t.Run("corner counts once per axis", func(t *testing.T) {
		b := mustBody(t, KindPassive, 26, 26, 25)
		b.Velocity = Vec2{-4, -5}
		var s Session

		ResolveWalls(b, 200, 200, &s)

		assert.Equal(t, Vec2{25, 25}, b.Center)
		assert.Equal(t, Vec2{4, 5}, b.Velocity)
		assert.Equal(t, 2, s.Rebounds())
	})

	t.Run("right edge preserves axis speed", func(t *testing.T) {
		b := mustBody(t, KindLaunch, 170, 100, 25)
		b.Velocity = Vec2{7.5, 1}
		var s Session

		ResolveWalls(b, 200, 200, &s)

		assert.Equal(t, 175.0, b.Center.X)
		assert.Equal(t, 101.0, b.Center.Y)
		assert.Equal(t, -7.5, b.Velocity.X)
		assert.Equal(t, 1, s.Rebounds())
	})
}

func TestResolvePairHeadOn(t *testing.T) {
	a := mustBody(t, KindPassive, 0, 0, 6)
	b := mustBody(t, KindPassive, 10, 0, 6)
	a.Velocity = Vec2{2, 0}
	b.Velocity = Vec2{-2, 0}
	var s Session

	require.True(t, ResolvePair(a, b, &s))

	assert.Equal(t, Vec2{-1, 0}, a.Center)
	assert.Equal(t, Vec2{11, 0}, b.Center)
	assert.InDelta(t, -2, a.Velocity.X, 1e-12)
	assert.InDelta(t, 0, a.Velocity.Y, 1e-12)
	assert.InDelta(t, 2, b.Velocity.X, 1e-12)
	assert.InDelta(t, 0, b.Velocity.Y, 1e-12)
	assert.Equal(t, 1, s.Rebounds())
}

func TestResolvePairSeparatedIsUntouched(t *testing.T) {
	cases := map[string]float64{
		"touching": 12,
		"apart":    30,
	}
	for name, x := range cases {
		t.Run(name, func(t *testing.T) {
			a := mustBody(t, KindPassive, 0, 0, 6)
			b := mustBody(t, KindPassive, x, 0, 6)
			a.Velocity = Vec2{3, 1}
			b.Velocity = Vec2{-1, 2}
			var s Session

			require.False(t, ResolvePair(a, b, &s))

			assert.Equal(t, Vec2{0, 0}, a.Center)
			assert.Equal(t, Vec2{x, 0}, b.Center)
			assert.Equal(t, Vec2{3, 1}, a.Velocity)
			assert.Equal(t, Vec2{-1, 2}, b.Velocity)
			assert.Zero(t, s.Rebounds())
		})
	}
}

func TestResolvePairObliqueExchangesNormalOnly(t *testing.T) {
	a := mustBody(t, KindPassive, 0, 0, 25)
	b := mustBody(t, KindPassive, 30, 40, 25)
	a.Velocity = Vec2{3, -1}
	b.Velocity = Vec2{-2, 4}

	n := b.Center.Sub(a.Center).Scale(1.0 / 50)
	tangent := n.Perp()
	aN, aT := a.Velocity.Dot(n), a.Velocity.Dot(tangent)
	bN, bT := b.Velocity.Dot(n), b.Velocity.Dot(tangent)
	energy := a.Velocity.LengthSquared() + b.Velocity.LengthSquared()

	// Nudge b inside contact range along the same normal.
	b.Center = Vec2{24, 32}
	var s Session
	require.True(t, ResolvePair(a, b, &s))

	assert.InDelta(t, bN, a.Velocity.Dot(n), 1e-9)
	assert.InDelta(t, aN, b.Velocity.Dot(n), 1e-9)
	assert.InDelta(t, aT, a.Velocity.Dot(tangent), 1e-9)
	assert.InDelta(t, bT, b.Velocity.Dot(tangent), 1e-9)
	assert.InDelta(t, energy, a.Velocity.LengthSquared()+b.Velocity.LengthSquared(), 1e-9)
	assert.InDelta(t, 50, a.Center.Sub(b.Center).Length(), 1e-9)
}

func TestResolvePairCoincidentCentres(t *testing.T) {
	a := mustBody(t, KindPassive, 40, 40, 25)
	b := mustBody(t, KindPassive, 40, 40, 25)
	a.Velocity = Vec2{1, 0}
	b.Velocity = Vec2{0, 1}
	var s Session

	require.True(t, ResolvePair(a, b, &s))

	assert.Equal(t, 1, s.Rebounds())
	assert.Equal(t, Vec2{40, 40}, a.Center)
	assert.Equal(t, Vec2{40, 40}, b.Center)
	assert.Equal(t, Vec2{1, 0}, a.Velocity)
	assert.Equal(t, Vec2{0, 1}, b.Velocity)
}

func TestResolvePairsCountsEachPairOnce(t *testing.T) {
	bodies := []*Body{
		mustBody(t, KindLaunch, 100, 100, 25),
		mustBody(t, KindPassive, 140, 100, 25),
		mustBody(t, KindPassive, 500, 500, 25),
	}
	var s Session

	hits := ResolvePairs(bodies, &s)

	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, s.Rebounds())
}

type countingArena struct {
	calls int
}

func (a *countingArena) Size() (float64, float64) {
	a.calls++
	return 1000, 1000
}

func TestStepAppliesFrictionOnce(t *testing.T) {
	b := mustBody(t, KindPassive, 500, 500, 25)
	b.Velocity = Vec2{10, -20}
	arena := &countingArena{}
	var s Session

	stopped := Step([]*Body{b}, arena, DefaultParams(), &s)

	require.False(t, stopped)
	assert.Equal(t, 1, arena.calls)
	assert.InDelta(t, 9.9, b.Velocity.X, 1e-12)
	assert.InDelta(t, -19.8, b.Velocity.Y, 1e-12)
	assert.InDelta(t, 509.9, b.Center.X, 1e-12)
	assert.InDelta(t, 480.2, b.Center.Y, 1e-12)
}

func TestStepStopZeroesOnlyLaunchBody(t *testing.T) {
	launch := mustBody(t, KindLaunch, 100, 100, 25)
	passive := mustBody(t, KindPassive, 600, 600, 25)
	launch.Velocity = Vec2{0.05, 0.05}
	passive.Velocity = Vec2{0.05, 0}
	var s Session

	stopped := Step([]*Body{launch, passive}, FixedArena{1000, 1000}, DefaultParams(), &s)

	require.True(t, stopped)
	assert.Equal(t, Vec2{}, launch.Velocity)
	assert.InDelta(t, 0.0495, passive.Velocity.X, 1e-12)
}

func TestStepRunsToRest(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	arena := FixedArena{800, 600}
	launch := mustBody(t, KindLaunch, 400, 300, 25)
	launch.Velocity = LaunchVelocity(Vec2{400, 300}, Vec2{300, 260}, DefaultLaunchMultiplier)
	bodies := []*Body{launch}
	for i, p := range Place(rng, 6, 50, 800, 600) {
		b, err := NewBody(i+1, KindPassive, p, 25)
		require.NoError(t, err)
		bodies = append(bodies, b)
	}
	var s Session

	ticks := 0
	for ; ticks < 10_000; ticks++ {
		if Step(bodies, arena, DefaultParams(), &s) {
			break
		}
	}

	require.Less(t, ticks, 10_000)
	assert.Positive(t, s.Rebounds())
	for _, b := range bodies {
		assert.False(t, math.IsNaN(b.Center.X) || math.IsNaN(b.Center.Y))
	}
}

func TestPlace(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	positions := Place(rng, 5, 50, 1000, 1000)

	require.Len(t, positions, 5)
	centre := Vec2{500, 500}
	for i, p := range positions {
		assert.GreaterOrEqual(t, p.X, 25.0)
		assert.LessOrEqual(t, p.X, 975.0)
		assert.GreaterOrEqual(t, p.Y, 25.0)
		assert.LessOrEqual(t, p.Y, 975.0)
		assert.GreaterOrEqual(t, p.Sub(centre).Length(), 75.0)
		for _, q := range positions[i+1:] {
			assert.GreaterOrEqual(t, p.Sub(q).Length(), 75.0)
		}
	}
}

func TestPlaceBestEffort(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	// A 200x200 arena cannot hold many bodies spaced 75 apart around a
	// reserved centre.
	positions := Place(rng, 50, 50, 200, 200)

	assert.Less(t, len(positions), 50)
	assert.Empty(t, Place(rng, 0, 50, 200, 200))
	assert.Empty(t, Place(rng, 3, 50, 40, 40))
}

func TestLaunchVelocity(t *testing.T) {
	v := LaunchVelocity(Vec2{100, 100}, Vec2{50, 120}, 0.8)
	assert.InDelta(t, 40, v.X, 1e-12)
	assert.InDelta(t, -16, v.Y, 1e-12)

	preview := Aim(Vec2{100, 100}, Vec2{70, 60}, 0.8)
	assert.Equal(t, Vec2{30, 40}, preview.Arrow)
	assert.InDelta(t, 50, preview.Length, 1e-12)
	assert.InDelta(t, math.Atan2(40, 30), preview.Angle, 1e-12)
	assert.InDelta(t, 24, preview.Velocity.X, 1e-12)
	assert.InDelta(t, 32, preview.Velocity.Y, 1e-12)
}

func TestResizableArena(t *testing.T) {
	a := NewResizableArena(800, 600)
	a.Resize(1024, 768)
	w, h := a.Size()
	assert.Equal(t, 1024.0, w)
	assert.Equal(t, 768.0, h)
	assert.Equal(t, Vec2{512, 384}, Center(a))
}
