package sandbox

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/zeusync/rebound/internal/config"
	"github.com/zeusync/rebound/internal/core/events/bus"
	"github.com/zeusync/rebound/internal/core/observability/log"
	"github.com/zeusync/rebound/internal/core/systems/physics"
)

// Phase is the launch lifecycle state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseAiming
	PhaseRunning
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAiming:
		return "aiming"
	case PhaseRunning:
		return "running"
	default:
		return "unknown"
	}
}

// MaxExtent bounds pointer coordinates and arena sizes accepted from clients.
// Anything beyond it is far outside any viewport and would let launch
// velocities overflow.
const MaxExtent = 1e6

func validPoint(p physics.Vec2) bool {
	return p.IsFinite() && math.Abs(p.X) <= MaxExtent && math.Abs(p.Y) <= MaxExtent
}

// Resizer is implemented by arenas that follow a viewport.
type Resizer interface {
	Resize(w, h float64)
}

// Sandbox owns the bodies, the arena and the per-launch session. All
// mutation goes through mu; Tick is additionally guarded against re-entry.
type Sandbox struct {
	cfg    config.Sandbox
	params physics.Params
	arena  physics.Arena
	bus    bus.EventBus
	logger log.Log
	clock  Clock

	mu           sync.Mutex
	bodies       []*physics.Body
	launch       *physics.Body
	session      physics.Session
	phase        Phase
	dragOrigin   physics.Vec2
	launchCenter physics.Vec2
	ticks        uint64
	launchTicks  uint64
	launches     uint64
	loop         *loopHandle
	closed       bool

	ticking atomic.Bool
}

type Option func(*Sandbox)

// WithClock replaces the wall-clock ticker driving the loop.
func WithClock(c Clock) Option {
	return func(s *Sandbox) { s.clock = c }
}

// New places the launch body at the arena centre and cfg.BallCount passive
// bodies around it. Fewer passive bodies than requested is not an error.
// A nil rng is seeded from cfg.Seed, or randomly when the seed is zero.
func New(cfg config.Sandbox, arena physics.Arena, eventBus bus.EventBus, logger log.Log, rng *rand.Rand, opts ...Option) (*Sandbox, error) {
	if cfg.BodySize <= 0 || cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("%w: body size %v, tick interval %v", ErrInvalidSettings, cfg.BodySize, cfg.TickInterval)
	}
	if logger == nil {
		logger = log.NewNop()
	}
	if eventBus == nil {
		eventBus = bus.New()
	}
	if rng == nil {
		rng = newRand(cfg.Seed)
	}

	s := &Sandbox{
		cfg: cfg,
		params: physics.Params{
			Friction:      cfg.Friction,
			StopThreshold: cfg.StopThreshold,
		},
		arena:  arena,
		bus:    eventBus,
		logger: logger.With(log.String("component", "sandbox")),
		clock:  realClock{},
	}
	for _, opt := range opts {
		opt(s)
	}

	radius := cfg.BodySize / 2
	launch, err := physics.NewBody(0, physics.KindLaunch, physics.Center(arena), radius)
	if err != nil {
		return nil, err
	}
	s.launch = launch
	s.bodies = append(s.bodies, launch)

	w, h := arena.Size()
	positions := physics.Place(rng, cfg.BallCount, cfg.BodySize, w, h)
	for i, p := range positions {
		b, err := physics.NewBody(i+1, physics.KindPassive, p, radius)
		if err != nil {
			return nil, err
		}
		s.bodies = append(s.bodies, b)
	}

	if len(positions) < cfg.BallCount {
		s.logger.Warn("Placed fewer balls than requested",
			log.Int("requested", cfg.BallCount),
			log.Int("placed", len(positions)))
	}
	s.logger.Info("Sandbox created",
		log.Float64("width", w),
		log.Float64("height", h),
		log.Int("bodies", len(s.bodies)))

	return s, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// BeginLaunch starts aiming from pointer position p. The rebound counter is
// reset here, at the start of the launch session.
func (s *Sandbox) BeginLaunch(p physics.Vec2) error {
	if !validPoint(p) {
		return fmt.Errorf("%w: %v", ErrInvalidPoint, p)
	}
	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.phase == PhaseRunning {
		s.mu.Unlock()
		return ErrLoopRunning
	}

	if s.phase == PhaseAiming {
		s.launch.Center = s.launchCenter
	}
	s.phase = PhaseAiming
	s.session.Reset()
	s.dragOrigin = p
	s.launchCenter = s.launch.Center
	update := ReboundUpdate{Launch: s.launches + 1, Count: 0}
	frame := s.frameLocked()
	s.mu.Unlock()

	s.logger.Debug("Aiming started", log.Float64("x", p.X), log.Float64("y", p.Y))
	s.publish(EventRebounds, update)
	s.publish(EventAiming, frame)
	return nil
}

// DragTo moves the launch body with the pointer and returns the aiming
// preview. The physics never reads the dragged position; Release snaps the
// body back to where aiming began.
func (s *Sandbox) DragTo(p physics.Vec2) (physics.AimPreview, error) {
	if !validPoint(p) {
		return physics.AimPreview{}, fmt.Errorf("%w: %v", ErrInvalidPoint, p)
	}
	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return physics.AimPreview{}, err
	}
	if s.phase != PhaseAiming {
		s.mu.Unlock()
		return physics.AimPreview{}, ErrNotAiming
	}

	s.launch.Center = s.launchCenter.Add(p.Sub(s.dragOrigin))
	preview := physics.Aim(s.dragOrigin, p, s.cfg.LaunchMultiplier)
	frame := s.frameLocked()
	s.mu.Unlock()

	s.publish(EventFrame, frame)
	return preview, nil
}

// Release launches from the drag origin towards the opposite of the drag and
// starts the tick loop.
func (s *Sandbox) Release(p physics.Vec2) (physics.Vec2, error) {
	if !validPoint(p) {
		return physics.Vec2{}, fmt.Errorf("%w: %v", ErrInvalidPoint, p)
	}
	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return physics.Vec2{}, err
	}
	if s.phase != PhaseAiming {
		s.mu.Unlock()
		return physics.Vec2{}, ErrNotAiming
	}

	v := physics.LaunchVelocity(s.dragOrigin, p, s.cfg.LaunchMultiplier)
	if !v.IsFinite() {
		s.mu.Unlock()
		return physics.Vec2{}, fmt.Errorf("%w: launch velocity %v", ErrInvalidPoint, v)
	}
	s.launch.Center = s.launchCenter
	s.launch.Velocity = v
	s.phase = PhaseRunning
	s.launches++
	s.launchTicks = 0
	info := LaunchInfo{
		Launch:    s.launches,
		OriginX:   s.launchCenter.X,
		OriginY:   s.launchCenter.Y,
		VelocityX: v.X,
		VelocityY: v.Y,
	}
	handle := s.startLoopLocked()
	s.mu.Unlock()

	go s.run(handle)

	s.logger.Info("Launched",
		log.Uint64("launch", info.Launch),
		log.Float64("vx", v.X),
		log.Float64("vy", v.Y))
	s.publish(EventLaunched, info)
	return v, nil
}

// Tick advances the simulation by one step. It refuses to run concurrently
// with itself and outside a running launch. The returned flag reports that
// the bodies came to rest and the launch ended. Events go out as one batch
// after the step: a rebounds update per increment, the frame, then the stop.
func (s *Sandbox) Tick() (bool, error) {
	if !s.ticking.CompareAndSwap(false, true) {
		return false, ErrTickInProgress
	}
	defer s.ticking.Store(false)

	s.mu.Lock()
	if s.phase != PhaseRunning {
		s.mu.Unlock()
		return false, ErrNotRunning
	}

	before := s.session.Rebounds()
	atRest := physics.Step(s.bodies, s.arena, s.params, &s.session)
	s.ticks++
	s.launchTicks++
	after := s.session.Rebounds()

	var stop StopInfo
	if atRest {
		s.phase = PhaseIdle
		stop = StopInfo{
			Launch:   s.launches,
			Reason:   StopAtRest,
			Ticks:    s.launchTicks,
			Rebounds: after,
		}
	}
	launch := s.launches
	frame := s.frameLocked()
	s.mu.Unlock()

	events := make([]bus.Event, 0, after-before+2)
	for count := before + 1; count <= after; count++ {
		events = append(events, bus.NewEvent(EventRebounds, eventSource, ReboundUpdate{Launch: launch, Count: count}))
	}
	events = append(events, bus.NewEvent(EventFrame, eventSource, frame))
	if atRest {
		s.logger.Info("Bodies at rest",
			log.Uint64("launch", stop.Launch),
			log.Uint64("ticks", stop.Ticks),
			log.Int("rebounds", stop.Rebounds))
		events = append(events, bus.NewEvent(EventStopped, eventSource, stop))
	}
	if err := s.bus.PublishBatch(events...); err != nil {
		s.logger.Warn("Event handler failed",
			log.Uint64("tick", frame.Tick),
			log.Error(err))
	}
	return atRest, nil
}

// Abort ends a running launch from outside the loop. Bodies stay where they
// are with zero velocity. Aborting when nothing runs is a no-op. It must not
// be called from a bus handler of a sandbox event.
func (s *Sandbox) Abort() error {
	s.mu.Lock()
	if s.phase != PhaseRunning {
		if s.phase == PhaseAiming {
			s.launch.Center = s.launchCenter
			s.phase = PhaseIdle
		}
		s.mu.Unlock()
		return nil
	}

	s.phase = PhaseIdle
	for _, b := range s.bodies {
		b.Velocity = physics.Vec2{}
	}
	handle := s.loop
	stop := StopInfo{
		Launch:   s.launches,
		Reason:   StopAborted,
		Ticks:    s.launchTicks,
		Rebounds: s.session.Rebounds(),
	}
	frame := s.frameLocked()
	s.mu.Unlock()

	handle.stop()

	s.logger.Info("Launch aborted", log.Uint64("launch", stop.Launch))
	s.publish(EventFrame, frame)
	s.publish(EventStopped, stop)
	return nil
}

// Resize changes the arena size. It takes effect at the next tick. Sizes
// below the body size, above MaxExtent or NaN are rejected.
func (s *Sandbox) Resize(w, h float64) error {
	r, ok := s.arena.(Resizer)
	if !ok {
		return ErrNotResizable
	}
	if math.IsNaN(w) || math.IsNaN(h) || w < s.cfg.BodySize || h < s.cfg.BodySize || w > MaxExtent || h > MaxExtent {
		return fmt.Errorf("%w: %vx%v", ErrInvalidArena, w, h)
	}
	r.Resize(w, h)
	s.logger.Debug("Arena resized", log.Float64("width", w), log.Float64("height", h))
	return nil
}

// Snapshot returns the current frame.
func (s *Sandbox) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

func (s *Sandbox) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Sandbox) Rebounds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Rebounds()
}

// Close stops any running loop and rejects further launches.
func (s *Sandbox) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.phase == PhaseRunning {
		s.phase = PhaseIdle
	}
	handle := s.loop
	s.mu.Unlock()

	handle.stop()
	s.logger.Info("Sandbox closed")
	return nil
}

func (s *Sandbox) usableLocked() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *Sandbox) frameLocked() Frame {
	return newFrame(s.ticks, s.launches, s.phase, s.session.Rebounds(), s.arena, s.bodies)
}

func (s *Sandbox) publish(eventType string, data any) {
	if err := s.bus.Publish(bus.NewEvent(eventType, eventSource, data)); err != nil {
		s.logger.Warn("Event handler failed",
			log.String("event", eventType),
			log.Error(err))
	}
}
