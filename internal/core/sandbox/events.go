package sandbox

// Event types published on the bus.
const (
	EventFrame    = "sandbox.frame"
	EventRebounds = "sandbox.rebounds"
	EventAiming   = "sandbox.aiming"
	EventLaunched = "sandbox.launched"
	EventStopped  = "sandbox.stopped"
)

const eventSource = "sandbox"

// ReboundUpdate carries the counter after a reset or an increment.
type ReboundUpdate struct {
	Launch uint64 `json:"launch"`
	Count  int    `json:"count"`
}

type LaunchInfo struct {
	Launch    uint64  `json:"launch"`
	OriginX   float64 `json:"origin_x"`
	OriginY   float64 `json:"origin_y"`
	VelocityX float64 `json:"vx"`
	VelocityY float64 `json:"vy"`
}

type StopReason string

const (
	StopAtRest  StopReason = "at_rest"
	StopAborted StopReason = "aborted"
)

type StopInfo struct {
	Launch   uint64     `json:"launch"`
	Reason   StopReason `json:"reason"`
	Ticks    uint64     `json:"ticks"`
	Rebounds int        `json:"rebounds"`
}
