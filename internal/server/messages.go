package server

import (
	"github.com/zeusync/rebound/internal/core/sandbox"
	"github.com/zeusync/rebound/internal/core/systems/physics"
)

// Inbound message types.
const (
	MsgBegin   = "begin"
	MsgDrag    = "drag"
	MsgRelease = "release"
	MsgResize  = "resize"
	MsgAbort   = "abort"
)

// Outbound message types.
const (
	MsgWelcome  = "welcome"
	MsgFrame    = "frame"
	MsgRebounds = "rebounds"
	MsgAim      = "aim"
	MsgLaunched = "launched"
	MsgStopped  = "stopped"
	MsgError    = "error"
)

// InboundMessage is what a client sends. X and Y carry the pointer position;
// W and H the viewport size for resize.
type InboundMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	W    float64 `json:"w,omitempty"`
	H    float64 `json:"h,omitempty"`
}

func (m InboundMessage) Point() physics.Vec2 { return physics.Vec2{X: m.X, Y: m.Y} }

type AimMessage struct {
	ArrowX    float64 `json:"arrow_x"`
	ArrowY    float64 `json:"arrow_y"`
	Length    float64 `json:"length"`
	Angle     float64 `json:"angle"`
	VelocityX float64 `json:"vx"`
	VelocityY float64 `json:"vy"`
}

func newAimMessage(p physics.AimPreview) *AimMessage {
	return &AimMessage{
		ArrowX:    p.Arrow.X,
		ArrowY:    p.Arrow.Y,
		Length:    p.Length,
		Angle:     p.Angle,
		VelocityX: p.Velocity.X,
		VelocityY: p.Velocity.Y,
	}
}

// OutboundMessage is what the server sends. Exactly one payload is set,
// matching Type.
type OutboundMessage struct {
	Type     string                 `json:"type"`
	ClientID string                 `json:"client_id,omitempty"`
	Frame    *sandbox.Frame         `json:"frame,omitempty"`
	Rebounds *sandbox.ReboundUpdate `json:"rebounds,omitempty"`
	Aim      *AimMessage            `json:"aim,omitempty"`
	Launch   *sandbox.LaunchInfo    `json:"launch,omitempty"`
	Stop     *sandbox.StopInfo      `json:"stop,omitempty"`
	Error    string                 `json:"error,omitempty"`
}
