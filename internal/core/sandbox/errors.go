package sandbox

import "errors"

var (
	ErrClosed          = errors.New("sandbox is closed")
	ErrLoopRunning     = errors.New("launch loop is running")
	ErrNotAiming       = errors.New("no launch in progress")
	ErrNotRunning      = errors.New("launch loop is not running")
	ErrTickInProgress  = errors.New("tick already in progress")
	ErrNotResizable    = errors.New("arena cannot be resized")
	ErrInvalidArena    = errors.New("invalid arena size")
	ErrInvalidPoint    = errors.New("pointer position out of range")
	ErrInvalidSettings = errors.New("invalid sandbox settings")
)
