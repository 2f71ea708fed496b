package backend

import (
	"github.com/valerio/go-pugstation/pugstation/debug"
	"github.com/valerio/go-pugstation/pugstation/video"
)

// Backend represents a complete emulator frontend.
// Backends are responsible for:
// - Drawing the primitives the GPU hands to their Renderer
// - Translating platform-specific input events to Actions
// - Showing machine state from the debug snapshot, if they can
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Renderer or Update.
	Init(config Config) error

	// Renderer returns the sink the GPU draws into.
	Renderer() video.Renderer

	// Update is called between instruction batches. It polls platform
	// events and presents the current state. The snapshot may be nil.
	Update(snapshot *debug.Snapshot) ([]Action, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// Config holds configuration for backends
type Config struct {
	Title     string
	Scale     int
	ShowDebug bool // Backends may ignore unsupported features
}

// Action is a request from the frontend to the run loop.
type Action int

const (
	ActionQuit Action = iota
	ActionPauseToggle
	ActionStep
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionPauseToggle:
		return "pause"
	case ActionStep:
		return "step"
	}
	return "unknown"
}
