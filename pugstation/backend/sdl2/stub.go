//go:build !sdl2

package sdl2

import (
	"fmt"

	"github.com/valerio/go-pugstation/pugstation/backend"
	"github.com/valerio/go-pugstation/pugstation/debug"
	"github.com/valerio/go-pugstation/pugstation/video"
)

// Backend stub for when SDL2 is not available
type Backend struct {
	recorder *video.Recorder
}

// New creates a stub SDL2 backend that returns an error
func New() *Backend {
	return &Backend{recorder: video.NewRecorder()}
}

// Init returns an error indicating SDL2 is not available
func (s *Backend) Init(config backend.Config) error {
	return fmt.Errorf("SDL2 backend not available - build with -tags sdl2 to enable")
}

// Renderer returns a recorder so the machine can still be constructed.
func (s *Backend) Renderer() video.Renderer {
	return s.recorder
}

// Update returns an error
func (s *Backend) Update(snapshot *debug.Snapshot) ([]backend.Action, error) {
	return nil, fmt.Errorf("SDL2 backend not available")
}

// Cleanup does nothing
func (s *Backend) Cleanup() error {
	return nil
}
