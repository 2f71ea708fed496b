//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-pugstation/pugstation/backend"
	"github.com/valerio/go-pugstation/pugstation/debug"
	"github.com/valerio/go-pugstation/pugstation/video"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	displayWidth  = 320
	displayHeight = 240
	defaultScale  = 2
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	running  bool
	config   backend.Config
	scale    float32

	recorder  *video.Recorder
	displayed int
	actions   []backend.Action
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{recorder: video.NewRecorder()}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.Config) error {
	s.config = config
	scale := config.Scale
	if scale <= 0 {
		scale = defaultScale
	}
	s.scale = float32(scale)

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(displayWidth*scale),
		int32(displayHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %v", err)
	}
	if err := renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		slog.Warn("Failed to enable blending", "error", err)
	}
	s.renderer = renderer
	s.running = true

	slog.Info("SDL2 backend initialized", "scale", scale)
	return nil
}

func (s *Backend) Renderer() video.Renderer {
	return s.recorder
}

// Update processes events and presents the last flushed frame.
func (s *Backend) Update(snapshot *debug.Snapshot) ([]backend.Action, error) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		s.handleEvent(event)
	}

	actions := s.actions
	s.actions = nil

	if !s.running {
		return actions, nil
	}

	if s.recorder.Displays != s.displayed {
		s.displayed = s.recorder.Displays
		if err := s.renderFrame(); err != nil {
			return actions, err
		}
	}
	return actions, nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

// keyMapping maps SDL2 keys to actions
var keyMapping = map[sdl.Keycode]backend.Action{
	sdl.K_ESCAPE: backend.ActionQuit,
	sdl.K_q:      backend.ActionQuit,
	sdl.K_SPACE:  backend.ActionPauseToggle,
	sdl.K_n:      backend.ActionStep,
}

func (s *Backend) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.actions = append(s.actions, backend.ActionQuit)

	case *sdl.KeyboardEvent:
		// Ignore key repeat events
		if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
			return
		}
		if act, exists := keyMapping[e.Keysym.Sym]; exists {
			if act == backend.ActionQuit {
				s.running = false
			}
			s.actions = append(s.actions, act)
		}
	}
}

func (s *Backend) renderFrame() error {
	points := flatten(s.recorder.LastFrame, s.recorder.DrawOffset, s.scale)

	vertices := make([]sdl.Vertex, len(points))
	for i, p := range points {
		vertices[i] = sdl.Vertex{
			Position: sdl.FPoint{X: p.X, Y: p.Y},
			Color:    sdl.Color{R: p.R, G: p.G, B: p.B, A: p.A},
		}
	}

	s.renderer.SetDrawColor(0, 0, 0, 0xff)
	s.renderer.Clear()
	if len(vertices) > 0 {
		if err := s.renderer.RenderGeometry(nil, vertices, nil); err != nil {
			return fmt.Errorf("failed to render frame: %w", err)
		}
	}
	s.renderer.Present()
	return nil
}
