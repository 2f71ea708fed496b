package headless

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/valerio/go-pugstation/pugstation/backend"
	"github.com/valerio/go-pugstation/pugstation/debug"
	"github.com/valerio/go-pugstation/pugstation/video"
)

// defaultFrameLimit bounds how many flushed frames are kept for the dump.
const defaultFrameLimit = 64

// Backend implements the Backend interface for automated testing and batch processing
type Backend struct {
	config          backend.Config
	maxInstructions uint64
	updates         int
	dumpPath        string
	logLevel        slog.Level
	installLogger   bool

	frames *frameLog
	last   *debug.Snapshot
}

// Option configures the headless backend.
type Option func(*Backend)

// WithDump writes the recorded frames and the final machine state to path
// as YAML on Cleanup.
func WithDump(path string) Option {
	return func(h *Backend) { h.dumpPath = path }
}

// WithLogLevel installs a stderr text logger at the given level on Init.
func WithLogLevel(level slog.Level) Option {
	return func(h *Backend) {
		h.logLevel = level
		h.installLogger = true
	}
}

// WithFrameLimit sets how many of the most recent frames are kept.
func WithFrameLimit(n int) Option {
	return func(h *Backend) { h.frames.limit = n }
}

// New returns a backend that asks to quit once maxInstructions have run.
func New(maxInstructions uint64, opts ...Option) *Backend {
	h := &Backend{
		maxInstructions: maxInstructions,
		frames:          newFrameLog(defaultFrameLimit),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config

	if h.installLogger {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: h.logLevel,
		})
		slog.SetDefault(slog.New(handler))
	}

	slog.Info("Running headless mode",
		"instructions", h.maxInstructions,
		"dump", h.dumpPath)
	return nil
}

func (h *Backend) Renderer() video.Renderer {
	return h.frames
}

// Recorder exposes the underlying recorder for inspection.
func (h *Backend) Recorder() *video.Recorder {
	return h.frames.Recorder
}

// Update checks the instruction budget.
func (h *Backend) Update(snapshot *debug.Snapshot) ([]backend.Action, error) {
	h.updates++
	if snapshot == nil || snapshot.CPU == nil {
		return nil, nil
	}
	h.last = snapshot

	if h.updates%100 == 0 {
		slog.Info("Progress",
			"instructions", snapshot.CPU.Instructions,
			"total", h.maxInstructions,
			"frames", h.frames.Displays)
	}

	if snapshot.CPU.Instructions >= h.maxInstructions {
		slog.Info("Headless execution completed",
			"instructions", snapshot.CPU.Instructions,
			"polygons", h.frames.Pushes,
			"frames", h.frames.Displays)
		return []backend.Action{backend.ActionQuit}, nil
	}
	return nil, nil
}

func (h *Backend) Cleanup() error {
	if h.dumpPath == "" {
		return nil
	}
	if err := h.writeDump(h.dumpPath); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	slog.Info("Dump written", "path", h.dumpPath, "frames", len(h.frames.frames))
	return nil
}

func (h *Backend) writeDump(path string) error {
	out, err := yaml.Marshal(h.dump())
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

func (h *Backend) dump() *Dump {
	d := &Dump{
		Title:    h.config.Title,
		State:    h.last,
		Polygons: h.frames.Pushes,
		Displays: h.frames.Displays,
		Frames:   h.frames.frames,
	}
	if len(h.frames.Frame) > 0 {
		d.Pending = recordPolygons(h.frames.Frame)
	}
	return d
}
