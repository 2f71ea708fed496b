package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-pugstation/pugstation/backend"
	"github.com/valerio/go-pugstation/pugstation/debug"
	"github.com/valerio/go-pugstation/pugstation/disasm"
	"github.com/valerio/go-pugstation/pugstation/video"
)

const (
	previewWidth  = 64
	previewHeight = 24 // terminal rows, two pixels each
	registerRows  = 10
	dmaRows       = 7
	disasmRows    = 9
	minTermWidth  = 120
	minTermHeight = 40

	defaultDisplayWidth  = 320
	defaultDisplayHeight = 240
)

var (
	borderStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	textStyle    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	currentStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	running   bool
	logBuffer *LogBuffer
	logLevel  *slog.LevelVar
	config    backend.Config
	recorder  *video.Recorder
	canvas    *canvas
	actions   []backend.Action
	signals   chan os.Signal
	prevLog   *slog.Logger
}

// Option configures the terminal backend.
type Option func(*Backend)

// WithScreen uses s instead of the process terminal.
func WithScreen(s tcell.Screen) Option {
	return func(t *Backend) { t.screen = s }
}

// New creates a new terminal backend
func New(opts ...Option) *Backend {
	t := &Backend{
		logLevel: new(slog.LevelVar),
		recorder: video.NewRecorder(),
		canvas:   newCanvas(previewWidth, previewHeight*2),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	t.config = config

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.running = true

	// the screen owns stderr now, route logs to the on-screen pane
	t.prevLog = slog.Default()
	t.logBuffer = NewLogBuffer(200)
	handler := NewLogBufferHandler(t.logBuffer, t.logLevel)
	slog.SetDefault(slog.New(handler))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	slog.Info("Terminal backend initialized")
	return nil
}

func (t *Backend) Renderer() video.Renderer {
	return t.recorder
}

// Update processes pending key events and redraws the monitor.
func (t *Backend) Update(snapshot *debug.Snapshot) ([]backend.Action, error) {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	select {
	case <-t.signals:
		t.running = false
		t.actions = append(t.actions, backend.ActionQuit)
	default:
	}

	actions := t.actions
	t.actions = nil

	if t.running {
		t.render(snapshot)
		t.screen.Show()
	}
	return actions, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	if t.prevLog != nil {
		slog.SetDefault(t.prevLog)
	}
	return nil
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.quit()
		return
	case tcell.KeyF10:
		t.config.ShowDebug = !t.config.ShowDebug
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch ev.Rune() {
	case 'q':
		t.quit()
	case ' ':
		t.actions = append(t.actions, backend.ActionPauseToggle)
	case 'n':
		t.actions = append(t.actions, backend.ActionStep)
	case '+', '=':
		t.changeLogLevel(-4)
	case '-', '_':
		t.changeLogLevel(4)
	}
}

func (t *Backend) quit() {
	t.running = false
	t.actions = append(t.actions, backend.ActionQuit)
}

// changeLogLevel moves the log filter by delta, a negative delta shows
// more messages.
func (t *Backend) changeLogLevel(delta slog.Level) {
	oldLevel := t.logLevel.Level()
	newLevel := min(max(oldLevel+delta, slog.LevelDebug), slog.LevelError)
	if newLevel == oldLevel {
		return
	}
	t.logLevel.Set(newLevel)
	slog.Warn("Log filter changed", "from", oldLevel, "to", newLevel)
}

func (t *Backend) render(snapshot *debug.Snapshot) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, tcell.StyleDefault.Foreground(tcell.ColorRed), msg)
		return
	}

	dividerX := previewWidth + 1
	rightX := dividerX + 2
	rightWidth := termWidth - rightX

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	title := " Display "
	if t.config.Title != "" {
		title = " " + t.config.Title + " "
	}
	t.drawText(1, 0, previewWidth, titleStyle, title)
	t.drawPreview(snapshot, 0, 1)
	t.drawRenderStats(snapshot, 0, previewHeight+2, previewWidth)

	y := 0
	if t.config.ShowDebug && snapshot != nil {
		y = t.drawState(snapshot, rightX, y, rightWidth)
	}
	t.drawLogs(rightX, y, rightWidth, termHeight-1)

	help := " SPACE=pause/resume  N=step  F10=toggle debug  +/-=log filter  Q=quit "
	t.drawText(0, termHeight-1, termWidth, borderStyle, help)
}

func (t *Backend) drawPreview(snapshot *debug.Snapshot, x, y int) {
	frame := t.recorder.LastFrame
	if len(frame) == 0 {
		frame = t.recorder.Frame
	}

	srcW, srcH := defaultDisplayWidth, defaultDisplayHeight
	if snapshot != nil && snapshot.GPU != nil && snapshot.GPU.DisplayWidth > 0 && snapshot.GPU.DisplayLines > 0 {
		srcW, srcH = snapshot.GPU.DisplayWidth, snapshot.GPU.DisplayLines
	}

	t.canvas.clear()
	t.canvas.drawPolygons(frame, t.recorder.DrawOffset, srcW, srcH)
	t.canvas.blit(t.screen, x, y)
}

func (t *Backend) drawRenderStats(snapshot *debug.Snapshot, x, y, width int) {
	lines := []string{
		fmt.Sprintf("Polygons: %d  Frames: %d  Last frame: %d",
			t.recorder.Pushes, t.recorder.Displays, len(t.recorder.LastFrame)),
	}
	if snapshot != nil && snapshot.GPU != nil {
		lines = append(lines, snapshot.GPU.String())
	}
	for i, line := range lines {
		t.drawText(x, y+i, width, textStyle, line)
	}
}

// drawState draws registers, DMA channels and disassembly and returns the
// first free row.
func (t *Backend) drawState(s *debug.Snapshot, x, y, width int) int {
	if s.CPU != nil {
		status := fmt.Sprintf(" CPU [%s] %d instructions ", s.DebuggerState, s.CPU.Instructions)
		t.drawText(x, y, width, titleStyle, status)
		y++
		for _, line := range s.CPU.RegisterLines() {
			t.drawText(x, y, width, textStyle, line)
			y++
		}
		t.drawText(x, y, width, textStyle, s.CPU.StatusLine())
		y += registerRows - 8
	}

	if s.DMA != nil {
		t.drawText(x, y, width, titleStyle, fmt.Sprintf(" DMA  DPCR %08X  DICR %08X ", s.DMA.Control, s.DMA.Interrupt))
		y++
		for i, ch := range s.DMA.Channels {
			if i >= dmaRows {
				break
			}
			t.drawText(x, y, width, textStyle, ch.String())
			y++
		}
	}

	if len(s.Disassembly) > 0 && s.CPU != nil {
		t.drawText(x, y, width, titleStyle, " Disassembly ")
		y++
		for i, line := range s.Disassembly {
			if i >= disasmRows {
				break
			}
			current := line.Address == s.CPU.PC
			style := textStyle
			if current {
				style = currentStyle
			}
			t.drawText(x, y, width, style, disasm.FormatDisassemblyLine(line, current))
			y++
		}
	}
	return y
}

func (t *Backend) drawLogs(x, y, width, bottom int) {
	title := fmt.Sprintf(" Logs [%s] (-/+ filter) ", t.logLevel.Level())
	t.drawText(x, y, width, titleStyle, title)
	y++

	available := bottom - y
	if available <= 0 {
		return
	}

	for i, entry := range t.logBuffer.Recent(available, t.logLevel.Level()) {
		style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
		switch {
		case entry.Level < slog.LevelInfo:
			style = tcell.StyleDefault.Foreground(tcell.ColorGray)
		case entry.Level >= slog.LevelError:
			style = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
		case entry.Level >= slog.LevelWarn:
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		}
		t.drawText(x, y+i, width, style, FormatLogEntry(entry))
	}
}

// drawText writes s on row y, truncated to width cells.
func (t *Backend) drawText(x, y, width int, style tcell.Style, s string) {
	col := 0
	for _, ch := range s {
		if col >= width {
			return
		}
		t.screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
}
