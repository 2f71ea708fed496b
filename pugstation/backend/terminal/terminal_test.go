package terminal

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-pugstation/pugstation/backend"
	"github.com/valerio/go-pugstation/pugstation/debug"
	"github.com/valerio/go-pugstation/pugstation/video"
)

func newTestBackend(t *testing.T) (*Backend, tcell.SimulationScreen) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	screen := tcell.NewSimulationScreen("UTF-8")
	b := New(WithScreen(screen))
	require.NoError(t, b.Init(backend.Config{Title: "Test", ShowDebug: true}))
	screen.SetSize(140, 50)
	t.Cleanup(func() { _ = b.Cleanup() })
	return b, screen
}

func screenText(screen tcell.SimulationScreen) string {
	cells, width, _ := screen.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteRune(' ')
		}
		if (i+1)%width == 0 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func TestKeyActions(t *testing.T) {
	testCases := []struct {
		desc string
		key  tcell.Key
		r    rune
		want []backend.Action
	}{
		{desc: "space pauses", key: tcell.KeyRune, r: ' ', want: []backend.Action{backend.ActionPauseToggle}},
		{desc: "n steps", key: tcell.KeyRune, r: 'n', want: []backend.Action{backend.ActionStep}},
		{desc: "q quits", key: tcell.KeyRune, r: 'q', want: []backend.Action{backend.ActionQuit}},
		{desc: "escape quits", key: tcell.KeyEscape, want: []backend.Action{backend.ActionQuit}},
		{desc: "ctrl-c quits", key: tcell.KeyCtrlC, want: []backend.Action{backend.ActionQuit}},
		{desc: "unmapped key", key: tcell.KeyRune, r: 'z'},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			b, screen := newTestBackend(t)

			screen.InjectKey(tC.key, tC.r, tcell.ModNone)
			actions, err := b.Update(nil)

			require.NoError(t, err)
			assert.Equal(t, tC.want, actions)
		})
	}
}

func TestLogLevelKeys(t *testing.T) {
	b, screen := newTestBackend(t)
	require.Equal(t, slog.LevelInfo, b.logLevel.Level())

	screen.InjectKey(tcell.KeyRune, '+', tcell.ModNone)
	_, err := b.Update(nil)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, b.logLevel.Level())

	screen.InjectKey(tcell.KeyRune, '+', tcell.ModNone)
	_, err = b.Update(nil)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, b.logLevel.Level(), "clamped")

	screen.InjectKey(tcell.KeyRune, '-', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, '-', tcell.ModNone)
	_, err = b.Update(nil)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, b.logLevel.Level())
}

func TestRenderState(t *testing.T) {
	b, screen := newTestBackend(t)

	snapshot := &debug.Snapshot{
		CPU: &debug.CPUState{PC: 0xbfc00000, Instructions: 42},
		DMA: &debug.DMAState{
			Control:  0x07654321,
			Channels: []debug.DMAChannelState{{Port: "GPU", Base: 0x1000}},
		},
		GPU: &debug.GPUState{Status: 0x1c000000, DisplayWidth: 320, DisplayLines: 240},
	}
	slog.Info("hello from the test")

	_, err := b.Update(snapshot)
	require.NoError(t, err)

	text := screenText(screen)
	assert.Contains(t, text, "42 instructions")
	assert.Contains(t, text, "PC BFC00000")
	assert.Contains(t, text, "DPCR 07654321")
	assert.Contains(t, text, "GPU     base 001000")
	assert.Contains(t, text, "GPUSTAT 1C000000")
	assert.Contains(t, text, "hello from the test")
}

func TestRenderPreview(t *testing.T) {
	b, screen := newTestBackend(t)

	red := video.Color{R: 0xff}
	r := b.Renderer()
	r.PushPolygon(video.Polygon{Vertices: []video.Vertex{
		{Position: video.Position{X: 0, Y: 0}, Color: red},
		{Position: video.Position{X: 320, Y: 0}, Color: red},
		{Position: video.Position{X: 0, Y: 240}, Color: red},
		{Position: video.Position{X: 320, Y: 240}, Color: red},
	}})
	r.Display()

	_, err := b.Update(nil)
	require.NoError(t, err)

	cells, width, _ := screen.GetContents()
	cell := cells[1*width+10]
	fg, bg, _ := cell.Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(0xff, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(0xff, 0, 0), bg)
	assert.Contains(t, screenText(screen), "Polygons: 1")
}

func TestTooSmall(t *testing.T) {
	b, screen := newTestBackend(t)
	screen.SetSize(40, 10)

	_, err := b.Update(nil)
	require.NoError(t, err)

	assert.Contains(t, screenText(screen), "Terminal too small")
}
