package headless_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/valerio/go-pugstation/pugstation/backend"
	"github.com/valerio/go-pugstation/pugstation/backend/headless"
	"github.com/valerio/go-pugstation/pugstation/debug"
	"github.com/valerio/go-pugstation/pugstation/video"
)

func snapshotAt(instructions uint64) *debug.Snapshot {
	return &debug.Snapshot{CPU: &debug.CPUState{Instructions: instructions, PC: 0xbfc00000}}
}

func triangle(c video.Color) video.Polygon {
	return video.Polygon{Vertices: []video.Vertex{
		{Position: video.Position{X: 0, Y: 0}, Color: c},
		{Position: video.Position{X: 10, Y: 0}, Color: c},
		{Position: video.Position{X: 0, Y: 10}, Color: c},
	}}
}

func TestHeadlessBackend(t *testing.T) {
	t.Run("quits at the instruction budget", func(t *testing.T) {
		h := headless.New(1000)
		require.NoError(t, h.Init(backend.Config{Title: "Test"}))

		actions, err := h.Update(snapshotAt(500))
		assert.NoError(t, err)
		assert.Empty(t, actions)

		actions, err = h.Update(nil)
		assert.NoError(t, err)
		assert.Empty(t, actions)

		actions, err = h.Update(snapshotAt(1000))
		assert.NoError(t, err)
		assert.Equal(t, []backend.Action{backend.ActionQuit}, actions)

		assert.NoError(t, h.Cleanup())
	})

	t.Run("renderer records polygons", func(t *testing.T) {
		h := headless.New(1)
		require.NoError(t, h.Init(backend.Config{}))

		r := h.Renderer()
		r.PushPolygon(triangle(video.Color{R: 0xff}))
		r.Display()

		assert.Equal(t, 1, h.Recorder().Pushes)
		assert.Equal(t, 1, h.Recorder().Displays)
		assert.Len(t, h.Recorder().LastFrame, 1)
	})
}

func TestHeadlessDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.yaml")
	h := headless.New(10, headless.WithDump(path), headless.WithFrameLimit(2))
	require.NoError(t, h.Init(backend.Config{Title: "dump"}))

	r := h.Renderer()
	for i := 0; i < 3; i++ {
		r.SetDrawOffset(int16(i), 0)
		r.PushPolygon(triangle(video.Color{R: uint8(i), G: 0x80, B: 0xff}))
		r.Display()
	}
	r.PushPolygon(triangle(video.Color{}))

	_, err := h.Update(snapshotAt(10))
	require.NoError(t, err)
	require.NoError(t, h.Cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var d headless.Dump
	require.NoError(t, yaml.Unmarshal(data, &d))

	assert.Equal(t, "dump", d.Title)
	assert.Equal(t, 4, d.Polygons)
	assert.Equal(t, 3, d.Displays)
	require.Len(t, d.Frames, 2, "only the most recent frames are kept")
	assert.Equal(t, 1, d.Frames[0].Index)
	assert.Equal(t, [2]int16{2, 0}, d.Frames[1].DrawOffset)
	assert.Equal(t, "#0280ff", d.Frames[1].Polygons[0].Vertices[0].Color)
	assert.Len(t, d.Pending, 1)
	require.NotNil(t, d.State)
	assert.Equal(t, uint64(10), d.State.CPU.Instructions)
}

func TestHeadlessImplementsBackend(t *testing.T) {
	var _ backend.Backend = (*headless.Backend)(nil)
}
