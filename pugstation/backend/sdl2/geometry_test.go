package sdl2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-pugstation/pugstation/video"
)

func vertex(x, y int16, c video.Color) video.Vertex {
	return video.Vertex{Position: video.Position{X: x, Y: y}, Color: c}
}

func TestFlatten(t *testing.T) {
	red := video.Color{R: 0xff}
	blue := video.Color{B: 0xff}

	testCases := []struct {
		desc    string
		polygon video.Polygon
		offset  video.Position
		scale   float32
		want    []point
	}{
		{
			desc: "triangle with offset",
			polygon: video.Polygon{Vertices: []video.Vertex{
				vertex(0, 0, red), vertex(10, 0, red), vertex(0, 10, red),
			}},
			offset: video.Position{X: 5, Y: -5},
			scale:  1,
			want: []point{
				{X: 5, Y: -5, R: 0xff, A: 0xff},
				{X: 15, Y: -5, R: 0xff, A: 0xff},
				{X: 5, Y: 5, R: 0xff, A: 0xff},
			},
		},
		{
			desc: "quad splits into two triangles",
			polygon: video.Polygon{Vertices: []video.Vertex{
				vertex(0, 0, red), vertex(1, 0, blue), vertex(0, 1, red), vertex(1, 1, blue),
			}},
			scale: 2,
			want: []point{
				{X: 0, Y: 0, R: 0xff, A: 0xff},
				{X: 2, Y: 0, B: 0xff, A: 0xff},
				{X: 0, Y: 2, R: 0xff, A: 0xff},
				{X: 2, Y: 0, B: 0xff, A: 0xff},
				{X: 0, Y: 2, R: 0xff, A: 0xff},
				{X: 2, Y: 2, B: 0xff, A: 0xff},
			},
		},
		{
			desc: "semi transparent raw texture",
			polygon: video.Polygon{
				Vertices: []video.Vertex{
					vertex(0, 0, red), vertex(1, 0, red), vertex(0, 1, red),
				},
				Textured:        true,
				RawTexture:      true,
				SemiTransparent: true,
			},
			scale: 1,
			want: []point{
				{X: 0, Y: 0, R: 0x80, G: 0x80, B: 0x80, A: 0x80},
				{X: 1, Y: 0, R: 0x80, G: 0x80, B: 0x80, A: 0x80},
				{X: 0, Y: 1, R: 0x80, G: 0x80, B: 0x80, A: 0x80},
			},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got := flatten([]video.Polygon{tC.polygon}, tC.offset, tC.scale)
			assert.Equal(t, tC.want, got)
		})
	}
}

func TestFlattenEmpty(t *testing.T) {
	assert.Empty(t, flatten(nil, video.Position{}, 1))
}
