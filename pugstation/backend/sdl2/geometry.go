package sdl2

import "github.com/valerio/go-pugstation/pugstation/video"

// point is a vertex ready for the SDL geometry API: window coordinates and
// an 8-bit RGBA color.
type point struct {
	X, Y       float32
	R, G, B, A uint8
}

// flatten turns a frame of polygons into a flat triangle list. The draw
// offset is added to every vertex and the result is scaled to the window.
func flatten(polygons []video.Polygon, offset video.Position, scale float32) []point {
	points := make([]point, 0, len(polygons)*6)
	for _, p := range polygons {
		for _, tri := range p.Triangles() {
			for _, v := range tri {
				points = append(points, toPoint(v, p, offset, scale))
			}
		}
	}
	return points
}

func toPoint(v video.Vertex, p video.Polygon, offset video.Position, scale float32) point {
	c := v.Color
	if p.Textured && p.RawTexture {
		// Texture sampling is not done, so raw textured primitives are
		// drawn with a neutral gray.
		c = video.Color{R: 0x80, G: 0x80, B: 0x80}
	}
	alpha := uint8(0xff)
	if p.SemiTransparent {
		alpha = 0x80
	}
	return point{
		X: float32(int32(v.Position.X)+int32(offset.X)) * scale,
		Y: float32(int32(v.Position.Y)+int32(offset.Y)) * scale,
		R: c.R,
		G: c.G,
		B: c.B,
		A: alpha,
	}
}
