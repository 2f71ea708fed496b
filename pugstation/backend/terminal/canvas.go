package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-pugstation/pugstation/video"
)

// canvas is a small pixel grid drawn with half-block characters, two
// pixels per terminal cell.
type canvas struct {
	width, height int
	pixels        []tcell.Color
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height, pixels: make([]tcell.Color, width*height)}
	c.clear()
	return c
}

func (c *canvas) clear() {
	for i := range c.pixels {
		c.pixels[i] = tcell.ColorBlack
	}
}

func (c *canvas) at(x, y int) tcell.Color {
	return c.pixels[y*c.width+x]
}

// drawPolygons rasterizes the polygons scaled from a srcW x srcH area.
// Shaded polygons are filled with the average of their vertex colors.
func (c *canvas) drawPolygons(polygons []video.Polygon, offset video.Position, srcW, srcH int) {
	sx := float64(c.width) / float64(srcW)
	sy := float64(c.height) / float64(srcH)

	for _, p := range polygons {
		color := averageColor(p.Vertices)
		for _, tri := range p.Triangles() {
			var xs, ys [3]float64
			for i, v := range tri {
				xs[i] = float64(v.Position.X+offset.X) * sx
				ys[i] = float64(v.Position.Y+offset.Y) * sy
			}
			c.fillTriangle(xs, ys, color)
		}
	}
}

func (c *canvas) fillTriangle(xs, ys [3]float64, color tcell.Color) {
	minX, maxX := clampRange(min(xs[0], xs[1], xs[2]), max(xs[0], xs[1], xs[2]), c.width)
	minY, maxY := clampRange(min(ys[0], ys[1], ys[2]), max(ys[0], ys[1], ys[2]), c.height)

	area := edge(xs[0], ys[0], xs[1], ys[1], xs[2], ys[2])
	if area == 0 {
		return
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := edge(xs[1], ys[1], xs[2], ys[2], px, py)
			w1 := edge(xs[2], ys[2], xs[0], ys[0], px, py)
			w2 := edge(xs[0], ys[0], xs[1], ys[1], px, py)
			if area < 0 {
				w0, w1, w2 = -w0, -w1, -w2
			}
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				c.pixels[y*c.width+x] = color
			}
		}
	}
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func clampRange(lo, hi float64, size int) (int, int) {
	l, h := int(lo), int(hi)
	if l < 0 {
		l = 0
	}
	if h > size-1 {
		h = size - 1
	}
	return l, h
}

func averageColor(vertices []video.Vertex) tcell.Color {
	var r, g, b int
	for _, v := range vertices {
		r += int(v.Color.R)
		g += int(v.Color.G)
		b += int(v.Color.B)
	}
	n := len(vertices)
	if n == 0 {
		return tcell.ColorBlack
	}
	return tcell.NewRGBColor(int32(r/n), int32(g/n), int32(b/n))
}

// blit draws the canvas at x, y using the upper half block: the top
// pixel is the foreground and the bottom pixel the background.
func (c *canvas) blit(screen tcell.Screen, x, y int) {
	for row := 0; row+1 < c.height; row += 2 {
		for col := 0; col < c.width; col++ {
			style := tcell.StyleDefault.Foreground(c.at(col, row)).Background(c.at(col, row+1))
			screen.SetContent(x+col, y+row/2, '▀', nil, style)
		}
	}
}
