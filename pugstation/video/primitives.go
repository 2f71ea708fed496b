package video

import "github.com/valerio/go-pugstation/pugstation/bit"

// Position is a vertex position in VRAM coordinates, before the drawing
// offset is applied.
type Position struct {
	X, Y int16
}

// PositionFromGP0 decodes a GP0 vertex word: x in bits 0-15, y in 16-31.
func PositionFromGP0(word uint32) Position {
	return Position{X: int16(bit.Low(word)), Y: int16(bit.High(word))}
}

// Color is a 24-bit RGB vertex color.
type Color struct {
	R, G, B uint8
}

// ColorFromGP0 decodes the low 24 bits of a GP0 word.
func ColorFromGP0(word uint32) Color {
	return Color{R: uint8(word), G: uint8(word >> 8), B: uint8(word >> 16)}
}

// TexCoord is a texel coordinate inside the current texture page.
type TexCoord struct {
	U, V uint8
}

// TexCoordFromGP0 decodes the low 16 bits of a GP0 texcoord word.
func TexCoordFromGP0(word uint32) TexCoord {
	return TexCoord{U: uint8(word), V: uint8(word >> 8)}
}

type Vertex struct {
	Position Position
	Color    Color
	TexCoord TexCoord
}

// Polygon is a fully decoded GP0 polygon command.
type Polygon struct {
	Vertices        []Vertex
	Shaded          bool
	Textured        bool
	SemiTransparent bool
	// RawTexture disables modulation of texels by the vertex color.
	RawTexture bool
	// Clut and TexPage are the raw attribute halfwords of textured polygons.
	Clut    uint16
	TexPage uint16
}

// quadTriangles is the vertex order used to split a quad.
var quadTriangles = [2][3]int{{0, 1, 2}, {1, 2, 3}}

// Triangles splits the polygon into triangles. A quad becomes two
// triangles sharing the edge between its second and third vertices.
func (p Polygon) Triangles() [][3]Vertex {
	if len(p.Vertices) == 3 {
		return [][3]Vertex{{p.Vertices[0], p.Vertices[1], p.Vertices[2]}}
	}

	out := make([][3]Vertex, 0, len(quadTriangles))
	for _, tri := range quadTriangles {
		out = append(out, [3]Vertex{p.Vertices[tri[0]], p.Vertices[tri[1]], p.Vertices[tri[2]]})
	}
	return out
}
