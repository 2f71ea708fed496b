package headless

import (
	"fmt"

	"github.com/valerio/go-pugstation/pugstation/debug"
	"github.com/valerio/go-pugstation/pugstation/video"
)

// Dump is the YAML document written at the end of a headless run.
type Dump struct {
	Title    string          `yaml:"title,omitempty"`
	State    *debug.Snapshot `yaml:"state,omitempty"`
	Polygons int             `yaml:"polygons"`
	Displays int             `yaml:"displays"`
	Frames   []FrameRecord   `yaml:"frames"`
	Pending  []PolygonRecord `yaml:"pending,omitempty"`
}

// FrameRecord holds the polygons flushed by one Display call.
type FrameRecord struct {
	Index      int             `yaml:"index"`
	DrawOffset [2]int16        `yaml:"draw_offset,flow"`
	Polygons   []PolygonRecord `yaml:"polygons"`
}

type PolygonRecord struct {
	Vertices        []VertexRecord `yaml:"vertices"`
	Shaded          bool           `yaml:"shaded,omitempty"`
	Textured        bool           `yaml:"textured,omitempty"`
	SemiTransparent bool           `yaml:"semi_transparent,omitempty"`
	Clut            uint16         `yaml:"clut,omitempty"`
	TexPage         uint16         `yaml:"tex_page,omitempty"`
}

type VertexRecord struct {
	X     int16  `yaml:"x"`
	Y     int16  `yaml:"y"`
	Color string `yaml:"color"`
	U     uint8  `yaml:"u,omitempty"`
	V     uint8  `yaml:"v,omitempty"`
}

func recordPolygons(polygons []video.Polygon) []PolygonRecord {
	out := make([]PolygonRecord, 0, len(polygons))
	for _, p := range polygons {
		r := PolygonRecord{
			Shaded:          p.Shaded,
			Textured:        p.Textured,
			SemiTransparent: p.SemiTransparent,
			Clut:            p.Clut,
			TexPage:         p.TexPage,
		}
		for _, v := range p.Vertices {
			r.Vertices = append(r.Vertices, VertexRecord{
				X:     v.Position.X,
				Y:     v.Position.Y,
				Color: fmt.Sprintf("#%02x%02x%02x", v.Color.R, v.Color.G, v.Color.B),
				U:     v.TexCoord.U,
				V:     v.TexCoord.V,
			})
		}
		out = append(out, r)
	}
	return out
}

// frameLog is a Recorder that also keeps the most recent flushed frames.
type frameLog struct {
	*video.Recorder
	frames []FrameRecord
	limit  int
}

func newFrameLog(limit int) *frameLog {
	return &frameLog{Recorder: video.NewRecorder(), limit: limit}
}

func (f *frameLog) Display() {
	if f.limit > 0 {
		f.frames = append(f.frames, FrameRecord{
			Index:      f.Displays,
			DrawOffset: [2]int16{f.DrawOffset.X, f.DrawOffset.Y},
			Polygons:   recordPolygons(f.Frame),
		})
		if len(f.frames) > f.limit {
			f.frames = f.frames[len(f.frames)-f.limit:]
		}
	}
	f.Recorder.Display()
}
