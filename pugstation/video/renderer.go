package video

// Renderer draws the primitives decoded by the GPU.
type Renderer interface {
	// PushPolygon queues a 3 or 4 vertex polygon.
	PushPolygon(p Polygon)
	// SetDrawOffset sets the offset added to every following vertex.
	SetDrawOffset(x, y int16)
	// Display flushes queued primitives to the output.
	Display()
}

// Recorder is a Renderer that keeps what it receives. It is used by the
// headless frontend and by tests.
type Recorder struct {
	// Frame holds the polygons pushed since the last Display.
	Frame []Polygon
	// LastFrame holds the polygons flushed by the last Display.
	LastFrame []Polygon

	DrawOffset Position
	Pushes     int
	Displays   int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) PushPolygon(p Polygon) {
	r.Frame = append(r.Frame, p)
	r.Pushes++
}

func (r *Recorder) SetDrawOffset(x, y int16) {
	r.DrawOffset = Position{X: x, Y: y}
}

func (r *Recorder) Display() {
	r.LastFrame = r.Frame
	r.Frame = nil
	r.Displays++
}
