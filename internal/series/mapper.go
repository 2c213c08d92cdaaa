package series

// Mapper translates a position inside the display window plus a scroll
// offset into an absolute buffer index.
//
// Frame 0 shows the newest Window samples; each increment of the frame
// walks the window one sample back in time.
type Mapper struct {
	Capacity int // N
	Window   int // W, never larger than N
}

// NewMapper builds a mapper, clamping window into [1, capacity].
func NewMapper(capacity, window int) Mapper {
	if capacity < 1 {
		capacity = 1
	}
	if window < 1 {
		window = 1
	}
	if window > capacity {
		window = capacity
	}
	return Mapper{Capacity: capacity, Window: window}
}

// MaxFrame is the largest valid display frame, so frames lie in [0, N-W).
// When the window covers the whole buffer the only frame is 0.
func (m Mapper) MaxFrame() int {
	if m.Capacity-m.Window-1 < 0 {
		return 0
	}
	return m.Capacity - m.Window - 1
}

// ClampFrame limits frame to [0, MaxFrame()].
func (m Mapper) ClampFrame(frame int) int {
	if frame < 0 {
		return 0
	}
	if limit := m.MaxFrame(); frame > limit {
		return limit
	}
	return frame
}

// AbsoluteIndex returns N - W + displayIndex - displayFrame, clamped to [0, N).
// Frames driven by drag deltas can overshoot, so both the frame and the
// result are clamped rather than reported.
func (m Mapper) AbsoluteIndex(displayIndex, displayFrame int) int {
	idx := m.Capacity - m.Window + displayIndex - m.ClampFrame(displayFrame)
	if idx < 0 {
		return 0
	}
	if idx >= m.Capacity {
		return m.Capacity - 1
	}
	return idx
}

// WindowStart returns the absolute index of the first displayed sample for frame.
func (m Mapper) WindowStart(displayFrame int) int {
	return m.AbsoluteIndex(0, displayFrame)
}
