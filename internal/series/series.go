package series

// Series is one named scalar stream and its history.
type Series struct {
	topic  string
	factor float64
	buf    *Buffer
}

// New creates a series for topic with a zero-filled history of capacity
// samples. Measurements are stored as Scale(v, factor).
func New(topic string, capacity int, factor float64) *Series {
	return &Series{
		topic:  topic,
		factor: factor,
		buf:    NewBuffer(capacity),
	}
}

// Topic returns the source topic name.
func (s *Series) Topic() string {
	return s.topic
}

// Ingest scales a measurement and pushes it into the history.
// It is safe to call from a delivery goroutine while the render path reads.
func (s *Series) Ingest(v float64) {
	s.buf.Push(Scale(v, s.factor))
}

// Buffer exposes the underlying history for reads.
func (s *Series) Buffer() *Buffer {
	return s.buf
}
