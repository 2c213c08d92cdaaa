package scope

import "circle-scope.klederson.com/internal/series"

// ScrubState is the play/pause state of the display.
type ScrubState int

const (
	Live ScrubState = iota
	Paused
)

func (s ScrubState) String() string {
	if s == Paused {
		return "PAUSED"
	}
	return "LIVE"
}

// Scrub tracks pause state and the display frame used for time travel.
//
// Pausing always starts at frame 0, the newest window. Playing resets the
// frame to 0. While live the frame is reported as 0 and scrub input is ignored;
// samples keep flowing into the buffers in both states.
type Scrub struct {
	state  ScrubState
	frame  int
	mapper series.Mapper
	stride int
}

// NewScrub creates a live controller. stride is the slider step in samples.
func NewScrub(m series.Mapper, stride int) *Scrub {
	if stride <= 0 {
		stride = 1
	}
	return &Scrub{mapper: m, stride: stride}
}

// State returns the current state.
func (s *Scrub) State() ScrubState {
	return s.state
}

// Paused reports whether scrubbing is enabled.
func (s *Scrub) Paused() bool {
	return s.state == Paused
}

// Pause freezes the display at the newest window.
func (s *Scrub) Pause() {
	if s.state == Paused {
		return
	}
	s.state = Paused
	s.frame = 0
}

// Play returns to the live view.
func (s *Scrub) Play() {
	s.state = Live
	s.frame = 0
}

// Toggle switches between live and paused.
func (s *Scrub) Toggle() {
	if s.state == Paused {
		s.Play()
		return
	}
	s.Pause()
}

// Frame returns the display frame renders should use.
func (s *Scrub) Frame() int {
	if s.state == Live {
		return 0
	}
	return s.frame
}

// Drag moves the frame by dx samples; positive values go back in time.
// It reports whether the input was applied.
func (s *Scrub) Drag(dx int) bool {
	if s.state != Paused {
		return false
	}
	s.frame = s.mapper.ClampFrame(s.frame + dx)
	return true
}

// SetSlider jumps to slider position v, i.e. frame v*stride.
func (s *Scrub) SetSlider(v int) bool {
	if s.state != Paused {
		return false
	}
	if v < 0 {
		v = 0
	}
	if limit := s.SliderMax(); v > limit {
		v = limit
	}
	s.frame = s.mapper.ClampFrame(v * s.stride)
	return true
}

// Step moves the frame by n slider strides.
func (s *Scrub) Step(n int) bool {
	return s.Drag(n * s.stride)
}

// Slider returns the slider position matching the current frame.
func (s *Scrub) Slider() int {
	return s.Frame() / s.stride
}

// SliderMax is the last slider position, (N-W)/stride - 1, floored at 0.
func (s *Scrub) SliderMax() int {
	m := (s.mapper.Capacity-s.mapper.Window)/s.stride - 1
	if m < 0 {
		return 0
	}
	return m
}

// Stride returns the slider step in samples.
func (s *Scrub) Stride() int {
	return s.stride
}

// Mapper returns the index mapper the frame is clamped against.
func (s *Scrub) Mapper() series.Mapper {
	return s.mapper
}

// Resize swaps the mapper, e.g. after the window width changed, and
// re-clamps the frame.
func (s *Scrub) Resize(m series.Mapper) {
	s.mapper = m
	s.frame = m.ClampFrame(s.frame)
}
