package series

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestBuffer_StartsZeroFilled(t *testing.T) {
	b := NewBuffer(5)
	if b.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", b.Len())
	}
	for i, v := range b.Values() {
		if v != 0 {
			t.Fatalf("Values()[%d] = %d, want 0", i, v)
		}
	}
}

func TestBuffer_PushKeepsLengthAndNewestLast(t *testing.T) {
	const n = 8
	b := NewBuffer(n)
	for k := 1; k <= 3*n+3; k++ {
		b.Push(k * 10)
		if b.Len() != n {
			t.Fatalf("after %d pushes Len() = %d, want %d", k, b.Len(), n)
		}
		got, err := b.Get(n - 1)
		if err != nil {
			t.Fatalf("Get(%d) returned error: %v", n-1, err)
		}
		if got != k*10 {
			t.Fatalf("after %d pushes Get(%d) = %d, want %d", k, n-1, got, k*10)
		}
		if b.Last() != k*10 {
			t.Fatalf("Last() = %d, want %d", b.Last(), k*10)
		}
	}
	if b.Pushed() != uint64(3*n+3) {
		t.Fatalf("Pushed() = %d, want %d", b.Pushed(), 3*n+3)
	}
}

func TestBuffer_EvictsOldestInOrder(t *testing.T) {
	b := NewBuffer(4)
	for _, v := range []int{1, 2, 3, 4, 5, 6} {
		b.Push(v)
	}
	want := []int{3, 4, 5, 6}
	got := b.Values()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Values() = %v, want %v", got, want)
		}
	}
}

func TestBuffer_PartialFillKeepsLeadingZeros(t *testing.T) {
	b := NewBuffer(4)
	b.Push(7)
	want := []int{0, 0, 0, 7}
	got := b.Values()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Values() = %v, want %v", got, want)
		}
	}
}

func TestBuffer_GetOutOfRange(t *testing.T) {
	b := NewBuffer(3)
	for _, idx := range []int{-1, 3, 100} {
		_, err := b.Get(idx)
		if !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("Get(%d) error = %v, want ErrOutOfRange", idx, err)
		}
		var rangeErr *RangeError
		if !errors.As(err, &rangeErr) || rangeErr.Index != idx {
			t.Fatalf("Get(%d) error = %#v, want *RangeError with Index %d", idx, err, idx)
		}
	}
}

func TestBuffer_WindowWrapsAround(t *testing.T) {
	b := NewBuffer(5)
	for v := 1; v <= 7; v++ {
		b.Push(v)
	}
	// logical contents: 3 4 5 6 7
	got, err := b.Window(1, 4)
	if err != nil {
		t.Fatalf("Window returned error: %v", err)
	}
	want := []int{4, 5, 6, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Window(1, 4) = %v, want %v", got, want)
		}
	}

	if _, err := b.Window(3, 3); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Window(3, 3) error = %v, want ErrOutOfRange", err)
	}
	if _, err := b.Window(-1, 1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Window(-1, 1) error = %v, want ErrOutOfRange", err)
	}
}

func TestNewBuffer_MinimumCapacity(t *testing.T) {
	b := NewBuffer(0)
	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", b.Len())
	}
	b.Push(4)
	if b.Last() != 4 {
		t.Fatalf("Last() = %d, want 4", b.Last())
	}
}

func TestScale_TruncatesTowardZero(t *testing.T) {
	tests := []struct {
		name   string
		in     float64
		factor float64
		want   int
	}{
		{"positive exact", 0.002, 5000, 10},
		{"positive fraction dropped", 0.00039, 5000, 1},
		{"negative truncates up", -0.0003, 5000, -1},
		{"small negative becomes zero", -0.00019, 5000, 0},
		{"negative whole", -0.5, 5000, -2500},
		{"zero", 0, 5000, 0},
		{"custom factor", 1.75, 2, 3},
		{"saturates high", 1e12, 5000, 2147483647},
		{"saturates low", -1e12, 5000, -2147483648},
		{"NaN stores zero", math.NaN(), 5000, 0},
		{"infinity stores zero", math.Inf(1), 5000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scale(tt.in, tt.factor); got != tt.want {
				t.Errorf("Scale(%v, %v) = %d, want %d", tt.in, tt.factor, got, tt.want)
			}
		})
	}
}

func TestSeries_IngestStoresScaledValue(t *testing.T) {
	s := New("/joint/position", 10, 5000)
	s.Ingest(0.002)
	s.Ingest(-0.0003)

	if s.Topic() != "/joint/position" {
		t.Fatalf("Topic() = %q, want /joint/position", s.Topic())
	}
	got, err := s.Buffer().Get(9)
	if err != nil {
		t.Fatalf("Get(9) returned error: %v", err)
	}
	if got != -1 {
		t.Fatalf("newest = %d, want -1", got)
	}
	got, _ = s.Buffer().Get(8)
	if got != 10 {
		t.Fatalf("previous = %d, want 10", got)
	}
}

func TestBuffer_ConcurrentPushAndWindow(t *testing.T) {
	const n = 64
	b := NewBuffer(n)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for v := 1; v <= 20000; v++ {
			b.Push(v)
		}
	}()

	// Pushes are strictly increasing, so any consistent snapshot is either
	// all zeros followed by increasing values or strictly increasing.
	for i := 0; i < 2000; i++ {
		w, err := b.Window(0, n)
		if err != nil {
			t.Fatalf("Window returned error: %v", err)
		}
		for j := 1; j < len(w); j++ {
			if w[j-1] != 0 && w[j] != w[j-1]+1 {
				t.Fatalf("torn window at %d: %v", j, w)
			}
		}
	}
	wg.Wait()

	if b.Last() != 20000 {
		t.Fatalf("Last() = %d, want 20000", b.Last())
	}
}
