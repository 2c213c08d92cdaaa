package scope

import (
	"context"
	"errors"
	"testing"
)

func newTestScope(src *fakeSource) *Scope {
	return New(src, Options{Capacity: 10, Window: 4, ScaleFactor: 1, DarkenFactor: 0.5, SliderStride: 2})
}

func TestBuildFrame_SkipsDisabledRows(t *testing.T) {
	sc := newTestScope(newFakeSource())
	if f := sc.Frame(); f.Len() != 0 {
		t.Fatalf("Frame().Len() = %d with no bindings, want 0", f.Len())
	}
}

func TestBuildFrame_NewestWindowAndColors(t *testing.T) {
	src := newFakeSource()
	sc := newTestScope(src)
	id, _ := sc.Rows().At(0)
	ctx := context.Background()

	if err := sc.Bind(ctx, id, AxisX, "/a"); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	for v := 1; v <= 10; v++ {
		src.push("/a", float64(v))
	}

	f := sc.Frame()
	if f.Len() != 4 || len(f.Colors) != 4 {
		t.Fatalf("Frame has %d points/%d colors, want 4/4", f.Len(), len(f.Colors))
	}
	wantX := []int{7, 8, 9, 10}
	for i, pt := range f.Points {
		if pt.X != wantX[i] || pt.Y != 0 {
			t.Fatalf("Points = %v, want X %v and Y 0", f.Points, wantX)
		}
	}

	p, _ := sc.Rows().Get(id)
	if f.Colors[0] != p.Raw() || f.Colors[1] != p.Raw() {
		t.Fatalf("older half colors = %v, want raw %v", f.Colors[:2], p.Raw())
	}
	if f.Colors[2] != p.Color() || f.Colors[3] != p.Color() {
		t.Fatalf("newer half colors = %v, want primary %v", f.Colors[2:], p.Color())
	}
}

func TestBuildFrame_PausedWindowIgnoresNewSamples(t *testing.T) {
	src := newFakeSource()
	sc := newTestScope(src)
	id, _ := sc.Rows().At(0)
	_ = sc.Bind(context.Background(), id, AxisX, "/a")
	_ = sc.Bind(context.Background(), id, AxisY, "/b")
	for v := 1; v <= 10; v++ {
		src.push("/a", float64(v))
		src.push("/b", float64(-v))
	}

	sc.TogglePause()
	before := sc.Frame()
	for v := 11; v <= 13; v++ {
		src.push("/a", float64(v))
		src.push("/b", float64(-v))
	}
	after := sc.Frame()
	if !equalPoints(before.Points, after.Points) {
		t.Fatalf("paused window moved: before=%v after=%v", before.Points, after.Points)
	}
	if after.Points[0] != (Point{X: 7, Y: -7}) || after.Points[3] != (Point{X: 10, Y: -10}) {
		t.Fatalf("paused window = %v, want samples 7..10", after.Points)
	}

	sc.Scrub().Drag(3)
	dragged := sc.Frame()
	if dragged.Points[0] != (Point{X: 4, Y: -4}) || dragged.Points[3] != (Point{X: 7, Y: -7}) {
		t.Fatalf("dragged window = %v, want samples 4..7 of the paused history", dragged.Points)
	}

	sc.TogglePause()
	live := sc.Frame()
	if live.Points[0] != (Point{X: 10, Y: -10}) || live.Points[3] != (Point{X: 13, Y: -13}) {
		t.Fatalf("window after play = %v, want newest samples 10..13", live.Points)
	}
}

func TestBuildFrame_PauseThroughScrubStillFreezes(t *testing.T) {
	src := newFakeSource()
	sc := newTestScope(src)
	id, _ := sc.Rows().At(0)
	_ = sc.Bind(context.Background(), id, AxisX, "/a")
	for v := 1; v <= 10; v++ {
		src.push("/a", float64(v))
	}

	sc.Scrub().Pause()
	before := sc.Frame()
	for v := 11; v <= 13; v++ {
		src.push("/a", float64(v))
	}
	if after := sc.Frame(); !equalPoints(before.Points, after.Points) {
		t.Fatalf("paused window moved: before=%v after=%v", before.Points, after.Points)
	}
}

func TestBuildFrame_BindWhilePausedFreezesNewTopic(t *testing.T) {
	src := newFakeSource()
	sc := newTestScope(src)
	id, _ := sc.Rows().At(0)
	_ = sc.Bind(context.Background(), id, AxisX, "/a")
	sc.TogglePause()

	if err := sc.Bind(context.Background(), id, AxisY, "/b"); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	before := sc.Frame()
	src.push("/b", 5)
	if after := sc.Frame(); !equalPoints(before.Points, after.Points) {
		t.Fatalf("topic bound while paused moved the window: before=%v after=%v", before.Points, after.Points)
	}
}

func equalPoints(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildFrame_RowOrder(t *testing.T) {
	src := newFakeSource()
	sc := newTestScope(src)
	first, _ := sc.Rows().At(0)
	second := sc.AddRow()
	ctx := context.Background()
	_ = sc.Bind(ctx, first, AxisX, "/a")
	_ = sc.Bind(ctx, second, AxisY, "/b")

	f := sc.Frame()
	if f.Len() != 8 {
		t.Fatalf("Frame().Len() = %d, want 8", f.Len())
	}
	p2, _ := sc.Rows().Get(second)
	if f.Colors[7] != p2.Color() {
		t.Fatalf("last point color = %v, want second row color %v", f.Colors[7], p2.Color())
	}
}

func TestScope_ColorOperations(t *testing.T) {
	sc := newTestScope(newFakeSource())
	id, _ := sc.Rows().At(0)
	p, _ := sc.Rows().Get(id)

	if p.Color() != sc.Palette().At(0).Color {
		t.Fatalf("first row color = %v, want palette[0]", p.Color())
	}
	if err := sc.CycleColor(id); err != nil {
		t.Fatalf("CycleColor: %v", err)
	}
	if p.Color() != sc.Palette().At(1).Color {
		t.Fatalf("after CycleColor color = %v, want palette[1]", p.Color())
	}

	if err := sc.SetCustomColor(id, ""); !errors.Is(err, ErrColorPickCancelled) {
		t.Fatalf("SetCustomColor(\"\") error = %v, want ErrColorPickCancelled", err)
	}
	if p.Color() != sc.Palette().At(1).Color {
		t.Fatalf("cancelled pick changed the color to %v", p.Color())
	}
	if err := sc.SetCustomColor(id, "#C86432"); err != nil {
		t.Fatalf("SetCustomColor: %v", err)
	}
	if p.Color() != (RGB{200, 100, 50}) || p.Raw() != (RGB{100, 50, 25}) {
		t.Fatalf("custom color/raw = %v/%v", p.Color(), p.Raw())
	}

	if err := sc.CycleColor(id); err != nil || p.Color() != sc.Palette().At(0).Color {
		t.Fatalf("CycleColor from custom = %v, %v; want palette[0]", p.Color(), err)
	}
}

func TestScope_UnknownRow(t *testing.T) {
	sc := newTestScope(newFakeSource())
	if err := sc.Bind(context.Background(), RowID(9), AxisX, "/a"); !errors.Is(err, ErrUnknownRow) {
		t.Fatalf("Bind error = %v, want ErrUnknownRow", err)
	}
	if err := sc.CycleColor(RowID(9)); !errors.Is(err, ErrUnknownRow) {
		t.Fatalf("CycleColor error = %v, want ErrUnknownRow", err)
	}
	if err := sc.SetCustomColor(RowID(9), "#fff"); !errors.Is(err, ErrUnknownRow) {
		t.Fatalf("SetCustomColor error = %v, want ErrUnknownRow", err)
	}
}
