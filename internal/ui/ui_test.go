package ui

import (
	"strings"
	"testing"

	"circle-scope.klederson.com/internal/scope"
	"github.com/charmbracelet/lipgloss"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    int
		ok   bool
		want string
	}{
		{1234, true, "1234 / 0x04D2"},
		{0, true, "0 / 0x0000"},
		{-500, true, "-500 / 0x-01F4"},
		{70000, true, "70000 / 0x11170"},
		{42, false, "-"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.v, tt.ok); got != tt.want {
			t.Fatalf("FormatValue(%d, %v) = %q, want %q", tt.v, tt.ok, got, tt.want)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]int{0, 1, 2, 3, 4}, 10); got != "_.-~^" {
		t.Fatalf("Sparkline = %q, want %q", got, "_.-~^")
	}
	if got := Sparkline([]int{9, 9, 0, 4}, 2); got != "_^" {
		t.Fatalf("Sparkline keeps last values = %q, want %q", got, "_^")
	}
	if got := Sparkline([]int{5, 5, 5}, 3); got != "___" {
		t.Fatalf("Sparkline of flat data = %q, want %q", got, "___")
	}
	if got := Sparkline(nil, 3); got != "" {
		t.Fatalf("Sparkline(nil) = %q, want empty", got)
	}
}

func TestTruncRawAndClip(t *testing.T) {
	if got := truncRaw("abc", 5); got != "abc  " {
		t.Fatalf("truncRaw pad = %q", got)
	}
	if got := truncRaw("abcdef", 3); got != "abc" {
		t.Fatalf("truncRaw cut = %q", got)
	}
	if got := clip("abc", 5); got != "abc" {
		t.Fatalf("clip short = %q", got)
	}
	if got := clip("abcdef", 0); got != "" {
		t.Fatalf("clip zero = %q", got)
	}
}

func TestRenderControlPanel_ExactHeight(t *testing.T) {
	rows := []RowView{
		{X: "/a", Y: "None", Color: scope.RGB{R: 255}, ColorName: "red", LastX: 10, HasX: true},
		{X: "None", Y: "None", Color: scope.RGB{G: 255}, ColorName: "green"},
	}
	for _, h := range []int{8, 20, 40} {
		out := RenderControlPanel(rows, Selected{HistoryX: []int{1, 2, 3}}, 40, h, 1)
		if n := len(strings.Split(out, "\n")); n != h {
			t.Fatalf("height %d: got %d lines", h, n)
		}
	}
}

func TestRenderControlPanel_ShowsValues(t *testing.T) {
	rows := []RowView{{X: "/sh_ffj0_position", Y: "None", ColorName: "red", LastX: 1234, HasX: true}}
	out := RenderControlPanel(rows, Selected{}, 60, 20, 1)
	if !strings.Contains(out, "1234 / 0x04D2") {
		t.Fatalf("panel does not show the last value:\n%s", out)
	}
	if !strings.Contains(out, "/sh_ffj0_position") {
		t.Fatalf("panel does not show the topic:\n%s", out)
	}
}

func TestRenderTimeline(t *testing.T) {
	out := RenderTimeline(60, 0, 89, 100, true)
	if !strings.Contains(out, "0/89 x100") {
		t.Fatalf("timeline = %q, want slider label", out)
	}
	if w := lipgloss.Width(out); w > 60 {
		t.Fatalf("timeline width = %d, want <= 60", w)
	}
}

func TestRenderStatusBar_ShowsMessage(t *testing.T) {
	out := RenderStatusBar(120, Status{Paused: true, Frame: 500, Rows: 2, Message: "bind failed", IsError: true})
	for _, want := range []string{"PAUSED", "Frame: 500", "bind failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status bar %q missing %q", out, want)
		}
	}
}

func TestRenderPicker_CursorScrolls(t *testing.T) {
	items := make([]string, 30)
	for i := range items {
		items[i] = "/topic" + string(rune('a'+i%26))
	}
	items[25] = "/target"
	out := RenderPicker("X TOPIC", items, 25, 40, 12)
	if !strings.Contains(out, ">> /target") {
		t.Fatalf("picker does not show the cursor item:\n%s", out)
	}
}
