// Package scope keeps the rows of topic pairs, the scrub state and the
// frame assembly for the circle scope display.
package scope

import (
	"context"
	"fmt"

	"circle-scope.klederson.com/internal/series"
	"circle-scope.klederson.com/internal/source"
)

// Options configure a Scope.
type Options struct {
	Capacity     int
	Window       int
	ScaleFactor  float64
	DarkenFactor float64
	SliderStride int
	Palette      Palette
}

// Scope is the visualization state: rows of pairs, their source and the scrub controller.
type Scope struct {
	opts   Options
	src    source.Source
	mapper series.Mapper
	scrub  *Scrub
	rows   *Rows
}

// New creates a scope with one unbound row.
func New(src source.Source, opts Options) *Scope {
	if len(opts.Palette) == 0 {
		opts.Palette, _ = NewPalette(nil)
	}
	m := series.NewMapper(opts.Capacity, opts.Window)
	opts.Capacity, opts.Window = m.Capacity, m.Window

	sc := &Scope{
		opts:   opts,
		src:    src,
		mapper: m,
		scrub:  NewScrub(m, opts.SliderStride),
		rows:   NewRows(),
	}
	sc.AddRow()
	return sc
}

// Source returns the topic source.
func (sc *Scope) Source() source.Source {
	return sc.src
}

// Rows returns the ordered rows.
func (sc *Scope) Rows() *Rows {
	return sc.rows
}

// Scrub returns the pause/time-travel controller.
func (sc *Scope) Scrub() *Scrub {
	return sc.scrub
}

// Mapper returns the display index mapper.
func (sc *Scope) Mapper() series.Mapper {
	return sc.mapper
}

// Palette returns the row color palette.
func (sc *Scope) Palette() Palette {
	return sc.opts.Palette
}

// AddRow appends an unbound row. Each new row takes the next palette color.
func (sc *Scope) AddRow() RowID {
	c := sc.opts.Palette.At(sc.rows.Len()).Color
	p := NewPair(PairOptions{
		Capacity:     sc.opts.Capacity,
		ScaleFactor:  sc.opts.ScaleFactor,
		DarkenFactor: sc.opts.DarkenFactor,
	}, c)
	return sc.rows.Add(p)
}

// RemoveRow releases a row's subscriptions and drops it.
func (sc *Scope) RemoveRow(id RowID) error {
	return sc.rows.Remove(id)
}

// Bind subscribes one axis of a row to topic.
func (sc *Scope) Bind(ctx context.Context, id RowID, axis Axis, topic string) error {
	p, ok := sc.rows.Get(id)
	if !ok {
		return fmt.Errorf("bind row %d: %w", id, ErrUnknownRow)
	}
	if err := p.Bind(ctx, sc.src, axis, topic); err != nil {
		return err
	}
	if sc.scrub.Paused() {
		p.Freeze()
	}
	return nil
}

// CycleColor moves a row to the next palette color.
func (sc *Scope) CycleColor(id RowID) error {
	p, ok := sc.rows.Get(id)
	if !ok {
		return fmt.Errorf("color row %d: %w", id, ErrUnknownRow)
	}
	next := sc.opts.Palette.IndexOf(p.Color()) + 1
	p.SetColor(sc.opts.Palette.At(next).Color)
	return nil
}

// SetCustomColor applies hex input to a row. An empty input returns
// ErrColorPickCancelled and leaves the color unchanged.
func (sc *Scope) SetCustomColor(id RowID, input string) error {
	p, ok := sc.rows.Get(id)
	if !ok {
		return fmt.Errorf("color row %d: %w", id, ErrUnknownRow)
	}
	c, err := PickCustom(input)
	if err != nil {
		return err
	}
	p.SetColor(c)
	return nil
}

// TogglePause switches between live and paused. Pausing snapshots every
// row so samples that keep arriving do not move the paused window.
func (sc *Scope) TogglePause() {
	sc.scrub.Toggle()
	sc.syncFreeze()
}

// Frame builds the points to draw for the current scrub state. While
// paused, rows are read from their pause-time snapshot.
func (sc *Scope) Frame() Frame {
	sc.syncFreeze()
	return BuildFrame(sc.rows, sc.mapper, sc.scrub.Frame())
}

func (sc *Scope) syncFreeze() {
	paused := sc.scrub.Paused()
	sc.rows.Each(func(_ RowID, p *Pair) {
		if paused {
			p.Freeze()
		} else {
			p.Thaw()
		}
	})
}

// Close releases every subscription. The source itself is left open.
func (sc *Scope) Close() {
	sc.rows.Close()
}
