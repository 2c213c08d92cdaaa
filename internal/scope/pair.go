package scope

import (
	"context"
	"fmt"
	"sync"

	"circle-scope.klederson.com/internal/series"
	"circle-scope.klederson.com/internal/source"
	log "github.com/sirupsen/logrus"
)

// Axis selects one of the two series of a pair.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "Y"
	}
	return "X"
}

// NoTopic is the dropdown entry meaning "unbound".
const NoTopic = "None"

type binding struct {
	series *series.Series
	sub    source.Subscription
	frozen []int // history as of the pause, nil while live
}

// PairOptions size the series a pair creates.
type PairOptions struct {
	Capacity     int
	ScaleFactor  float64
	DarkenFactor float64
}

// Pair is two series plotted against each other in one color.
// X feeds the horizontal axis and Y the vertical one.
type Pair struct {
	opts PairOptions

	mu    sync.RWMutex
	slots [2]*binding
	color RGB
	raw   RGB
}

// NewPair creates an unbound pair drawn in c.
func NewPair(opts PairOptions, c RGB) *Pair {
	p := &Pair{opts: opts}
	p.SetColor(c)
	return p
}

// Bind subscribes axis to topic, replacing any previous binding. Binding to
// "" or NoTopic only unbinds. On failure the axis is left unbound and the
// returned error wraps source.ErrSubscription.
func (p *Pair) Bind(ctx context.Context, src source.Source, axis Axis, topic string) error {
	p.Unbind(axis)
	if topic == "" || topic == NoTopic {
		return nil
	}

	s := series.New(topic, p.opts.Capacity, p.opts.ScaleFactor)
	sub, err := src.Subscribe(ctx, topic, s.Ingest)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"topic": topic, "axis": axis.String()}).Warn("bind failed")
		return fmt.Errorf("bind %s to %s: %w", axis, topic, err)
	}

	p.mu.Lock()
	p.slots[axis] = &binding{series: s, sub: sub}
	p.mu.Unlock()

	log.WithFields(log.Fields{"topic": topic, "axis": axis.String()}).Info("topic bound")
	return nil
}

// Unbind releases axis. Delivery has stopped by the time it returns.
func (p *Pair) Unbind(axis Axis) {
	p.mu.Lock()
	b := p.slots[axis]
	p.slots[axis] = nil
	p.mu.Unlock()

	if b != nil {
		b.sub.Unsubscribe()
		log.WithFields(log.Fields{"topic": b.series.Topic(), "axis": axis.String()}).Info("topic released")
	}
}

// Close releases both axes.
func (p *Pair) Close() {
	p.Unbind(AxisX)
	p.Unbind(AxisY)
}

// Enabled reports whether at least one axis is bound.
func (p *Pair) Enabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.slots[AxisX] != nil || p.slots[AxisY] != nil
}

// Series returns the series bound to axis, or nil.
func (p *Pair) Series(axis Axis) *series.Series {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if b := p.slots[axis]; b != nil {
		return b.series
	}
	return nil
}

// Topic returns the topic bound to axis, or NoTopic.
func (p *Pair) Topic(axis Axis) string {
	if s := p.Series(axis); s != nil {
		return s.Topic()
	}
	return NoTopic
}

// Freeze snapshots the history of every bound axis that has no snapshot
// yet. Reads through Window then ignore samples that arrive later.
func (p *Pair) Freeze() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range p.slots {
		if b != nil && b.frozen == nil {
			b.frozen = b.series.Buffer().Values()
		}
	}
}

// Thaw drops the snapshots so Window reads live history again.
func (p *Pair) Thaw() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range p.slots {
		if b != nil {
			b.frozen = nil
		}
	}
}

// Window returns n samples of axis starting at logical index start, from
// the snapshot when frozen. An unbound axis or a bad range reads as zeros.
func (p *Pair) Window(axis Axis, start, n int) []int {
	p.mu.RLock()
	b := p.slots[axis]
	var frozen []int
	if b != nil {
		frozen = b.frozen
	}
	p.mu.RUnlock()

	out := make([]int, n)
	switch {
	case b == nil:
	case frozen != nil:
		if start >= 0 && start+n <= len(frozen) {
			copy(out, frozen[start:start+n])
		}
	default:
		if vals, err := b.series.Buffer().Window(start, n); err == nil {
			out = vals
		}
	}
	return out
}

// Last returns the newest stored value on axis.
func (p *Pair) Last(axis Axis) (int, bool) {
	s := p.Series(axis)
	if s == nil {
		return 0, false
	}
	return s.Buffer().Last(), true
}

// SetColor assigns the primary color and caches its darkened variant.
func (p *Pair) SetColor(c RGB) {
	raw := Darken(c, p.opts.DarkenFactor)
	p.mu.Lock()
	p.color = c
	p.raw = raw
	p.mu.Unlock()
}

// Color returns the primary color.
func (p *Pair) Color() RGB {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.color
}

// Raw returns the darkened color used for older samples.
func (p *Pair) Raw() RGB {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.raw
}
