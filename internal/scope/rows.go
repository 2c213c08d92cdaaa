package scope

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownRow is returned for a RowID that is not (or no longer) present.
	ErrUnknownRow = errors.New("unknown row")
	// ErrPinnedRow is returned when removing the first row, which always stays.
	ErrPinnedRow = errors.New("first row cannot be removed")
)

// RowID is a stable handle to one control row.
type RowID int

// Rows owns the control rows and their pairs in display order.
// Later rows are drawn on top.
type Rows struct {
	next  RowID
	order []RowID
	pairs map[RowID]*Pair
}

// NewRows creates an empty collection.
func NewRows() *Rows {
	return &Rows{pairs: make(map[RowID]*Pair)}
}

// Add appends p and returns its handle.
func (r *Rows) Add(p *Pair) RowID {
	id := r.next
	r.next++
	r.order = append(r.order, id)
	r.pairs[id] = p
	return id
}

// Remove closes the row's pair and drops it.
func (r *Rows) Remove(id RowID) error {
	idx := r.Index(id)
	if idx < 0 {
		return fmt.Errorf("remove row %d: %w", id, ErrUnknownRow)
	}
	if idx == 0 {
		return fmt.Errorf("remove row %d: %w", id, ErrPinnedRow)
	}

	p := r.pairs[id]
	r.order = append(r.order[:idx:idx], r.order[idx+1:]...)
	delete(r.pairs, id)
	p.Close()
	return nil
}

// Get returns the pair for id.
func (r *Rows) Get(id RowID) (*Pair, bool) {
	p, ok := r.pairs[id]
	return p, ok
}

// Index returns the display position of id, or -1.
func (r *Rows) Index(id RowID) int {
	for i, candidate := range r.order {
		if candidate == id {
			return i
		}
	}
	return -1
}

// At returns the handle at display position i.
func (r *Rows) At(i int) (RowID, bool) {
	if i < 0 || i >= len(r.order) {
		return 0, false
	}
	return r.order[i], true
}

// IDs returns the handles in display order.
func (r *Rows) IDs() []RowID {
	out := make([]RowID, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of rows.
func (r *Rows) Len() int {
	return len(r.order)
}

// Each visits rows in display order.
func (r *Rows) Each(fn func(id RowID, p *Pair)) {
	for _, id := range r.order {
		fn(id, r.pairs[id])
	}
}

// Close releases every row.
func (r *Rows) Close() {
	for _, id := range r.order {
		r.pairs[id].Close()
	}
	r.order = nil
	r.pairs = make(map[RowID]*Pair)
}
