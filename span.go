package textlayout

import "sort"

// SpanFlags carry per-span behavior bits.
type SpanFlags int

const (
	// SpanPriorityShift is the bit offset of the priority field.
	SpanPriorityShift = 16

	// SpanPriorityMask selects the priority field. Spans with a higher
	// priority sort before lower-priority spans covering the same range
	// in query results.
	SpanPriorityMask SpanFlags = 0xFF << SpanPriorityShift
)

// Priority extracts the priority field of the flags.
func (f SpanFlags) Priority() int {
	return int(f&SpanPriorityMask) >> SpanPriorityShift
}

// Span is one attribute interval attached to a text buffer.
// Value is a borrowed reference: the store never copies or frees it,
// and it must be comparable (typically a pointer) since removal and
// in-place update identify spans by equality.
type Span struct {
	Value any
	Start int
	End   int
	Flags SpanFlags
}

// Filter selects span values during queries. A nil Filter matches all.
type Filter func(value any) bool

// Watcher observes mutations of a Store. Watchers are invoked
// synchronously from Add and Remove, in registration order; the order
// is stable but otherwise unspecified.
type Watcher interface {
	SpanAdded(s *Store, value any, start, end int)
	SpanRemoved(s *Store, value any, start, end int)
	SpanChanged(s *Store, value any, oldStart, oldEnd, newStart, newEnd int)
}

// Store is an ordered, searchable set of attribute intervals over a
// text buffer of fixed length. Spans are kept sorted by (start, end)
// so that queries can binary search; overlap between spans is allowed.
//
// Store is not safe for concurrent mutation.
type Store struct {
	length   int
	spans    []Span
	watchers []Watcher
}

// NewStore creates a store over a buffer of the given length.
func NewStore(length int) *Store {
	return &Store{length: length}
}

// Len returns the buffer length the store was created for.
func (s *Store) Len() int {
	return s.length
}

// Count returns the number of attached spans.
func (s *Store) Count() int {
	return len(s.spans)
}

// Observe registers a watcher for mutation events.
func (s *Store) Observe(w Watcher) {
	s.watchers = append(s.watchers, w)
}

// Unobserve removes a previously registered watcher.
func (s *Store) Unobserve(w Watcher) {
	for i, x := range s.watchers {
		if x == w {
			s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
			return
		}
	}
}

// find returns the storage index of value, or -1.
func (s *Store) find(value any) int {
	for i := range s.spans {
		if s.spans[i].Value == value {
			return i
		}
	}
	return -1
}

// insertPos finds the insertion index for (start, end), comparing start
// then end.
func (s *Store) insertPos(start, end int) int {
	return sort.Search(len(s.spans), func(i int) bool {
		sp := &s.spans[i]
		if sp.Start != start {
			return sp.Start > start
		}
		return sp.End >= end
	})
}

// Add attaches value over [start, end). If value is already attached,
// its range and flags are updated in place and watchers receive a
// Changed event; otherwise the span is inserted in sorted position and
// watchers receive an Added event.
//
// Returns a *RangeError when the range is malformed or out of bounds;
// the range is never clamped.
func (s *Store) Add(value any, start, end int, flags SpanFlags) error {
	if err := checkRange(start, end, s.length); err != nil {
		return err
	}

	if i := s.find(value); i >= 0 {
		oldStart, oldEnd := s.spans[i].Start, s.spans[i].End
		// Re-insert at the sorted position for the new range.
		s.spans = append(s.spans[:i], s.spans[i+1:]...)
		pos := s.insertPos(start, end)
		s.spans = append(s.spans, Span{})
		copy(s.spans[pos+1:], s.spans[pos:])
		s.spans[pos] = Span{Value: value, Start: start, End: end, Flags: flags}
		for _, w := range s.watchers {
			w.SpanChanged(s, value, oldStart, oldEnd, start, end)
		}
		return nil
	}

	pos := s.insertPos(start, end)
	s.spans = append(s.spans, Span{})
	copy(s.spans[pos+1:], s.spans[pos:])
	s.spans[pos] = Span{Value: value, Start: start, End: end, Flags: flags}
	for _, w := range s.watchers {
		w.SpanAdded(s, value, start, end)
	}
	return nil
}

// Remove detaches value. Removing an absent value is a no-op.
func (s *Store) Remove(value any) {
	i := s.find(value)
	if i < 0 {
		return
	}
	start, end := s.spans[i].Start, s.spans[i].End
	s.spans = append(s.spans[:i], s.spans[i+1:]...)
	for _, w := range s.watchers {
		w.SpanRemoved(s, value, start, end)
	}
}

// Range reports the current [start, end) of value, or ok=false if the
// value is not attached.
func (s *Store) Range(value any) (start, end int, ok bool) {
	i := s.find(value)
	if i < 0 {
		return 0, 0, false
	}
	return s.spans[i].Start, s.spans[i].End, true
}

// Flags reports the flags of value, or ok=false if not attached.
func (s *Store) Flags(value any) (flags SpanFlags, ok bool) {
	i := s.find(value)
	if i < 0 {
		return 0, false
	}
	return s.spans[i].Flags, true
}

// overlaps implements the query interval convention: a zero-length
// query matches zero-length spans only at exactly that point, and a
// non-empty query never picks up non-empty spans that merely touch
// its boundary. Zero-length spans on a boundary are matched; callers
// that must not see them pass excludeEmpty.
func overlaps(qStart, qEnd, spStart, spEnd int) bool {
	if spStart > qEnd || spEnd < qStart {
		return false
	}
	if spStart != spEnd && qStart != qEnd {
		if spStart == qEnd || spEnd == qStart {
			return false
		}
	}
	return true
}

// Query returns all spans overlapping [start, end) whose value passes
// filter, in storage order except that higher-priority spans sort
// first. When excludeEmpty is set, zero-length spans are dropped,
// which callers use to avoid phantom adjacent-span pickup at paragraph
// boundaries.
func (s *Store) Query(start, end int, filter Filter, excludeEmpty bool) []Span {
	var out []Span
	// Spans are sorted by start; everything past end+1 cannot match.
	limit := s.insertPos(end+1, 0)
	for i := 0; i < limit; i++ {
		sp := &s.spans[i]
		if !overlaps(start, end, sp.Start, sp.End) {
			continue
		}
		if excludeEmpty && sp.Start == sp.End {
			continue
		}
		if filter != nil && !filter(sp.Value) {
			continue
		}
		if p := sp.Flags.Priority(); p != 0 {
			j := 0
			for ; j < len(out); j++ {
				if p > out[j].Flags.Priority() {
					break
				}
			}
			out = append(out, Span{})
			copy(out[j+1:], out[j:])
			out[j] = *sp
		} else {
			out = append(out, *sp)
		}
	}
	return out
}

// NextTransition returns the smallest offset greater than start and
// less than limit at which a span boundary of a filtered value occurs,
// or limit if there is none. Used to chunk measurement and drawing
// into ranges of locally uniform style.
func (s *Store) NextTransition(start, limit int, filter Filter) int {
	for i := range s.spans {
		sp := &s.spans[i]
		if filter != nil && !filter(sp.Value) {
			continue
		}
		if sp.Start > start && sp.Start < limit {
			limit = sp.Start
		}
		if sp.End > start && sp.End < limit {
			limit = sp.End
		}
	}
	return limit
}
