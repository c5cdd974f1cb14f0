package textlayout

import (
	"errors"
	"testing"
)

type mark struct{ name string }

func TestStore_AddAndRange(t *testing.T) {
	s := NewStore(10)
	a := &mark{"a"}

	if err := s.Add(a, 2, 5, 0); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	start, end, ok := s.Range(a)
	if !ok {
		t.Fatal("Range should find the span")
	}
	if start != 2 || end != 5 {
		t.Errorf("Range = [%d, %d), want [2, 5)", start, end)
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
}

func TestStore_AddInvalidRange(t *testing.T) {
	s := NewStore(10)
	tests := []struct {
		name       string
		start, end int
	}{
		{"negative start", -1, 5},
		{"start after end", 6, 3},
		{"end past buffer", 2, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Add(&mark{}, tt.start, tt.end, 0)
			var re *RangeError
			if !errors.As(err, &re) {
				t.Fatalf("Add(%d, %d) error = %v, want *RangeError", tt.start, tt.end, err)
			}
			if re.Start != tt.start || re.End != tt.end || re.Length != 10 {
				t.Errorf("RangeError = %+v, want {%d %d 10}", re, tt.start, tt.end)
			}
		})
	}
	if s.Count() != 0 {
		t.Errorf("failed adds must not insert, Count = %d", s.Count())
	}
}

func TestStore_UpdateInPlace(t *testing.T) {
	s := NewStore(10)
	a := &mark{"a"}
	if err := s.Add(a, 0, 3, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(a, 4, 8, 0); err != nil {
		t.Fatal(err)
	}
	if s.Count() != 1 {
		t.Fatalf("re-adding the same value must update, Count = %d", s.Count())
	}
	start, end, _ := s.Range(a)
	if start != 4 || end != 8 {
		t.Errorf("Range = [%d, %d), want [4, 8)", start, end)
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore(10)
	a := &mark{"a"}
	if err := s.Add(a, 0, 3, 0); err != nil {
		t.Fatal(err)
	}
	s.Remove(a)
	if s.Count() != 0 {
		t.Errorf("Count after remove = %d, want 0", s.Count())
	}
	// Removing an absent value is a no-op.
	s.Remove(a)
	if _, _, ok := s.Range(a); ok {
		t.Error("Range should not find a removed span")
	}
}

func TestStore_QuerySortedByStart(t *testing.T) {
	s := NewStore(20)
	a, b, c := &mark{"a"}, &mark{"b"}, &mark{"c"}
	if err := s.Add(c, 8, 12, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(a, 0, 4, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(b, 2, 10, 0); err != nil {
		t.Fatal(err)
	}

	got := s.Query(0, 20, nil, false)
	if len(got) != 3 {
		t.Fatalf("Query returned %d spans, want 3", len(got))
	}
	want := []*mark{a, b, c}
	for i, sp := range got {
		if sp.Value != want[i] {
			t.Errorf("Query[%d] = %v, want %v", i, sp.Value, want[i].name)
		}
	}
}

func TestStore_QueryPriority(t *testing.T) {
	s := NewStore(10)
	low, high := &mark{"low"}, &mark{"high"}
	if err := s.Add(low, 0, 5, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(high, 0, 5, 1<<SpanPriorityShift); err != nil {
		t.Fatal(err)
	}

	got := s.Query(0, 10, nil, false)
	if len(got) != 2 {
		t.Fatalf("Query returned %d spans, want 2", len(got))
	}
	if got[0].Value != high {
		t.Errorf("high-priority span should sort first, got %v", got[0].Value)
	}
}

func TestStore_QueryEmptySpanConventions(t *testing.T) {
	s := NewStore(10)
	empty := &mark{"empty"}
	edge := &mark{"edge"}
	if err := s.Add(empty, 5, 5, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(edge, 0, 3, 0); err != nil {
		t.Fatal(err)
	}

	// A zero-length query matches a zero-length span at that point.
	if got := s.Query(5, 5, nil, false); len(got) != 1 || got[0].Value != empty {
		t.Errorf("point query at 5 = %v, want the empty span", got)
	}
	// A zero-length query does not match a zero-length span elsewhere.
	if got := s.Query(4, 4, nil, false); len(got) != 0 {
		t.Errorf("point query at 4 = %v, want nothing", got)
	}
	// A non-empty query includes a zero-length span on its boundary
	// unless the caller excludes empties.
	if got := s.Query(5, 8, nil, false); len(got) != 1 || got[0].Value != empty {
		t.Errorf("query [5, 8) = %v, want the empty span", got)
	}
	if got := s.Query(5, 8, nil, true); len(got) != 0 {
		t.Errorf("query [5, 8) excluding empties = %v, want nothing", got)
	}
	// A non-empty span merely touching the query start is excluded.
	if got := s.Query(3, 6, nil, true); len(got) != 0 {
		t.Errorf("query [3, 6) = %v, want nothing", got)
	}
	// excludeEmpty drops zero-length spans even at their point.
	if got := s.Query(5, 5, nil, true); len(got) != 0 {
		t.Errorf("excludeEmpty point query = %v, want nothing", got)
	}
}

func TestStore_QueryFilter(t *testing.T) {
	s := NewStore(10)
	a, b := &mark{"a"}, &mark{"b"}
	if err := s.Add(a, 0, 5, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(b, 0, 5, 0); err != nil {
		t.Fatal(err)
	}
	got := s.Query(0, 10, func(v any) bool { return v == b }, false)
	if len(got) != 1 || got[0].Value != b {
		t.Errorf("filtered query = %v, want only b", got)
	}
}

func TestStore_NextTransition(t *testing.T) {
	s := NewStore(20)
	if err := s.Add(&mark{"a"}, 3, 8, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(&mark{"b"}, 12, 15, 0); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		start, limit int
		want         int
	}{
		{0, 20, 3},
		{3, 20, 8},
		{8, 20, 12},
		{15, 20, 20},
		{0, 2, 2}, // limit caps the answer
	}
	for _, tt := range tests {
		if got := s.NextTransition(tt.start, tt.limit, nil); got != tt.want {
			t.Errorf("NextTransition(%d, %d) = %d, want %d", tt.start, tt.limit, got, tt.want)
		}
	}
}

type recordingWatcher struct {
	events []string
}

func (w *recordingWatcher) SpanAdded(s *Store, v any, start, end int) {
	w.events = append(w.events, "added")
}

func (w *recordingWatcher) SpanRemoved(s *Store, v any, start, end int) {
	w.events = append(w.events, "removed")
}

func (w *recordingWatcher) SpanChanged(s *Store, v any, os, oe, ns, ne int) {
	w.events = append(w.events, "changed")
}

func TestStore_WatcherEvents(t *testing.T) {
	s := NewStore(10)
	w := &recordingWatcher{}
	s.Observe(w)

	a := &mark{"a"}
	if err := s.Add(a, 0, 3, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(a, 2, 6, 0); err != nil {
		t.Fatal(err)
	}
	s.Remove(a)

	want := []string{"added", "changed", "removed"}
	if len(w.events) != len(want) {
		t.Fatalf("events = %v, want %v", w.events, want)
	}
	for i := range want {
		if w.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, w.events[i], want[i])
		}
	}

	s.Unobserve(w)
	if err := s.Add(&mark{"b"}, 0, 1, 0); err != nil {
		t.Fatal(err)
	}
	if len(w.events) != len(want) {
		t.Error("unobserved watcher must not receive events")
	}
}
