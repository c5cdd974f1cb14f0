package textlayout

// TabStops resolves the horizontal position a tab character advances
// to. Explicit stops, if any, are consumed in order; once the current
// position passes the last explicit stop the tab snaps to the next
// multiple of the default interval.
type TabStops struct {
	stops    []float64
	interval float64
}

// NewTabStops creates a resolver with optional explicit stop positions
// (in ascending order, in pixels) and a default interval for positions
// beyond the last explicit stop. The stops slice is borrowed, not
// copied.
func NewTabStops(stops []float64, interval float64) *TabStops {
	return &TabStops{stops: stops, interval: interval}
}

// Reset replaces the explicit stops and interval in place, letting a
// caller reuse one resolver across paragraphs.
func (t *TabStops) Reset(stops []float64, interval float64) {
	t.stops = stops
	t.interval = interval
}

// NextTab returns the position of the first stop strictly greater than
// width. Past the explicit stops, the position snaps to the next whole
// multiple of the interval, so a tab always advances by at least a
// fraction of one interval. A non-positive interval disables the
// snapping and the tab keeps the current position.
func (t *TabStops) NextTab(width float64) float64 {
	for _, s := range t.stops {
		if s > width {
			return s
		}
	}
	if t.interval <= 0 {
		return width
	}
	return float64(int(width/t.interval)+1) * t.interval
}
