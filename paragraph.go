package textlayout

// PaintSpan is implemented by span values that change how text is
// measured. The span mutates a copy of the base paint for the range it
// covers.
type PaintSpan interface {
	ApplyToPaint(p *Paint)
}

// ReplacementSpan is implemented by span values that replace their
// range with a fixed-width inline object. A replacement span may also
// implement PaintSpan to influence the paint its width is derived
// from.
type ReplacementSpan interface {
	ReplacementWidth(p *Paint) float64
}

// Paragraph couples a measured paragraph with its resolved direction
// data. Immutable once created.
type Paragraph struct {
	mt     *MeasuredText
	base   Direction
	levels []uint8
}

// paintAffecting selects span values that participate in measurement.
func paintAffecting(v any) bool {
	switch v.(type) {
	case PaintSpan, ReplacementSpan:
		return true
	}
	return false
}

// MeasureParagraph measures one paragraph of styled text. store may be
// nil for plain text. The paragraph is chunked into ranges of uniform
// style using the store's transitions, each range split further at
// direction boundaries, and every piece measured through cache.
func MeasureParagraph(text []rune, store *Store, heuristic DirectionHeuristic,
	basePaint *Paint, shaper Shaper, cache *PieceCache) (*Paragraph, error) {

	base := heuristic.BaseDirection(text)
	levels := ResolveLevels(text, base)

	b := NewBuilder(text, shaper, cache)
	for start, next := 0, 0; start < len(text); start = next {
		next = len(text)
		paint := *basePaint
		var repl ReplacementSpan
		if store != nil {
			next = store.NextTransition(start, len(text), paintAffecting)
			for _, sp := range store.Query(start, next, paintAffecting, true) {
				if ps, ok := sp.Value.(PaintSpan); ok {
					ps.ApplyToPaint(&paint)
				}
				if rs, ok := sp.Value.(ReplacementSpan); ok {
					repl = rs
				}
			}
		}
		if repl != nil {
			if err := b.AddReplacementRun(&paint, next-start, repl.ReplacementWidth(&paint)); err != nil {
				return nil, err
			}
			continue
		}
		// Split the uniform-style range at embedding level changes so
		// every appended run shapes in one direction.
		for rs := start; rs < next; {
			re := rs + 1
			for re < next && levels[re] == levels[rs] {
				re++
			}
			if err := b.AddStyleRun(&paint, re-rs, levels[rs]&1 != 0); err != nil {
				return nil, err
			}
			rs = re
		}
	}

	mt, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Paragraph{mt: mt, base: base, levels: levels}, nil
}

// Measured returns the measured paragraph.
func (p *Paragraph) Measured() *MeasuredText {
	return p.mt
}

// BaseDirection returns the resolved base direction.
func (p *Paragraph) BaseDirection() Direction {
	return p.base
}

// Levels returns the per-rune embedding levels. Callers must not
// modify the slice.
func (p *Paragraph) Levels() []uint8 {
	return p.levels
}

// Directions builds the visual run table for the line [start, end).
func (p *Paragraph) Directions(start, end int) (*RunTable, error) {
	if err := checkRange(start, end, len(p.levels)); err != nil {
		return nil, err
	}
	return ComputeRuns(p.base, p.levels[start:end], p.mt.text[start:end]), nil
}

// ParagraphRanges splits text into paragraph ranges at newlines. Each
// range includes its terminating newline, so the ranges partition
// [0, len(text)). Empty text yields no ranges.
func ParagraphRanges(text []rune) [][2]int {
	var out [][2]int
	start := 0
	for i, r := range text {
		if r == '\n' {
			out = append(out, [2]int{start, i + 1})
			start = i + 1
		}
	}
	if start < len(text) {
		out = append(out, [2]int{start, len(text)})
	}
	return out
}
