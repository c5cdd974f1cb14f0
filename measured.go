package textlayout

import "sort"

// TextRun is one measured run of a paragraph, either a styled range of
// text or a replacement span with a fixed width. Runs are contiguous,
// non-overlapping, and together cover the whole paragraph.
type TextRun interface {
	// Start returns the paragraph-relative start offset.
	Start() int
	// End returns the paragraph-relative end offset, exclusive.
	End() int
	// CanBreak reports whether line breaks may occur inside the run.
	CanBreak() bool
	// Locale returns the BCP 47 tag governing break iteration.
	Locale() string

	measure(mt *MeasuredText)
	extent(mt *MeasuredText, start, end int, m *FontMetrics)
}

// runBase carries the fields shared by every run kind.
type runBase struct {
	start int
	end   int
}

func (r *runBase) Start() int { return r.start }
func (r *runBase) End() int   { return r.end }

// StyleRun is a range of text measured by shaping it with one paint in
// one direction.
type StyleRun struct {
	runBase
	paint Paint
	rtl   bool
}

// CanBreak always reports true for styled text.
func (r *StyleRun) CanBreak() bool { return true }

// Locale returns the paint's locale.
func (r *StyleRun) Locale() string { return r.paint.Locale }

// RTL reports the direction the run is shaped in.
func (r *StyleRun) RTL() bool { return r.rtl }

// Paint returns the paint the run is measured with.
func (r *StyleRun) Paint() *Paint { return &r.paint }

// pieceFor fetches the shaped piece for text[start:end) from the
// paragraph's cache, shaping on miss.
func (r *StyleRun) pieceFor(mt *MeasuredText, start, end int) *Piece {
	key := PieceKey{
		Text:  string(mt.text[start:end]),
		RTL:   r.rtl,
		Style: r.paint.Key(),
	}
	return mt.cache.GetOrCreate(key, func() *Piece {
		return shapePiece(mt.shaper, mt.text, start, end, r.rtl, &r.paint)
	})
}

// measure fills the paragraph advance table for this run, shaping in
// chunks of at most MaxPieceLength runes so cache entries stay small.
func (r *StyleRun) measure(mt *MeasuredText) {
	for cs := r.start; cs < r.end; cs += MaxPieceLength {
		ce := min(cs+MaxPieceLength, r.end)
		piece := r.pieceFor(mt, cs, ce)
		copy(mt.advances[cs:ce], piece.Advances())
	}
}

// extent merges the vertical extent of [start, end) into m. The query
// walks the same chunk grid as measure so full-chunk lookups hit the
// entries measure already created; partial chunks shape their exact
// subrange.
func (r *StyleRun) extent(mt *MeasuredText, start, end int, m *FontMetrics) {
	for cs := r.start; cs < r.end; cs += MaxPieceLength {
		ce := min(cs+MaxPieceLength, r.end)
		qs := max(cs, start)
		qe := min(ce, end)
		if qs >= qe {
			continue
		}
		piece := r.pieceFor(mt, qs, qe)
		m.Extend(piece.Extent())
	}
}

// ReplacementRun substitutes a fixed advance for its whole range, used
// for inline objects whose width the text engine does not measure.
type ReplacementRun struct {
	runBase
	paint Paint
	width float64
}

// CanBreak always reports false: a replacement is an opaque unit.
func (r *ReplacementRun) CanBreak() bool { return false }

// Locale returns the paint's locale.
func (r *ReplacementRun) Locale() string { return r.paint.Locale }

// Width returns the fixed advance of the replacement.
func (r *ReplacementRun) Width() float64 { return r.width }

// measure assigns the whole width to the first offset; all following
// offsets stay zero so the range behaves as one cluster.
func (r *ReplacementRun) measure(mt *MeasuredText) {
	mt.advances[r.start] = r.width
	for i := r.start + 1; i < r.end; i++ {
		mt.advances[i] = 0
	}
}

// extent contributes nothing: a replacement has no font extent, and
// line height falls back to surrounding text.
func (r *ReplacementRun) extent(mt *MeasuredText, start, end int, m *FontMetrics) {
}

// MeasuredText is a fully measured paragraph: its runs, and a flat
// per-rune advance table where only cluster-initial offsets hold a
// nonzero value, so any prefix sum equals the pixel width up to that
// offset. Immutable once built.
type MeasuredText struct {
	text     []rune
	runs     []TextRun
	advances []float64

	shaper Shaper
	cache  *PieceCache
}

// Builder assembles a MeasuredText run by run. Runs must be appended
// in logical order and cover the text exactly; Build fails otherwise.
// A builder produces at most one MeasuredText.
type Builder struct {
	text   []rune
	shaper Shaper
	cache  *PieceCache

	runs []TextRun
	pos  int
	done bool
}

// NewBuilder creates a builder over text. The shaper provides glyphs
// and font extents; the cache memoizes shaped pieces across paragraphs
// and is owned by the caller.
func NewBuilder(text []rune, shaper Shaper, cache *PieceCache) *Builder {
	return &Builder{text: text, shaper: shaper, cache: cache}
}

// AddStyleRun appends a styled range of the given length, shaped with
// paint in the given direction.
func (b *Builder) AddStyleRun(paint *Paint, length int, rtl bool) error {
	if err := b.checkAppend(length); err != nil {
		return err
	}
	b.runs = append(b.runs, &StyleRun{
		runBase: runBase{start: b.pos, end: b.pos + length},
		paint:   *paint,
		rtl:     rtl,
	})
	b.pos += length
	return nil
}

// AddReplacementRun appends a range whose measurement is the fixed
// width instead of shaped text. The paint supplies the locale used for
// break iteration around the replacement.
func (b *Builder) AddReplacementRun(paint *Paint, length int, width float64) error {
	if err := b.checkAppend(length); err != nil {
		return err
	}
	b.runs = append(b.runs, &ReplacementRun{
		runBase: runBase{start: b.pos, end: b.pos + length},
		paint:   *paint,
		width:   width,
	})
	b.pos += length
	return nil
}

func (b *Builder) checkAppend(length int) error {
	if length <= 0 || b.pos+length > len(b.text) {
		return &RangeError{Start: b.pos, End: b.pos + length, Length: len(b.text)}
	}
	return nil
}

// Build measures all runs and returns the finished paragraph.
// It returns ErrIncompleteCoverage if the appended runs do not cover
// the text, and ErrAlreadyBuilt on reuse.
func (b *Builder) Build() (*MeasuredText, error) {
	if b.done {
		return nil, ErrAlreadyBuilt
	}
	if b.pos != len(b.text) {
		return nil, ErrIncompleteCoverage
	}
	b.done = true

	mt := &MeasuredText{
		text:     b.text,
		runs:     b.runs,
		advances: make([]float64, len(b.text)),
		shaper:   b.shaper,
		cache:    b.cache,
	}
	for _, r := range mt.runs {
		r.measure(mt)
	}
	return mt, nil
}

// Text returns the paragraph text. Callers must not modify it.
func (mt *MeasuredText) Text() []rune {
	return mt.text
}

// Runs returns the measured runs in logical order.
func (mt *MeasuredText) Runs() []TextRun {
	return mt.runs
}

// Advances returns the per-rune advance table. Callers must not
// modify it.
func (mt *MeasuredText) Advances() []float64 {
	return mt.advances
}

// AdvanceAt returns the advance at one offset. Zero means the offset
// is inside a grapheme cluster or a replacement.
func (mt *MeasuredText) AdvanceAt(pos int) float64 {
	return mt.advances[pos]
}

// Advance returns the total advance of [start, end), the sum of the
// advance table over the range.
func (mt *MeasuredText) Advance(start, end int) float64 {
	w := 0.0
	for i := start; i < end; i++ {
		w += mt.advances[i]
	}
	return w
}

// Extent returns the merged vertical extent of [start, end) across the
// runs it intersects.
func (mt *MeasuredText) Extent(start, end int) FontMetrics {
	var m FontMetrics
	for _, r := range mt.runs {
		if r.Start() >= end {
			break
		}
		if r.End() <= start {
			continue
		}
		r.extent(mt, max(start, r.Start()), min(end, r.End()), &m)
	}
	return m
}

// SearchRun returns the run containing offset, or ok=false when the
// offset is out of range.
func (mt *MeasuredText) SearchRun(offset int) (TextRun, bool) {
	if offset < 0 || offset >= len(mt.text) {
		return nil, false
	}
	i := sort.Search(len(mt.runs), func(i int) bool {
		return mt.runs[i].End() > offset
	})
	if i == len(mt.runs) {
		return nil, false
	}
	return mt.runs[i], true
}
