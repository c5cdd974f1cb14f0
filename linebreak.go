package textlayout

// nowhere marks the absence of a recorded break candidate.
const nowhere = -1

// isLineEndSpace reports whether r is a space that disappears at the
// end of a line. It is the Unicode set
// [[:General_Category=Space_Separator:]-[:Line_Break=Glue:]] plus
// '\n'; all such characters are in the BMP.
func isLineEndSpace(r rune) bool {
	return r == '\n' || r == ' ' || // SPACE
		r == 0x1680 || // OGHAM SPACE MARK
		// EN QUAD, EM QUAD, EN SPACE, EM SPACE, THREE-PER-EM SPACE,
		// FOUR-PER-EM SPACE, SIX-PER-EM SPACE, PUNCTUATION SPACE,
		// THIN SPACE, HAIR SPACE
		(0x2000 <= r && r <= 0x200A && r != 0x2007) ||
		r == 0x205F || // MEDIUM MATHEMATICAL SPACE
		r == 0x3000 // IDEOGRAPHIC SPACE
}

// LineWidth answers the width budget per line. The methods may be
// called several times and must return the same value for the same
// input; values are never negative.
type LineWidth interface {
	// WidthAt returns the budget of the given line index, in pixels.
	WidthAt(line int) float64

	// MinWidth returns the smallest budget any line can have.
	MinWidth() float64
}

// defaultLineWidth is the stock LineWidth: one budget for the first
// line, another for the rest, both reduced by optional per-line
// indents. The indent table is indexed by absolute line number, so a
// paragraph starting mid-text passes its starting line as offset.
type defaultLineWidth struct {
	firstWidth float64
	restWidth  float64
	indents    []int
	offset     int
}

// NewLineWidth creates the stock per-line width function.
func NewLineWidth(firstWidth, restWidth float64, indents []int, lineOffset int) LineWidth {
	return &defaultLineWidth{
		firstWidth: firstWidth,
		restWidth:  restWidth,
		indents:    indents,
		offset:     lineOffset,
	}
}

func (w *defaultLineWidth) WidthAt(line int) float64 {
	width := w.restWidth
	if line < 1 {
		width = w.firstWidth
	}
	return max(0, width-w.indent(line))
}

func (w *defaultLineWidth) MinWidth() float64 {
	minWidth := min(w.WidthAt(0), w.WidthAt(1))
	end := len(w.indents) - w.offset
	for line := 1; line < end; line++ {
		minWidth = min(minWidth, w.WidthAt(line))
	}
	return minWidth
}

func (w *defaultLineWidth) indent(line int) float64 {
	if len(w.indents) == 0 {
		return 0
	}
	index := line + w.offset
	if index >= len(w.indents) {
		index = len(w.indents) - 1
	}
	return float64(w.indents[index])
}

// breakPoint is one produced line ending.
type breakPoint struct {
	offset    int
	lineWidth float64
	hasTab    bool
}

// Result holds the outcome of breaking one paragraph into lines.
type Result struct {
	breaks   []breakPoint
	ascents  []int
	descents []int
}

// LineCount returns the number of lines in the paragraph.
func (r *Result) LineCount() int {
	return len(r.breaks)
}

// LineBreakOffset returns the character offset of the break for a
// given line. Offsets are strictly increasing and the last offset
// equals the paragraph length.
func (r *Result) LineBreakOffset(line int) int {
	return r.breaks[line].offset
}

// LineWidth returns the width of a given line in pixels, excluding
// any trailing collapsible spaces.
func (r *Result) LineWidth(line int) float64 {
	return r.breaks[line].lineWidth
}

// LineAscent returns the ascent of the line, negative above the
// baseline.
func (r *Result) LineAscent(line int) int {
	return r.ascents[line]
}

// LineDescent returns the descent of the line, positive below the
// baseline.
func (r *Result) LineDescent(line int) int {
	return r.descents[line]
}

// HasLineTab reports whether the line contains a tab character.
func (r *Result) HasLineTab(line int) bool {
	return r.breaks[line].hasTab
}

// lineBreaker is the per-paragraph greedy break state machine.
type lineBreaker struct {
	text   []rune
	mt     *MeasuredText
	widths LineWidth
	tabs   *TabStops

	lineNum int
	// lineWidth excludes trailing collapsible spaces; charsAdvance is
	// the raw cumulative advance including them.
	lineWidth    float64
	charsAdvance float64
	widthLimit   float64

	prevBoundary  int
	widthAtPrev   float64
	advanceAtPrev float64

	breaks []breakPoint
}

// BreakLines performs greedy line breaking over one measured
// paragraph. source supplies candidate boundaries, widths the per-line
// budget and tabs the tab stop positions. An empty paragraph yields a
// result with zero lines.
func BreakLines(mt *MeasuredText, source BreakSource, widths LineWidth, tabs *TabStops) *Result {
	if mt == nil || len(mt.Text()) == 0 {
		return &Result{}
	}
	b := &lineBreaker{
		text:         mt.Text(),
		mt:           mt,
		widths:       widths,
		tabs:         tabs,
		widthLimit:   widths.WidthAt(0),
		prevBoundary: nowhere,
	}
	b.process(source)
	return b.result()
}

func (b *lineBreaker) process(source BreakSource) {
	source.Init(b.text)
	nextBoundary, ok := source.Next()
	if !ok {
		nextBoundary = len(b.text)
	}

	for _, run := range b.mt.Runs() {
		for i := run.Start(); i < run.End(); i++ {
			b.updateLineWidth(b.text[i], b.mt.AdvanceAt(i))

			if i+1 == nextBoundary {
				// A boundary inside a non-breakable run is only
				// usable when it coincides with the run end.
				if run.CanBreak() || nextBoundary == run.End() {
					b.processLineBreak(i + 1)
				}
				if nb, more := source.Next(); more {
					nextBoundary = nb
				} else {
					nextBoundary = len(b.text)
				}
			}
		}
	}

	// Flush the remainder as the final line.
	if b.prevLineBreakOffset() != len(b.text) {
		b.breakLineAt(len(b.text), b.lineWidth, 0, 0)
	}
}

func (b *lineBreaker) processLineBreak(offset int) {
	for b.lineWidth > b.widthLimit {
		start := b.prevLineBreakOffset()
		// The word in the new line may still be too long for the line
		// limit. Try general line break first, otherwise try grapheme
		// boundary or out of the line width.
		if !b.tryLineBreak() && b.breakWithGraphemeBounds(start, offset) {
			return
		}
	}

	b.prevBoundary = offset
	b.widthAtPrev = b.lineWidth
	b.advanceAtPrev = b.charsAdvance
}

// tryLineBreak breaks at the last accepted candidate boundary, if any.
func (b *lineBreaker) tryLineBreak() bool {
	if b.prevBoundary == nowhere {
		return false
	}

	b.breakLineAt(b.prevBoundary, b.widthAtPrev,
		b.lineWidth-b.advanceAtPrev,
		b.charsAdvance-b.advanceAtPrev)
	return true
}

// breakWithGraphemeBounds scans forward from the last break point,
// accumulating cluster advances, and breaks just before the first
// cluster that would overflow. Offsets with a zero advance are inside
// a cluster and are never broken at. Returns true when the whole range
// was consumed and the caller should stop.
func (b *lineBreaker) breakWithGraphemeBounds(start, end int) bool {
	width := b.mt.AdvanceAt(start)

	// Starting from + 1 since at least one cluster needs to be
	// assigned to a line.
	for i := start + 1; i < end; i++ {
		w := b.mt.AdvanceAt(i)
		if w == 0 {
			continue
		}
		if width+w > b.widthLimit {
			b.breakLineAt(i, width, b.lineWidth-width, b.charsAdvance-width)
			// Only break at the first overflowing offset; the rest of
			// the word is handled by the next iteration.
			return false
		}
		width += w
	}

	// Even one cluster doesn't fit the line. Give up and break at the
	// end of this range rather than producing a zero-length line.
	b.breakLineAt(end, b.lineWidth, 0, 0)
	return true
}

// breakLineAt records a break point and resets the running state, with
// the remainder past the break carried into the next line. The width
// budget is re-queried per line.
func (b *lineBreaker) breakLineAt(offset int, lineWidth, remainingLineWidth, remainingCharsAdvance float64) {
	b.breaks = append(b.breaks, breakPoint{offset: offset, lineWidth: lineWidth})

	b.lineNum++
	b.widthLimit = b.widths.WidthAt(b.lineNum)
	b.lineWidth = remainingLineWidth
	b.charsAdvance = remainingCharsAdvance
	b.prevBoundary = nowhere
	b.widthAtPrev = 0
	b.advanceAtPrev = 0
}

func (b *lineBreaker) updateLineWidth(r rune, adv float64) {
	if r == '\t' {
		b.charsAdvance = b.tabs.NextTab(b.charsAdvance)
		b.lineWidth = b.charsAdvance
	} else {
		b.charsAdvance += adv
		if !isLineEndSpace(r) {
			b.lineWidth = b.charsAdvance
		}
	}
}

func (b *lineBreaker) prevLineBreakOffset() int {
	if len(b.breaks) == 0 {
		return 0
	}
	return b.breaks[len(b.breaks)-1].offset
}

// result assembles per-line extents and tab flags.
func (b *lineBreaker) result() *Result {
	size := len(b.breaks)
	ascents := make([]int, size)
	descents := make([]int, size)
	prev := 0
	for i := 0; i < size; i++ {
		bp := &b.breaks[i]
		for j := prev; j < bp.offset; j++ {
			if b.text[j] == '\t' {
				bp.hasTab = true
				break
			}
		}
		m := b.mt.Extent(prev, bp.offset)
		ascents[i] = m.Ascent
		descents[i] = m.Descent
		prev = bp.offset
	}
	return &Result{breaks: b.breaks, ascents: ascents, descents: descents}
}
