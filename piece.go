package textlayout

// Piece is the shaped, measured form of a short range of text in one
// style and direction. Pieces are immutable once built and shared
// through a PieceCache, so accessors hand out internal slices that
// callers must not modify.
type Piece struct {
	glyphs   []ShapedGlyph
	advances []float64
	extent   FontMetrics
	advance  float64
}

// Glyphs returns the positioned glyphs in visual order.
func (p *Piece) Glyphs() []ShapedGlyph {
	return p.glyphs
}

// Advances returns the per-rune advance table. Only cluster-initial
// positions hold a nonzero value; runes inside a grapheme cluster are
// zero, so any prefix sum equals the width up to that offset.
func (p *Piece) Advances() []float64 {
	return p.advances
}

// Advance returns the total advance of the piece.
func (p *Piece) Advance() float64 {
	return p.advance
}

// Ascent returns the ascent of the piece, negative above the baseline.
func (p *Piece) Ascent() int {
	return p.extent.Ascent
}

// Descent returns the descent of the piece, positive below the baseline.
func (p *Piece) Descent() int {
	return p.extent.Descent
}

// Extent returns the vertical extent of the piece.
func (p *Piece) Extent() FontMetrics {
	return p.extent
}

// MemoryUsage estimates the heap footprint of the piece in bytes,
// used for cache accounting and debugging.
func (p *Piece) MemoryUsage() int {
	const glyphSize = 4 + 8 + 8*3 // GID, Cluster, X, Y, XAdvance
	return 48 + len(p.glyphs)*glyphSize + len(p.advances)*8
}

// shapePiece shapes text[start:end] through the shaper and folds the
// glyph stream into the piece form: glyphs in visual order, advances
// redistributed onto cluster-initial rune offsets, and the font extent
// of the paint.
func shapePiece(shaper Shaper, text []rune, start, end int, rtl bool, paint *Paint) *Piece {
	glyphs := shaper.Shape(text, start, end, rtl, paint)

	advances := make([]float64, end-start)
	total := 0.0
	for _, g := range glyphs {
		if g.Cluster >= 0 && g.Cluster < len(advances) {
			advances[g.Cluster] += g.XAdvance
		}
		total += g.XAdvance
	}

	return &Piece{
		glyphs:   glyphs,
		advances: advances,
		extent:   shaper.Metrics(paint),
		advance:  total,
	}
}
