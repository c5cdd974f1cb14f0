// Package atlas packs rasterized glyph coverage into a single growable
// alpha texture and hands out stable UV records per glyph identity.
package atlas

// shelfPacker implements shelf-based rectangle packing within one
// region of the texture. Simple and fast, suitable for glyph-sized
// rectangles.
//
// Rectangles are placed left-to-right along the current row with a
// border margin between them; when a rectangle would exceed the
// region's remaining width a new row starts below the tallest
// rectangle of the prior row. When the texture grows, the packer is
// pointed at the newly available half-region instead of the origin so
// already stitched pixels are never touched again.
type shelfPacker struct {
	// region bounds within the texture, half-open
	x0, y0 int
	x1, y1 int

	// cursor of the current row
	posX, posY int
	lineHeight int

	border int

	// tracking for utilization
	usedArea int
}

// reset points the packer at a region, discarding any row state.
func (p *shelfPacker) reset(x0, y0, x1, y1 int) {
	p.x0, p.y0 = x0, y0
	p.x1, p.y1 = x1, y1
	p.posX = x0 + p.border
	p.posY = y0 + p.border
	p.lineHeight = 0
}

// place finds space for a w by h rectangle, keeping the border margin
// on every side. Returns the top-left position, or ok=false when the
// rectangle cannot fit the region and the texture must grow.
func (p *shelfPacker) place(w, h int) (x, y int, ok bool) {
	if p.x0+w+2*p.border > p.x1 {
		// Wider than the region itself; a fresh row cannot help, and
		// starting one would waste the current row.
		return 0, 0, false
	}
	if p.posX+w+p.border > p.x1 {
		// Start a new row below the tallest rectangle placed so far.
		p.posX = p.x0 + p.border
		p.posY += p.lineHeight + p.border
		p.lineHeight = 0
	}
	if p.posY+h+p.border > p.y1 {
		return 0, 0, false
	}

	x, y = p.posX, p.posY
	p.lineHeight = max(p.lineHeight, h)
	p.posX += w + p.border
	p.usedArea += w * h
	return x, y, true
}

// fits reports whether a w by h rectangle could ever be placed in a
// region of the given size, regardless of current occupancy.
func (p *shelfPacker) fits(w, h, regionW, regionH int) bool {
	return w+2*p.border <= regionW && h+2*p.border <= regionH
}
