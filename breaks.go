package textlayout

import "github.com/go-text/typesetting/segmenter"

// BreakSource supplies candidate line break offsets for one paragraph.
// Offsets are strictly increasing and the final offset equals the text
// length. The line breaker intersects candidates with run
// break-ability; the source itself only answers where the break
// algorithm permits a break.
type BreakSource interface {
	// Init resets the source for a new paragraph.
	Init(text []rune)

	// Next returns the next candidate offset. ok is false when the
	// candidates are exhausted.
	Next() (offset int, ok bool)
}

// UnicodeBreaks produces break candidates on UAX #14 line boundaries.
// It is locale-independent; a locale-tailored BreakSource can be
// substituted where required.
//
// A UnicodeBreaks value is reusable across paragraphs but not safe for
// concurrent use.
type UnicodeBreaks struct {
	seg  segmenter.Segmenter
	iter *segmenter.LineIterator
}

// NewUnicodeBreaks creates an empty source; call Init before Next.
func NewUnicodeBreaks() *UnicodeBreaks {
	return &UnicodeBreaks{}
}

// Init resets the source for a new paragraph.
func (u *UnicodeBreaks) Init(text []rune) {
	u.seg.Init(text)
	u.iter = u.seg.LineIterator()
}

// Next returns the offset just past the next line segment.
func (u *UnicodeBreaks) Next() (int, bool) {
	if u.iter == nil || !u.iter.Next() {
		return 0, false
	}
	line := u.iter.Line()
	return line.Offset + len(line.Text), true
}
