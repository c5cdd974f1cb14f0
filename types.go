package textlayout

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Direction specifies the base text direction of a paragraph or run.
type Direction int

const (
	// DirectionLTR is left-to-right text (English, French, etc.)
	DirectionLTR Direction = iota
	// DirectionRTL is right-to-left text (Arabic, Hebrew)
	DirectionRTL
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "LTR"
	case DirectionRTL:
		return "RTL"
	default:
		return unknownStr
	}
}

// GlyphID is a unique identifier for a glyph within a font.
// The glyph ID is assigned by the font file and is font-specific.
type GlyphID uint32

// ShapedGlyph is a single positioned glyph produced by a Shaper.
type ShapedGlyph struct {
	// GID is the glyph index in the font.
	GID GlyphID

	// Cluster is the rune index of the cluster this glyph belongs to,
	// relative to the start of the shaped range. Several glyphs may
	// share a cluster (ligatures); a cluster may span several runes.
	Cluster int

	// X, Y are the glyph position relative to the range origin,
	// on the baseline.
	X, Y float64

	// XAdvance is the horizontal advance contributed by this glyph.
	XAdvance float64
}

// Font identifies a font resource to the measurement engine.
// The engine never inspects font data itself; shaping and metrics are
// delegated to the Shaper, rasterization to an atlas.Rasterizer.
// Implementations must return a process-unique, stable ID.
type Font interface {
	// ID returns a stable identifier for this font. Two Font values
	// with equal IDs must shape and measure identically.
	ID() uint64
}

// Shaper is the shaping oracle: it turns a range of text into
// positioned glyphs and reports font extents for a paint.
//
// Implementations must be safe for concurrent use; the engine may
// shape from multiple goroutines.
type Shaper interface {
	// Shape lays out text[start:end] with the given paint.
	// Returned glyphs are in visual left-to-right order with Cluster
	// indices relative to start. The sum of XAdvance values is the
	// total advance of the range.
	Shape(text []rune, start, end int, rtl bool, paint *Paint) []ShapedGlyph

	// Metrics reports the font extent for the paint.
	Metrics(paint *Paint) FontMetrics
}
