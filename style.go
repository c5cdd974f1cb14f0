package textlayout

import "math"

// FontWeight is the visual weight of a face, on the OpenType scale.
type FontWeight int

const (
	WeightNormal FontWeight = 400
	WeightBold   FontWeight = 700
)

// Paint carries everything a caller attaches to a style run.
//
// Only a subset of the fields affects measurement: Font, Size, Weight,
// Italic and Locale. The remaining fields (Color, Underline,
// Strikethrough) are draw-only and are deliberately excluded from the
// shaping cache key so that changing them never re-shapes text.
type Paint struct {
	// Font is the font resource used for shaping and metrics.
	Font Font

	// Size is the font size in pixels.
	Size float64

	// Weight selects a weight for synthetic or variable faces.
	Weight FontWeight

	// Italic requests an italic or oblique face.
	Italic bool

	// Locale is a BCP 47 tag used for locale-dependent shaping and
	// line-break iteration. Empty means the root locale.
	Locale string

	// Draw-only attributes. Never part of the measurement key.
	Color         uint32
	Underline     bool
	Strikethrough bool
}

// StyleKey is the measurement-affecting subset of a Paint, in a
// comparable form suitable for cache keys.
type StyleKey struct {
	FontID   uint64
	SizeBits uint64
	Weight   FontWeight
	Italic   bool
	Locale   string
}

// Key derives the style key of the paint. Paints that differ only in
// draw-only attributes produce equal keys.
func (p *Paint) Key() StyleKey {
	var fontID uint64
	if p.Font != nil {
		fontID = p.Font.ID()
	}
	return StyleKey{
		FontID:   fontID,
		SizeBits: math.Float64bits(p.Size),
		Weight:   p.Weight,
		Italic:   p.Italic,
		Locale:   p.Locale,
	}
}
