package textlayout

import (
	"bytes"
	"math"
	"sync"
	"sync/atomic"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// fontIDs hands out process-unique font identifiers.
var fontIDs atomic.Uint64

// GoTextFont is a font resource backed by a parsed go-text/typesetting
// font. The underlying font.Font is read-only and safe for concurrent
// use; per-call font.Face instances are created on demand since those
// are not.
type GoTextFont struct {
	id   uint64
	font *font.Font
}

// ParseFont parses TTF or OTF font data.
func ParseFont(data []byte) (*GoTextFont, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &GoTextFont{id: fontIDs.Add(1), font: face.Font}, nil
}

// ID implements the Font interface.
func (f *GoTextFont) ID() uint64 {
	return f.id
}

// Raw returns the underlying parsed font.
func (f *GoTextFont) Raw() *font.Font {
	return f.font
}

// GoTextShaper is the stock Shaper, backed by go-text/typesetting's
// HarfBuzz implementation. It supports ligature substitution, kerning
// pairs, right-to-left text and complex scripts.
//
// GoTextShaper is safe for concurrent use: the HarfbuzzShaper
// instances are pooled via sync.Pool since they are not
// concurrent-safe, and each Shape() call creates its own lightweight
// font.Face around the thread-safe *font.Font.
type GoTextShaper struct {
	shaperPool sync.Pool
}

// NewGoTextShaper creates a shaper backed by go-text/typesetting.
func NewGoTextShaper() *GoTextShaper {
	return &GoTextShaper{
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// Shape implements the Shaper interface. The whole text is passed to
// HarfBuzz with [start, end) as the shaped range, so cross-boundary
// context (kerning against neighboring clusters) stays available.
func (s *GoTextShaper) Shape(text []rune, start, end int, rtl bool, paint *Paint) []ShapedGlyph {
	if start >= end || paint == nil {
		return nil
	}
	f, ok := paint.Font.(*GoTextFont)
	if !ok || f == nil {
		return nil
	}

	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}

	input := shaping.Input{
		Text:      text,
		RunStart:  start,
		RunEnd:    end,
		Direction: dir,
		Face:      font.NewFace(f.font),
		Size:      floatToFixed(paint.Size),
		Script:    detectScript(text[start:end]),
		Language:  shapeLanguage(paint.Locale),
	}

	hbShaper := s.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hbShaper.Shape(input)
	s.shaperPool.Put(hbShaper)

	return convertGlyphs(output.Glyphs, start)
}

// Metrics implements the Shaper interface, scaling the font's
// horizontal extents to the paint size.
func (s *GoTextShaper) Metrics(paint *Paint) FontMetrics {
	f, ok := paint.Font.(*GoTextFont)
	if !ok || f == nil {
		return FontMetrics{}
	}
	face := font.NewFace(f.font)
	extents, ok := face.FontHExtents()
	if !ok {
		return FontMetrics{}
	}
	scale := paint.Size / float64(f.font.Upem())
	// Ascender is positive above the baseline, Descender negative
	// below; flip both into raster convention.
	return FontMetrics{
		Ascent:  -int(math.Ceil(float64(extents.Ascender) * scale)),
		Descent: int(math.Ceil(-float64(extents.Descender) * scale)),
	}
}

// shapeLanguage maps a BCP 47 tag to a shaping language, defaulting to
// English for the root locale.
func shapeLanguage(locale string) language.Language {
	if locale == "" {
		return language.NewLanguage("en")
	}
	return language.NewLanguage(locale)
}

// detectScript inspects the runes and returns the script of the first
// non-space character. Runs are already split by style and direction
// before shaping, so one script per run is a workable assumption.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a float64 font size to fixed.Int26_6.
// The fixed-point representation uses 6 fractional bits.
func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// convertGlyphs converts shaping output to ShapedGlyph form, with
// cluster indices rebased to the shaped range start and pen positions
// accumulated left to right.
func convertGlyphs(glyphs []shaping.Glyph, start int) []ShapedGlyph {
	if len(glyphs) == 0 {
		return nil
	}

	result := make([]ShapedGlyph, len(glyphs))

	var x float64
	for i, g := range glyphs {
		adv := fixedToFloat(g.XAdvance)
		result[i] = ShapedGlyph{
			GID:      GlyphID(g.GlyphID),
			Cluster:  g.ClusterIndex - start,
			X:        x + fixedToFloat(g.XOffset),
			Y:        -fixedToFloat(g.YOffset),
			XAdvance: adv,
		}
		x += adv
	}

	return result
}
