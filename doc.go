// Package textlayout measures styled Unicode text for layout.
//
// Given a paragraph of text with attached style intervals, the package
// resolves bidirectional runs, produces per-character advance widths
// through a memoized shaping cache, and performs greedy line breaking
// against a per-line pixel-width budget, respecting tab stops, grapheme
// cluster boundaries and replacement spans.
//
// The package does not shape, rasterize or upload anything itself.
// Shaping, line-break iteration and rasterization are consumed through
// small oracle interfaces (Shaper, BreakSource, atlas.Rasterizer);
// default implementations backed by go-text/typesetting and
// golang.org/x/image are provided.
//
// Typical flow:
//
//	cache := textlayout.NewPieceCache()
//	b := textlayout.NewBuilder(text, shaper, cache)
//	b.AddStyleRun(paint, len(text), false)
//	mt, err := b.Build()
//	res := textlayout.BreakLines(mt, textlayout.NewUnicodeBreaks(),
//		textlayout.NewLineWidth(width, width, nil, 0),
//		textlayout.NewTabStops(nil, tabInterval))
//
// The companion package atlas packs rasterized glyph bitmaps into a
// growable texture atlas for a rendering consumer.
package textlayout
