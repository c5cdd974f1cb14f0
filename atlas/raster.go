package atlas

import (
	"image"
	"image/draw"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Mask is a rasterized glyph: an 8-bit coverage buffer plus the
// placement of its bounding box relative to the pen position on the
// baseline.
type Mask struct {
	// Width, Height are the buffer dimensions in pixels.
	Width, Height int

	// Left, Top offset the buffer's top-left corner from the pen
	// position. Top is negative for glyphs above the baseline.
	Left, Top int

	// Pixels is Width*Height coverage bytes, row-major.
	Pixels []byte
}

// Empty reports whether the mask has no coverage at all.
func (m *Mask) Empty() bool {
	return m.Width == 0 || m.Height == 0
}

// Rasterizer turns a glyph ID into a coverage mask at a pixel size.
type Rasterizer interface {
	Rasterize(gid uint32, size float64) (Mask, error)
}

// VectorRasterizer renders glyph outlines with the scan converter from
// golang.org/x/image/vector on top of sfnt outlines.
//
// The sfnt loading buffer is reused across calls, so a
// VectorRasterizer is not safe for concurrent use. The stitching
// goroutine owns it.
type VectorRasterizer struct {
	font *sfnt.Font
	buf  sfnt.Buffer
}

// NewVectorRasterizer parses TTF or OTF font data.
func NewVectorRasterizer(data []byte) (*VectorRasterizer, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	return &VectorRasterizer{font: f}, nil
}

// Rasterize implements the Rasterizer interface.
func (r *VectorRasterizer) Rasterize(gid uint32, size float64) (Mask, error) {
	ppem := fixed.Int26_6(size * 64)
	segs, err := r.font.LoadGlyph(&r.buf, sfnt.GlyphIndex(gid), ppem, nil)
	if err != nil {
		return Mask{}, err
	}
	if len(segs) == 0 {
		return Mask{}, nil
	}

	bounds := segs.Bounds()
	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()
	w := maxX - minX
	h := maxY - minY
	if w <= 0 || h <= 0 {
		return Mask{}, nil
	}

	// Shift the outline so the bounding box lands at the buffer
	// origin. Segment coordinates are 26.6 fixed point.
	tx := -float32(minX)
	ty := -float32(minY)

	rast := vector.NewRasterizer(w, h)
	rast.DrawOp = draw.Src
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			rast.MoveTo(tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64)
		case sfnt.SegmentOpLineTo:
			rast.LineTo(tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64)
		case sfnt.SegmentOpQuadTo:
			rast.QuadTo(
				tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64,
				tx+float32(seg.Args[1].X)/64, ty+float32(seg.Args[1].Y)/64,
			)
		case sfnt.SegmentOpCubeTo:
			rast.CubeTo(
				tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64,
				tx+float32(seg.Args[1].X)/64, ty+float32(seg.Args[1].Y)/64,
				tx+float32(seg.Args[2].X)/64, ty+float32(seg.Args[2].Y)/64,
			)
		}
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	rast.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	return Mask{
		Width:  w,
		Height: h,
		Left:   minX,
		Top:    minY,
		Pixels: dst.Pix,
	}, nil
}
