package atlas

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
)

// ErrAtlasFull is returned by Stitch when the texture has reached its
// maximum dimensions and no space remains. The caller may start a new
// atlas or clear this one.
var ErrAtlasFull = errors.New("atlas: texture reached maximum size")

// Config holds configuration for an Atlas.
type Config struct {
	// InitialSize is the side of the first allocated square texture.
	// Default: 256
	InitialSize int

	// MaxSize is the growth ceiling per dimension.
	// Default: 16384
	MaxSize int

	// Border is the margin in pixels kept around every glyph to avoid
	// sampling bleed under filtering and mip-mapping.
	// Default: 2
	Border int
}

// DefaultConfig returns the default atlas configuration.
func DefaultConfig() Config {
	return Config{
		InitialSize: 256,
		MaxSize:     16384,
		Border:      2,
	}
}

// GlyphKey identifies one rasterized glyph image.
type GlyphKey struct {
	// Font is the owning font's process-unique ID.
	Font uint64

	// GID is the glyph index within the font.
	GID uint32

	// Size is the pixel size the glyph was rasterized at.
	Size uint16
}

// Baked is one placed glyph: its pixel rectangle in the texture and
// the UV rectangle to sample. A Baked is immutable once published;
// growth changes the generation and publishes replacement entries with
// rescaled UVs, so consumers must re-read entries after Generation()
// changes rather than caching coordinates independently.
type Baked struct {
	X, Y          int
	Width, Height int

	U1, V1 float32
	U2, V2 float32
}

// Atlas is a bin-packing texture cache for glyph coverage. Lookup is
// safe for concurrent readers; Stitch is single-writer and expected to
// run on one designated rendering goroutine. The pixel store is an
// 8-bit alpha buffer the caller uploads to the GPU; upload mechanics
// are outside this package.
type Atlas struct {
	mu     sync.RWMutex
	glyphs map[GlyphKey]*Baked

	config Config

	// writer-side state
	pixels []byte
	width  int
	height int
	packer shelfPacker

	generation atomic.Uint64

	// dirty is the area modified since the last TakeDirty, in pixels.
	dirty    image.Rectangle
	hasDirty bool
}

// New creates an empty atlas; the texture is allocated on first
// Stitch.
func New() *Atlas {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an empty atlas with the given configuration.
func NewWithConfig(config Config) *Atlas {
	if config.InitialSize <= 0 {
		config.InitialSize = 256
	}
	if config.MaxSize < config.InitialSize {
		config.MaxSize = 16384
	}
	if config.Border < 0 {
		config.Border = 2
	}
	return &Atlas{
		glyphs: make(map[GlyphKey]*Baked),
		config: config,
		packer: shelfPacker{border: config.Border},
	}
}

// Get returns the baked entry for key. ok reports whether the key is
// known at all; a known key with a nil entry means the glyph has no
// pixels (whitespace) and there is nothing to render.
func (a *Atlas) Get(key GlyphKey) (*Baked, bool) {
	a.mu.RLock()
	b, ok := a.glyphs[key]
	a.mu.RUnlock()
	return b, ok
}

// SetNoPixels records that key rasterizes to nothing, so later lookups
// skip rendering without re-rasterizing.
func (a *Atlas) SetNoPixels(key GlyphKey) {
	a.mu.Lock()
	a.glyphs[key] = nil
	a.mu.Unlock()
}

// Stitch copies a w by h 8-bit coverage buffer into the texture and
// publishes a Baked entry for key. Stitching an already present key
// returns the existing entry unchanged.
//
// Stitch is single-writer: only one goroutine may call it, though
// readers may call Get concurrently. Returns ErrAtlasFull when the
// texture cannot grow any further.
func (a *Atlas) Stitch(key GlyphKey, w, h int, pixels []byte) (*Baked, error) {
	if w <= 0 || h <= 0 {
		a.SetNoPixels(key)
		return nil, nil
	}
	if len(pixels) < w*h {
		return nil, fmt.Errorf("atlas: pixel buffer %d short of %dx%d", len(pixels), w, h)
	}
	if existing, ok := a.Get(key); ok && existing != nil {
		return existing, nil
	}
	if !a.packer.fits(w, h, a.config.MaxSize, a.config.MaxSize) {
		return nil, ErrAtlasFull
	}

	if a.width == 0 {
		a.grow()
	}
	x, y, ok := a.packer.place(w, h)
	for !ok {
		if err := a.growOnce(); err != nil {
			return nil, err
		}
		x, y, ok = a.packer.place(w, h)
	}

	for row := 0; row < h; row++ {
		copy(a.pixels[(y+row)*a.width+x:], pixels[row*w:(row+1)*w])
	}
	a.markDirty(image.Rect(x, y, x+w, y+h))

	baked := &Baked{
		X: x, Y: y,
		Width: w, Height: h,
		U1: float32(x) / float32(a.width),
		V1: float32(y) / float32(a.height),
		U2: float32(x+w) / float32(a.width),
		V2: float32(y+h) / float32(a.height),
	}
	a.mu.Lock()
	a.glyphs[key] = baked
	a.mu.Unlock()
	return baked, nil
}

// grow performs the initial allocation.
func (a *Atlas) grow() {
	a.width = a.config.InitialSize
	a.height = a.config.InitialSize
	a.pixels = make([]byte, a.width*a.height)
	a.packer.reset(0, 0, a.width, a.height)
	a.generation.Add(1)
}

// growOnce doubles one dimension, height first while square then
// width, rescales published UVs and points the packer at the new
// half-region. Every growth changes the texture generation.
func (a *Atlas) growOnce() error {
	if a.width >= a.config.MaxSize && a.height >= a.config.MaxSize {
		return ErrAtlasFull
	}

	if a.width == a.height {
		// Double the height; the old buffer is a prefix of the new
		// one since the row stride is unchanged.
		oldHeight := a.height
		a.height <<= 1
		grown := make([]byte, a.width*a.height)
		copy(grown, a.pixels)
		a.pixels = grown
		a.packer.reset(0, oldHeight, a.width, a.height)

		// Published entries are immutable; concurrent readers may hold
		// them, so rescaled UVs go into replacement records.
		a.mu.Lock()
		for k, g := range a.glyphs {
			if g == nil {
				continue
			}
			rescaled := *g
			rescaled.V1 *= 0.5
			rescaled.V2 *= 0.5
			a.glyphs[k] = &rescaled
		}
		a.mu.Unlock()
	} else {
		// Double the width; rows must be restrided.
		oldWidth := a.width
		a.width <<= 1
		grown := make([]byte, a.width*a.height)
		for row := 0; row < a.height; row++ {
			copy(grown[row*a.width:], a.pixels[row*oldWidth:(row+1)*oldWidth])
		}
		a.pixels = grown
		a.packer.reset(oldWidth, 0, a.width, a.height)

		a.mu.Lock()
		for k, g := range a.glyphs {
			if g == nil {
				continue
			}
			rescaled := *g
			rescaled.U1 *= 0.5
			rescaled.U2 *= 0.5
			a.glyphs[k] = &rescaled
		}
		a.mu.Unlock()
	}

	a.generation.Add(1)
	// The whole texture must be re-uploaded after a growth.
	a.markDirty(image.Rect(0, 0, a.width, a.height))
	return nil
}

func (a *Atlas) markDirty(r image.Rectangle) {
	if a.hasDirty {
		a.dirty = a.dirty.Union(r)
	} else {
		a.dirty = r
		a.hasDirty = true
	}
}

// TakeDirty returns the area modified since the previous call and
// resets it. ok is false when nothing changed. Called by the uploader
// once per frame.
func (a *Atlas) TakeDirty() (r image.Rectangle, ok bool) {
	r, ok = a.dirty, a.hasDirty
	a.dirty = image.Rectangle{}
	a.hasDirty = false
	return r, ok
}

// Pixels returns the backing alpha buffer, row-major at Width() bytes
// per row. Valid until the next Stitch that grows the texture.
func (a *Atlas) Pixels() []byte {
	return a.pixels
}

// Width returns the current texture width in pixels.
func (a *Atlas) Width() int {
	return a.width
}

// Height returns the current texture height in pixels.
func (a *Atlas) Height() int {
	return a.height
}

// Generation returns the texture generation. It changes on every
// allocation or growth; consumers holding UVs from an older generation
// must re-read their entries.
func (a *Atlas) Generation() uint64 {
	return a.generation.Load()
}

// GlyphCount returns the number of known glyph keys, including
// no-pixel entries.
func (a *Atlas) GlyphCount() int {
	a.mu.RLock()
	n := len(a.glyphs)
	a.mu.RUnlock()
	return n
}

// Coverage returns the fraction of texture area occupied by glyphs,
// 0 to 1.
func (a *Atlas) Coverage() float64 {
	if a.width == 0 {
		return 0
	}
	return float64(a.packer.usedArea) / float64(a.width*a.height)
}

// MemoryUsage returns the size of the backing pixel store in bytes.
func (a *Atlas) MemoryUsage() int {
	return len(a.pixels)
}

// Clear drops every entry and releases the texture, returning the
// atlas to its empty state. Callers must not hold Baked pointers
// across a Clear.
func (a *Atlas) Clear() {
	a.mu.Lock()
	a.glyphs = make(map[GlyphKey]*Baked)
	a.mu.Unlock()
	a.pixels = nil
	a.width = 0
	a.height = 0
	a.packer = shelfPacker{border: a.config.Border}
	a.dirty = image.Rectangle{}
	a.hasDirty = false
	a.generation.Add(1)
}

// Dump copies the texture into an image for debugging.
func (a *Atlas) Dump() *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, a.width, a.height))
	copy(img.Pix, a.pixels)
	return img
}
