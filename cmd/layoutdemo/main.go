// Command layoutdemo measures a paragraph of text and prints its line
// breaks, one line per row with the offset range and pixel width.
package main

import (
	"flag"
	"fmt"
	"log"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textlayout"
)

func main() {
	var (
		text = flag.String("text",
			"The quick brown fox\tjumps over the lazy dog near the river bank.",
			"text to measure")
		size  = flag.Float64("size", 16, "font size in pixels")
		width = flag.Float64("width", 200, "line width budget in pixels")
		tab   = flag.Float64("tab", 64, "tab interval in pixels")
	)
	flag.Parse()

	fnt, err := textlayout.ParseFont(goregular.TTF)
	if err != nil {
		log.Fatalf("Failed to parse font: %v", err)
	}

	shaper := textlayout.NewGoTextShaper()
	cache := textlayout.NewPieceCache()
	paint := &textlayout.Paint{Font: fnt, Size: *size}

	runes := []rune(*text)
	for _, pr := range textlayout.ParagraphRanges(runes) {
		para := runes[pr[0]:pr[1]]
		p, err := textlayout.MeasureParagraph(para, nil,
			textlayout.HeuristicFirstStrongLTR, paint, shaper, cache)
		if err != nil {
			log.Fatalf("Failed to measure: %v", err)
		}

		res := textlayout.BreakLines(p.Measured(), textlayout.NewUnicodeBreaks(),
			textlayout.NewLineWidth(*width, *width, nil, 0),
			textlayout.NewTabStops(nil, *tab))

		prev := 0
		for line := 0; line < res.LineCount(); line++ {
			end := res.LineBreakOffset(line)
			fmt.Printf("[%3d, %3d) %7.1fpx  %q\n",
				pr[0]+prev, pr[0]+end, res.LineWidth(line), string(para[prev:end]))
			prev = end
		}
	}

	hits, misses, _, _ := cache.Stats()
	fmt.Printf("piece cache: %d hits, %d misses\n", hits, misses)
}
