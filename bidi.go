package textlayout

import "golang.org/x/text/unicode/bidi"

// DirectionHeuristic decides the base direction of a paragraph from
// its content when the caller has no explicit preference.
type DirectionHeuristic int

const (
	// HeuristicFirstStrongLTR uses the first strongly directional
	// character, defaulting to LTR when there is none.
	HeuristicFirstStrongLTR DirectionHeuristic = iota
	// HeuristicFirstStrongRTL uses the first strongly directional
	// character, defaulting to RTL when there is none.
	HeuristicFirstStrongRTL
	// HeuristicAnyRTL is RTL if any strongly RTL character is present.
	HeuristicAnyRTL
	// HeuristicLTR forces LTR regardless of content.
	HeuristicLTR
	// HeuristicRTL forces RTL regardless of content.
	HeuristicRTL
)

// BaseDirection resolves the base direction of text under h.
func (h DirectionHeuristic) BaseDirection(text []rune) Direction {
	switch h {
	case HeuristicLTR:
		return DirectionLTR
	case HeuristicRTL:
		return DirectionRTL
	case HeuristicAnyRTL:
		for _, r := range text {
			if isStrongRTL(r) {
				return DirectionRTL
			}
		}
		return DirectionLTR
	case HeuristicFirstStrongRTL:
		if d, ok := firstStrong(text); ok {
			return d
		}
		return DirectionRTL
	default:
		if d, ok := firstStrong(text); ok {
			return d
		}
		return DirectionLTR
	}
}

func firstStrong(text []rune) (Direction, bool) {
	for _, r := range text {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.L:
			return DirectionLTR, true
		case bidi.R, bidi.AL:
			return DirectionRTL, true
		}
	}
	return DirectionLTR, false
}

func isStrongRTL(r rune) bool {
	p, _ := bidi.LookupRune(r)
	c := p.Class()
	return c == bidi.R || c == bidi.AL
}

// ResolveLevels computes the per-rune embedding level of one paragraph
// with the given base direction. The result has one entry per rune;
// even levels read left-to-right, odd levels right-to-left.
func ResolveLevels(text []rune, base Direction) []uint8 {
	levels := make([]uint8, len(text))
	if len(text) == 0 {
		return levels
	}
	if base == DirectionRTL {
		for i := range levels {
			levels[i] = 1
		}
	}

	var defaultDir bidi.Direction
	if base == DirectionRTL {
		defaultDir = bidi.RightToLeft
	} else {
		defaultDir = bidi.Neutral
	}

	p := bidi.Paragraph{}
	_, _ = p.SetString(string(text), bidi.DefaultDirection(defaultDir))

	ordering, err := p.Order()
	if err != nil {
		return levels
	}

	// run.Pos() returns RUNE indices (start, end inclusive)
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		startRune, endRune := run.Pos()
		var runLevel uint8
		if run.Direction() == bidi.RightToLeft {
			runLevel = 1
		} else if base == DirectionRTL {
			// LTR embedded in an RTL paragraph sits one level above
			// the base level.
			runLevel = 2
		}
		for j := startRune; j <= endRune && j < len(levels); j++ {
			levels[j] = runLevel
		}
	}

	return levels
}
