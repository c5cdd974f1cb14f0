package textlayout

// Each directional run is packed into a pair of uint32 words: the
// logical start offset, then the run length with the embedding level
// stored in the high bits. Odd levels are right-to-left, so the lowest
// level bit doubles as the RTL flag.
const (
	runLevelShift        = 26
	runLengthMask uint32 = (1 << runLevelShift) - 1
	runLevelMask  uint32 = 0x3f
	runRTLFlag    uint32 = 1 << runLevelShift
)

// Run is one visually contiguous directional run, in logical offsets
// relative to the line start.
type Run struct {
	Start int
	End   int
	RTL   bool
}

// RunTable stores the visual-order directional runs of one line in a
// compact packed form. Tables for uniformly directed lines are shared
// constants whose single run length is runLengthMask; callers clamp
// run bounds to the line length.
type RunTable struct {
	runs []uint32
}

var (
	// runsAllLTR covers any line that is entirely left-to-right.
	runsAllLTR = &RunTable{runs: []uint32{0, runLengthMask}}
	// runsAllRTL covers any line that is entirely right-to-left.
	runsAllRTL = &RunTable{runs: []uint32{0, runLengthMask | runRTLFlag}}
)

// RunCount returns the number of visual runs.
func (d *RunTable) RunCount() int {
	return len(d.runs) / 2
}

// RunStart returns the logical start offset of run i.
func (d *RunTable) RunStart(i int) int {
	return int(d.runs[i*2])
}

// RunLength returns the length of run i in runes.
func (d *RunTable) RunLength(i int) int {
	return int(d.runs[i*2+1] & runLengthMask)
}

// RunLevel returns the embedding level of run i.
func (d *RunTable) RunLevel(i int) int {
	return int((d.runs[i*2+1] >> runLevelShift) & runLevelMask)
}

// RunIsRTL reports whether run i is right-to-left.
func (d *RunTable) RunIsRTL(i int) bool {
	return d.runs[i*2+1]&runRTLFlag != 0
}

// Runs materializes the table in visual order, clamping run bounds to
// a line of length n.
func (d *RunTable) Runs(n int) []Run {
	out := make([]Run, 0, d.RunCount())
	for i := 0; i < d.RunCount(); i++ {
		start := d.RunStart(i)
		if start >= n {
			continue
		}
		end := start + d.RunLength(i)
		if end > n {
			end = n
		}
		out = append(out, Run{Start: start, End: end, RTL: d.RunIsRTL(i)})
	}
	return out
}

// ComputeRuns builds the visual run table for one line from its
// resolved embedding levels. levels and text cover the same range and
// must have equal length.
//
// Two rules beyond a plain level grouping apply. A trailing run of
// spaces or tabs whose direction disagrees with the base direction is
// split off and rendered at the base level, so trailing whitespace
// stays at the visual line end. Then maximal sequences of runs at or
// above each level are reversed, highest level first, producing the
// visual order of rule L2 of the bidirectional algorithm.
func ComputeRuns(base Direction, levels []uint8, text []rune) *RunTable {
	n := len(levels)
	if n == 0 {
		return runsAllLTR
	}
	baseLevel := 0
	if base == DirectionRTL {
		baseLevel = 1
	}

	curLevel := int(levels[0])
	minLevel := curLevel
	runCount := 1
	for i := 1; i < n; i++ {
		if int(levels[i]) != curLevel {
			curLevel = int(levels[i])
			runCount++
		}
	}

	visLen := n
	if curLevel&1 != baseLevel&1 {
		for visLen--; visLen >= 0; visLen-- {
			ch := text[visLen]
			if ch == '\n' {
				visLen--
				break
			}
			if ch != ' ' && ch != '\t' {
				break
			}
		}
		visLen++
		if visLen != n {
			runCount++
		}
	}

	if runCount == 1 && minLevel == baseLevel {
		if minLevel&1 != 0 {
			return runsAllRTL
		}
		return runsAllLTR
	}

	ld := make([]uint32, runCount*2)
	maxLevel := minLevel
	levelBits := uint32(minLevel) << runLevelShift
	{
		// The first run always starts at 0. Each level change closes
		// the previous run and opens the next; the last length is
		// written after the loop.
		idx := 1
		prev := 0
		curLevel = minLevel
		for i := 0; i < visLen; i++ {
			level := int(levels[i])
			if level != curLevel {
				curLevel = level
				if level > maxLevel {
					maxLevel = level
				} else if level < minLevel {
					minLevel = level
				}
				ld[idx] = uint32(i-prev) | levelBits
				idx++
				ld[idx] = uint32(i)
				idx++
				levelBits = uint32(curLevel) << runLevelShift
				prev = i
			}
		}
		ld[idx] = uint32(visLen-prev) | levelBits
		if visLen < n {
			idx++
			ld[idx] = uint32(visLen)
			idx++
			ld[idx] = uint32(n-visLen) | uint32(baseLevel)<<runLevelShift
		}
	}

	// If the lowest level already matches the base direction it stays
	// in place and only higher levels reorder; otherwise every run
	// participates. Runs at equal adjacent levels cannot occur, so an
	// alternating min/max sequence is already in visual order.
	var swap bool
	if minLevel&1 == baseLevel {
		minLevel++
		swap = maxLevel > minLevel
	} else {
		swap = runCount > 1
	}
	if swap {
		// The packed words carry the run level; the levels slice cannot
		// be used here since the trailing whitespace run was rewritten
		// to the base level.
		runLevel := func(i int) int {
			return int((ld[i+1] >> runLevelShift) & runLevelMask)
		}
		for level := maxLevel - 1; level >= minLevel; level-- {
			for i := 0; i < len(ld); i += 2 {
				if runLevel(i) >= level {
					e := i + 2
					for e < len(ld) && runLevel(e) >= level {
						e += 2
					}
					for lo, hi := i, e-2; lo < hi; lo, hi = lo+2, hi-2 {
						ld[lo], ld[hi] = ld[hi], ld[lo]
						ld[lo+1], ld[hi+1] = ld[hi+1], ld[lo+1]
					}
					i = e
				}
			}
		}
	}
	return &RunTable{runs: ld}
}
