package textlayout

import "testing"

func levelsOf(pairs ...int) []uint8 {
	// pairs are (level, count) repetitions
	var out []uint8
	for i := 0; i < len(pairs); i += 2 {
		for j := 0; j < pairs[i+1]; j++ {
			out = append(out, uint8(pairs[i]))
		}
	}
	return out
}

func runeText(n int, r rune) []rune {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return out
}

func TestComputeRuns_AllLTR(t *testing.T) {
	text := []rune("hello world")
	d := ComputeRuns(DirectionLTR, levelsOf(0, len(text)), text)
	if d != runsAllLTR {
		t.Fatal("uniform LTR line should share the canned table")
	}
	if d.RunCount() != 1 || d.RunIsRTL(0) {
		t.Errorf("RunCount = %d, RTL = %v, want one LTR run", d.RunCount(), d.RunIsRTL(0))
	}

	runs := d.Runs(len(text))
	if len(runs) != 1 {
		t.Fatalf("Runs = %v, want one clamped run", runs)
	}
	if runs[0].Start != 0 || runs[0].End != len(text) {
		t.Errorf("run = [%d, %d), want [0, %d)", runs[0].Start, runs[0].End, len(text))
	}
}

func TestComputeRuns_AllRTL(t *testing.T) {
	text := runeText(5, 'א')
	d := ComputeRuns(DirectionRTL, levelsOf(1, 5), text)
	if d != runsAllRTL {
		t.Fatal("uniform RTL line should share the canned table")
	}
	if !d.RunIsRTL(0) {
		t.Error("run should be RTL")
	}
}

func TestComputeRuns_Empty(t *testing.T) {
	d := ComputeRuns(DirectionLTR, nil, nil)
	if d != runsAllLTR {
		t.Error("empty line defaults to the LTR table")
	}
}

func TestComputeRuns_MixedLTRBase(t *testing.T) {
	// "abc XXX def" with an RTL middle: levels 0,1,0.
	text := []rune("abc אבג def")
	levels := levelsOf(0, 4, 1, 3, 0, 4)
	d := ComputeRuns(DirectionLTR, levels, text)

	if d.RunCount() != 3 {
		t.Fatalf("RunCount = %d, want 3", d.RunCount())
	}
	// LTR base: runs stay in logical order, middle is RTL.
	wantStarts := []int{0, 4, 7}
	wantLens := []int{4, 3, 4}
	wantRTL := []bool{false, true, false}
	for i := 0; i < 3; i++ {
		if d.RunStart(i) != wantStarts[i] || d.RunLength(i) != wantLens[i] || d.RunIsRTL(i) != wantRTL[i] {
			t.Errorf("run %d = (%d, %d, rtl=%v), want (%d, %d, rtl=%v)",
				i, d.RunStart(i), d.RunLength(i), d.RunIsRTL(i),
				wantStarts[i], wantLens[i], wantRTL[i])
		}
	}
}

func TestComputeRuns_RTLBaseEmbeddedLTR(t *testing.T) {
	// RTL paragraph with an embedded LTR word: levels 1,2,1. Runs at
	// the base level keep logical order; the table reads from the
	// leading (right) edge, so no reversal is needed here.
	text := []rune("אב ab גד")
	levels := levelsOf(1, 3, 2, 2, 1, 3)
	d := ComputeRuns(DirectionRTL, levels, text)

	if d.RunCount() != 3 {
		t.Fatalf("RunCount = %d, want 3", d.RunCount())
	}
	wantStarts := []int{0, 3, 5}
	wantRTL := []bool{true, false, true}
	for i := 0; i < 3; i++ {
		if d.RunStart(i) != wantStarts[i] || d.RunIsRTL(i) != wantRTL[i] {
			t.Errorf("run %d = (start %d, rtl=%v), want (start %d, rtl=%v)",
				i, d.RunStart(i), d.RunIsRTL(i), wantStarts[i], wantRTL[i])
		}
	}
}

func TestComputeRuns_ReordersAboveBaseLevel(t *testing.T) {
	// LTR paragraph whose lowest level is RTL: both runs reorder, so
	// the higher embedded level comes visually first.
	text := []rune("אבab")
	levels := levelsOf(1, 2, 2, 2)
	d := ComputeRuns(DirectionLTR, levels, text)

	if d.RunCount() != 2 {
		t.Fatalf("RunCount = %d, want 2", d.RunCount())
	}
	if d.RunStart(0) != 2 || d.RunIsRTL(0) {
		t.Errorf("run 0 = (start %d, rtl=%v), want (start 2, rtl=false)",
			d.RunStart(0), d.RunIsRTL(0))
	}
	if d.RunStart(1) != 0 || !d.RunIsRTL(1) {
		t.Errorf("run 1 = (start %d, rtl=%v), want (start 0, rtl=true)",
			d.RunStart(1), d.RunIsRTL(1))
	}
	if d.RunLevel(0) != 2 || d.RunLevel(1) != 1 {
		t.Errorf("levels = %d, %d, want 2, 1", d.RunLevel(0), d.RunLevel(1))
	}
}

func TestComputeRuns_TrailingWhitespaceTakesBaseDirection(t *testing.T) {
	// LTR paragraph ending in an RTL word plus spaces: the trailing
	// spaces split into their own base-direction run.
	text := []rune("ab אב  ")
	levels := levelsOf(0, 3, 1, 4)
	d := ComputeRuns(DirectionLTR, levels, text)

	if d.RunCount() != 3 {
		t.Fatalf("RunCount = %d, want 3", d.RunCount())
	}
	last := d.RunCount() - 1
	found := false
	for i := 0; i <= last; i++ {
		if d.RunStart(i) == 5 {
			found = true
			if d.RunIsRTL(i) {
				t.Error("trailing whitespace run should follow the base direction")
			}
			if d.RunLength(i) != 2 {
				t.Errorf("trailing run length = %d, want 2", d.RunLength(i))
			}
		}
	}
	if !found {
		t.Error("no run starts at the trailing whitespace")
	}
}

func TestRunTable_PartitionInvariant(t *testing.T) {
	text := []rune("abc אבג def")
	levels := levelsOf(0, 4, 1, 3, 0, 4)
	d := ComputeRuns(DirectionLTR, levels, text)

	covered := make([]bool, len(text))
	for i := 0; i < d.RunCount(); i++ {
		start := d.RunStart(i)
		end := min(start+d.RunLength(i), len(text))
		for j := start; j < end; j++ {
			if covered[j] {
				t.Fatalf("offset %d covered twice", j)
			}
			covered[j] = true
		}
	}
	for j, c := range covered {
		if !c {
			t.Errorf("offset %d not covered by any run", j)
		}
	}
}
