package textlayout

import (
	"errors"
	"fmt"
)

// Sentinel errors for builder misuse.
var (
	// ErrIncompleteCoverage is returned by Builder.Build when the added
	// runs do not cover the whole text buffer.
	ErrIncompleteCoverage = errors.New("textlayout: runs do not cover the text")

	// ErrAlreadyBuilt is returned by Builder.Build when the builder has
	// already produced its MeasuredText.
	ErrAlreadyBuilt = errors.New("textlayout: builder can not be reused")
)

// RangeError reports a [Start, End) range that is malformed or out of
// bounds for a buffer of length Length. Ranges are never silently
// clamped; callers are expected to fix the bug at the call site.
type RangeError struct {
	Start, End int
	Length     int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("textlayout: range [%d, %d) out of bounds for length %d",
		e.Start, e.End, e.Length)
}

// checkRange validates [start, end) against a buffer of length n.
func checkRange(start, end, n int) error {
	if start < 0 || start > end || end > n {
		return &RangeError{Start: start, End: end, Length: n}
	}
	return nil
}
