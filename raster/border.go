package raster

import (
	"fmt"
	"strings"
)

// Border selects how samples outside the raster are resolved when a
// neighborhood extends past an edge. One policy applies to a whole operation.
type Border uint8

const (
	// BorderClamp reuses the nearest in-bounds sample (edge extension).
	BorderClamp Border = iota

	// BorderReflect mirrors around the edge sample without repeating it:
	// for a row "abcd", index -1 maps to 'b' and index 4 maps to 'c'.
	BorderReflect

	// BorderWrap treats the raster as periodic.
	BorderWrap

	// BorderZero treats outside samples as 0.
	BorderZero
)

var borderNames = [...]string{
	BorderClamp:   "clamp",
	BorderReflect: "reflect",
	BorderWrap:    "wrap",
	BorderZero:    "zero",
}

// String returns the lower-case policy name.
func (b Border) String() string {
	if int(b) < len(borderNames) {
		return borderNames[b]
	}
	return fmt.Sprintf("Border(%d)", uint8(b))
}

// IsValid reports whether b is a known policy.
func (b Border) IsValid() bool {
	return int(b) < len(borderNames)
}

// ParseBorder converts a policy name (case-insensitive) to a Border.
func ParseBorder(s string) (Border, error) {
	for i, name := range borderNames {
		if strings.EqualFold(s, name) {
			return Border(i), nil
		}
	}
	return BorderClamp, fmt.Errorf("raster: unknown border policy %q", s)
}

// Index maps coordinate i on an axis of length n to an in-range
// coordinate. It returns -1 when the sample is outside and the policy is
// BorderZero.
func (b Border) Index(i, n int) int {
	if i >= 0 && i < n {
		return i
	}
	switch b {
	case BorderReflect:
		if n == 1 {
			return 0
		}
		period := 2 * (n - 1)
		i %= period
		if i < 0 {
			i += period
		}
		if i >= n {
			i = period - i
		}
		return i
	case BorderWrap:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	case BorderZero:
		return -1
	default:
		if i < 0 {
			return 0
		}
		return n - 1
	}
}

// Axis precomputes Index for coordinates -radius .. n+radius-1.
// Entry k corresponds to coordinate k-radius.
func (b Border) Axis(n, radius int) []int {
	axis := make([]int, n+2*radius)
	for k := range axis {
		axis[k] = b.Index(k-radius, n)
	}
	return axis
}
