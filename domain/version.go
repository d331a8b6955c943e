package domain

import (
	"strconv"
	"strings"
)

// Version is a package version ordered by its numeric prefix: the maximal
// leading run of digits and dots. Anything after that run (pre-release tags,
// build metadata, arbitrary suffixes) carries no ordering weight. "1.2.3rc1"
// and "1.2.3" are therefore equal, and "" or "rc1" order as zero.
type Version struct {
	raw      string
	segments []int
}

// ParseVersion parses a raw version string. Parsing never fails: strings
// without a numeric prefix yield a version with no segments, which compares
// as all-zero.
func ParseVersion(raw string) Version {
	prefix := numericPrefix(raw)
	if prefix == "" {
		return Version{raw: raw}
	}

	parts := strings.Split(prefix, ".")
	segments := make([]int, 0, len(parts))
	for _, part := range parts {
		// Atoi on "" (from "1..2" or a trailing dot) yields an error; such
		// segments count as zero rather than poisoning the whole version.
		number, err := strconv.Atoi(part)
		if err != nil {
			number = 0
		}
		segments = append(segments, number)
	}

	return Version{raw: raw, segments: segments}
}

// numericPrefix returns the maximal leading run of digits and dots.
func numericPrefix(raw string) string {
	end := 0
	for end < len(raw) && (raw[end] == '.' || (raw[end] >= '0' && raw[end] <= '9')) {
		end++
	}
	return raw[:end]
}

// Compare orders two versions segment by segment, treating the shorter one as
// padded with zeros. It returns -1, 0 or 1.
func (v Version) Compare(other Version) int {
	length := len(v.segments)
	if len(other.segments) > length {
		length = len(other.segments)
	}

	for i := range length {
		left, right := 0, 0
		if i < len(v.segments) {
			left = v.segments[i]
		}
		if i < len(other.segments) {
			right = other.segments[i]
		}
		if left < right {
			return -1
		}
		if left > right {
			return 1
		}
	}

	return 0
}

// LessThan reports whether v orders strictly before other.
func (v Version) LessThan(other Version) bool { return v.Compare(other) < 0 }

// GreaterThan reports whether v orders strictly after other.
func (v Version) GreaterThan(other Version) bool { return v.Compare(other) > 0 }

// Equal reports whether the two versions order the same. Versions with
// different raw strings can still be equal ("1.0" vs "1.0.0").
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Major returns the leading numeric segment, or zero when none exists.
func (v Version) Major() int {
	if len(v.segments) == 0 {
		return 0
	}
	return v.segments[0]
}

// String returns the raw string the version was parsed from.
func (v Version) String() string { return v.raw }
