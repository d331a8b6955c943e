package domain

// QualificationResult is the verdict for one (manifest entry, patch target,
// policy) combination.
type QualificationResult int

const (
	// Qualified means the current pin should be rewritten to the target.
	Qualified QualificationResult = iota
	// AlreadyAtTarget means the pin is already at (or, in minimum-as-target
	// mode, above) the rewrite destination. Never rewritten.
	AlreadyAtTarget
	// BelowMinimum means the current pin is below the qualifying floor.
	BelowMinimum
	// MajorMismatch means the current pin's leading segment differs from the
	// gate version's leading segment while major matching is required.
	MajorMismatch
	// EntryNotFound means the package has no pin line in the manifest.
	EntryNotFound
)

// String returns a short log-friendly label.
func (r QualificationResult) String() string {
	switch r {
	case Qualified:
		return "qualified"
	case AlreadyAtTarget:
		return "already at target"
	case BelowMinimum:
		return "below minimum"
	case MajorMismatch:
		return "major version mismatch"
	case EntryNotFound:
		return "entry not found"
	default:
		return "unknown"
	}
}

// QualifyTarget decides whether current should be rewritten to an explicitly
// supplied target version. minimum, when non-nil, is a qualifying floor:
// pins below it are left alone. This is the mode used by both single-package
// and batch runs.
//
// Decision order, first match wins:
//  1. current == target        -> AlreadyAtTarget
//  2. current < minimum        -> BelowMinimum (only when minimum is set)
//  3. major segment differs    -> MajorMismatch (only when required; the
//     gate is the minimum when set, otherwise the target)
//  4. otherwise                -> Qualified
func QualifyTarget(current, target Version, minimum *Version, requireMajorMatch bool) QualificationResult {
	if current.Equal(target) {
		return AlreadyAtTarget
	}
	if minimum != nil && current.LessThan(*minimum) {
		return BelowMinimum
	}
	if requireMajorMatch {
		gate := target
		if minimum != nil {
			gate = *minimum
		}
		if current.Major() != gate.Major() {
			return MajorMismatch
		}
	}
	return Qualified
}

// QualifyToMinimum decides qualification when no explicit target exists and
// the minimum version itself is the rewrite destination. Only pins strictly
// below the minimum qualify; pins at or above it are reported as
// AlreadyAtTarget. The major-match gate compares against the minimum's
// leading segment.
func QualifyToMinimum(current, minimum Version, requireMajorMatch bool) QualificationResult {
	if !current.LessThan(minimum) {
		return AlreadyAtTarget
	}
	if requireMajorMatch && current.Major() != minimum.Major() {
		return MajorMismatch
	}
	return Qualified
}
