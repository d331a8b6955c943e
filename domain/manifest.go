package domain

import (
	"errors"
	"strings"
)

// ErrRewriteVerification indicates that a manifest rewrite did not survive
// re-scanning: the package was not pinned to exactly the requested version
// with an exact-equality operator afterwards. Callers treat it as a
// per-package skip, not a process abort.
var ErrRewriteVerification = errors.New("manifest rewrite failed verification")

// FindEntry scans a line-oriented manifest for the pin line of the named
// package. A line qualifies only when, trimmed of leading whitespace, it
// starts with the literal package name followed by nothing, whitespace, or
// an equality operator ("=" / "=="). A name that is merely a prefix of a
// longer identifier on the line ("requests" vs "requests-toolbelt") never
// matches.
func FindEntry(manifest, name string) (ManifestEntry, bool) {
	if name == "" {
		return ManifestEntry{}, false
	}

	for i, rawLine := range strings.Split(manifest, "\n") {
		line := strings.TrimRight(rawLine, "\r")
		trimmed := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(trimmed, name) {
			continue
		}

		rest := trimmed[len(name):]
		operator, version, ok := parsePinExpression(rest)
		if !ok {
			continue
		}

		return ManifestEntry{
			Name:           name,
			Operator:       operator,
			CurrentVersion: version,
			Line:           i,
		}, true
	}

	return ManifestEntry{}, false
}

// parsePinExpression parses what follows the package name on a matched line.
// Only exact-equality forms are accepted; anything else (range operators,
// a longer identifier) disqualifies the line.
func parsePinExpression(rest string) (operator, version string, ok bool) {
	if rest == "" {
		return "", "", true // present but unpinned
	}

	// The name must be followed by whitespace or an operator; anything else
	// means it continues into a longer identifier ("requests-toolbelt").
	if first := rest[0]; first != ' ' && first != '\t' && first != '=' {
		return "", "", false
	}

	trimmed := strings.TrimLeft(rest, " \t")
	if trimmed == "" {
		return "", "", true
	}

	switch {
	case strings.HasPrefix(trimmed, "=="):
		return "==", strings.TrimSpace(trimmed[2:]), true
	case strings.HasPrefix(trimmed, "="):
		return "=", strings.TrimSpace(trimmed[1:]), true
	default:
		return "", "", false
	}
}

// Rewrite replaces the version expression of the named package's pin line
// with "name==newVersion", preserving every other line, their order and the
// original line endings. The rewritten body is re-scanned before being
// returned; a pin that does not read back as exactly newVersion under "=="
// yields ErrRewriteVerification.
func Rewrite(manifest, name, newVersion string) (string, error) {
	entry, found := FindEntry(manifest, name)
	if !found {
		return "", ErrRewriteVerification
	}

	lines := strings.Split(manifest, "\n")
	original := lines[entry.Line]

	suffix := ""
	if strings.HasSuffix(original, "\r") {
		suffix = "\r"
	}
	lines[entry.Line] = name + "==" + newVersion + suffix

	rewritten := strings.Join(lines, "\n")

	check, ok := FindEntry(rewritten, name)
	if !ok || check.Operator != "==" || check.CurrentVersion != newVersion {
		return "", ErrRewriteVerification
	}

	return rewritten, nil
}
