package domain

import (
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
)

// minNameLength guards against over-broad matches: a one-character package
// name would match far too many manifest lines.
const minNameLength = 2

// ErrNoValidEntries indicates a batch file that yielded zero usable
// (name, version) pairs after filtering comments, blanks and malformed lines.
var ErrNoValidEntries = errors.New("package list contains no valid entries")

// LoadSingle builds the one-element work list for single-package mode.
func LoadSingle(name, targetVersion string) ([]PatchTarget, error) {
	name = strings.TrimSpace(name)
	targetVersion = strings.TrimSpace(targetVersion)

	if len(name) < minNameLength {
		return nil, fmt.Errorf("package name %q is too short (minimum %d characters)", name, minNameLength)
	}
	if targetVersion == "" {
		return nil, errors.New("target version must not be empty")
	}

	return []PatchTarget{{Name: name, TargetVersion: targetVersion}}, nil
}

// LoadBatch parses a declarative package list. One "name, version" pair per
// line; blank lines and lines whose first non-whitespace character is '#'
// are ignored; only the first comma delimits. Malformed candidates are
// dropped with a warning. Zero surviving candidates is ErrNoValidEntries.
func LoadBatch(contents string) ([]PatchTarget, error) {
	var targets []PatchTarget

	for i, rawLine := range strings.Split(contents, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, version, found := strings.Cut(line, ",")
		if !found {
			logger.Warnf("[packages] Line %d: no comma delimiter, skipping: %q", i+1, line)
			continue
		}

		name = strings.TrimSpace(name)
		version = strings.TrimSpace(version)
		if len(name) < minNameLength || version == "" {
			logger.Warnf("[packages] Line %d: invalid entry, skipping: %q", i+1, line)
			continue
		}

		targets = append(targets, PatchTarget{Name: name, TargetVersion: version})
	}

	if len(targets) == 0 {
		return nil, ErrNoValidEntries
	}
	return targets, nil
}
