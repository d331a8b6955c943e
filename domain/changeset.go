package domain

import (
	"fmt"
	"strings"
	"time"
)

const branchTimestampLayout = "20060102-150405"

// Change records one verified pin rewrite: packageName from -> to.
type Change struct {
	Name string
	From string
	To   string
}

// ChangeSet accumulates the verified rewrites for one repository, in the
// order the packages were declared in the work list. It is created fresh per
// repository and consumed exactly once to build the commit message and, when
// proposing, the pull request.
type ChangeSet struct {
	changes []Change
}

// Append records a verified rewrite.
func (cs *ChangeSet) Append(change Change) {
	cs.changes = append(cs.changes, change)
}

// Empty reports whether no package produced a verified rewrite.
func (cs *ChangeSet) Empty() bool { return len(cs.changes) == 0 }

// Changes returns the recorded rewrites in declaration order.
func (cs *ChangeSet) Changes() []Change { return cs.changes }

// CommitMessage builds the deterministic commit message for the set.
func (cs *ChangeSet) CommitMessage() string {
	if len(cs.changes) == 1 {
		return fmt.Sprintf("Update %s to %s", cs.changes[0].Name, cs.changes[0].To)
	}

	names := make([]string, 0, len(cs.changes))
	for _, change := range cs.changes {
		names = append(names, change.Name)
	}
	return "Update multiple packages: " + strings.Join(names, ", ")
}

// BranchName builds the deterministic feature branch name used by the
// propose strategy. Multi-package sets get a timestamp suffix so repeated
// runs do not collide.
func (cs *ChangeSet) BranchName(now time.Time) string {
	if len(cs.changes) == 1 {
		return fmt.Sprintf("update-%s-to-%s", cs.changes[0].Name, cs.changes[0].To)
	}
	return "update-multiple-packages-" + now.UTC().Format(branchTimestampLayout)
}

// PullRequestBody enumerates every change as "name: from->to", one per line.
func (cs *ChangeSet) PullRequestBody() string {
	var sb strings.Builder
	sb.WriteString("This pull request updates the following package pins:\n\n")
	for _, change := range cs.changes {
		from := change.From
		if from == "" {
			from = "(unpinned)"
		}
		sb.WriteString(fmt.Sprintf("- %s: %s->%s\n", change.Name, from, change.To))
	}
	return sb.String()
}
