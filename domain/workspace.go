package domain

import "context"

// WorkingTree is a checked-out repository branch that the workflow can read,
// edit, commit and push. Close releases the underlying workspace on every
// exit path, whether the repository was published, skipped or failed.
type WorkingTree interface {
	// HasFile reports whether the named file exists in the tree.
	HasFile(name string) bool

	// ReadFile returns the contents of the named file.
	ReadFile(name string) (string, error)

	// WriteFile replaces the contents of the named file.
	WriteFile(name, contents string) error

	// Diff renders a human-readable unified diff of every edit made so far.
	Diff() (string, error)

	// CreateBranch creates and switches to a new local branch.
	CreateBranch(name string) error

	// CommitAndPush stages the edits, commits them with the given message and
	// pushes the named branch to the remote.
	CommitAndPush(ctx context.Context, branch, message string) error

	// Close discards the workspace.
	Close() error
}

// CheckoutService produces working trees for repository branches.
type CheckoutService interface {
	Checkout(ctx context.Context, provider Provider, repo Repository, branch string) (WorkingTree, error)
}

// Confirmer is the approval capability consulted before a change set is
// committed. It is satisfied by a human-interactive adapter or an
// always-true auto-approve adapter; the workflow is identical in both cases.
type Confirmer interface {
	Confirm(diff string) (bool, error)
}
