// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations — no mock frameworks.
package testdoubles

import (
	"context"
	"fmt"

	"github.com/rios0rios0/fleetpatch/domain"
)

// ---------------------------------------------------------------------------
// SpyProvider
// ---------------------------------------------------------------------------

// SpyProvider implements domain.Provider as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyProvider struct {
	// --- identity ---
	ProviderName string

	// --- DiscoverRepositories ---
	Repositories []domain.Repository
	DiscoverErr  error
	// spy: orgs that were requested
	DiscoveredOrgs []string

	// --- BranchExists ---
	ExistingBranches map[string]bool // branch -> exists
	BranchExistsErr  error
	// spy: branches that were checked
	CheckedBranches []string

	// --- PullRequestExists ---
	PRExistsResult bool
	PRExistsErr    error
	// spy: branch names checked
	PRExistsBranches []string

	// --- CreatePullRequest ---
	CreatedPR   *domain.PullRequest
	CreatePRErr error
	// spy: inputs received
	PRInputs []domain.PullRequestInput
}

var _ domain.Provider = (*SpyProvider)(nil)

func (p *SpyProvider) Name() string { return p.ProviderName }

func (p *SpyProvider) DiscoverRepositories(
	_ context.Context,
	org string,
) ([]domain.Repository, error) {
	p.DiscoveredOrgs = append(p.DiscoveredOrgs, org)
	return p.Repositories, p.DiscoverErr
}

func (p *SpyProvider) BranchExists(
	_ context.Context,
	_ domain.Repository,
	branch string,
) (bool, error) {
	p.CheckedBranches = append(p.CheckedBranches, branch)
	if p.BranchExistsErr != nil {
		return false, p.BranchExistsErr
	}
	if p.ExistingBranches != nil {
		return p.ExistingBranches[branch], nil
	}
	return false, nil
}

func (p *SpyProvider) PullRequestExists(
	_ context.Context,
	_ domain.Repository,
	branch string,
) (bool, error) {
	p.PRExistsBranches = append(p.PRExistsBranches, branch)
	return p.PRExistsResult, p.PRExistsErr
}

func (p *SpyProvider) CreatePullRequest(
	_ context.Context,
	_ domain.Repository,
	input domain.PullRequestInput,
) (*domain.PullRequest, error) {
	p.PRInputs = append(p.PRInputs, input)
	if p.CreatePRErr != nil {
		return nil, p.CreatePRErr
	}
	if p.CreatedPR != nil {
		return p.CreatedPR, nil
	}
	return &domain.PullRequest{
		ID:    1,
		Title: input.Title,
		URL:   "https://example.com/pr/1",
	}, nil
}

func (p *SpyProvider) CloneURL(repo domain.Repository) string {
	if repo.RemoteURL != "" {
		return repo.RemoteURL
	}
	return fmt.Sprintf(
		"https://example.com/%s/%s.git",
		repo.Organization, repo.Name,
	)
}

// ---------------------------------------------------------------------------
// SpyWorkingTree / SpyCheckoutService
// ---------------------------------------------------------------------------

// SpyWorkingTree implements domain.WorkingTree as an in-memory spy.
type SpyWorkingTree struct {
	// --- file contents ---
	Files map[string]string // name -> contents

	// --- errors to inject ---
	ReadErr   error
	WriteErr  error
	DiffErr   error
	BranchErr error
	PushErr   error

	// --- Diff ---
	DiffText string

	// spy: calls received
	Writes          map[string]string
	CreatedBranches []string
	Commits         []CommitCall
	Closed          bool
}

// CommitCall records a single invocation of CommitAndPush.
type CommitCall struct {
	Branch  string
	Message string
}

var _ domain.WorkingTree = (*SpyWorkingTree)(nil)

func (t *SpyWorkingTree) HasFile(name string) bool {
	_, ok := t.Files[name]
	return ok
}

func (t *SpyWorkingTree) ReadFile(name string) (string, error) {
	if t.ReadErr != nil {
		return "", t.ReadErr
	}
	if contents, ok := t.Files[name]; ok {
		return contents, nil
	}
	return "", fmt.Errorf("file not found: %s", name)
}

func (t *SpyWorkingTree) WriteFile(name, contents string) error {
	if t.WriteErr != nil {
		return t.WriteErr
	}
	if t.Writes == nil {
		t.Writes = make(map[string]string)
	}
	t.Writes[name] = contents
	if t.Files == nil {
		t.Files = make(map[string]string)
	}
	t.Files[name] = contents
	return nil
}

func (t *SpyWorkingTree) Diff() (string, error) {
	if t.DiffErr != nil {
		return "", t.DiffErr
	}
	return t.DiffText, nil
}

func (t *SpyWorkingTree) CreateBranch(name string) error {
	if t.BranchErr != nil {
		return t.BranchErr
	}
	t.CreatedBranches = append(t.CreatedBranches, name)
	return nil
}

func (t *SpyWorkingTree) CommitAndPush(_ context.Context, branch, message string) error {
	if t.PushErr != nil {
		return t.PushErr
	}
	t.Commits = append(t.Commits, CommitCall{Branch: branch, Message: message})
	return nil
}

func (t *SpyWorkingTree) Close() error {
	t.Closed = true
	return nil
}

// SpyCheckoutService implements domain.CheckoutService, handing out a
// pre-configured tree.
type SpyCheckoutService struct {
	Tree        *SpyWorkingTree
	CheckoutErr error

	// spy: branches that were checked out
	CheckedOutBranches []string
}

var _ domain.CheckoutService = (*SpyCheckoutService)(nil)

func (s *SpyCheckoutService) Checkout(
	_ context.Context,
	_ domain.Provider,
	_ domain.Repository,
	branch string,
) (domain.WorkingTree, error) {
	s.CheckedOutBranches = append(s.CheckedOutBranches, branch)
	if s.CheckoutErr != nil {
		return nil, s.CheckoutErr
	}
	return s.Tree, nil
}

// ---------------------------------------------------------------------------
// StubConfirmer
// ---------------------------------------------------------------------------

// StubConfirmer implements domain.Confirmer with a fixed answer.
type StubConfirmer struct {
	Approve    bool
	ConfirmErr error

	// spy: diffs shown
	Diffs []string
}

var _ domain.Confirmer = (*StubConfirmer)(nil)

func (c *StubConfirmer) Confirm(diff string) (bool, error) {
	c.Diffs = append(c.Diffs, diff)
	return c.Approve, c.ConfirmErr
}

// ---------------------------------------------------------------------------
// DummyProvider — satisfies the interface but does nothing (for compile checks)
// ---------------------------------------------------------------------------

// DummyProvider is a no-op implementation of domain.Provider.
// Use it only for interface compliance tests or as a placeholder.
type DummyProvider struct{}

var _ domain.Provider = (*DummyProvider)(nil)

func (d *DummyProvider) Name() string                        { return "dummy" }
func (d *DummyProvider) CloneURL(_ domain.Repository) string { return "" }

func (d *DummyProvider) DiscoverRepositories(
	_ context.Context,
	_ string,
) ([]domain.Repository, error) {
	return nil, nil
}

func (d *DummyProvider) BranchExists(
	_ context.Context,
	_ domain.Repository,
	_ string,
) (bool, error) {
	return false, nil
}

func (d *DummyProvider) PullRequestExists(
	_ context.Context,
	_ domain.Repository,
	_ string,
) (bool, error) {
	return false, nil
}

func (d *DummyProvider) CreatePullRequest(
	_ context.Context,
	_ domain.Repository,
	_ domain.PullRequestInput,
) (*domain.PullRequest, error) {
	return nil, nil //nolint:nilnil // dummy no-op
}
