// Package workspace provides go-git backed working trees. Each checkout is a
// shallow single-branch clone into a private temporary directory that is
// removed when the tree is closed, on every exit path.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aymanbagabas/go-udiff"
	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetpatch/domain"
)

const (
	cloneDepth  = 1
	commitName  = "fleetpatch[bot]"
	commitEmail = "fleetpatch[bot]@users.noreply.github.com"
)

// GitCheckoutService implements domain.CheckoutService with go-git clones.
type GitCheckoutService struct{}

// NewGitCheckoutService creates the go-git backed checkout service.
func NewGitCheckoutService() domain.CheckoutService {
	return &GitCheckoutService{}
}

// Checkout clones the repository branch into a fresh temporary directory.
func (s *GitCheckoutService) Checkout(
	ctx context.Context,
	provider domain.Provider,
	repo domain.Repository,
	branch string,
) (domain.WorkingTree, error) {
	dir, err := os.MkdirTemp("", "fleetpatch-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace dir: %w", err)
	}

	logger.Debugf("[workspace] Cloning %s (%s) into %s", repo.FullName(), branch, dir)

	gitRepo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           provider.CloneURL(repo),
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Depth:         cloneDepth,
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to clone %s: %w", repo.FullName(), err)
	}

	return &gitWorkingTree{
		dir:       dir,
		repo:      gitRepo,
		originals: make(map[string]string),
	}, nil
}

// gitWorkingTree is one checked-out branch. It remembers the original
// contents of every edited file so Diff can render what changed without
// consulting git object storage.
type gitWorkingTree struct {
	dir       string
	repo      *git.Repository
	originals map[string]string
	edited    []string
}

var _ domain.WorkingTree = (*gitWorkingTree)(nil)

func (t *gitWorkingTree) HasFile(name string) bool {
	info, err := os.Stat(filepath.Join(t.dir, filepath.FromSlash(name)))
	return err == nil && !info.IsDir()
}

func (t *gitWorkingTree) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(t.dir, filepath.FromSlash(name)))
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", name, err)
	}
	return string(data), nil
}

func (t *gitWorkingTree) WriteFile(name, contents string) error {
	path := filepath.Join(t.dir, filepath.FromSlash(name))

	if _, tracked := t.originals[name]; !tracked {
		original, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read %q before edit: %w", name, err)
		}
		t.originals[name] = string(original)
		t.edited = append(t.edited, name)
	}

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", name, err)
	}
	return nil
}

// Diff renders a unified diff per edited file, in edit order.
func (t *gitWorkingTree) Diff() (string, error) {
	var sb strings.Builder
	for _, name := range t.edited {
		current, err := t.ReadFile(name)
		if err != nil {
			return "", err
		}
		sb.WriteString(udiff.Unified(name, name, t.originals[name], current))
	}
	return sb.String(), nil
}

func (t *gitWorkingTree) CreateBranch(name string) error {
	worktree, err := t.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	err = worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
		Keep:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to create branch %q: %w", name, err)
	}
	return nil
}

func (t *gitWorkingTree) CommitAndPush(ctx context.Context, branch, message string) error {
	worktree, err := t.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	for _, name := range t.edited {
		if _, addErr := worktree.Add(filepath.FromSlash(name)); addErr != nil {
			return fmt.Errorf("failed to stage %q: %w", name, addErr)
		}
	}

	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  commitName,
			Email: commitEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	refSpec := gitconfig.RefSpec(
		fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch),
	)
	err = t.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{refSpec},
	})
	if err != nil {
		return fmt.Errorf("failed to push %q: %w", branch, err)
	}
	return nil
}

// Close removes the workspace directory.
func (t *gitWorkingTree) Close() error {
	return os.RemoveAll(t.dir)
}
