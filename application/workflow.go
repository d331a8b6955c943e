package application

import (
	"context"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetpatch/domain"
)

const (
	// directBranch is the working branch required by the direct strategy.
	directBranch = "dev"
	// proposeBranch is the base branch required by the propose strategy.
	proposeBranch = "main"
)

// PolicyConfig holds the qualification policy for a run. It is immutable
// after construction and shared read-only by every repository task.
type PolicyConfig struct {
	// Minimum is the optional qualifying floor in target-version mode, and
	// the rewrite destination in minimum-as-target mode.
	Minimum *domain.Version
	// RequireMajorMatch rejects pins whose leading segment differs from the
	// gate version's leading segment.
	RequireMajorMatch bool
	// MinimumIsTarget selects minimum-as-target mode: no explicit target was
	// supplied and only pins strictly below the minimum qualify.
	MinimumIsTarget bool
}

// Options is the immutable per-run workflow configuration.
type Options struct {
	Strategy     domain.Strategy
	ManifestPath string
	DryRun       bool
	Policy       PolicyConfig
}

// Outcome classifies how a repository's processing ended.
type Outcome int

const (
	// OutcomeUpdated means the change set was durably landed.
	OutcomeUpdated Outcome = iota
	// OutcomeSkipped means a precondition or the approval gate ended
	// processing with the repository untouched (or edits uncommitted).
	OutcomeSkipped
	// OutcomeFailed means a checkout, network or publish operation failed.
	OutcomeFailed
	// OutcomeDryRun means qualifying changes were found but not applied.
	OutcomeDryRun
)

// String returns a short label for run summaries.
func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	case OutcomeDryRun:
		return "dry-run"
	default:
		return "unknown"
	}
}

// RepositoryResult is the per-repository verdict surfaced to the operator.
type RepositoryResult struct {
	Repository  domain.Repository
	Outcome     Outcome
	Reason      string
	Changes     []domain.Change
	PullRequest *domain.PullRequest
	Err         error
}

// Workflow runs the per-repository patch state machine:
//
//	Discovered -> BranchSelected -> ManifestPresent -> [per-package loop]
//	  -> ChangeSetNonEmpty -> Approved -> Committed -> Published
//
// Every gate may end processing of that repository without affecting any
// other repository.
type Workflow struct {
	provider  domain.Provider
	checkout  domain.CheckoutService
	confirmer domain.Confirmer
	opts      Options
	now       func() time.Time
}

// NewWorkflow creates a workflow with the given collaborators and run options.
func NewWorkflow(
	provider domain.Provider,
	checkout domain.CheckoutService,
	confirmer domain.Confirmer,
	opts Options,
) *Workflow {
	return &Workflow{
		provider:  provider,
		checkout:  checkout,
		confirmer: confirmer,
		opts:      opts,
		now:       time.Now,
	}
}

// Process runs the state machine for one repository against the loaded work
// list. It never panics across repositories: every failure is captured in
// the result.
func (w *Workflow) Process(ctx context.Context, repo domain.Repository, targets []domain.PatchTarget) RepositoryResult {
	result := RepositoryResult{Repository: repo}

	plan := w.resolvePlan()

	exists, err := w.provider.BranchExists(ctx, repo, plan.WorkingBranch)
	if err != nil {
		return w.failed(result, fmt.Errorf("branch lookup for %q failed: %w", plan.WorkingBranch, err))
	}
	if !exists {
		return w.skipped(result, fmt.Sprintf("branch %q not found", plan.WorkingBranch))
	}

	tree, err := w.checkout.Checkout(ctx, w.provider, repo, plan.WorkingBranch)
	if err != nil {
		return w.failed(result, fmt.Errorf("checkout of %q failed: %w", plan.WorkingBranch, err))
	}
	defer func() {
		if closeErr := tree.Close(); closeErr != nil {
			logger.Warnf("[workflow] %s: failed to release workspace: %v", repo.FullName(), closeErr)
		}
	}()

	if !tree.HasFile(w.opts.ManifestPath) {
		return w.skipped(result, fmt.Sprintf("manifest %q not present", w.opts.ManifestPath))
	}

	body, err := tree.ReadFile(w.opts.ManifestPath)
	if err != nil {
		return w.failed(result, fmt.Errorf("failed to read manifest: %w", err))
	}

	changeSet := &domain.ChangeSet{}
	body = w.applyTargets(repo, body, targets, changeSet)

	if changeSet.Empty() {
		return w.skipped(result, "no qualifying packages")
	}
	result.Changes = changeSet.Changes()

	if w.opts.DryRun {
		logger.Infof("[workflow] [DRY RUN] %s: would commit %q", repo.FullName(), changeSet.CommitMessage())
		result.Outcome = OutcomeDryRun
		return result
	}

	if err = tree.WriteFile(w.opts.ManifestPath, body); err != nil {
		return w.failed(result, fmt.Errorf("failed to write manifest: %w", err))
	}

	diff, err := tree.Diff()
	if err != nil {
		return w.failed(result, fmt.Errorf("failed to render diff: %w", err))
	}

	approved, err := w.confirmer.Confirm(diff)
	if err != nil {
		return w.failed(result, fmt.Errorf("confirmation failed: %w", err))
	}
	if !approved {
		// The workspace owns the edits; Close discards them.
		return w.skipped(result, "change rejected by operator")
	}

	return w.publish(ctx, repo, tree, plan, changeSet, result)
}

// applyTargets runs the per-package qualification and rewrite loop, mutating
// the manifest body in memory and recording verified rewrites. Per-package
// problems are logged skips; the loop always continues.
func (w *Workflow) applyTargets(
	repo domain.Repository,
	body string,
	targets []domain.PatchTarget,
	changeSet *domain.ChangeSet,
) string {
	for _, target := range targets {
		entry, found := domain.FindEntry(body, target.Name)
		if !found {
			logger.Infof("[workflow] %s: %s: %s", repo.FullName(), target.Name, domain.EntryNotFound)
			continue
		}

		verdict := w.qualify(entry, target)
		if verdict != domain.Qualified {
			logger.Infof("[workflow] %s: %s %s: %s", repo.FullName(), target.Name, entry.CurrentVersion, verdict)
			continue
		}

		rewritten, err := domain.Rewrite(body, target.Name, target.TargetVersion)
		if err != nil {
			logger.Warnf("[workflow] %s: %s: %v, skipping package", repo.FullName(), target.Name, err)
			continue
		}

		body = rewritten
		changeSet.Append(domain.Change{
			Name: target.Name,
			From: entry.CurrentVersion,
			To:   target.TargetVersion,
		})
		logger.Infof("[workflow] %s: %s %s -> %s", repo.FullName(), target.Name, entry.CurrentVersion, target.TargetVersion)
	}
	return body
}

func (w *Workflow) qualify(entry domain.ManifestEntry, target domain.PatchTarget) domain.QualificationResult {
	current := domain.ParseVersion(entry.CurrentVersion)

	if w.opts.Policy.MinimumIsTarget && w.opts.Policy.Minimum != nil {
		return domain.QualifyToMinimum(current, *w.opts.Policy.Minimum, w.opts.Policy.RequireMajorMatch)
	}

	return domain.QualifyTarget(
		current,
		domain.ParseVersion(target.TargetVersion),
		w.opts.Policy.Minimum,
		w.opts.Policy.RequireMajorMatch,
	)
}

// publish lands the change set according to the resolved plan. Failures here
// are repository-level: local edits or commits may exist but the change is
// not considered landed.
func (w *Workflow) publish(
	ctx context.Context,
	repo domain.Repository,
	tree domain.WorkingTree,
	plan domain.PublishPlan,
	changeSet *domain.ChangeSet,
	result RepositoryResult,
) RepositoryResult {
	message := changeSet.CommitMessage()
	pushBranch := plan.WorkingBranch

	if plan.Strategy == domain.StrategyPropose {
		plan.FeatureBranch = changeSet.BranchName(w.now())
		pushBranch = plan.FeatureBranch

		open, err := w.provider.PullRequestExists(ctx, repo, plan.FeatureBranch)
		if err != nil {
			logger.Warnf("[workflow] %s: failed to check existing pull requests: %v", repo.FullName(), err)
		}
		if open {
			return w.skipped(result, fmt.Sprintf("pull request already open for branch %q", plan.FeatureBranch))
		}

		if err = tree.CreateBranch(plan.FeatureBranch); err != nil {
			return w.failed(result, fmt.Errorf("failed to create branch %q: %w", plan.FeatureBranch, err))
		}
	}

	if err := tree.CommitAndPush(ctx, pushBranch, message); err != nil {
		return w.failed(result, fmt.Errorf("failed to push %q: %w", pushBranch, err))
	}

	if plan.Strategy == domain.StrategyPropose {
		pr, err := w.provider.CreatePullRequest(ctx, repo, domain.PullRequestInput{
			SourceBranch: plan.FeatureBranch,
			TargetBranch: plan.WorkingBranch,
			Title:        message,
			Description:  changeSet.PullRequestBody(),
		})
		if err != nil {
			return w.failed(result, fmt.Errorf("failed to create pull request: %w", err))
		}
		result.PullRequest = pr
		logger.Infof("[workflow] %s: created PR #%d: %s", repo.FullName(), pr.ID, pr.URL)
	} else {
		logger.Infof("[workflow] %s: pushed %q to %s", repo.FullName(), message, pushBranch)
	}

	result.Outcome = OutcomeUpdated
	return result
}

func (w *Workflow) resolvePlan() domain.PublishPlan {
	plan := domain.PublishPlan{Strategy: w.opts.Strategy, WorkingBranch: directBranch}
	if w.opts.Strategy == domain.StrategyPropose {
		plan.WorkingBranch = proposeBranch
	}
	return plan
}

func (w *Workflow) skipped(result RepositoryResult, reason string) RepositoryResult {
	logger.Infof("[workflow] %s: skipped: %s", result.Repository.FullName(), reason)
	result.Outcome = OutcomeSkipped
	result.Reason = reason
	return result
}

func (w *Workflow) failed(result RepositoryResult, err error) RepositoryResult {
	logger.Errorf("[workflow] %s: %v", result.Repository.FullName(), err)
	result.Outcome = OutcomeFailed
	result.Err = err
	result.Reason = err.Error()
	return result
}
