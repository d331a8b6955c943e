package application

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/fleetpatch/domain"
)

// PatchService orchestrates the full fleet patch flow: discover the
// organization's repositories once, then run the workflow on each repository
// strictly sequentially. No repository's failure propagates to another.
type PatchService struct {
	provider  domain.Provider
	checkout  domain.CheckoutService
	confirmer domain.Confirmer
}

// NewPatchService creates a new service with the given collaborators.
func NewPatchService(
	provider domain.Provider,
	checkout domain.CheckoutService,
	confirmer domain.Confirmer,
) *PatchService {
	return &PatchService{
		provider:  provider,
		checkout:  checkout,
		confirmer: confirmer,
	}
}

// Run executes one patch run over every repository of the organization and
// returns the per-repository results in processing order. Zero discovered
// repositories is a clean no-op.
func (s *PatchService) Run(
	ctx context.Context,
	org string,
	targets []domain.PatchTarget,
	opts Options,
) ([]RepositoryResult, error) {
	logger.Infof("[service] Discovering repositories in %q...", org)

	repos, err := s.provider.DiscoverRepositories(ctx, org)
	if err != nil {
		return nil, err
	}

	logger.Infof("[service] Found %d repositories in %q", len(repos), org)
	if len(repos) == 0 {
		return nil, nil
	}

	workflow := NewWorkflow(s.provider, s.checkout, s.confirmer, opts)

	results := make([]RepositoryResult, 0, len(repos))
	updated, skipped, failed := 0, 0, 0

	for _, repo := range repos {
		result := workflow.Process(ctx, repo, targets)
		results = append(results, result)

		switch result.Outcome {
		case OutcomeUpdated, OutcomeDryRun:
			updated++
		case OutcomeFailed:
			failed++
		case OutcomeSkipped:
			skipped++
		}
	}

	logger.Infof(
		"[service] Run complete: %d repos processed, %d updated, %d skipped, %d failed",
		len(repos), updated, skipped, failed,
	)
	return results, nil
}
