package cmd

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/fleetpatch/domain"
	"github.com/rios0rios0/fleetpatch/infrastructure/provider"
	githubProv "github.com/rios0rios0/fleetpatch/infrastructure/provider/github"
	gitlabProv "github.com/rios0rios0/fleetpatch/infrastructure/provider/gitlab"
	"github.com/rios0rios0/fleetpatch/infrastructure/workspace"
)

// collaborators bundles the infrastructure the patch command needs.
type collaborators struct {
	registry *provider.Registry
	checkout domain.CheckoutService
}

func newProviderRegistry() *provider.Registry {
	reg := provider.NewRegistry()
	reg.Register("github", githubProv.New)
	reg.Register("gitlab", gitlabProv.New)
	return reg
}

// injectCollaborators wires the infrastructure layer through the DIG
// container.
func injectCollaborators() *collaborators {
	container := dig.New()

	if err := container.Provide(newProviderRegistry); err != nil {
		panic(err)
	}
	if err := container.Provide(workspace.NewGitCheckoutService); err != nil {
		panic(err)
	}

	var collab *collaborators
	if err := container.Invoke(func(reg *provider.Registry, checkout domain.CheckoutService) {
		collab = &collaborators{registry: reg, checkout: checkout}
	}); err != nil {
		panic(err)
	}

	return collab
}
