package cmd

import (
	"fmt"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/fleetpatch/application"
	"github.com/rios0rios0/fleetpatch/config"
	"github.com/rios0rios0/fleetpatch/domain"
	"github.com/rios0rios0/fleetpatch/infrastructure/confirm"
)

var (
	organization      string
	providerType      string
	token             string
	packageName       string
	targetVersion     string
	minVersion        string
	requireMajorMatch bool
	packagesFile      string
	strategyFlag      string
	manifestPath      string
	autoApprove       bool
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Patch a pinned dependency across every repository of an organization",
	Long: `Discover the organization's repositories and, for each one, rewrite the
target package's version pin in the manifest when it qualifies under the
versioning policy.

Single-package mode pins one package to --version (optionally gated by
--min-version as a qualifying floor). When --version is omitted and only
--min-version is given, the minimum itself becomes the rewrite target and
only pins strictly below it are updated. Batch mode (--packages-file) reads a
"name, version" list with #-comment lines.`,
	RunE: runPatch,
}

func init() {
	patchCmd.Flags().StringVarP(&organization, "org", "o", "", "Organization or group to patch (required)")
	patchCmd.Flags().StringVar(&providerType, "provider", "github", "Git hosting provider (github, gitlab)")
	patchCmd.Flags().StringVar(&token, "token", "", "Auth token (overrides config file and env vars)")
	patchCmd.Flags().StringVarP(&packageName, "package", "p", "", "Package to patch (single-package mode)")
	patchCmd.Flags().StringVar(&targetVersion, "version", "", "Target version to pin (single-package mode)")
	patchCmd.Flags().StringVar(&minVersion, "min-version", "", "Qualifying floor, or the rewrite target when --version is omitted")
	patchCmd.Flags().BoolVar(&requireMajorMatch, "require-major-match", false, "Skip pins whose major version differs from the gate version")
	patchCmd.Flags().StringVar(&packagesFile, "packages-file", "", "Path to a \"name, version\" list file (batch mode)")
	patchCmd.Flags().StringVar(&strategyFlag, "strategy", "propose", "Landing strategy: direct (push to dev) or propose (PR against main)")
	patchCmd.Flags().StringVar(&manifestPath, "manifest", "requirements.txt", "Manifest file to patch in each repository")
	patchCmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Apply changes without interactive confirmation")
	_ = patchCmd.MarkFlagRequired("org")
	rootCmd.AddCommand(patchCmd)
}

func runPatch(cmd *cobra.Command, _ []string) error {
	if verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	applyConfigDefaults(cfg, cmd.Flags())

	opts, targets, err := buildRun()
	if err != nil {
		return err
	}

	resolvedToken, err := resolveProviderToken(cfg)
	if err != nil {
		return err
	}

	collab := injectCollaborators()
	prov, err := collab.registry.Get(providerType, resolvedToken)
	if err != nil {
		return err
	}

	var confirmer domain.Confirmer = confirm.NewInteractive()
	if autoApprove {
		confirmer = confirm.NewAutoApprove()
	}

	service := application.NewPatchService(prov, collab.checkout, confirmer)

	results, err := service.Run(cmd.Context(), organization, targets, opts)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	renderSummary(results)
	return nil
}

// buildRun validates the mutually exclusive modes and assembles the
// immutable run configuration and the work list. Every problem here is a
// fatal configuration error, reported before any repository is touched.
func buildRun() (application.Options, []domain.PatchTarget, error) {
	var opts application.Options

	strategy := domain.Strategy(strategyFlag)
	if !strategy.Valid() {
		return opts, nil, fmt.Errorf("invalid strategy %q (expected %q or %q)",
			strategyFlag, domain.StrategyDirect, domain.StrategyPropose)
	}

	singleMode := packageName != ""
	batchMode := packagesFile != ""
	switch {
	case singleMode && batchMode:
		return opts, nil, fmt.Errorf("--package and --packages-file are mutually exclusive")
	case !singleMode && !batchMode:
		return opts, nil, fmt.Errorf("either --package or --packages-file is required")
	case batchMode && targetVersion != "":
		return opts, nil, fmt.Errorf("--version is only valid with --package; batch entries carry their own versions")
	case singleMode && targetVersion == "" && minVersion == "":
		return opts, nil, fmt.Errorf("--package requires --version, --min-version, or both")
	}

	policy := application.PolicyConfig{RequireMajorMatch: requireMajorMatch}
	if minVersion != "" {
		minimum := domain.ParseVersion(minVersion)
		policy.Minimum = &minimum
	}

	var targets []domain.PatchTarget
	var err error

	switch {
	case batchMode:
		data, readErr := os.ReadFile(packagesFile)
		if readErr != nil {
			return opts, nil, fmt.Errorf("failed to read packages file: %w", readErr)
		}
		targets, err = domain.LoadBatch(string(data))
	case targetVersion != "":
		targets, err = domain.LoadSingle(packageName, targetVersion)
	default:
		// Minimum-as-target mode: the floor is also the destination.
		policy.MinimumIsTarget = true
		targets, err = domain.LoadSingle(packageName, minVersion)
	}
	if err != nil {
		return opts, nil, err
	}

	for _, target := range targets {
		warnNonSemver(target.TargetVersion)
	}

	opts = application.Options{
		Strategy:     strategy,
		ManifestPath: manifestPath,
		DryRun:       dryRun,
		Policy:       policy,
	}
	return opts, targets, nil
}

// loadRunConfig loads the config file named by --config, or the first one
// found in the standard locations. A missing file is not an error; a file
// that exists but does not parse is.
func loadRunConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		found, err := config.FindConfigFile()
		if err != nil {
			return nil, nil //nolint:nilnil // running without a config file is supported
		}
		path = found
	}
	return config.Load(path)
}

// applyConfigDefaults fills run flags the operator left untouched from the
// config file's defaults section. Explicit flags always win.
func applyConfigDefaults(cfg *config.Config, flags *pflag.FlagSet) {
	if cfg == nil {
		return
	}
	if !flags.Changed("manifest") && cfg.Defaults.Manifest != "" {
		manifestPath = cfg.Defaults.Manifest
	}
	if !flags.Changed("strategy") && cfg.Defaults.Strategy != "" {
		strategyFlag = cfg.Defaults.Strategy
	}
}

// resolveProviderToken picks the auth token: the --token flag wins, then the
// config file, then the provider's conventional environment variable.
func resolveProviderToken(cfg *config.Config) (string, error) {
	if token != "" {
		return token, nil
	}

	if cfg != nil {
		if configured := cfg.Token(providerType); configured != "" {
			return configured, nil
		}
	}

	envVar := strings.ToUpper(providerType) + "_TOKEN"
	if fromEnv := os.Getenv(envVar); fromEnv != "" {
		return fromEnv, nil
	}

	return "", fmt.Errorf("no auth token for provider %q (set --token, a config file, or %s)", providerType, envVar)
}

// warnNonSemver flags target versions that are not canonical semantic
// versions. They are still processed — ordering only looks at the numeric
// prefix — but a typo here would rewrite the whole fleet.
func warnNonSemver(version string) {
	normalized := version
	if !strings.HasPrefix(normalized, "v") {
		normalized = "v" + normalized
	}
	if !semver.IsValid(normalized) {
		logger.Warnf("Target version %q is not a canonical semantic version", version)
	}
}
