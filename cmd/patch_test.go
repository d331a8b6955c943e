package cmd //nolint:testpackage // tests unexported flag resolution

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/fleetpatch/config"
)

func newRunFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("patch", pflag.ContinueOnError)
	flags.String("manifest", "requirements.txt", "")
	flags.String("strategy", "propose", "")
	return flags
}

//nolint:paralleltest // subtests mutate package-level flag state
func TestApplyConfigDefaults(t *testing.T) {
	restore := func(manifest, strategy string) {
		manifestPath = manifest
		strategyFlag = strategy
	}

	t.Run("should take manifest and strategy from the config file when flags are untouched", func(t *testing.T) {
		// given
		defer restore(manifestPath, strategyFlag)
		manifestPath, strategyFlag = "requirements.txt", "propose"
		flags := newRunFlags(t)
		cfg := &config.Config{Defaults: config.Defaults{Manifest: "Pipfile", Strategy: "direct"}}

		// when
		applyConfigDefaults(cfg, flags)

		// then
		assert.Equal(t, "Pipfile", manifestPath)
		assert.Equal(t, "direct", strategyFlag)
	})

	t.Run("should let explicit flags win over config defaults", func(t *testing.T) {
		// given
		defer restore(manifestPath, strategyFlag)
		manifestPath, strategyFlag = "requirements.txt", "propose"
		flags := newRunFlags(t)
		require.NoError(t, flags.Set("manifest", "setup.cfg"))
		require.NoError(t, flags.Set("strategy", "propose"))
		manifestPath, strategyFlag = "setup.cfg", "propose"
		cfg := &config.Config{Defaults: config.Defaults{Manifest: "Pipfile", Strategy: "direct"}}

		// when
		applyConfigDefaults(cfg, flags)

		// then
		assert.Equal(t, "setup.cfg", manifestPath)
		assert.Equal(t, "propose", strategyFlag)
	})

	t.Run("should keep flag defaults when the config sets nothing", func(t *testing.T) {
		// given
		defer restore(manifestPath, strategyFlag)
		manifestPath, strategyFlag = "requirements.txt", "propose"
		flags := newRunFlags(t)
		cfg := &config.Config{}

		// when
		applyConfigDefaults(cfg, flags)

		// then
		assert.Equal(t, "requirements.txt", manifestPath)
		assert.Equal(t, "propose", strategyFlag)
	})

	t.Run("should be a no-op without a config file", func(t *testing.T) {
		// given
		defer restore(manifestPath, strategyFlag)
		manifestPath, strategyFlag = "requirements.txt", "propose"
		flags := newRunFlags(t)

		// when
		applyConfigDefaults(nil, flags)

		// then
		assert.Equal(t, "requirements.txt", manifestPath)
		assert.Equal(t, "propose", strategyFlag)
	})
}
