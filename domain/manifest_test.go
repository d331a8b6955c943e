package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/fleetpatch/domain"
)

func TestFindEntry(t *testing.T) {
	t.Parallel()

	t.Run("should locate an exact-equality pin", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "flask==2.0.1\nrequests==2.20.0\n"

		// when
		entry, found := domain.FindEntry(manifest, "requests")

		// then
		require.True(t, found)
		assert.Equal(t, "requests", entry.Name)
		assert.Equal(t, "==", entry.Operator)
		assert.Equal(t, "2.20.0", entry.CurrentVersion)
		assert.Equal(t, 1, entry.Line)
	})

	t.Run("should not match a name that prefixes a longer identifier", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "requests-toolbelt==0.9.1\nflask-restful==0.3.9\n"

		// when
		_, foundRequests := domain.FindEntry(manifest, "requests")
		_, foundFlask := domain.FindEntry(manifest, "flask")

		// then
		assert.False(t, foundRequests)
		assert.False(t, foundFlask)
	})

	t.Run("should match the exact name even when a longer identifier precedes it", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "requests-toolbelt==0.9.1\nrequests==2.20.0\n"

		// when
		entry, found := domain.FindEntry(manifest, "requests")

		// then
		require.True(t, found)
		assert.Equal(t, "2.20.0", entry.CurrentVersion)
		assert.Equal(t, 1, entry.Line)
	})

	t.Run("should accept a single-equals pin", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "requests = 2.20.0\n"

		// when
		entry, found := domain.FindEntry(manifest, "requests")

		// then
		require.True(t, found)
		assert.Equal(t, "=", entry.Operator)
		assert.Equal(t, "2.20.0", entry.CurrentVersion)
	})

	t.Run("should report an unpinned entry with an empty operator", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "requests\nflask==2.0.1\n"

		// when
		entry, found := domain.FindEntry(manifest, "requests")

		// then
		require.True(t, found)
		assert.Empty(t, entry.Operator)
		assert.Empty(t, entry.CurrentVersion)
	})

	t.Run("should skip lines with range operators", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "requests>=2.0.0\n"

		// when
		_, found := domain.FindEntry(manifest, "requests")

		// then
		assert.False(t, found)
	})

	t.Run("should tolerate leading whitespace on the pin line", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "  requests==2.20.0\n"

		// when
		entry, found := domain.FindEntry(manifest, "requests")

		// then
		require.True(t, found)
		assert.Equal(t, "2.20.0", entry.CurrentVersion)
	})

	t.Run("should not match an empty package name", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "requests==2.20.0\n"

		// when
		_, found := domain.FindEntry(manifest, "")

		// then
		assert.False(t, found)
	})
}

func TestRewrite(t *testing.T) {
	t.Parallel()

	t.Run("should rewrite only the targeted pin line", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "flask==2.0.1\nrequests==2.20.0\nurllib3==1.26.0\n"

		// when
		rewritten, err := domain.Rewrite(manifest, "requests", "2.28.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, "flask==2.0.1\nrequests==2.28.0\nurllib3==1.26.0\n", rewritten)
	})

	t.Run("should normalize a single-equals pin to double equals", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "requests = 2.20.0\n"

		// when
		rewritten, err := domain.Rewrite(manifest, "requests", "2.28.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, "requests==2.28.0\n", rewritten)
	})

	t.Run("should pin an unpinned entry", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "requests\n"

		// when
		rewritten, err := domain.Rewrite(manifest, "requests", "2.28.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, "requests==2.28.0\n", rewritten)
	})

	t.Run("should preserve carriage returns on rewritten lines", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "flask==2.0.1\r\nrequests==2.20.0\r\n"

		// when
		rewritten, err := domain.Rewrite(manifest, "requests", "2.28.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, "flask==2.0.1\r\nrequests==2.28.0\r\n", rewritten)
	})

	t.Run("should fail verification for an absent package", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "flask==2.0.1\n"

		// when
		_, err := domain.Rewrite(manifest, "requests", "2.28.0")

		// then
		require.ErrorIs(t, err, domain.ErrRewriteVerification)
	})

	t.Run("should be idempotent for repeated rewrites", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "requests==2.20.0\n"

		// when
		once, err := domain.Rewrite(manifest, "requests", "2.28.0")
		require.NoError(t, err)
		twice, err := domain.Rewrite(once, "requests", "2.28.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})
}
