package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/fleetpatch/domain"
)

func TestChangeSet_CommitMessage(t *testing.T) {
	t.Parallel()

	t.Run("should build a single-package message", func(t *testing.T) {
		t.Parallel()

		// given
		var cs domain.ChangeSet
		cs.Append(domain.Change{Name: "requests", From: "2.20.0", To: "2.28.0"})

		// when
		message := cs.CommitMessage()

		// then
		assert.Equal(t, "Update requests to 2.28.0", message)
	})

	t.Run("should enumerate names for a multi-package message", func(t *testing.T) {
		t.Parallel()

		// given
		var cs domain.ChangeSet
		cs.Append(domain.Change{Name: "requests", From: "2.20.0", To: "2.28.0"})
		cs.Append(domain.Change{Name: "flask", From: "2.0.1", To: "2.3.2"})

		// when
		message := cs.CommitMessage()

		// then
		assert.Equal(t, "Update multiple packages: requests, flask", message)
	})
}

func TestChangeSet_BranchName(t *testing.T) {
	t.Parallel()

	t.Run("should build a deterministic single-package branch name", func(t *testing.T) {
		t.Parallel()

		// given
		var cs domain.ChangeSet
		cs.Append(domain.Change{Name: "requests", From: "2.20.0", To: "2.28.0"})

		// when
		branch := cs.BranchName(time.Now())

		// then
		assert.Equal(t, "update-requests-to-2.28.0", branch)
	})

	t.Run("should suffix multi-package branch names with a UTC timestamp", func(t *testing.T) {
		t.Parallel()

		// given
		var cs domain.ChangeSet
		cs.Append(domain.Change{Name: "requests", From: "2.20.0", To: "2.28.0"})
		cs.Append(domain.Change{Name: "flask", From: "2.0.1", To: "2.3.2"})
		now := time.Date(2024, 5, 17, 14, 30, 5, 0, time.UTC)

		// when
		branch := cs.BranchName(now)

		// then
		assert.Equal(t, "update-multiple-packages-20240517-143005", branch)
	})
}

func TestChangeSet_PullRequestBody(t *testing.T) {
	t.Parallel()

	t.Run("should list every change as name colon from arrow to", func(t *testing.T) {
		t.Parallel()

		// given
		var cs domain.ChangeSet
		cs.Append(domain.Change{Name: "requests", From: "2.20.0", To: "2.28.0"})
		cs.Append(domain.Change{Name: "flask", From: "2.0.1", To: "2.3.2"})

		// when
		body := cs.PullRequestBody()

		// then
		assert.Contains(t, body, "- requests: 2.20.0->2.28.0")
		assert.Contains(t, body, "- flask: 2.0.1->2.3.2")
	})

	t.Run("should render an unpinned origin explicitly", func(t *testing.T) {
		t.Parallel()

		// given
		var cs domain.ChangeSet
		cs.Append(domain.Change{Name: "requests", From: "", To: "2.28.0"})

		// when
		body := cs.PullRequestBody()

		// then
		assert.Contains(t, body, "- requests: (unpinned)->2.28.0")
	})
}

func TestChangeSet_Empty(t *testing.T) {
	t.Parallel()

	t.Run("should be empty until a change is appended", func(t *testing.T) {
		t.Parallel()

		// given
		var cs domain.ChangeSet

		// when / then
		assert.True(t, cs.Empty())

		cs.Append(domain.Change{Name: "requests", From: "2.20.0", To: "2.28.0"})
		assert.False(t, cs.Empty())
		assert.Len(t, cs.Changes(), 1)
	})
}
