package confirm //nolint:testpackage // tests swap the unexported form runner

import (
	"errors"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoApprove_Confirm(t *testing.T) {
	t.Parallel()

	t.Run("should approve without interaction", func(t *testing.T) {
		t.Parallel()

		// given
		confirmer := NewAutoApprove()

		// when
		approved, err := confirmer.Confirm("-requests==2.20.0\n+requests==2.28.0\n")

		// then
		require.NoError(t, err)
		assert.True(t, approved)
	})
}

func TestInteractive_Confirm(t *testing.T) {
	t.Parallel()

	t.Run("should return the operator's approval", func(t *testing.T) {
		t.Parallel()

		// given a form runner that leaves the confirm value untouched (defaults to rejection)
		confirmer := &Interactive{
			runForm: func(_ *huh.Form) error { return nil },
		}

		// when
		approved, err := confirmer.Confirm("+requests==2.28.0\n")

		// then
		require.NoError(t, err)
		assert.False(t, approved)
	})

	t.Run("should treat an aborted prompt as rejection, not error", func(t *testing.T) {
		t.Parallel()

		// given
		confirmer := &Interactive{
			runForm: func(_ *huh.Form) error { return huh.ErrUserAborted },
		}

		// when
		approved, err := confirmer.Confirm("+requests==2.28.0\n")

		// then
		require.NoError(t, err)
		assert.False(t, approved)
	})

	t.Run("should surface unexpected prompt failures", func(t *testing.T) {
		t.Parallel()

		// given
		confirmer := &Interactive{
			runForm: func(_ *huh.Form) error { return errors.New("tty unavailable") },
		}

		// when
		approved, err := confirmer.Confirm("+requests==2.28.0\n")

		// then
		require.Error(t, err)
		assert.False(t, approved)
	})
}
