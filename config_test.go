package jobtext_test

import (
	"testing"

	"github.com/fwojciec/jobtext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := jobtext.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, jobtext.EmbeddedFail, cfg.EmbeddedPolicy)
	assert.Contains(t, cfg.Selectors.Structured, jobtext.SiteWellfound)
	assert.Contains(t, cfg.Selectors.Structured, jobtext.SiteLinkedIn)
	assert.Equal(t, "Similar Jobs", cfg.Selectors.Markers[jobtext.SiteRemoteRocketship][0])
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("rejects zero deadline", func(t *testing.T) {
		t.Parallel()

		cfg := jobtext.DefaultConfig()
		cfg.Coordinator.HardDeadline = 0

		err := cfg.Validate()

		assert.Equal(t, jobtext.EINVALID, jobtext.ErrorCode(err))
	})

	t.Run("rejects unknown embedded policy", func(t *testing.T) {
		t.Parallel()

		cfg := jobtext.DefaultConfig()
		cfg.EmbeddedPolicy = "maybe"

		err := cfg.Validate()

		assert.Equal(t, jobtext.EINVALID, jobtext.ErrorCode(err))
		assert.Contains(t, jobtext.ErrorMessage(err), "maybe")
	})
}
