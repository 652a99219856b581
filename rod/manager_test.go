//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/jobtext/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager(t *testing.T) {
	t.Parallel()

	t.Run("relaunches the browser after max pages", func(t *testing.T) {
		t.Parallel()

		// Given a manager that relaunches after two pages
		m, err := rod.NewBrowserManager(rod.WithMaxPages(2))
		require.NoError(t, err)
		defer m.Close()
		first := m.LauncherPID()

		// When three pages are opened
		for range 3 {
			p, err := m.NewPage()
			require.NoError(t, err)
			_ = m.ClosePage(p)
		}

		// Then the third ran on a new browser
		assert.NotEqual(t, first, m.LauncherPID())
	})

	t.Run("keeps the browser below max pages", func(t *testing.T) {
		t.Parallel()

		m, err := rod.NewBrowserManager(rod.WithMaxPages(5))
		require.NoError(t, err)
		defer m.Close()
		first := m.LauncherPID()

		p, err := m.NewPage()
		require.NoError(t, err)
		_ = m.ClosePage(p)

		assert.Equal(t, first, m.LauncherPID())
	})

	t.Run("keeps a retired browser until its open tabs close", func(t *testing.T) {
		t.Parallel()

		// Given a manager that relaunches after one page, with that page open
		m, err := rod.NewBrowserManager(rod.WithMaxPages(1))
		require.NoError(t, err)
		defer m.Close()
		busy, err := m.NewPage()
		require.NoError(t, err)

		// When a second page moves to a new browser
		next, err := m.NewPage()
		require.NoError(t, err)

		// Then the first page keeps working until it is closed
		assert.Equal(t, 2, m.Running())
		require.NoError(t, busy.Navigate("about:blank"))
		require.NoError(t, m.ClosePage(busy))
		assert.Equal(t, 1, m.Running())
		require.NoError(t, m.ClosePage(next))
	})

	t.Run("close is idempotent and stops new pages", func(t *testing.T) {
		t.Parallel()

		m, err := rod.NewBrowserManager()
		require.NoError(t, err)

		require.NoError(t, m.Close())
		require.NoError(t, m.Close())

		_, err = m.NewPage()
		assert.Error(t, err)
		assert.Zero(t, m.LauncherPID())
		assert.Zero(t, m.Running())
	})
}
