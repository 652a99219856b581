package extract_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ jobtext.DomainLimiter = (*extract.DomainLimiter)(nil)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("first request to a domain does not wait", func(t *testing.T) {
		t.Parallel()

		limiter := extract.NewDomainLimiter(10)

		begin := time.Now()
		err := limiter.Wait(context.Background(), "linkedin.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(begin), 50*time.Millisecond)
	})

	t.Run("second request to the same domain waits", func(t *testing.T) {
		t.Parallel()

		limiter := extract.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "linkedin.com"))

		begin := time.Now()
		err := limiter.Wait(context.Background(), "linkedin.com")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(begin), 80*time.Millisecond)
	})

	t.Run("domains are limited independently", func(t *testing.T) {
		t.Parallel()

		limiter := extract.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "linkedin.com"))

		begin := time.Now()
		err := limiter.Wait(context.Background(), "wellfound.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(begin), 50*time.Millisecond)
	})

	t.Run("returns when context is canceled", func(t *testing.T) {
		t.Parallel()

		limiter := extract.NewDomainLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "linkedin.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := limiter.Wait(ctx, "linkedin.com")

		require.Error(t, err)
	})
}

func TestDomain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "linkedin.com", extract.Domain("https://www.LinkedIn.com/jobs/view/1"))
	assert.Equal(t, "boards.greenhouse.io", extract.Domain("https://boards.greenhouse.io/acme/jobs/1"))
	assert.Equal(t, "not a url", extract.Domain("not a url"))
}
