package extract_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/extract"
	"github.com/stretchr/testify/assert"
)

func fastReadiness() jobtext.ReadinessConfig {
	return jobtext.ReadinessConfig{
		PollInterval:          5 * time.Millisecond,
		RequiredStableSamples: 3,
		MinimumLength:         500,
		MaxWait:               100 * time.Millisecond,
	}
}

func TestPollDetector_AwaitReady(t *testing.T) {
	t.Parallel()

	t.Run("stable once length stops changing above minimum", func(t *testing.T) {
		t.Parallel()

		// Given a document that grows twice and then settles at 900
		var calls atomic.Int32
		measure := func(context.Context) (int, error) {
			switch calls.Add(1) {
			case 1:
				return 300, nil
			case 2:
				return 600, nil
			default:
				return 900, nil
			}
		}
		cfg := fastReadiness()
		cfg.MaxWait = time.Second

		// When
		got := extract.NewPollDetector(cfg).AwaitReady(context.Background(), measure)

		// Then
		assert.Equal(t, jobtext.ReadyStable, got)
		assert.GreaterOrEqual(t, int(calls.Load()), 5)
	})

	t.Run("times out when length never settles", func(t *testing.T) {
		t.Parallel()

		var n atomic.Int32
		measure := func(context.Context) (int, error) {
			return int(n.Add(100)), nil
		}
		cfg := fastReadiness()

		begin := time.Now()
		got := extract.NewPollDetector(cfg).AwaitReady(context.Background(), measure)

		assert.Equal(t, jobtext.ReadyTimeout, got)
		assert.Less(t, time.Since(begin), cfg.MaxWait+cfg.PollInterval+50*time.Millisecond)
	})

	t.Run("times out when stable below minimum length", func(t *testing.T) {
		t.Parallel()

		measure := func(context.Context) (int, error) {
			return 120, nil
		}

		got := extract.NewPollDetector(fastReadiness()).AwaitReady(context.Background(), measure)

		assert.Equal(t, jobtext.ReadyTimeout, got)
	})

	t.Run("failed measurements never count as stable", func(t *testing.T) {
		t.Parallel()

		measure := func(context.Context) (int, error) {
			return 0, errors.New("execution context destroyed")
		}

		got := extract.NewPollDetector(fastReadiness()).AwaitReady(context.Background(), measure)

		assert.Equal(t, jobtext.ReadyTimeout, got)
	})

	t.Run("returns canceled when context is done", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		measure := func(context.Context) (int, error) {
			return 1000, nil
		}
		cfg := fastReadiness()
		cfg.MaxWait = time.Minute

		got := extract.NewPollDetector(cfg).AwaitReady(ctx, measure)

		assert.Equal(t, jobtext.ReadyCanceled, got)
	})

	t.Run("bounds a measurement that ignores the interval", func(t *testing.T) {
		t.Parallel()

		// Given a measurement that blocks until its context expires
		measure := func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		}
		cfg := fastReadiness()

		// When
		begin := time.Now()
		got := extract.NewPollDetector(cfg).AwaitReady(context.Background(), measure)

		// Then
		assert.Equal(t, jobtext.ReadyTimeout, got)
		assert.Less(t, time.Since(begin), cfg.MaxWait+cfg.PollInterval+100*time.Millisecond)
	})
}

func TestStaticDetector(t *testing.T) {
	t.Parallel()

	var d extract.StaticDetector
	measured := false
	measure := func(context.Context) (int, error) {
		measured = true
		return 0, nil
	}

	assert.Equal(t, jobtext.ReadyStable, d.AwaitReady(context.Background(), measure))
	assert.False(t, measured)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, jobtext.ReadyCanceled, d.AwaitReady(ctx, measure))
}
