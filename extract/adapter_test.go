package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/extract"
	"github.com/fwojciec/jobtext/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func returning(text string, kind jobtext.SourceKind) *mock.Strategy {
	return &mock.Strategy{
		KindFn: func() jobtext.SourceKind { return kind },
		ExtractFn: func(_ context.Context, doc jobtext.ExecutionContext) (*jobtext.ExtractionResult, error) {
			return jobtext.NewExtractionResult(text, doc.URL(), "", kind, doc.ID()), nil
		},
	}
}

func nothing() *mock.Strategy {
	return &mock.Strategy{
		ExtractFn: func(context.Context, jobtext.ExecutionContext) (*jobtext.ExtractionResult, error) {
			return nil, nil
		},
	}
}

func TestAdapter_Run(t *testing.T) {
	t.Parallel()

	doc := mock.StaticContext("top", "https://jobs.example.com/1", "<p>Backend Engineer</p>")
	rules := jobtext.DefaultRules().For(jobtext.SiteGeneric)

	t.Run("falls through to the first strategy with content", func(t *testing.T) {
		t.Parallel()

		plan := extract.Plan{
			PerContext: []jobtext.Strategy{
				nothing(),
				returning("Backend Engineer     Build APIs", jobtext.SourceGenericScrape),
				returning("never reached", jobtext.SourceGenericScrape),
			},
			Rules: rules,
		}
		a := extract.NewAdapter(mock.ImmediateReadiness(), plan, nil)

		got, err := a.Run(context.Background(), extractCmd, doc)

		require.NoError(t, err)
		assert.Equal(t, "Backend Engineer Build APIs", got.Text)
		assert.Equal(t, len("Backend Engineer Build APIs"), got.ContentLength)
		assert.Equal(t, jobtext.ContextID("top"), got.ContextID)
	})

	t.Run("skips results that normalize to nothing", func(t *testing.T) {
		t.Parallel()

		plan := extract.Plan{
			PerContext: []jobtext.Strategy{
				returning("<style>.a{color:red}</style>", jobtext.SourceStructuredDOM),
				returning("Real content", jobtext.SourceGenericScrape),
			},
			Rules: rules,
		}
		a := extract.NewAdapter(mock.ImmediateReadiness(), plan, nil)

		got, err := a.Run(context.Background(), extractCmd, doc)

		require.NoError(t, err)
		assert.Equal(t, jobtext.SourceGenericScrape, got.SourceKind)
	})

	t.Run("strategy failures count as no content", func(t *testing.T) {
		t.Parallel()

		failing := &mock.Strategy{
			ExtractFn: func(context.Context, jobtext.ExecutionContext) (*jobtext.ExtractionResult, error) {
				return nil, errors.New("selector exploded")
			},
		}
		plan := extract.Plan{
			PerContext: []jobtext.Strategy{failing, returning("Fallback text", jobtext.SourceGenericScrape)},
			Rules:      rules,
		}
		a := extract.NewAdapter(mock.ImmediateReadiness(), plan, nil)

		got, err := a.Run(context.Background(), extractCmd, doc)

		require.NoError(t, err)
		assert.Equal(t, "Fallback text", got.Text)
	})

	t.Run("reports no content when every strategy comes up empty", func(t *testing.T) {
		t.Parallel()

		plan := extract.Plan{PerContext: []jobtext.Strategy{nothing(), nothing()}, Rules: rules}
		a := extract.NewAdapter(mock.ImmediateReadiness(), plan, nil)

		_, err := a.Run(context.Background(), extractCmd, doc)

		assert.Equal(t, jobtext.ENOCONTENT, jobtext.ErrorCode(err))
	})

	t.Run("extracts after a readiness timeout", func(t *testing.T) {
		t.Parallel()

		detector := &mock.ReadinessDetector{
			AwaitReadyFn: func(context.Context, jobtext.MeasureFunc) jobtext.Readiness {
				return jobtext.ReadyTimeout
			},
		}
		plan := extract.Plan{PerContext: []jobtext.Strategy{returning("Partial page", jobtext.SourceGenericScrape)}, Rules: rules}
		a := extract.NewAdapter(detector, plan, nil)

		got, err := a.Run(context.Background(), extractCmd, doc)

		require.NoError(t, err)
		assert.Equal(t, "Partial page", got.Text)
	})

	t.Run("measures the document text length", func(t *testing.T) {
		t.Parallel()

		var measured int
		detector := &mock.ReadinessDetector{
			AwaitReadyFn: func(ctx context.Context, measure jobtext.MeasureFunc) jobtext.Readiness {
				measured, _ = measure(ctx)
				return jobtext.ReadyStable
			},
		}
		plan := extract.Plan{PerContext: []jobtext.Strategy{returning("x", jobtext.SourceGenericScrape)}, Rules: rules}
		a := extract.NewAdapter(detector, plan, nil)

		_, err := a.Run(context.Background(), extractCmd, doc)

		require.NoError(t, err)
		assert.Equal(t, len("<p>Backend Engineer</p>"), measured)
	})

	t.Run("stops when canceled while waiting", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		detector := &mock.ReadinessDetector{
			AwaitReadyFn: func(context.Context, jobtext.MeasureFunc) jobtext.Readiness {
				return jobtext.ReadyCanceled
			},
		}
		plan := extract.Plan{PerContext: []jobtext.Strategy{returning("x", jobtext.SourceGenericScrape)}, Rules: rules}
		a := extract.NewAdapter(detector, plan, nil)

		_, err := a.Run(ctx, extractCmd, doc)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rejects unknown actions", func(t *testing.T) {
		t.Parallel()

		a := extract.NewAdapter(mock.ImmediateReadiness(), extract.Plan{}, nil)

		_, err := a.Run(context.Background(), jobtext.Command{Action: "screenshot"}, doc)

		assert.Equal(t, jobtext.EINVALID, jobtext.ErrorCode(err))
	})
}
