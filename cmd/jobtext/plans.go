package main

import (
	"context"
	"log/slog"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/extract"
	"github.com/fwojciec/jobtext/gemini"
	"github.com/fwojciec/jobtext/goquery"
	"github.com/fwojciec/jobtext/greenhouse"
	"github.com/fwojciec/jobtext/htmltomarkdown"
	"github.com/fwojciec/jobtext/nativemsg"
	"github.com/fwojciec/jobtext/openai"
	"github.com/fwojciec/jobtext/readability"
	jobslog "github.com/fwojciec/jobtext/slog"
	"github.com/fwojciec/jobtext/trafilatura"
)

// newDispatcher returns a Dispatcher with the plans of every supported site.
// Generic pages get the main content isolated by content as a candidate.
func newDispatcher(cfg jobtext.Config, content jobtext.Extractor, logger *slog.Logger) *extract.Dispatcher {
	d := extract.NewDispatcher(genericPlan(cfg, content, logger))
	registerSitePlans(d, cfg, logger)
	return d
}

// registerSitePlans registers the site-specific plans with d.
func registerSitePlans(d *extract.Dispatcher, cfg jobtext.Config, logger *slog.Logger) {
	board := jobslog.NewLoggingJobBoard(greenhouse.NewClient(), logger)
	converter := htmltomarkdown.NewConverter()
	sel, th := cfg.Selectors, cfg.Thresholds

	greenhousePlan := func(id jobtext.SiteIdentity) extract.Plan {
		p := extract.Plan{
			PerContext: jobslog.WrapStrategies([]jobtext.Strategy{
				goquery.NewGenericStrategy(sel, th),
			}, logger),
			Rules: cfg.Rules.For(id.Kind),
		}
		if id.Resolved() {
			p.Direct = jobslog.WrapStrategies([]jobtext.Strategy{
				greenhouse.NewStrategy(board, converter, id),
			}, logger)
			// The board report keeps its URL line.
			p.DirectRules = cfg.Rules.For(id.Kind).Only(jobtext.StageWhitespace)
		}
		return p
	}
	d.Register(jobtext.SiteDirectGreenhouse, greenhousePlan)
	d.Register(jobtext.SiteEmbeddedGreenhouse, greenhousePlan)

	structured := func(id jobtext.SiteIdentity) extract.Plan {
		return extract.Plan{
			PerContext: jobslog.WrapStrategies([]jobtext.Strategy{
				goquery.NewStructuredStrategy(sel.Structured[id.Kind], sel, th),
				goquery.NewGenericStrategy(sel, th),
			}, logger),
			Rules: cfg.Rules.For(id.Kind),
		}
	}
	d.Register(jobtext.SiteWellfound, structured)
	d.Register(jobtext.SiteLinkedIn, structured)

	d.Register(jobtext.SiteRemoteRocketship, func(id jobtext.SiteIdentity) extract.Plan {
		return extract.Plan{
			PerContext: jobslog.WrapStrategies([]jobtext.Strategy{
				goquery.NewMarkerStrategy(sel.Markers[id.Kind], sel, th),
				goquery.NewGenericStrategy(sel, th),
			}, logger),
			Rules: cfg.Rules.For(id.Kind),
		}
	})
}

// genericPlan scrapes any other page.
func genericPlan(cfg jobtext.Config, content jobtext.Extractor, logger *slog.Logger) extract.PlanFunc {
	return func(id jobtext.SiteIdentity) extract.Plan {
		return extract.Plan{
			PerContext: jobslog.WrapStrategies([]jobtext.Strategy{
				goquery.NewGenericStrategy(cfg.Selectors, cfg.Thresholds, goquery.WithMainContent(content)),
			}, logger),
			Rules: cfg.Rules.For(id.Kind),
		}
	}
}

// mainContent returns the main content extractor named by reader.
func mainContent(reader string) jobtext.Extractor {
	if reader == "readability" {
		return readability.NewExtractor()
	}
	return trafilatura.NewExtractor()
}

// analyzerFactory returns the factory building analyzers for settings.
// Settings without a usable credential yield no analyzer.
func analyzerFactory(ctx context.Context, ollamaURL string, logger *slog.Logger) nativemsg.AnalyzerFactory {
	return func(s jobtext.Settings) (jobtext.Analyzer, error) {
		if !s.Enabled() {
			return nil, nil
		}
		var analyzer jobtext.Analyzer
		switch s.Provider {
		case jobtext.ProviderGemini:
			client, err := gemini.NewClient(ctx, s.APIKey)
			if err != nil {
				return nil, err
			}
			analyzer = gemini.NewAnalyzer(client, s.Model)
		case jobtext.ProviderPerplexity:
			a, err := openai.NewPerplexity(s.APIKey, s.Model)
			if err != nil {
				return nil, err
			}
			analyzer = a
		case jobtext.ProviderOllama:
			analyzer = openai.NewOllama(ollamaURL, s.Model)
		default:
			return nil, jobtext.Errorf(jobtext.EINVALID, "unknown analysis provider %q", s.Provider)
		}
		return jobslog.NewLoggingAnalyzer(analyzer, s.Provider, logger), nil
	}
}
