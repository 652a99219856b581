package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/extract"
	"github.com/fwojciec/jobtext/fs"
	"github.com/fwojciec/jobtext/gemini"
	"github.com/fwojciec/jobtext/goquery"
	jobhttp "github.com/fwojciec/jobtext/http"
	"github.com/fwojciec/jobtext/nativemsg"
	"github.com/fwojciec/jobtext/rod"
	jobslog "github.com/fwojciec/jobtext/slog"
	"github.com/fwojciec/jobtext/sqlite"
	"github.com/fwojciec/jobtext/yaml"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// A missing .env file is fine.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is the pipeline configuration. Run overlays the --config file.
	Config jobtext.Config

	// Closers are released by Close in reverse order.
	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Config: jobtext.DefaultConfig()}
}

// Close releases the browser, databases and other resources opened by Run.
func (m *Main) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	return first
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("jobtext"),
		kong.Description("Extract clean job posting text from job boards and career pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'jobtext --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	if cli.Config != "" {
		cfg, err := yaml.LoadConfig(cli.Config, m.Config)
		if err != nil {
			return fmt.Errorf("failed to load config %q: %w", cli.Config, err)
		}
		m.Config = cfg
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:        ctx,
		Stdin:      stdin,
		Stdout:     stdout,
		Stderr:     stderr,
		Logger:     logger,
		Dispatcher: newDispatcher(m.Config, mainContent(cli.Reader), logger),
		Settings:   cli.Analysis.Settings(),
	}
	defer m.Close()

	factory := analyzerFactory(ctx, cli.Analysis.OllamaURL, logger)

	switch cmd {
	case "extract":
		if err := m.wireExtractor(deps, cli.Extract.SourceFlags, cli.Extract.SinkFlags, cli.Extract.Analyze, factory); err != nil {
			return err
		}
		if cli.Extract.Tokens {
			tc, err := gemini.NewTokenCounter(tokenizerModel)
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}
			deps.Tokens = tc
		}
	case "batch":
		if err := m.wireExtractor(deps, cli.Batch.SourceFlags, cli.Batch.SinkFlags, cli.Batch.Analyze, factory); err != nil {
			return err
		}
		deps.Limiter = extract.NewDomainLimiter(cli.Batch.RPS)
	case "host":
		if err := m.wireHost(deps, cli.Host, factory); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for token counting.
const tokenizerModel = gemini.DefaultModel

// wireExtractor builds the page source, the sink and the Extractor.
func (m *Main) wireExtractor(deps *Dependencies, src SourceFlags, sink SinkFlags, analyze bool, factory nativemsg.AnalyzerFactory) error {
	source, err := m.openSource(src)
	if err != nil {
		return err
	}

	transport, err := m.openSink(deps, sink, analyze, factory)
	if err != nil {
		return err
	}

	var detector jobtext.ReadinessDetector = extract.NewPollDetector(m.Config.Readiness)
	if src.Static {
		detector = extract.StaticDetector{}
	}
	policy := m.Config.EmbeddedPolicy
	if src.EmbeddedFallback {
		policy = jobtext.EmbeddedFallback
	}

	deps.Extractor = &extract.Extractor{
		Source:      jobslog.NewLoggingSource(source, deps.Logger),
		Dispatcher:  deps.Dispatcher,
		Detector:    detector,
		Coordinator: extract.NewCoordinator(m.Config.Coordinator, extract.WithCoordinatorLogger(deps.Logger)),
		Transport:   transport,
		Policy:      policy,
		Logger:      deps.Logger,
		Embeds:      goquery.NewDetector(),
	}
	return nil
}

func (m *Main) openSource(src SourceFlags) (jobtext.ContextSource, error) {
	if src.Static {
		fetcher := jobhttp.NewFetcher(jobhttp.WithTimeout(src.Timeout))
		return jobhttp.NewSource(fetcher, goquery.NewDetector(), goquery.NewRenderer()), nil
	}

	var opts []rod.ManagerOption
	if src.Headful {
		opts = append(opts, rod.WithHeadful())
	}
	manager, err := rod.NewBrowserManager(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed, or use --static): %w", err)
	}
	m.closers = append(m.closers, manager)
	return rod.NewSource(manager), nil
}

// openSink returns the transport selected by flags, or nil when none is set.
// With analyze set, file and database sinks also store a structured analysis;
// a native host is asked to analyze instead.
func (m *Main) openSink(deps *Dependencies, flags SinkFlags, analyze bool, factory nativemsg.AnalyzerFactory) (jobtext.Transport, error) {
	var sink jobtext.Transport
	var postings jobtext.PostingWriter
	switch {
	case flags.Native != "":
		fields := strings.Fields(flags.Native)
		client := nativemsg.NewClient(fields[0], fields[1:]...)
		if analyze {
			client.Settings = deps.Settings
		}
		return jobslog.NewLoggingTransport(client, deps.Logger), nil
	case flags.Out != "":
		w := fs.NewWriter(flags.Out)
		sink, postings = w, w
	case flags.DB != "":
		svc, err := m.openDB(flags.DB)
		if err != nil {
			return nil, err
		}
		sink, postings = svc, svc
	default:
		return nil, nil
	}

	if analyze {
		analyzer, err := factory(deps.Settings)
		if err != nil {
			return nil, err
		}
		if analyzer == nil {
			return nil, jobtext.Errorf(jobtext.EINVALID, "%s analysis needs an API key", deps.Settings.Provider)
		}
		sink = &extract.AnalyzingTransport{Next: sink, Analyzer: analyzer, Postings: postings, Logger: deps.Logger}
	}
	return jobslog.NewLoggingTransport(sink, deps.Logger), nil
}

func (m *Main) openDB(path string) (*sqlite.ExtractionService, error) {
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.closers = append(m.closers, db)
	return sqlite.NewExtractionService(db), nil
}

// wireHost sets the host's sink, defaulting to files under the user's home.
func (m *Main) wireHost(deps *Dependencies, c HostCmd, factory nativemsg.AnalyzerFactory) error {
	if c.DB != "" {
		svc, err := m.openDB(c.DB)
		if err != nil {
			return err
		}
		deps.Sink, deps.Postings = svc, svc
	} else {
		dir := c.Out
		if dir == "" {
			dir = defaultOutDir()
		}
		w := fs.NewWriter(dir)
		deps.Sink, deps.Postings = w, w
	}
	deps.Analyzers = factory
	if !c.Analyze {
		deps.Settings = jobtext.Settings{}
	}
	return nil
}

func defaultOutDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "job-postings"
	}
	return filepath.Join(home, ".jobtext", "postings")
}
