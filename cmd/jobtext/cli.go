package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/jobtext"
	"github.com/fwojciec/jobtext/extract"
	"github.com/fwojciec/jobtext/nativemsg"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Dispatcher *extract.Dispatcher
	Extractor  *extract.Extractor
	Limiter    jobtext.DomainLimiter
	Tokens     jobtext.TokenCounter

	// Host side of native messaging.
	Sink      jobtext.Transport
	Postings  jobtext.PostingWriter
	Analyzers nativemsg.AnalyzerFactory
	Settings  jobtext.Settings
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"C" type:"path" env:"JOBTEXT_CONFIG" help:"YAML file overriding selectors, rules and timings"`
	Verbose bool   `short:"v" help:"Log every strategy and request"`
	Reader  string `default:"trafilatura" enum:"trafilatura,readability" help:"Main content extractor for generic pages (${enum})"`

	Analysis AnalysisFlags `embed:"" group:"Analysis"`

	Extract  ExtractCmd  `cmd:"" help:"Extract the text of one job posting"`
	Classify ClassifyCmd `cmd:"" help:"Show how a posting URL would be extracted"`
	Batch    BatchCmd    `cmd:"" help:"Extract every posting URL listed in a file"`
	Host     HostCmd     `cmd:"" help:"Run as a native messaging host on stdin and stdout"`
}

// AnalysisFlags select the provider that structures extracted postings.
type AnalysisFlags struct {
	Provider      string `default:"gemini" enum:"gemini,perplexity,ollama" env:"JOBTEXT_PROVIDER" help:"Analysis provider (${enum})"`
	Model         string `env:"JOBTEXT_MODEL" help:"Provider model, defaults to the provider's own"`
	GeminiKey     string `name:"gemini-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	PerplexityKey string `name:"perplexity-key" env:"PERPLEXITY_API_KEY" help:"Perplexity API key"`
	OllamaURL     string `name:"ollama-url" env:"OLLAMA_URL" help:"Ollama OpenAI-compatible endpoint"`
}

// Settings returns the analysis settings with the selected provider's key.
func (f AnalysisFlags) Settings() jobtext.Settings {
	s := jobtext.Settings{Provider: f.Provider, Model: f.Model}
	switch f.Provider {
	case jobtext.ProviderGemini:
		s.APIKey = f.GeminiKey
	case jobtext.ProviderPerplexity:
		s.APIKey = f.PerplexityKey
	}
	return s
}

// SinkFlags choose where extracted postings are delivered. At most one may
// be set.
type SinkFlags struct {
	Out    string `short:"o" type:"path" env:"JOBTEXT_OUT" xor:"sink" help:"Write postings as files to this directory"`
	DB     string `type:"path" env:"JOBTEXT_DB" xor:"sink" help:"Store postings in this SQLite database"`
	Native string `xor:"sink" help:"Send postings to this native messaging host command"`
}

// Set reports whether any sink was chosen.
func (f SinkFlags) Set() bool {
	return f.Out != "" || f.DB != "" || f.Native != ""
}

// SourceFlags configure how pages are loaded.
type SourceFlags struct {
	Static           bool          `help:"Fetch pages over HTTP instead of rendering them in a browser"`
	Timeout          time.Duration `default:"30s" help:"Request timeout with --static"`
	Headful          bool          `help:"Show the browser window"`
	EmbeddedFallback bool          `help:"Scrape embedded Greenhouse pages whose board cannot be resolved"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL     string `arg:"" help:"Job posting URL"`
	Analyze bool   `short:"a" help:"Structure the posting with the analysis provider"`
	Print   bool   `short:"p" help:"Print the text even when a sink is set"`
	Tokens  bool   `short:"t" help:"Count the posting's tokens"`

	SinkFlags   `embed:""`
	SourceFlags `embed:""`
}

// ClassifyCmd is the "classify" subcommand.
type ClassifyCmd struct {
	URL    string   `arg:"" optional:"" help:"Job posting URL"`
	Frames []string `name:"frame" short:"f" help:"URL of a frame on the page (repeatable)"`
	List   bool     `short:"l" help:"List the sites that have their own plan"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File        string  `arg:"" help:"File with one posting URL per line, - for stdin"`
	Concurrency int     `short:"c" default:"2" help:"Concurrent extractions"`
	RPS         float64 `name:"rps" default:"0.5" help:"Requests per second to each domain"`
	Analyze     bool    `short:"a" help:"Structure each posting with the analysis provider"`

	SinkFlags   `embed:""`
	SourceFlags `embed:""`
}

// HostCmd is the "host" subcommand.
type HostCmd struct {
	Out     string `short:"o" type:"path" env:"JOBTEXT_OUT" xor:"sink" help:"Write postings as files to this directory"`
	DB      string `type:"path" env:"JOBTEXT_DB" xor:"sink" help:"Store postings in this SQLite database"`
	Analyze bool   `short:"a" help:"Structure postings whose message names no provider"`
}
