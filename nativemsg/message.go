package nativemsg

import (
	"cmp"
	"maps"

	"github.com/fwojciec/jobtext"
)

// Message is the request sent to the native host.
type Message struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Settings Settings          `json:"settings"`
}

// Settings is the analysis configuration carried by a Message, in the shape
// the browser extension stores it.
type Settings struct {
	Provider        string `json:"provider"`
	OllamaModel     string `json:"ollamaModel,omitempty"`
	PerplexityKey   string `json:"perplexityKey,omitempty"`
	PerplexityModel string `json:"perplexityModel,omitempty"`
	GeminiKey       string `json:"geminiKey,omitempty"`
	GeminiModel     string `json:"geminiModel,omitempty"`
	SourceURL       string `json:"sourceUrl,omitempty"`
}

// NewSettings returns the wire form of s.
func NewSettings(s jobtext.Settings) Settings {
	w := Settings{Provider: s.Provider}
	switch s.Provider {
	case jobtext.ProviderOllama:
		w.OllamaModel = s.Model
	case jobtext.ProviderPerplexity:
		w.PerplexityKey, w.PerplexityModel = s.APIKey, s.Model
	case jobtext.ProviderGemini:
		w.GeminiKey, w.GeminiModel = s.APIKey, s.Model
	}
	return w
}

// Analysis returns the provider settings selected by s.
func (s Settings) Analysis() jobtext.Settings {
	out := jobtext.Settings{Provider: s.Provider}
	switch s.Provider {
	case jobtext.ProviderOllama:
		out.Model = s.OllamaModel
	case jobtext.ProviderPerplexity:
		out.Model, out.APIKey = s.PerplexityModel, s.PerplexityKey
	case jobtext.ProviderGemini:
		out.Model, out.APIKey = s.GeminiModel, s.GeminiKey
	}
	return out
}

// Payload returns the payload carried by m. Without a source URL in the
// metadata, the one in the settings or the report's "URL:" line is used.
func (m Message) Payload() jobtext.Payload {
	meta := make(map[string]string, len(m.Metadata)+1)
	maps.Copy(meta, m.Metadata)
	if meta[jobtext.MetaSourceURL] == "" {
		meta[jobtext.MetaSourceURL] = cmp.Or(m.Settings.SourceURL, jobtext.ReportURL(m.Text))
	}
	if meta[jobtext.MetaSourceURL] == "" {
		delete(meta, jobtext.MetaSourceURL)
	}
	return jobtext.Payload{Text: m.Text, Metadata: meta}
}

// Response is the native host's reply.
type Response struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	JSONFile string `json:"json_file,omitempty"`
	Error    string `json:"error,omitempty"`
}
