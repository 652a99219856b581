package jobtext

import (
	"context"
	"encoding/json"
	"strings"
)

// Providers of structured analysis.
const (
	ProviderGemini     = "gemini"
	ProviderPerplexity = "perplexity"
	ProviderOllama     = "ollama"
)

// Settings select and authenticate the optional analysis provider.
// The credential is resolved before extraction starts; a missing one never
// blocks extraction.
type Settings struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"apiKey,omitempty"`
}

// Enabled reports whether analysis can run with these settings. Ollama runs
// locally and needs no key.
func (s Settings) Enabled() bool {
	switch s.Provider {
	case ProviderOllama:
		return true
	case ProviderGemini, ProviderPerplexity:
		return s.APIKey != ""
	}
	return false
}

// Analyzer turns extracted posting text into a structured posting.
type Analyzer interface {
	Analyze(ctx context.Context, text, sourceURL string) (*JobPosting, error)
}

// JobPosting is the structured form of a job posting.
type JobPosting struct {
	Title            string          `json:"job_title"`
	Company          string          `json:"company_name"`
	Department       string          `json:"department,omitempty"`
	Seniority        string          `json:"seniority_level,omitempty"`
	Location         string          `json:"location,omitempty"`
	WorkplaceType    string          `json:"workplace_type,omitempty"`
	JobType          string          `json:"job_type,omitempty"`
	SalaryMin        int             `json:"salary_min,omitempty"`
	SalaryMax        int             `json:"salary_max,omitempty"`
	SalaryCurrency   string          `json:"salary_currency,omitempty"`
	Summary          string          `json:"summary,omitempty"`
	Responsibilities []string        `json:"key_responsibilities,omitempty"`
	YearsExperience  string          `json:"years_of_experience,omitempty"`
	Education        string          `json:"education_level,omitempty"`
	TechnicalSkills  TechnicalSkills `json:"technical_skills,omitzero"`
	Skills           []string        `json:"skills,omitempty"`
	NiceToHave       []string        `json:"nice_to_have,omitempty"`
	Benefits         []string        `json:"benefits,omitempty"`
	ExtractedAt      string          `json:"extracted_at,omitempty"`
	SourceURL        string          `json:"source_url,omitempty"`
}

// TechnicalSkills groups the technologies a posting asks for. Skills that fit
// no group go to JobPosting.Skills.
type TechnicalSkills struct {
	Languages  []string `json:"programming_languages,omitempty"`
	Frameworks []string `json:"frameworks,omitempty"`
	Databases  []string `json:"databases,omitempty"`
	Cloud      []string `json:"cloud_platforms,omitempty"`
	DevOps     []string `json:"devops_tools,omitempty"`
}

// Validate returns an error if the posting is missing required fields.
func (p *JobPosting) Validate() error {
	if p.Title == "" {
		return Errorf(EINVALID, "job posting title required")
	}
	return nil
}

// AnalysisInstruction is the system instruction sent to every provider.
const AnalysisInstruction = "You extract job posting information into JSON. Only extract what is explicitly stated in the posting. Return only JSON."

// AnalysisPrompt returns the user prompt asking a provider to structure text.
func AnalysisPrompt(text, sourceURL string) string {
	var b strings.Builder
	b.WriteString("Extract the job posting below into JSON. Be precise and only use what the posting states.\n\n")
	b.WriteString("Job Posting:\n")
	b.WriteString(text)
	b.WriteString("\n\nRules:\n")
	b.WriteString("1. job_type is one of \"Full-time\", \"Part-time\", \"Contract\", \"Internship\".\n")
	b.WriteString("2. workplace_type is one of \"Remote\", \"Hybrid\", \"On-site\".\n")
	b.WriteString("3. salary_min and salary_max are yearly amounts as integers, only when a range is stated. Leave them out otherwise.\n")
	b.WriteString("4. skills, technical_skills and benefits are short keywords, not sentences. skills holds only what fits no technical_skills group.\n")
	b.WriteString("5. key_responsibilities are the posting's own bullet points.\n")
	b.WriteString("6. years_of_experience only when stated, like \"5+ years\" or \"3-5 years\". Leave it empty otherwise.\n\n")
	b.WriteString("Return this JSON structure:\n")
	b.WriteString(`{
  "job_title": "exact title",
  "company_name": "exact name",
  "department": "",
  "seniority_level": "Senior",
  "location": "",
  "workplace_type": "Remote",
  "job_type": "Full-time",
  "salary_min": 0,
  "salary_max": 0,
  "salary_currency": "USD",
  "summary": "1-2 sentence summary",
  "key_responsibilities": ["exact bullet points"],
  "years_of_experience": "5+ years",
  "education_level": "Bachelor's",
  "technical_skills": {
    "programming_languages": ["Go"],
    "frameworks": [],
    "databases": ["PostgreSQL"],
    "cloud_platforms": ["AWS"],
    "devops_tools": ["Kubernetes"]
  },
  "skills": ["distributed systems"],
  "nice_to_have": ["exact nice-to-haves"],
  "benefits": ["exact benefits"],
  "source_url": "`)
	b.WriteString(sourceURL)
	b.WriteString("\"\n}\n\nReturn ONLY JSON.")
	return b.String()
}

// ParsePosting decodes a provider reply into a JobPosting. Markdown code
// fences around the JSON are ignored.
func ParsePosting(reply string) (*JobPosting, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, Errorf(ENOCONTENT, "empty analysis reply")
	}

	var p JobPosting
	if err := json.Unmarshal([]byte(reply), &p); err != nil {
		return nil, Errorf(EINVALID, "analysis reply is not a job posting: %v", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ReportURL returns the value of the first "URL:" line of a report, or "".
func ReportURL(text string) string {
	for line := range strings.Lines(text) {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "URL:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// TokenCounter counts the model tokens of extracted text.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)

	// PromptTokens counts the tokens of an analysis request for text.
	PromptTokens(ctx context.Context, text, sourceURL string) (int, error)
}
