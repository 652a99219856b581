// Package yaml loads extraction configuration overrides from YAML files.
package yaml

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"regexp"
	"slices"
	"time"

	"github.com/fwojciec/jobtext"
	yaml "gopkg.in/yaml.v3"
)

// File is the on-disk configuration schema. Every field is optional; unset
// fields keep the value of the configuration being overlaid.
type File struct {
	Readiness struct {
		PollInterval  *time.Duration `yaml:"poll_interval"`
		StableSamples *int           `yaml:"stable_samples"`
		MinimumLength *int           `yaml:"minimum_length"`
		MaxWait       *time.Duration `yaml:"max_wait"`
	} `yaml:"readiness"`

	Coordinator struct {
		EarlyTriggerLength *int           `yaml:"early_trigger_length"`
		EarlyTriggerDelay  *time.Duration `yaml:"early_trigger_delay"`
		HardDeadline       *time.Duration `yaml:"hard_deadline"`
	} `yaml:"coordinator"`

	EmbeddedPolicy string `yaml:"embedded_policy"`

	Thresholds struct {
		MinDescriptionLength *int `yaml:"min_description_length"`
		MinMarkerLength      *int `yaml:"min_marker_length"`
		MinRegionLength      *int `yaml:"min_region_length"`
	} `yaml:"thresholds"`

	Selectors struct {
		Structured map[jobtext.SiteKind]jobtext.FieldSelectors `yaml:"structured"`
		Markers    map[jobtext.SiteKind][]string               `yaml:"markers"`
		Noise      []string                                    `yaml:"noise"`
		Regions    []string                                    `yaml:"regions"`
		Main       []string                                    `yaml:"main"`
	} `yaml:"selectors"`

	Rules struct {
		// Universal replaces the universal rule set when non-empty.
		Universal []RuleEntry `yaml:"universal"`

		// Extra is appended to the universal rule set.
		Extra []RuleEntry `yaml:"extra"`

		// Sites replaces the site rules of each listed site.
		Sites map[jobtext.SiteKind][]RuleEntry `yaml:"sites"`
	} `yaml:"rules"`
}

// RuleEntry is a normalization rule as written in a file.
type RuleEntry struct {
	Name        string `yaml:"name"`
	Stage       string `yaml:"stage"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
	Truncate    bool   `yaml:"truncate"`
}

// Rule compiles e.
func (e RuleEntry) Rule() (jobtext.Rule, error) {
	stage, err := jobtext.ParseStage(e.Stage)
	if err != nil {
		return jobtext.Rule{}, err
	}
	if e.Pattern == "" {
		return jobtext.Rule{}, jobtext.Errorf(jobtext.EINVALID, "rule %q: pattern required", e.Name)
	}
	re, err := regexp.Compile(e.Pattern)
	if err != nil {
		return jobtext.Rule{}, jobtext.Errorf(jobtext.EINVALID, "rule %q: %v", e.Name, err)
	}
	return jobtext.Rule{
		Name:        e.Name,
		Stage:       stage,
		Pattern:     re,
		Replacement: e.Replacement,
		Truncate:    e.Truncate,
	}, nil
}

// LoadConfig reads the file at path and overlays it on base.
func LoadConfig(path string, base jobtext.Config) (jobtext.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, jobtext.Errorf(jobtext.ENOTFOUND, "config file not found: %s", path)
		}
		return base, err
	}
	defer f.Close()
	return ReadConfig(f, base)
}

// ReadConfig decodes a YAML document from r and overlays it on base. The
// result is validated.
func ReadConfig(r io.Reader, base jobtext.Config) (jobtext.Config, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return base, jobtext.Errorf(jobtext.EINVALID, "parse config: %v", err)
	}
	cfg, err := file.Apply(base)
	if err != nil {
		return base, err
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Apply returns cfg with the values set in f.
func (f *File) Apply(cfg jobtext.Config) (jobtext.Config, error) {
	if err := f.checkSites(); err != nil {
		return cfg, err
	}

	set(&cfg.Readiness.PollInterval, f.Readiness.PollInterval)
	set(&cfg.Readiness.RequiredStableSamples, f.Readiness.StableSamples)
	set(&cfg.Readiness.MinimumLength, f.Readiness.MinimumLength)
	set(&cfg.Readiness.MaxWait, f.Readiness.MaxWait)

	set(&cfg.Coordinator.EarlyTriggerLength, f.Coordinator.EarlyTriggerLength)
	set(&cfg.Coordinator.EarlyTriggerDelay, f.Coordinator.EarlyTriggerDelay)
	set(&cfg.Coordinator.HardDeadline, f.Coordinator.HardDeadline)

	if f.EmbeddedPolicy != "" {
		cfg.EmbeddedPolicy = jobtext.EmbeddedPolicy(f.EmbeddedPolicy)
	}

	set(&cfg.Thresholds.MinDescriptionLength, f.Thresholds.MinDescriptionLength)
	set(&cfg.Thresholds.MinMarkerLength, f.Thresholds.MinMarkerLength)
	set(&cfg.Thresholds.MinRegionLength, f.Thresholds.MinRegionLength)

	cfg.Selectors = f.applySelectors(cfg.Selectors)

	rules, err := f.applyRules(cfg.Rules)
	if err != nil {
		return cfg, err
	}
	cfg.Rules = rules
	return cfg, nil
}

// checkSites rejects site keys that name no known site.
func (f *File) checkSites() error {
	kinds := slices.Concat(
		slices.Collect(maps.Keys(f.Selectors.Structured)),
		slices.Collect(maps.Keys(f.Selectors.Markers)),
		slices.Collect(maps.Keys(f.Rules.Sites)),
	)
	for _, k := range kinds {
		if !slices.Contains(jobtext.SiteKinds, k) {
			return jobtext.Errorf(jobtext.EINVALID, "unknown site %q", k)
		}
	}
	return nil
}

func (f *File) applySelectors(sel jobtext.Selectors) jobtext.Selectors {
	if len(f.Selectors.Structured) > 0 {
		structured := make(map[jobtext.SiteKind]jobtext.FieldSelectors, len(sel.Structured))
		maps.Copy(structured, sel.Structured)
		maps.Copy(structured, f.Selectors.Structured)
		sel.Structured = structured
	}
	if len(f.Selectors.Markers) > 0 {
		markers := make(map[jobtext.SiteKind][]string, len(sel.Markers))
		maps.Copy(markers, sel.Markers)
		maps.Copy(markers, f.Selectors.Markers)
		sel.Markers = markers
	}
	if len(f.Selectors.Noise) > 0 {
		sel.Noise = f.Selectors.Noise
	}
	if len(f.Selectors.Regions) > 0 {
		sel.Regions = f.Selectors.Regions
	}
	if len(f.Selectors.Main) > 0 {
		sel.Main = f.Selectors.Main
	}
	return sel
}

func (f *File) applyRules(rules jobtext.Rules) (jobtext.Rules, error) {
	if len(f.Rules.Universal) > 0 {
		compiled, err := compile(f.Rules.Universal)
		if err != nil {
			return rules, err
		}
		rules.Universal = jobtext.RuleSet{Name: "universal", Rules: compiled}
	}
	if len(f.Rules.Extra) > 0 {
		compiled, err := compile(f.Rules.Extra)
		if err != nil {
			return rules, err
		}
		rules.Universal = rules.Universal.With(rules.Universal.Name, compiled...)
	}
	if len(f.Rules.Sites) > 0 {
		sites := make(map[jobtext.SiteKind][]jobtext.Rule, len(rules.Sites))
		maps.Copy(sites, rules.Sites)
		for k, entries := range f.Rules.Sites {
			compiled, err := compile(entries)
			if err != nil {
				return rules, fmt.Errorf("site %s: %w", k, err)
			}
			sites[k] = compiled
		}
		rules.Sites = sites
	}
	return rules, nil
}

func compile(entries []RuleEntry) ([]jobtext.Rule, error) {
	rules := make([]jobtext.Rule, 0, len(entries))
	for _, e := range entries {
		r, err := e.Rule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
