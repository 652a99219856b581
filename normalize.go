package jobtext

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Stage orders normalization rules. Later stages assume earlier ones have run.
type Stage int

const (
	// StageStructural strips leftover style and script fragments and
	// CSS-looking blocks.
	StageStructural Stage = iota

	// StageAssets removes URLs and font asset filenames.
	StageAssets

	// StageWhitespace collapses runs of blank lines and spaces.
	StageWhitespace

	// StageBoilerplate trims legal, cookie and cross-promotion text.
	StageBoilerplate

	// StageSite holds rules that only apply to one site.
	StageSite
)

var stageNames = []string{"structural", "assets", "whitespace", "boilerplate", "site"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// ParseStage returns the stage with the given name.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if strings.EqualFold(n, name) {
			return Stage(i), nil
		}
	}
	return 0, Errorf(EINVALID, "unknown normalization stage %q", name)
}

// Rule is one rewrite applied by Normalize. A truncating rule cuts the text
// at the start of the first match instead of replacing it, unless the match
// is at the very beginning of the text.
type Rule struct {
	Name        string
	Stage       Stage
	Pattern     *regexp.Regexp
	Replacement string
	Truncate    bool
}

// RuleSet is an ordered collection of normalization rules.
type RuleSet struct {
	Name  string
	Rules []Rule
}

// With returns a new rule set holding the rules of rs followed by extra.
func (rs RuleSet) With(name string, extra ...Rule) RuleSet {
	rules := make([]Rule, 0, len(rs.Rules)+len(extra))
	rules = append(rules, rs.Rules...)
	rules = append(rules, extra...)
	return RuleSet{Name: name, Rules: rules}
}

// Only returns the rules of rs belonging to one of stages.
func (rs RuleSet) Only(stages ...Stage) RuleSet {
	var rules []Rule
	for _, r := range rs.Rules {
		if slices.Contains(stages, r.Stage) {
			rules = append(rules, r)
		}
	}
	return RuleSet{Name: rs.Name, Rules: rules}
}

// Normalize cleans extracted text with rs. Rules run in stage order and,
// within a stage, in declaration order. The pipeline is repeated until the
// text stops changing, so Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string, rs RuleSet) string {
	rules := slices.Clone(rs.Rules)
	slices.SortStableFunc(rules, func(a, b Rule) int {
		return int(a.Stage) - int(b.Stage)
	})

	// After the first pass the text is in NFKC form and every later change
	// shortens it, so len(text) more passes reach the fixpoint. The bound
	// only stops custom rules that grow the text.
	text = normalizePass(text, rules)
	for passes := len(text) + 1; passes > 0; passes-- {
		next := normalizePass(text, rules)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func normalizePass(text string, rules []Rule) string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, r := range rules {
		if r.Pattern == nil {
			continue
		}
		if r.Truncate {
			if loc := r.Pattern.FindStringIndex(text); loc != nil && loc[0] > 0 {
				text = text[:loc[0]]
			}
			continue
		}
		text = r.Pattern.ReplaceAllString(text, r.Replacement)
	}
	return strings.TrimSpace(text)
}
