package rules

import (
	"regexp"

	"github.com/LetsJonnTV/CodeAnalytics/internal/lang"
	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// MatchMode determines how multiple patterns are combined.
type MatchMode int

const (
	MatchAny MatchMode = iota // OR — any pattern match triggers a finding
	MatchAll                  // AND — all patterns must match on the same line
)

// PatternType represents the type of a pattern.
type PatternType string

const (
	PatternRegex    PatternType = "regex"
	PatternContains PatternType = "contains"
)

// Scope selects which lexical zones of a line a rule matches against.
type Scope string

const (
	// ScopeCode matches with string and comment spans blanked out.
	ScopeCode Scope = "code"
	// ScopeStrings matches only inside string literal spans.
	ScopeStrings Scope = "strings"
	// ScopeComments matches only inside comment spans.
	ScopeComments Scope = "comments"
	// ScopeRaw matches the raw line with comment spans blanked out.
	ScopeRaw Scope = "raw"
)

// RawPattern is a single pattern as defined in YAML.
type RawPattern struct {
	Type  PatternType `yaml:"type"`
	Value string      `yaml:"value"`
}

// RawExamples contains test examples for rule self-testing.
type RawExamples struct {
	TruePositive  []string `yaml:"true_positive"`
	FalsePositive []string `yaml:"false_positive"`
}

// RawRule is the YAML representation of a detection rule.
type RawRule struct {
	ID              string       `yaml:"id"`
	Name            string       `yaml:"name"`
	Description     string       `yaml:"description"`
	Category        string       `yaml:"category"`
	Severity        string       `yaml:"severity"`
	Languages       []string     `yaml:"languages"`
	Scope           string       `yaml:"scope"`
	MatchMode       string       `yaml:"match_mode"`
	Patterns        []RawPattern `yaml:"patterns"`
	ExcludePatterns []RawPattern `yaml:"exclude_patterns"`
	Examples        RawExamples  `yaml:"examples"`
}

// CompiledPattern is a pattern ready for matching.
type CompiledPattern struct {
	Type  PatternType
	Regex *regexp.Regexp // set when Type == PatternRegex
	Value string         // set when Type == PatternContains (lowercased)
}

// CompiledRule is a rule compiled and ready for execution. An empty
// Languages list means the rule is language-agnostic.
type CompiledRule struct {
	ID              string
	Name            string
	Description     string
	Category        types.Category
	Severity        types.Severity
	Languages       []lang.Language
	Scope           Scope
	MatchMode       MatchMode
	Patterns        []CompiledPattern
	ExcludePatterns []CompiledPattern
	Examples        RawExamples
}

// AppliesTo reports whether the rule runs for the given language.
// Language-agnostic rules apply everywhere, including Unknown.
func (r *CompiledRule) AppliesTo(l lang.Language) bool {
	if len(r.Languages) == 0 {
		return true
	}
	for _, rl := range r.Languages {
		if rl == l {
			return true
		}
	}
	return false
}
