// Package pattern implements the rule-driven detector: every catalog rule of
// one category is matched line by line against the lexical view its scope
// selects, so a rule never fires inside a zone it excludes.
package pattern

import (
	"context"
	"sort"
	"strings"

	"github.com/LetsJonnTV/CodeAnalytics/internal/lexer"
	"github.com/LetsJonnTV/CodeAnalytics/internal/rules"
	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

const snippetMax = 80

// Matcher runs the compiled rules of a single category.
type Matcher struct {
	category types.Category
	rules    []*rules.CompiledRule
}

// NewMatcher creates a detector for the given category, keeping only the
// matching subset of the compiled catalog.
func NewMatcher(category types.Category, compiled []*rules.CompiledRule) *Matcher {
	return &Matcher{
		category: category,
		rules:    rules.ByCategory(compiled, category),
	}
}

func (m *Matcher) Name() string { return "pattern-" + string(m.category) }

// Detect matches every applicable rule against every line. At most one
// finding is produced per (rule, line) pair; a single line may still trigger
// several distinct rules.
func (m *Matcher) Detect(ctx context.Context, doc *lexer.Document) ([]types.Finding, error) {
	var findings []types.Finding

	for _, rule := range m.rules {
		if ctx.Err() != nil {
			return findings, ctx.Err()
		}
		if !rule.AppliesTo(doc.Language) {
			continue
		}
		for i := range doc.Lines {
			line := &doc.Lines[i]
			view := viewFor(line, rule.Scope)
			col, ok := matchLine(rule, view)
			if !ok {
				continue
			}
			findings = append(findings, types.Finding{
				RuleID:   rule.ID,
				Category: rule.Category,
				Severity: rule.Severity,
				Line:     line.Number,
				Column:   col + 1,
				Message:  rule.Name,
				Snippet:  snippet(line.Raw),
				Analyzer: m.Name(),
			})
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].RuleID < findings[j].RuleID
	})
	return findings, nil
}

// viewFor returns the lexical projection of a line that the rule's scope
// matches against. Byte offsets are preserved, so columns stay meaningful.
func viewFor(line *lexer.Line, scope rules.Scope) string {
	switch scope {
	case rules.ScopeStrings:
		return line.Strings()
	case rules.ScopeComments:
		return line.Comments()
	case rules.ScopeRaw:
		return line.NoComments()
	default:
		return line.Code()
	}
}

// matchLine evaluates a rule against one projected line. It returns the
// byte column of the first hit.
func matchLine(rule *rules.CompiledRule, view string) (int, bool) {
	for _, ep := range rule.ExcludePatterns {
		if _, hit := matchPattern(ep, view); hit {
			return 0, false
		}
	}

	switch rule.MatchMode {
	case rules.MatchAll:
		first := -1
		for _, p := range rule.Patterns {
			col, hit := matchPattern(p, view)
			if !hit {
				return 0, false
			}
			if first < 0 || col < first {
				first = col
			}
		}
		return first, true
	default:
		for _, p := range rule.Patterns {
			if col, hit := matchPattern(p, view); hit {
				return col, true
			}
		}
		return 0, false
	}
}

func matchPattern(p rules.CompiledPattern, view string) (int, bool) {
	switch p.Type {
	case rules.PatternRegex:
		if p.Regex == nil {
			return 0, false
		}
		if loc := p.Regex.FindStringIndex(view); loc != nil {
			return loc[0], true
		}
	case rules.PatternContains:
		if idx := strings.Index(strings.ToLower(view), p.Value); idx >= 0 {
			return idx, true
		}
	}
	return 0, false
}

func snippet(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) > snippetMax {
		s = s[:snippetMax] + "..."
	}
	return s
}
