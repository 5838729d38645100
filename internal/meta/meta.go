// Package meta post-processes findings after the detectors run: duplicate
// suppression and canonical ordering. Output formatting depends on this
// ordering being stable.
package meta

import (
	"sort"

	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// Deduplicate collapses findings that share (rule id, line), keeping the
// highest severity. Input order decides ties; the result is re-sorted by the
// caller anyway.
func Deduplicate(findings []types.Finding) []types.Finding {
	type key struct {
		rule string
		line int
	}
	best := make(map[key]int, len(findings))
	out := make([]types.Finding, 0, len(findings))

	for _, f := range findings {
		k := key{rule: f.RuleID, line: f.Line}
		if idx, ok := best[k]; ok {
			if f.Severity > out[idx].Severity {
				out[idx] = f
			}
			continue
		}
		best[k] = len(out)
		out = append(out, f)
	}
	return out
}

// Sort orders findings by line ascending, then severity descending, then
// rule id ascending. This is the canonical report order.
func Sort(findings []types.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		return a.RuleID < b.RuleID
	})
}

// SplitByCategory partitions findings into the three report sections,
// preserving input order.
func SplitByCategory(findings []types.Finding) (security, performance, quality []types.Finding) {
	for _, f := range findings {
		switch f.Category {
		case types.CategorySecurity:
			security = append(security, f)
		case types.CategoryPerformance:
			performance = append(performance, f)
		default:
			quality = append(quality, f)
		}
	}
	return security, performance, quality
}

// FilterMinSeverity drops findings below the given severity.
func FilterMinSeverity(findings []types.Finding, min types.Severity) []types.Finding {
	if min <= types.SeverityInfo {
		return findings
	}
	out := findings[:0:0]
	for _, f := range findings {
		if f.Severity >= min {
			out = append(out, f)
		}
	}
	return out
}
