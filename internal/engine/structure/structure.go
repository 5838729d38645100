// Package structure extracts document-level shape: line counts, function and
// class counts, nesting depth, plus the quality findings that depend on shape
// rather than on any single-line pattern.
package structure

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/LetsJonnTV/CodeAnalytics/internal/lang"
	"github.com/LetsJonnTV/CodeAnalytics/internal/lexer"
	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

const (
	maxFunctionLines = 50
	maxNestingDepth  = 4
	maxLineLength    = 120
	maxParams        = 5
	dupMinLength     = 20
	dupMinCount      = 3
	snippetMax       = 80
)

// Extractor computes StructureStats and shape-based findings in one pass.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Name() string { return "structure" }

// openFunc tracks a function whose end has not been seen yet.
type openFunc struct {
	name      string
	startLine int
	indent    int
	depth     int
	bodyLines int
}

// Extract walks the document once and returns the stats plus the structural
// findings. The findings are ordered by line number.
func (e *Extractor) Extract(ctx context.Context, doc *lexer.Document) (types.StructureStats, []types.Finding, error) {
	var stats types.StructureStats
	if err := ctx.Err(); err != nil {
		return stats, nil, err
	}

	syntax := lang.SyntaxFor(doc.Language)
	var findings []types.Finding

	indentUnit := detectIndentUnit(doc)
	braceDepth := 0
	var funcs []*openFunc
	dupSeen := map[string][]int{}
	var dupOrder []string

	for i := range doc.Lines {
		line := &doc.Lines[i]
		raw := line.Raw
		runes := utf8.RuneCountInString(raw)

		stats.TotalLines++
		stats.Characters += runes
		stats.Words += len(strings.Fields(raw))
		if runes > stats.MaxLineLength {
			stats.MaxLineLength = runes
		}

		switch {
		case line.Blank():
			stats.BlankLines++
		case line.CommentOnly():
			stats.CommentLines++
		default:
			stats.CodeLines++
		}

		if runes > maxLineLength {
			findings = append(findings, types.Finding{
				RuleID:   "STRUCT003",
				Category: types.CategoryQuality,
				Severity: types.SeverityLow,
				Line:     line.Number,
				Column:   maxLineLength + 1,
				Message:  fmt.Sprintf("Line exceeds %d characters (%d)", maxLineLength, runes),
				Snippet:  snippet(raw),
				Analyzer: e.Name(),
			})
		}

		code := line.Code()

		// Nesting depth. Indent-based languages use indentation level,
		// brace languages use brace depth.
		if syntax.IndentBased {
			if !line.Blank() && !line.CommentOnly() {
				depth := indentOf(raw) / indentUnit
				if depth > stats.MaxNesting {
					stats.MaxNesting = depth
				}
				closeIndentFuncs(e, &funcs, indentOf(raw), &findings)
			}
		} else {
			braceDepth += strings.Count(code, "{")
			if braceDepth > stats.MaxNesting {
				stats.MaxNesting = braceDepth
			}
			braceDepth -= strings.Count(code, "}")
			if braceDepth < 0 {
				braceDepth = 0
			}
			closeBraceFuncs(e, &funcs, braceDepth, &findings)
		}

		// Duplicate code lines. Only substantial code lines participate.
		if trimmed := strings.TrimSpace(code); len(trimmed) >= dupMinLength && !line.Blank() && !line.CommentOnly() {
			key := trimmed
			if _, seen := dupSeen[key]; !seen {
				dupOrder = append(dupOrder, key)
			}
			dupSeen[key] = append(dupSeen[key], line.Number)
		}

		if syntax.ClassPattern != nil && syntax.ClassPattern.MatchString(code) {
			stats.Classes++
		}

		if syntax.FuncPattern != nil && syntax.FuncPattern.MatchString(code) {
			stats.Functions++

			f := &openFunc{
				name:      funcName(code),
				startLine: line.Number,
				indent:    indentOf(raw),
				depth:     braceDepth,
			}
			funcs = append(funcs, f)

			if n := paramCount(code); n > maxParams {
				findings = append(findings, types.Finding{
					RuleID:   "STRUCT006",
					Category: types.CategoryQuality,
					Severity: types.SeverityMedium,
					Line:     line.Number,
					Column:   1,
					Message:  fmt.Sprintf("Function %s takes %d parameters (max %d)", f.name, n, maxParams),
					Snippet:  snippet(raw),
					Analyzer: e.Name(),
				})
			}

			if doc.Language == lang.Python && !hasDocstring(doc, i) {
				findings = append(findings, types.Finding{
					RuleID:   "STRUCT004",
					Category: types.CategoryQuality,
					Severity: types.SeverityInfo,
					Line:     line.Number,
					Column:   1,
					Message:  fmt.Sprintf("Function %s has no docstring", f.name),
					Snippet:  snippet(raw),
					Analyzer: e.Name(),
				})
			}
		} else if !line.Blank() && !line.CommentOnly() {
			for _, f := range funcs {
				f.bodyLines++
			}
		}
	}

	// Functions still open at end of file.
	for _, f := range funcs {
		reportLongFunc(e, f, &findings)
	}

	if stats.MaxNesting > maxNestingDepth {
		findings = append(findings, types.Finding{
			RuleID:   "STRUCT002",
			Category: types.CategoryQuality,
			Severity: types.SeverityHigh,
			Line:     deepestLine(doc, syntax, indentUnit, stats.MaxNesting),
			Column:   1,
			Message:  fmt.Sprintf("Nesting depth %d exceeds %d", stats.MaxNesting, maxNestingDepth),
			Analyzer: e.Name(),
		})
	}

	for _, key := range dupOrder {
		occ := dupSeen[key]
		if len(occ) >= dupMinCount {
			findings = append(findings, types.Finding{
				RuleID:   "STRUCT005",
				Category: types.CategoryQuality,
				Severity: types.SeverityLow,
				Line:     occ[0],
				Column:   1,
				Message:  fmt.Sprintf("Line duplicated %d times", len(occ)),
				Snippet:  snippet(key),
				Analyzer: e.Name(),
			})
		}
	}

	if doc.Language == lang.Python && stats.CodeLines > 0 && !hasDocstring(doc, -1) {
		findings = append(findings, types.Finding{
			RuleID:   "STRUCT004",
			Category: types.CategoryQuality,
			Severity: types.SeverityInfo,
			Line:     1,
			Column:   1,
			Message:  "Module has no docstring",
			Analyzer: e.Name(),
		})
	}

	if stats.TotalLines > 0 {
		stats.AvgLineLength = float64(stats.Characters) / float64(stats.TotalLines)
	}

	sortByLine(findings)
	return stats, findings, nil
}

func closeIndentFuncs(e *Extractor, funcs *[]*openFunc, indent int, findings *[]types.Finding) {
	kept := (*funcs)[:0]
	for _, f := range *funcs {
		if f.bodyLines > 0 && indent <= f.indent {
			reportLongFunc(e, f, findings)
			continue
		}
		kept = append(kept, f)
	}
	*funcs = kept
}

func closeBraceFuncs(e *Extractor, funcs *[]*openFunc, depth int, findings *[]types.Finding) {
	kept := (*funcs)[:0]
	for _, f := range *funcs {
		if f.bodyLines > 0 && depth < f.depth {
			reportLongFunc(e, f, findings)
			continue
		}
		kept = append(kept, f)
	}
	*funcs = kept
}

func reportLongFunc(e *Extractor, f *openFunc, findings *[]types.Finding) {
	if f.bodyLines <= maxFunctionLines {
		return
	}
	*findings = append(*findings, types.Finding{
		RuleID:   "STRUCT001",
		Category: types.CategoryQuality,
		Severity: types.SeverityMedium,
		Line:     f.startLine,
		Column:   1,
		Message:  fmt.Sprintf("Function %s is %d lines long (max %d)", f.name, f.bodyLines, maxFunctionLines),
		Analyzer: e.Name(),
	})
}

// hasDocstring reports whether the line after a Python def opens with a
// string literal.
func hasDocstring(doc *lexer.Document, defIdx int) bool {
	for j := defIdx + 1; j < len(doc.Lines); j++ {
		l := &doc.Lines[j]
		if l.Blank() || l.CommentOnly() {
			continue
		}
		for _, sp := range l.Spans {
			if strings.TrimSpace(l.Raw[sp.Start:sp.End]) == "" {
				continue
			}
			return sp.Kind == lexer.KindString
		}
		return false
	}
	return false
}

// deepestLine returns the first line reaching the maximum nesting depth, for
// anchoring the deep-nesting finding.
func deepestLine(doc *lexer.Document, syntax lang.Syntax, indentUnit, target int) int {
	depth := 0
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if syntax.IndentBased {
			if line.Blank() || line.CommentOnly() {
				continue
			}
			if indentOf(line.Raw)/indentUnit >= target {
				return line.Number
			}
		} else {
			depth += strings.Count(line.Code(), "{")
			if depth >= target {
				return line.Number
			}
			depth -= strings.Count(line.Code(), "}")
		}
	}
	return 1
}

// funcName extracts the declared name from a definition line, best effort.
func funcName(code string) string {
	fields := strings.FieldsFunc(code, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '('
	})
	for i, f := range fields {
		switch f {
		case "def", "function", "func", "fn":
			if i+1 < len(fields) {
				return strings.TrimSuffix(fields[i+1], ":")
			}
		}
	}
	if len(fields) > 0 {
		return strings.TrimSuffix(fields[len(fields)-1], ":")
	}
	return "?"
}

// paramCount counts parameters in the definition line's first paren group.
// Definitions whose parameter list spans lines are counted from the first
// line only.
func paramCount(code string) int {
	open := strings.IndexByte(code, '(')
	if open < 0 {
		return 0
	}
	end := strings.IndexByte(code[open:], ')')
	var inner string
	if end < 0 {
		inner = code[open+1:]
	} else {
		inner = code[open+1 : open+end]
	}
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return 0
	}
	n := 1
	depth := 0
	for _, r := range inner {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				n++
			}
		}
	}
	return n
}

func indentOf(raw string) int {
	n := 0
	for _, r := range raw {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

// detectIndentUnit guesses the indentation step as the smallest nonzero
// indent of any code line, clamped to at least 2. Defaults to 4.
func detectIndentUnit(doc *lexer.Document) int {
	unit := 0
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if line.Blank() || line.CommentOnly() {
			continue
		}
		ind := indentOf(line.Raw)
		if ind > 0 && (unit == 0 || ind < unit) {
			unit = ind
		}
	}
	if unit < 2 {
		return 4
	}
	return unit
}

func sortByLine(findings []types.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Line < findings[j].Line
	})
}

func snippet(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) > snippetMax {
		s = s[:snippetMax] + "..."
	}
	return s
}
