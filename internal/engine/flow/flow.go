// Package flow implements detections that need loop context: a line-oriented
// pattern cannot know it is inside a loop, so this detector tracks loop
// nesting across lines and flags constructs that are only a problem there.
package flow

import (
	"context"
	"regexp"
	"strings"

	"github.com/LetsJonnTV/CodeAnalytics/internal/lexer"
	"github.com/LetsJonnTV/CodeAnalytics/internal/types"

	"github.com/LetsJonnTV/CodeAnalytics/internal/lang"
)

const snippetMax = 80

var (
	reAugConcat  = regexp.MustCompile(`\b(\w+)\s*\+=\s*(.+)$`)
	reSelfConcat = regexp.MustCompile(`\b(\w+)\s*=\s*(\w+)\s*\+`)
	reStringish  = regexp.MustCompile(`["'` + "`" + `]|\bstr\s*\(|\.join\b|\bString\s*\(`)
	reWhileLen   = regexp.MustCompile(`\bwhile\b[^:{]*(?:\blen\s*\(|\.length\b|\.size\s*\()`)
	reFuncName   = regexp.MustCompile(`\b(?:def|function|func|fn)\s+(\w+)`)
	reBranch     = regexp.MustCompile(`\b(?:if|elif|else|switch|case|when|unless)\b|\?`)
)

// Detector finds loop-related inefficiencies.
type Detector struct{}

func New() *Detector { return &Detector{} }

func (d *Detector) Name() string { return "flow" }

// loopFrame is one open loop. For indent-based languages the frame closes
// when a non-blank line at or below the indent appears; for brace languages
// it closes when the brace depth drops back to the opening depth.
type loopFrame struct {
	indent int
	depth  int
	line   int
}

// funcFrame tracks one open named function for the recursion heuristic.
type funcFrame struct {
	name         string
	indent       int
	depth        int
	selfCallLine int
	sawBranch    bool
}

// Detect walks the document once, tracking loop and function nesting, and
// reports string concatenation inside loops, excessive loop nesting, loop
// conditions that re-evaluate a length on every iteration, and recursive
// functions with no visible base case.
func (d *Detector) Detect(ctx context.Context, doc *lexer.Document) ([]types.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	syntax := lang.SyntaxFor(doc.Language)
	if syntax.LoopPattern == nil {
		return nil, nil
	}

	var findings []types.Finding
	var stack []loopFrame
	var funcs []funcFrame
	braceDepth := 0
	maxNest := 0
	nestReported := false

	closeFunc := func(f funcFrame) {
		if f.selfCallLine > 0 && !f.sawBranch {
			findings = append(findings, types.Finding{
				RuleID:   "FLOW004",
				Category: types.CategoryPerformance,
				Severity: types.SeverityLow,
				Line:     f.selfCallLine,
				Column:   1,
				Message:  "Recursion without a visible base case",
				Snippet:  snippet(doc.Lines[f.selfCallLine-1].Raw),
				Analyzer: d.Name(),
			})
		}
	}

	for i := range doc.Lines {
		line := &doc.Lines[i]
		code := line.Code()

		if syntax.IndentBased {
			if !line.Blank() && !line.CommentOnly() {
				ind := indentOf(line.Raw)
				for len(stack) > 0 && ind <= stack[len(stack)-1].indent {
					stack = stack[:len(stack)-1]
				}
				for len(funcs) > 0 && ind <= funcs[len(funcs)-1].indent {
					closeFunc(funcs[len(funcs)-1])
					funcs = funcs[:len(funcs)-1]
				}
			}
		} else {
			opens := strings.Count(code, "{")
			closes := strings.Count(code, "}")
			// Close frames before processing: a "}" on this line ends the loop
			// whose body it closes.
			braceDepth -= closes
			for len(stack) > 0 && braceDepth < stack[len(stack)-1].depth {
				stack = stack[:len(stack)-1]
			}
			for len(funcs) > 0 && braceDepth < funcs[len(funcs)-1].depth {
				closeFunc(funcs[len(funcs)-1])
				funcs = funcs[:len(funcs)-1]
			}
			braceDepth += opens
		}

		isDef := syntax.FuncPattern != nil && syntax.FuncPattern.MatchString(code)
		if len(funcs) > 0 && !isDef {
			top := &funcs[len(funcs)-1]
			if reBranch.MatchString(code) {
				top.sawBranch = true
			}
			if top.selfCallLine == 0 && callsSelf(code, top.name) {
				top.selfCallLine = line.Number
			}
		}
		if isDef {
			if m := reFuncName.FindStringSubmatch(code); m != nil {
				frame := funcFrame{name: m[1]}
				if syntax.IndentBased {
					frame.indent = indentOf(line.Raw)
				} else {
					frame.depth = braceDepth
				}
				funcs = append(funcs, frame)
			}
		}

		inLoop := len(stack) > 0

		if inLoop {
			if f, ok := concatInLoop(code, line.NoComments()); ok {
				findings = append(findings, types.Finding{
					RuleID:   "FLOW001",
					Category: types.CategoryPerformance,
					Severity: types.SeverityMedium,
					Line:     line.Number,
					Column:   f + 1,
					Message:  "String concatenation inside a loop",
					Snippet:  snippet(line.Raw),
					Analyzer: d.Name(),
				})
			}
		}

		if syntax.LoopPattern.MatchString(code) {
			if loc := reWhileLen.FindStringIndex(code); loc != nil {
				findings = append(findings, types.Finding{
					RuleID:   "FLOW003",
					Category: types.CategoryPerformance,
					Severity: types.SeverityLow,
					Line:     line.Number,
					Column:   loc[0] + 1,
					Message:  "Length re-evaluated in loop condition",
					Snippet:  snippet(line.Raw),
					Analyzer: d.Name(),
				})
			}

			frame := loopFrame{line: line.Number}
			if syntax.IndentBased {
				frame.indent = indentOf(line.Raw)
			} else {
				frame.depth = braceDepth
			}
			stack = append(stack, frame)

			if len(stack) > maxNest {
				maxNest = len(stack)
			}
			if len(stack) >= 3 && !nestReported {
				findings = append(findings, types.Finding{
					RuleID:   "FLOW002",
					Category: types.CategoryPerformance,
					Severity: types.SeverityHigh,
					Line:     line.Number,
					Column:   1,
					Message:  "Deeply nested loops",
					Snippet:  snippet(line.Raw),
					Analyzer: d.Name(),
				})
				nestReported = true
			}
		}
	}

	for len(funcs) > 0 {
		closeFunc(funcs[len(funcs)-1])
		funcs = funcs[:len(funcs)-1]
	}

	return findings, nil
}

// concatInLoop reports a string concatenation assignment. The structure is
// matched on the code view; the string-likeness of the right side is checked
// on the comment-stripped view, where quote characters are still visible.
func concatInLoop(code, noComments string) (int, bool) {
	if m := reSelfConcat.FindStringSubmatchIndex(code); m != nil {
		lhs := code[m[2]:m[3]]
		rhs := code[m[4]:m[5]]
		if lhs == rhs {
			return m[0], true
		}
	}
	if m := reAugConcat.FindStringSubmatchIndex(code); m != nil {
		if reStringish.MatchString(noComments[m[4]:m[5]]) {
			return m[0], true
		}
	}
	return 0, false
}

// callsSelf reports whether code contains a call to name at a word boundary,
// so that "callf(" does not count as a call to "f".
func callsSelf(code, name string) bool {
	for off := 0; ; {
		i := strings.Index(code[off:], name+"(")
		if i < 0 {
			return false
		}
		i += off
		if i == 0 || !isWordByte(code[i-1]) {
			return true
		}
		off = i + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
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

func snippet(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) > snippetMax {
		s = s[:snippetMax] + "..."
	}
	return s
}
