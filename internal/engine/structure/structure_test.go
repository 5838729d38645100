package structure

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LetsJonnTV/CodeAnalytics/internal/lang"
	"github.com/LetsJonnTV/CodeAnalytics/internal/lexer"
	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

func extract(t *testing.T, src string, l lang.Language) (types.StructureStats, []types.Finding) {
	t.Helper()
	stats, findings, err := New().Extract(context.Background(), lexer.Scan(src, l))
	require.NoError(t, err)
	return stats, findings
}

func byRule(findings []types.Finding, id string) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if f.RuleID == id {
			out = append(out, f)
		}
	}
	return out
}

func TestLineCounts(t *testing.T) {
	src := `"""Module doc."""

# a comment
x = 1
y = 2
`
	stats, _ := extract(t, src, lang.Python)
	assert.Equal(t, 5, stats.TotalLines)
	assert.Equal(t, 1, stats.BlankLines)
	assert.Equal(t, 1, stats.CommentLines)
	assert.Equal(t, 3, stats.CodeLines)
	assert.Greater(t, stats.Words, 0)
	assert.Greater(t, stats.Characters, 0)
}

func TestFunctionAndClassCounts(t *testing.T) {
	src := `"""Mod."""
class Widget:
    def paint(self):
        """Draw."""
        pass

    def resize(self, w, h):
        """Resize."""
        pass

def helper():
    """Help."""
    pass
`
	stats, _ := extract(t, src, lang.Python)
	assert.Equal(t, 1, stats.Classes)
	assert.Equal(t, 3, stats.Functions)
}

func TestMaxNestingTripleLoop(t *testing.T) {
	src := `"""Mod."""
for i in range(3):
    for j in range(3):
        for k in range(3):
            print(i, j, k)
`
	stats, _ := extract(t, src, lang.Python)
	assert.GreaterOrEqual(t, stats.MaxNesting, 3)
}

func TestBraceNesting(t *testing.T) {
	src := `function f() {
  if (a) {
    if (b) {
      go();
    }
  }
}
`
	stats, _ := extract(t, src, lang.JavaScript)
	assert.Equal(t, 3, stats.MaxNesting)
}

func TestDeepNestingFinding(t *testing.T) {
	var b strings.Builder
	b.WriteString(`"""Mod."""` + "\n")
	for d := 0; d < 5; d++ {
		b.WriteString(strings.Repeat("    ", d) + fmt.Sprintf("for v%d in x:\n", d))
	}
	b.WriteString(strings.Repeat("    ", 5) + "work()\n")

	stats, findings := extract(t, b.String(), lang.Python)
	assert.Equal(t, 5, stats.MaxNesting)
	require.Len(t, byRule(findings, "STRUCT002"), 1)
	assert.Equal(t, types.SeverityHigh, byRule(findings, "STRUCT002")[0].Severity)
}

func TestLongLineFinding(t *testing.T) {
	src := `"""Mod."""` + "\n" + "x = '" + strings.Repeat("a", 130) + "'\n"
	stats, findings := extract(t, src, lang.Python)
	assert.Greater(t, stats.MaxLineLength, 120)
	long := byRule(findings, "STRUCT003")
	require.Len(t, long, 1)
	assert.Equal(t, 2, long[0].Line)
}

func TestLongFunctionFinding(t *testing.T) {
	var b strings.Builder
	b.WriteString(`"""Mod."""` + "\n")
	b.WriteString("def big():\n")
	b.WriteString(`    """Doc."""` + "\n")
	for i := 0; i < 55; i++ {
		b.WriteString(fmt.Sprintf("    x%d = %d\n", i, i))
	}
	b.WriteString("done = True\n")

	_, findings := extract(t, b.String(), lang.Python)
	long := byRule(findings, "STRUCT001")
	require.Len(t, long, 1)
	assert.Equal(t, 2, long[0].Line)
	assert.Equal(t, types.SeverityMedium, long[0].Severity)
}

func TestShortFunctionNotFlagged(t *testing.T) {
	src := `"""Mod."""
def small():
    """Doc."""
    return 1
`
	_, findings := extract(t, src, lang.Python)
	assert.Empty(t, byRule(findings, "STRUCT001"))
}

func TestMissingDocstrings(t *testing.T) {
	src := `def f(x):
    return x
`
	_, findings := extract(t, src, lang.Python)
	docs := byRule(findings, "STRUCT004")
	// One for the module, one for the function.
	require.Len(t, docs, 2)
	assert.Equal(t, 1, docs[0].Line)
}

func TestDocstringsPresent(t *testing.T) {
	src := `"""Module doc."""

def f(x):
    """Doc."""
    return x
`
	_, findings := extract(t, src, lang.Python)
	assert.Empty(t, byRule(findings, "STRUCT004"))
}

func TestTooManyParameters(t *testing.T) {
	src := `"""Mod."""
def wide(a, b, c, d, e, f):
    """Doc."""
    pass
`
	_, findings := extract(t, src, lang.Python)
	wide := byRule(findings, "STRUCT006")
	require.Len(t, wide, 1)
	assert.Contains(t, wide[0].Message, "wide")
}

func TestDuplicateLines(t *testing.T) {
	dup := "value = compute_expensive_thing(context)\n"
	src := `"""Mod."""` + "\n" + dup + "a = 1\n" + dup + "b = 2\n" + dup
	_, findings := extract(t, src, lang.Python)
	dups := byRule(findings, "STRUCT005")
	require.Len(t, dups, 1)
	assert.Equal(t, 2, dups[0].Line)
	assert.Contains(t, dups[0].Message, "3")
}

func TestEmptyDocument(t *testing.T) {
	stats, findings := extract(t, "", lang.Python)
	assert.Equal(t, 0, stats.TotalLines)
	assert.Empty(t, findings)
	assert.Zero(t, stats.AvgLineLength)
}

func TestFindingsOrderedByLine(t *testing.T) {
	src := `def f(a, b, c, d, e, f, g):
    return "` + strings.Repeat("z", 130) + `"
`
	_, findings := extract(t, src, lang.Python)
	for i := 1; i < len(findings); i++ {
		assert.LessOrEqual(t, findings[i-1].Line, findings[i].Line)
	}
}
