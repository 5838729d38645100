package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

func sampleResult() *types.ScanResult {
	return &types.ScanResult{
		RunID: "test-run",
		Files: []types.FileReport{
			{
				Path:     "app.py",
				Language: "Python",
				Report: &types.Report{
					Language: "Python",
					Security: []types.Finding{
						{
							RuleID:   "SEC001",
							Category: types.CategorySecurity,
							Severity: types.SeverityHigh,
							Line:     10,
							Column:   1,
							Message:  "SQL built by string concatenation",
							Snippet:  `cursor.execute("..." + user_id)`,
							Analyzer: "pattern-security",
						},
					},
					Quality: []types.Finding{
						{
							RuleID:   "QUAL001",
							Category: types.CategoryQuality,
							Severity: types.SeverityInfo,
							Line:     3,
							Message:  "TODO marker",
							Analyzer: "pattern-quality",
						},
					},
					Stats: types.StructureStats{TotalLines: 20, CodeLines: 15},
					Score: types.Score{Value: 90, Grade: types.GradeA},
				},
			},
		},
		FilesScanned: 1,
		RulesLoaded:  27,
		Duration:     120 * time.Millisecond,
		Target:       "src",
	}
}

func cleanResult() *types.ScanResult {
	return &types.ScanResult{
		RunID: "clean-run",
		Files: []types.FileReport{
			{
				Path:     "ok.py",
				Language: "Python",
				Report: &types.Report{
					Language: "Python",
					Score:    types.Score{Value: 100, Grade: types.GradeA},
				},
			},
		},
		FilesScanned: 1,
		RulesLoaded:  27,
	}
}

func TestFactory(t *testing.T) {
	for _, name := range []string{"", "terminal", "json", "sarif", "markdown", "md", "html"} {
		f, err := New(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}
	_, err := New("xml")
	assert.Error(t, err)
}

func TestTerminalOutput(t *testing.T) {
	var buf bytes.Buffer
	f := &TerminalFormatter{NoColor: true}
	require.NoError(t, f.Format(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "CODE ANALYTICS REPORT")
	assert.Contains(t, out, "app.py")
	assert.Contains(t, out, "[A] 90/100")
	assert.Contains(t, out, "SECURITY (1)")
	assert.Contains(t, out, "QUALITY (1)")
	assert.Contains(t, out, "SEC001")
	assert.Contains(t, out, "L10:1")
	assert.NotContains(t, out, "\033[")
}

func TestTerminalCleanOutput(t *testing.T) {
	var buf bytes.Buffer
	f := &TerminalFormatter{NoColor: true}
	require.NoError(t, f.Format(&buf, cleanResult()))
	assert.Contains(t, buf.String(), "No issues found")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "test-run", decoded["run_id"])
	assert.Equal(t, float64(120), decoded["duration_ms"])

	files := decoded["files"].([]any)
	require.Len(t, files, 1)
	report := files[0].(map[string]any)["report"].(map[string]any)
	assert.Equal(t, float64(90), report["score"].(map[string]any)["value"])
}

func TestSARIFOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&SARIFFormatter{}).Format(&buf, sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "2.1.0", decoded["version"])

	runs := decoded["runs"].([]any)
	require.Len(t, runs, 1)
	run := runs[0].(map[string]any)
	driver := run["tool"].(map[string]any)["driver"].(map[string]any)
	assert.Equal(t, "codeanalytics", driver["name"])

	results := run["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, "SEC001", first["ruleId"])
	assert.Equal(t, "warning", first["level"])
}

func TestSARIFSeverityLevels(t *testing.T) {
	assert.Equal(t, "error", severityToLevel(types.SeverityCritical))
	assert.Equal(t, "warning", severityToLevel(types.SeverityHigh))
	assert.Equal(t, "note", severityToLevel(types.SeverityMedium))
	assert.Equal(t, "note", severityToLevel(types.SeverityLow))
	assert.Equal(t, "none", severityToLevel(types.SeverityInfo))
}

func TestMarkdownOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownFormatter{}).Format(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "2 findings")
	assert.Contains(t, out, "`app.py`")
	assert.Contains(t, out, "A (90/100)")
	assert.Contains(t, out, "| `SEC001` |")
	assert.Contains(t, out, "SECURITY (1)")
}

func TestMarkdownCleanOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownFormatter{}).Format(&buf, cleanResult()))
	assert.Contains(t, buf.String(), "No issues found")
}

func TestMarkdownEscaping(t *testing.T) {
	result := sampleResult()
	result.Files[0].Report.Security[0].Snippet = `el.innerHTML = "<b>" | x`
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownFormatter{}).Format(&buf, result))
	out := buf.String()
	assert.Contains(t, out, "&lt;b&gt;")
	assert.Contains(t, out, `\|`)
}

func TestHTMLOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&HTMLFormatter{}).Format(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "Code Analytics Report")
	assert.Contains(t, out, "app.py")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "SEC001")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("x", 100)
	got := truncate(long, 60)
	assert.Len(t, got, 60)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "a b c", truncate("a\nb\tc", 10))
}
