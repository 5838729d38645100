package codeanalytics_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	codeanalytics "github.com/LetsJonnTV/CodeAnalytics"
)

const sqlConcatSource = `import db

def lookup(user_id):
    """Fetch a user row."""
    conn = db.connect()
    return conn


def find(conn, name):
    """Find users by name."""
    return conn.execute("SELECT * FROM users WHERE name = '" + name + "'")
`

func TestAnalyzeSQLConcatenation(t *testing.T) {
	report, err := codeanalytics.Analyze(context.Background(), "app.py", sqlConcatSource)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.Language != "Python" {
		t.Errorf("Language = %q, want Python", report.Language)
	}

	var hits []codeanalytics.Finding
	for _, f := range report.Security {
		if f.RuleID == "SEC001" {
			hits = append(hits, f)
		}
	}
	if len(hits) != 1 {
		t.Fatalf("SEC001 findings = %d, want 1", len(hits))
	}
	if hits[0].Line != 11 {
		t.Errorf("SEC001 line = %d, want 11", hits[0].Line)
	}
	if hits[0].Severity != codeanalytics.SeverityHigh {
		t.Errorf("SEC001 severity = %v, want HIGH", hits[0].Severity)
	}
}

func TestAnalyzeCleanFile(t *testing.T) {
	content := "\"\"\"Tiny math helpers.\"\"\"\n\n\ndef add(a, b):\n    \"\"\"Add two numbers.\"\"\"\n    return a + b\n"
	report, err := codeanalytics.Analyze(context.Background(), "math.py", content)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.TotalFindings() != 0 {
		for _, f := range report.AllFindings() {
			t.Logf("  unexpected: %s L%d %s", f.RuleID, f.Line, f.Message)
		}
		t.Fatalf("findings = %d, want 0", report.TotalFindings())
	}
	if report.Score.Value != 100 || report.Score.Grade != codeanalytics.Grade("A") {
		t.Errorf("score = %d/%s, want 100/A", report.Score.Value, report.Score.Grade)
	}
}

func TestAnalyzeEmptyContent(t *testing.T) {
	report, err := codeanalytics.Analyze(context.Background(), "empty.py", "")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.Score.Value != 100 {
		t.Errorf("score = %d, want 100", report.Score.Value)
	}
}

func TestAnalyzeBinaryContent(t *testing.T) {
	_, err := codeanalytics.Analyze(context.Background(), "blob.bin", "ab\x00cd")
	if !errors.Is(err, codeanalytics.ErrBinaryContent) {
		t.Fatalf("err = %v, want ErrBinaryContent", err)
	}
}

func TestAnalyzeMinSeverity(t *testing.T) {
	content := "x = 1  # TODO: tidy this up later\n"
	report, err := codeanalytics.Analyze(context.Background(), "app.py", content,
		codeanalytics.WithMinSeverity(codeanalytics.SeverityHigh))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	for _, f := range report.AllFindings() {
		if f.Severity < codeanalytics.SeverityHigh {
			t.Errorf("finding %s below min severity: %v", f.RuleID, f.Severity)
		}
	}
}

func TestAnalyzeDisabledRule(t *testing.T) {
	report, err := codeanalytics.Analyze(context.Background(), "app.py", sqlConcatSource,
		codeanalytics.WithDisabledRules("SEC001"))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	for _, f := range report.Security {
		if f.RuleID == "SEC001" {
			t.Error("SEC001 reported despite being disabled")
		}
	}
}

func TestAnalyzeRuleOverride(t *testing.T) {
	report, err := codeanalytics.Analyze(context.Background(), "app.py", sqlConcatSource,
		codeanalytics.WithRuleOverrides(map[string]codeanalytics.RuleOverride{
			"SEC001": {Severity: "critical"},
		}))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	found := false
	for _, f := range report.Security {
		if f.RuleID == "SEC001" {
			found = true
			if f.Severity != codeanalytics.SeverityCritical {
				t.Errorf("severity = %v, want CRITICAL", f.Severity)
			}
		}
	}
	if !found {
		t.Fatal("SEC001 not reported")
	}
	// Any critical finding caps the grade at D.
	if report.Score.Grade == codeanalytics.Grade("A") || report.Score.Grade == codeanalytics.Grade("B") || report.Score.Grade == codeanalytics.Grade("C") {
		t.Errorf("grade = %s, want D or F with a critical finding", report.Score.Grade)
	}
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	if err := os.WriteFile(path, []byte(sqlConcatSource), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := codeanalytics.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}
	if len(report.Security) == 0 {
		t.Error("expected security findings")
	}
}

func TestScanPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.py"), []byte(sqlConcatSource), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "clean.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := codeanalytics.ScanPath(context.Background(), dir)
	if err != nil {
		t.Fatalf("ScanPath failed: %v", err)
	}
	if result.FilesScanned != 2 {
		t.Errorf("FilesScanned = %d, want 2", result.FilesScanned)
	}
	if result.RulesLoaded == 0 {
		t.Error("RulesLoaded = 0, want > 0")
	}
	if result.RunID == "" {
		t.Error("RunID empty")
	}
	if result.TotalFindings() == 0 {
		t.Error("expected findings from app.py")
	}
}

func TestScanPathIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "gen.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := codeanalytics.ScanPath(context.Background(), dir,
		codeanalytics.WithIgnorePatterns([]string{"gen.*"}))
	if err != nil {
		t.Fatalf("ScanPath failed: %v", err)
	}
	if result.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", result.FilesScanned)
	}
}

func TestClassifyLanguage(t *testing.T) {
	if got := codeanalytics.ClassifyLanguage("main.go", ""); got != "Go" {
		t.Errorf("ClassifyLanguage(main.go) = %q", got)
	}
	if got := codeanalytics.ClassifyLanguage("run", "#!/usr/bin/env python3\n"); got != "Python" {
		t.Errorf("shebang classification = %q", got)
	}
	if got := codeanalytics.ClassifyLanguage("mystery", "data"); got != "Unknown" {
		t.Errorf("fallback = %q", got)
	}
}

func TestListRules(t *testing.T) {
	all := codeanalytics.ListRules()
	if len(all) == 0 {
		t.Fatal("no rules")
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID < all[i-1].ID {
			t.Fatalf("rules not sorted: %s after %s", all[i].ID, all[i-1].ID)
		}
	}

	security := codeanalytics.ListRules(codeanalytics.WithCategory("security"))
	if len(security) == 0 || len(security) >= len(all) {
		t.Errorf("security rules = %d of %d", len(security), len(all))
	}
	for _, r := range security {
		if !strings.EqualFold(r.Category, "security") {
			t.Errorf("rule %s category = %s", r.ID, r.Category)
		}
	}
}

func TestExplainRule(t *testing.T) {
	detail, err := codeanalytics.ExplainRule("sec001")
	if err != nil {
		t.Fatalf("ExplainRule failed: %v", err)
	}
	if detail.ID != "SEC001" {
		t.Errorf("ID = %s", detail.ID)
	}
	if detail.Description == "" || len(detail.Patterns) == 0 {
		t.Error("expected description and patterns")
	}

	if _, err := codeanalytics.ExplainRule("NOPE999"); err == nil {
		t.Error("expected error for unknown rule")
	}
}
