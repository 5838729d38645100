// Package types defines the shared data structures (Finding, Severity,
// Category, Report) used across the lexer, engine, and output packages to
// prevent import cycles.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Severity represents the severity level of a finding.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityLow:
		return "LOW"
	case SeverityInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON serializes a Severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses a Severity from its string form.
func (s *Severity) UnmarshalJSON(data []byte) error {
	sev, err := ParseSeverity(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// ParseSeverity converts a string to a Severity level.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return SeverityCritical, nil
	case "HIGH":
		return SeverityHigh, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "LOW":
		return SeverityLow, nil
	case "INFO":
		return SeverityInfo, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity: %q", s)
	}
}

// Category classifies a finding into one of the three report sections.
type Category string

const (
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
	CategoryQuality     Category = "quality"
)

// ParseCategory converts a string to a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "security":
		return CategorySecurity, nil
	case "performance":
		return CategoryPerformance, nil
	case "quality":
		return CategoryQuality, nil
	default:
		return "", fmt.Errorf("unknown category: %q", s)
	}
}

// Finding represents a single reported issue on one line of a document.
type Finding struct {
	RuleID   string   `json:"rule_id"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Line     int      `json:"line"`
	Column   int      `json:"column,omitempty"`
	Message  string   `json:"message"`
	Snippet  string   `json:"snippet,omitempty"`
	Analyzer string   `json:"analyzer"`
}

// StructureStats holds line-level and structural counts for one document.
// Function, class, and nesting numbers are heuristic, not exact.
type StructureStats struct {
	TotalLines    int     `json:"total_lines"`
	CodeLines     int     `json:"code_lines"`
	BlankLines    int     `json:"blank_lines"`
	CommentLines  int     `json:"comment_lines"`
	Characters    int     `json:"characters"`
	Words         int     `json:"words"`
	Functions     int     `json:"functions"`
	Classes       int     `json:"classes"`
	MaxNesting    int     `json:"max_nesting"`
	MaxLineLength int     `json:"max_line_length"`
	AvgLineLength float64 `json:"avg_line_length"`
}

// Grade is the letter grade derived from a numeric score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Score is a numeric value in [0,100] with its derived letter grade.
type Score struct {
	Value int   `json:"value"`
	Grade Grade `json:"grade"`
}

// Report is the immutable result of analyzing a single document.
// Findings are grouped by category and sorted by line ascending, severity
// descending, rule id ascending.
type Report struct {
	Language    string         `json:"language"`
	Security    []Finding      `json:"security"`
	Performance []Finding      `json:"performance"`
	Quality     []Finding      `json:"quality"`
	Stats       StructureStats `json:"stats"`
	Score       Score          `json:"score"`
}

// TotalFindings returns the number of findings across all categories.
func (r *Report) TotalFindings() int {
	return len(r.Security) + len(r.Performance) + len(r.Quality)
}

// AllFindings returns every finding in category order. The returned slice is
// freshly allocated; the report itself is never mutated.
func (r *Report) AllFindings() []Finding {
	out := make([]Finding, 0, r.TotalFindings())
	out = append(out, r.Security...)
	out = append(out, r.Performance...)
	out = append(out, r.Quality...)
	return out
}

// FileReport pairs a scanned file path with its analysis report.
type FileReport struct {
	Path     string  `json:"path"`
	Language string  `json:"language"`
	Report   *Report `json:"report"`
}

// ScanResult holds the complete results of a batch scan.
type ScanResult struct {
	RunID        string        `json:"run_id"`
	Files        []FileReport  `json:"files"`
	FilesScanned int           `json:"files_scanned"`
	RulesLoaded  int           `json:"rules_loaded"`
	Duration     time.Duration `json:"-"`
	Target       string        `json:"-"`
}

// MarshalJSON implements custom JSON marshaling so Duration serializes as
// milliseconds.
func (r ScanResult) MarshalJSON() ([]byte, error) {
	type Alias ScanResult
	return json.Marshal(struct {
		Alias
		DurationMS int64 `json:"duration_ms"`
	}{
		Alias:      Alias(r),
		DurationMS: r.Duration.Milliseconds(),
	})
}

// TotalFindings returns the number of findings across all scanned files.
func (r *ScanResult) TotalFindings() int {
	n := 0
	for _, fr := range r.Files {
		n += fr.Report.TotalFindings()
	}
	return n
}

// CountBySeverity tallies findings per severity across all files.
func (r *ScanResult) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, fr := range r.Files {
		for _, f := range fr.Report.AllFindings() {
			counts[f.Severity]++
		}
	}
	return counts
}

// WorstGrade returns the lowest grade across all scanned files, or GradeA
// for an empty result.
func (r *ScanResult) WorstGrade() Grade {
	order := map[Grade]int{GradeA: 0, GradeB: 1, GradeC: 2, GradeD: 3, GradeF: 4}
	worst := GradeA
	for _, fr := range r.Files {
		if order[fr.Report.Score.Grade] > order[worst] {
			worst = fr.Report.Score.Grade
		}
	}
	return worst
}
