// Package codeanalytics provides a public API for multi-language source
// code analysis: security, performance, and quality findings with a scored
// report per file.
//
// This is the library entry point. For the CLI tool, see cmd/codeanalytics/.
package codeanalytics

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/LetsJonnTV/CodeAnalytics/internal/analyzer"
	"github.com/LetsJonnTV/CodeAnalytics/internal/lang"
	"github.com/LetsJonnTV/CodeAnalytics/internal/rules"
	"github.com/LetsJonnTV/CodeAnalytics/internal/rules/builtin"
	"github.com/LetsJonnTV/CodeAnalytics/internal/scanner"
	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// Re-export core types from internal/types so consumers don't need to
// import internal packages.
type (
	Severity       = types.Severity
	Category       = types.Category
	Finding        = types.Finding
	Report         = types.Report
	FileReport     = types.FileReport
	ScanResult     = types.ScanResult
	Score          = types.Score
	Grade          = types.Grade
	StructureStats = types.StructureStats
	Language       = lang.Language
)

const (
	SeverityInfo     = types.SeverityInfo
	SeverityLow      = types.SeverityLow
	SeverityMedium   = types.SeverityMedium
	SeverityHigh     = types.SeverityHigh
	SeverityCritical = types.SeverityCritical
)

const (
	CategorySecurity    = types.CategorySecurity
	CategoryPerformance = types.CategoryPerformance
	CategoryQuality     = types.CategoryQuality
)

// ErrBinaryContent is returned when input is not analyzable text.
var ErrBinaryContent = analyzer.ErrBinaryContent

// RuleOverride allows changing the severity of a rule or disabling it.
type RuleOverride struct {
	Severity string
	Disabled bool
}

// RuleInfo provides summary metadata about a detection rule.
type RuleInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Category string `json:"category"`
}

// RuleDetail provides full information about a rule, including patterns and
// examples.
type RuleDetail struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Severity       string   `json:"severity"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	Languages      []string `json:"languages"`
	Scope          string   `json:"scope"`
	Patterns       []string `json:"patterns"`
	TruePositives  []string `json:"true_positives"`
	FalsePositives []string `json:"false_positives"`
}

// Analyze analyzes inline content. filename is a hint for language
// classification (e.g. "app.py"); content with a shebang is classified even
// without a recognized extension.
func Analyze(ctx context.Context, filename, content string, opts ...Option) (*Report, error) {
	cfg := applyOpts(opts)
	engine, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}
	return engine.AnalyzeAuto(ctx, filename, content)
}

// AnalyzeFile reads and analyzes a single file on disk.
func AnalyzeFile(ctx context.Context, path string, opts ...Option) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Analyze(ctx, path, string(data), opts...)
}

// ScanPath analyzes a file or directory tree on disk.
func ScanPath(ctx context.Context, path string, opts ...Option) (*ScanResult, error) {
	cfg := applyOpts(opts)
	s, err := buildScanner(cfg)
	if err != nil {
		return nil, err
	}
	return s.Scan(ctx, path)
}

// ScanChanged analyzes only files git reports as modified, staged, or
// untracked under root.
func ScanChanged(ctx context.Context, root string, opts ...Option) (*ScanResult, error) {
	cfg := applyOpts(opts)
	s, err := buildScanner(cfg)
	if err != nil {
		return nil, err
	}
	return s.ScanChanged(ctx, root)
}

// ClassifyLanguage maps a file name (and optional content for shebang
// sniffing) to a language name such as "Python" or "Unknown".
func ClassifyLanguage(filename, content string) string {
	return lang.ClassifyContent(filename, content).String()
}

// ListRules returns all available detection rules sorted by ID.
// Use WithCategory to filter by category.
func ListRules(opts ...Option) []RuleInfo {
	cfg := applyOpts(opts)
	compiled, _ := loadAndCompile(cfg)

	sort.Slice(compiled, func(i, j int) bool {
		return compiled[i].ID < compiled[j].ID
	})

	if cfg.category != "" {
		var filtered []*rules.CompiledRule
		for _, r := range compiled {
			if strings.EqualFold(string(r.Category), cfg.category) {
				filtered = append(filtered, r)
			}
		}
		compiled = filtered
	}

	infos := make([]RuleInfo, len(compiled))
	for i, r := range compiled {
		infos[i] = RuleInfo{
			ID:       r.ID,
			Name:     r.Name,
			Severity: r.Severity.String(),
			Category: string(r.Category),
		}
	}
	return infos
}

// ExplainRule returns detailed information about a specific rule.
func ExplainRule(id string, opts ...Option) (*RuleDetail, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	cfg := applyOpts(opts)
	compiled, _ := loadAndCompile(cfg)

	var found *rules.CompiledRule
	for _, r := range compiled {
		if r.ID == id {
			found = r
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("rule %q not found", id)
	}

	patterns := make([]string, len(found.Patterns))
	for i, p := range found.Patterns {
		switch p.Type {
		case rules.PatternRegex:
			patterns[i] = fmt.Sprintf("[regex] %s", p.Regex.String())
		case rules.PatternContains:
			patterns[i] = fmt.Sprintf("[contains] %s", p.Value)
		}
	}

	languages := make([]string, len(found.Languages))
	for i, l := range found.Languages {
		languages[i] = l.String()
	}

	return &RuleDetail{
		ID:             found.ID,
		Name:           found.Name,
		Severity:       found.Severity.String(),
		Category:       string(found.Category),
		Description:    found.Description,
		Languages:      languages,
		Scope:          string(found.Scope),
		Patterns:       patterns,
		TruePositives:  found.Examples.TruePositive,
		FalsePositives: found.Examples.FalsePositive,
	}, nil
}

// --- internal helpers ---

func applyOpts(opts []Option) *scanConfig {
	cfg := &scanConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// loadAndCompile loads built-in (and optionally custom) rules, compiles
// them, and applies overrides/filters. Used by all public functions.
func loadAndCompile(cfg *scanConfig) ([]*rules.CompiledRule, error) {
	rawRules, err := rules.LoadFromFS(builtin.FS())
	if err != nil {
		return nil, fmt.Errorf("loading built-in rules: %w", err)
	}

	if cfg.customRulesDir != "" {
		custom, err := rules.LoadFromDir(cfg.customRulesDir)
		if err != nil {
			return nil, fmt.Errorf("loading custom rules from %s: %w", cfg.customRulesDir, err)
		}
		rawRules = append(rawRules, custom...)
	}

	compiled, err := rules.CompileAll(rawRules)
	if err != nil {
		return nil, err
	}

	if len(cfg.ruleOverrides) > 0 {
		overrides := make(map[string]rules.RuleOverride, len(cfg.ruleOverrides))
		for id, ovr := range cfg.ruleOverrides {
			overrides[id] = rules.RuleOverride{Severity: ovr.Severity, Disabled: ovr.Disabled}
		}
		var overrideErrs []error
		compiled, overrideErrs = rules.ApplyOverrides(compiled, overrides)
		for _, e := range overrideErrs {
			fmt.Fprintf(os.Stderr, "codeanalytics: warning: %v\n", e)
		}
	}

	if len(cfg.disabledRules) > 0 {
		disabled := make(map[string]bool, len(cfg.disabledRules))
		for _, id := range cfg.disabledRules {
			disabled[strings.TrimSpace(id)] = true
		}
		compiled = rules.FilterByIDs(compiled, disabled)
	}

	return compiled, nil
}

// buildEngine creates an analysis engine from the resolved config.
func buildEngine(cfg *scanConfig) (*analyzer.Engine, error) {
	compiled, err := loadAndCompile(cfg)
	if err != nil {
		return nil, err
	}
	return analyzer.New(analyzer.Options{
		Rules:       compiled,
		Score:       cfg.scoring,
		MinSeverity: cfg.minSeverity,
		CacheSize:   cfg.cacheSize,
	})
}

// buildScanner creates a fully wired Scanner.
func buildScanner(cfg *scanConfig) (*scanner.Scanner, error) {
	engine, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}
	s := scanner.New(engine, cfg.workers)
	if len(cfg.ignorePatterns) > 0 {
		s.SetIgnorePatterns(cfg.ignorePatterns)
	}
	if cfg.logger != nil {
		s.SetLogger(cfg.logger)
	}
	return s, nil
}
