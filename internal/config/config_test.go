package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".codeanalytics.yml"), []byte(content), 0o644))
}

func TestLoadMissingIsZero(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Ignore)
	assert.Empty(t, cfg.Format)
}

func TestLoadFull(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
ignore:
  - "dist/**"
  - "*.min.js"
severity: medium
fail_on: C
format: json
workers: 4
rule_overrides:
  SEC013:
    disabled: true
  SEC011:
    severity: high
scoring:
  category_cap: 30
  weights:
    low: 3
  thresholds:
    a: 95
`)
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"dist/**", "*.min.js"}, cfg.Ignore)
	assert.Equal(t, "medium", cfg.Severity)
	assert.Equal(t, "C", cfg.FailOn)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.RuleOverrides["SEC013"].Disabled)
	assert.Equal(t, "high", cfg.RuleOverrides["SEC011"].Severity)

	sc, err := cfg.ScoreConfig()
	require.NoError(t, err)
	assert.Equal(t, 30, sc.CategoryCap)
	assert.Equal(t, 3, sc.Weights[types.SeverityLow])
	assert.Equal(t, 95, sc.Thresholds.A)
	// Untouched values keep their defaults.
	assert.Equal(t, 80, sc.Thresholds.B)
	assert.Equal(t, 10, sc.Weights[types.SeverityHigh])
}

func TestLoadFromFilePathUsesParent(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "format: sarif\n")
	file := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(file, []byte("x = 1\n"), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "sarif", cfg.Format)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "ignore: [unclosed\n")
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestScoreConfigBadSeverity(t *testing.T) {
	cfg := Config{Scoring: &Scoring{Weights: map[string]int{"serious": 9}}}
	_, err := cfg.ScoreConfig()
	assert.Error(t, err)
}

func TestScoreConfigDefaultWhenNil(t *testing.T) {
	cfg := Config{}
	sc, err := cfg.ScoreConfig()
	require.NoError(t, err)
	assert.Equal(t, 40, sc.CategoryCap)
	assert.Equal(t, 90, sc.Thresholds.A)
}
