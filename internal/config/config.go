// Package config loads and applies .codeanalytics.yml configuration files
// for rule overrides, scoring adjustments, and scan settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/LetsJonnTV/CodeAnalytics/internal/score"
	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// RuleOverride allows per-rule severity or disable.
type RuleOverride struct {
	Severity string `yaml:"severity,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Scoring overrides parts of the default scoring configuration. Zero fields
// keep the defaults.
type Scoring struct {
	Weights     map[string]int `yaml:"weights,omitempty"` // severity name -> points
	CategoryCap int            `yaml:"category_cap,omitempty"`
	Thresholds  struct {
		A int `yaml:"a,omitempty"`
		B int `yaml:"b,omitempty"`
		C int `yaml:"c,omitempty"`
		D int `yaml:"d,omitempty"`
	} `yaml:"thresholds,omitempty"`
}

// Config represents the .codeanalytics.yml configuration file.
type Config struct {
	Paths         []string                `yaml:"paths,omitempty"`
	Ignore        []string                `yaml:"ignore,omitempty"`
	Severity      string                  `yaml:"severity,omitempty"`
	FailOn        string                  `yaml:"fail_on,omitempty"` // worst acceptable grade
	Format        string                  `yaml:"format,omitempty"`
	Rules         string                  `yaml:"rules,omitempty"` // extra rules directory
	Workers       int                     `yaml:"workers,omitempty"`
	RuleOverrides map[string]RuleOverride `yaml:"rule_overrides,omitempty"`
	Scoring       *Scoring                `yaml:"scoring,omitempty"`
}

// Load reads the .codeanalytics.yml or .codeanalytics.yaml config file from
// the given path. If path is a file, its parent directory is used. If no
// config file is found, it returns a zero Config (not an error).
func Load(dir string) (Config, error) {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for _, name := range []string{".codeanalytics.yml", ".codeanalytics.yaml"} {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		if info.Size() > 1<<20 {
			return Config{}, fmt.Errorf("config file too large: %s (%d bytes, max 1 MB)", path, info.Size())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		return cfg, nil
	}
	return Config{}, nil
}

// ScoreConfig merges the scoring overrides into the default scoring
// configuration. Unknown severity names are an error.
func (c *Config) ScoreConfig() (score.Config, error) {
	cfg := score.DefaultConfig()
	if c.Scoring == nil {
		return cfg, nil
	}
	for name, points := range c.Scoring.Weights {
		sev, err := types.ParseSeverity(name)
		if err != nil {
			return cfg, fmt.Errorf("scoring weights: %w", err)
		}
		cfg.Weights[sev] = points
	}
	if c.Scoring.CategoryCap > 0 {
		cfg.CategoryCap = c.Scoring.CategoryCap
	}
	t := c.Scoring.Thresholds
	if t.A > 0 {
		cfg.Thresholds.A = t.A
	}
	if t.B > 0 {
		cfg.Thresholds.B = t.B
	}
	if t.C > 0 {
		cfg.Thresholds.C = t.C
	}
	if t.D > 0 {
		cfg.Thresholds.D = t.D
	}
	return cfg, nil
}
