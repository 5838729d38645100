// Package score turns findings into a 0-100 value and a letter grade.
// Scoring is pure and deterministic: the same findings always produce the
// same score.
package score

import (
	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// Thresholds are the minimum score values for each letter grade. Anything
// below D is an F.
type Thresholds struct {
	A int `yaml:"a"`
	B int `yaml:"b"`
	C int `yaml:"c"`
	D int `yaml:"d"`
}

// Config holds the scoring knobs. All values can be overridden from the
// project config file.
type Config struct {
	// Weights maps severity to the points one finding deducts.
	Weights map[types.Severity]int
	// CategoryCap limits the total deduction a single category can cause,
	// so a flood of one issue class cannot zero the score alone.
	CategoryCap int
	Thresholds  Thresholds
}

// DefaultConfig returns the stock scoring configuration.
func DefaultConfig() Config {
	return Config{
		Weights: map[types.Severity]int{
			types.SeverityInfo:     0,
			types.SeverityLow:      2,
			types.SeverityMedium:   5,
			types.SeverityHigh:     10,
			types.SeverityCritical: 20,
		},
		CategoryCap: 40,
		Thresholds:  Thresholds{A: 90, B: 80, C: 70, D: 60},
	}
}

// Compute derives the score from all findings of one document. A document
// with any critical finding is graded D at best, whatever its numeric score.
func Compute(cfg Config, findings []types.Finding) types.Score {
	penalty := map[types.Category]int{}
	hasCritical := false

	for _, f := range findings {
		penalty[f.Category] += cfg.Weights[f.Severity]
		if f.Severity == types.SeverityCritical {
			hasCritical = true
		}
	}

	value := 100
	for _, p := range penalty {
		if cfg.CategoryCap > 0 && p > cfg.CategoryCap {
			p = cfg.CategoryCap
		}
		value -= p
	}
	if value < 0 {
		value = 0
	}

	grade := gradeFor(cfg.Thresholds, value)
	if hasCritical && betterThan(grade, types.GradeD) {
		grade = types.GradeD
	}

	return types.Score{Value: value, Grade: grade}
}

func gradeFor(t Thresholds, value int) types.Grade {
	switch {
	case value >= t.A:
		return types.GradeA
	case value >= t.B:
		return types.GradeB
	case value >= t.C:
		return types.GradeC
	case value >= t.D:
		return types.GradeD
	default:
		return types.GradeF
	}
}

var gradeRank = map[types.Grade]int{
	types.GradeA: 0,
	types.GradeB: 1,
	types.GradeC: 2,
	types.GradeD: 3,
	types.GradeF: 4,
}

func betterThan(a, b types.Grade) bool {
	return gradeRank[a] < gradeRank[b]
}
