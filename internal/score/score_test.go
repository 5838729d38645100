package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

func finding(cat types.Category, sev types.Severity) types.Finding {
	return types.Finding{RuleID: "X", Category: cat, Severity: sev, Line: 1}
}

func TestCleanScore(t *testing.T) {
	s := Compute(DefaultConfig(), nil)
	assert.Equal(t, 100, s.Value)
	assert.Equal(t, types.GradeA, s.Grade)
}

func TestInfoCostsNothing(t *testing.T) {
	s := Compute(DefaultConfig(), []types.Finding{
		finding(types.CategoryQuality, types.SeverityInfo),
		finding(types.CategoryQuality, types.SeverityInfo),
	})
	assert.Equal(t, 100, s.Value)
	assert.Equal(t, types.GradeA, s.Grade)
}

func TestSeverityWeights(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		sev  types.Severity
		want int
	}{
		{types.SeverityLow, 98},
		{types.SeverityMedium, 95},
		{types.SeverityHigh, 90},
		{types.SeverityCritical, 80},
	}
	for _, tc := range cases {
		s := Compute(cfg, []types.Finding{finding(types.CategorySecurity, tc.sev)})
		assert.Equal(t, tc.want, s.Value, tc.sev.String())
	}
}

func TestCategoryCap(t *testing.T) {
	var findings []types.Finding
	for i := 0; i < 10; i++ {
		findings = append(findings, finding(types.CategorySecurity, types.SeverityHigh))
	}
	s := Compute(DefaultConfig(), findings)
	// 10 highs would be 100 points, capped at 40 for one category.
	assert.Equal(t, 60, s.Value)
}

func TestCapPerCategoryNotGlobal(t *testing.T) {
	var findings []types.Finding
	for i := 0; i < 10; i++ {
		findings = append(findings, finding(types.CategorySecurity, types.SeverityHigh))
		findings = append(findings, finding(types.CategoryPerformance, types.SeverityHigh))
		findings = append(findings, finding(types.CategoryQuality, types.SeverityHigh))
	}
	s := Compute(DefaultConfig(), findings)
	assert.Equal(t, 0, s.Value)
	assert.Equal(t, types.GradeF, s.Grade)
}

func TestCriticalCapsGrade(t *testing.T) {
	s := Compute(DefaultConfig(), []types.Finding{
		finding(types.CategorySecurity, types.SeverityCritical),
	})
	// 80 would be a B, but a critical finding caps the grade at D.
	assert.Equal(t, 80, s.Value)
	assert.Equal(t, types.GradeD, s.Grade)
}

func TestCriticalDoesNotLiftF(t *testing.T) {
	var findings []types.Finding
	for i := 0; i < 3; i++ {
		findings = append(findings, finding(types.CategorySecurity, types.SeverityCritical))
		findings = append(findings, finding(types.CategoryPerformance, types.SeverityCritical))
		findings = append(findings, finding(types.CategoryQuality, types.SeverityCritical))
	}
	s := Compute(DefaultConfig(), findings)
	assert.Equal(t, types.GradeF, s.Grade)
}

func TestGradeBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		value int
		want  types.Grade
	}{
		{100, types.GradeA}, {90, types.GradeA},
		{89, types.GradeB}, {80, types.GradeB},
		{79, types.GradeC}, {70, types.GradeC},
		{69, types.GradeD}, {60, types.GradeD},
		{59, types.GradeF}, {0, types.GradeF},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, gradeFor(cfg.Thresholds, tc.value), tc.value)
	}
}

func TestMonotonicity(t *testing.T) {
	base := []types.Finding{finding(types.CategorySecurity, types.SeverityMedium)}
	more := append(append([]types.Finding{}, base...),
		finding(types.CategoryQuality, types.SeverityLow))
	assert.GreaterOrEqual(t, Compute(DefaultConfig(), base).Value,
		Compute(DefaultConfig(), more).Value)
}

func TestCustomWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights[types.SeverityLow] = 10
	s := Compute(cfg, []types.Finding{finding(types.CategoryQuality, types.SeverityLow)})
	assert.Equal(t, 90, s.Value)
}
