package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "CRITICAL", SeverityCritical.String())
	assert.Equal(t, "HIGH", SeverityHigh.String())
	assert.Equal(t, "MEDIUM", SeverityMedium.String())
	assert.Equal(t, "LOW", SeverityLow.String())
	assert.Equal(t, "INFO", SeverityInfo.String())
	assert.Equal(t, "UNKNOWN", Severity(99).String())
}

func TestParseSeverity(t *testing.T) {
	for _, s := range []string{"high", "HIGH", " High "} {
		sev, err := ParseSeverity(s)
		require.NoError(t, err, s)
		assert.Equal(t, SeverityHigh, sev)
	}
	_, err := ParseSeverity("fatal")
	assert.Error(t, err)
}

func TestSeverityJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(SeverityMedium)
	require.NoError(t, err)
	assert.Equal(t, `"MEDIUM"`, string(data))

	var s Severity
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, SeverityMedium, s)

	assert.Error(t, json.Unmarshal([]byte(`"bogus"`), &s))
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityCritical > SeverityHigh)
	assert.True(t, SeverityHigh > SeverityMedium)
	assert.True(t, SeverityMedium > SeverityLow)
	assert.True(t, SeverityLow > SeverityInfo)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Security")
	require.NoError(t, err)
	assert.Equal(t, CategorySecurity, c)

	_, err = ParseCategory("misc")
	assert.Error(t, err)
}

func TestReportCounts(t *testing.T) {
	r := Report{
		Security:    []Finding{{RuleID: "SEC001"}},
		Performance: []Finding{{RuleID: "PERF001"}, {RuleID: "PERF002"}},
	}
	assert.Equal(t, 3, r.TotalFindings())

	all := r.AllFindings()
	require.Len(t, all, 3)
	assert.Equal(t, "SEC001", all[0].RuleID)
	assert.Equal(t, "PERF001", all[1].RuleID)
}

func TestScanResultDurationJSON(t *testing.T) {
	r := ScanResult{
		RunID:    "abc",
		Duration: 1500 * time.Millisecond,
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(1500), decoded["duration_ms"])
	assert.NotContains(t, decoded, "Duration")
}

func TestCountBySeverity(t *testing.T) {
	r := ScanResult{Files: []FileReport{
		{Report: &Report{Security: []Finding{
			{Severity: SeverityHigh},
			{Severity: SeverityHigh},
		}}},
		{Report: &Report{Quality: []Finding{{Severity: SeverityLow}}}},
	}}
	counts := r.CountBySeverity()
	assert.Equal(t, 2, counts[SeverityHigh])
	assert.Equal(t, 1, counts[SeverityLow])
	assert.Equal(t, 0, counts[SeverityCritical])
}

func TestWorstGrade(t *testing.T) {
	empty := ScanResult{}
	assert.Equal(t, GradeA, empty.WorstGrade())

	r := ScanResult{Files: []FileReport{
		{Report: &Report{Score: Score{Grade: GradeB}}},
		{Report: &Report{Score: Score{Grade: GradeF}}},
		{Report: &Report{Score: Score{Grade: GradeC}}},
	}}
	assert.Equal(t, GradeF, r.WorstGrade())
}
