package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

const informationURI = "https://github.com/LetsJonnTV/CodeAnalytics"

// SARIFFormatter outputs findings in SARIF 2.1.0 format for code-scanning
// integrations.
type SARIFFormatter struct{}

func (f *SARIFFormatter) Format(w io.Writer, result *types.ScanResult) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("creating sarif report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("codeanalytics", informationURI)

	seen := map[string]bool{}
	for _, fr := range result.Files {
		for _, finding := range fr.Report.AllFindings() {
			if !seen[finding.RuleID] {
				seen[finding.RuleID] = true
				run.AddRule(finding.RuleID).
					WithDescription(finding.Message).
					WithDefaultConfiguration(&sarif.ReportingConfiguration{
						Level: severityToLevel(finding.Severity),
					})
			}

			line := max(finding.Line, 1)
			col := max(finding.Column, 1)
			msg := finding.Message
			if finding.Snippet != "" {
				msg += ": " + finding.Snippet
			}
			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(fr.Path)).
					WithRegion(sarif.NewRegion().WithStartLine(line).WithStartColumn(col)),
			)
			run.AddResult(
				sarif.NewRuleResult(finding.RuleID).
					WithMessage(sarif.NewTextMessage(msg)).
					WithLevel(severityToLevel(finding.Severity)).
					WithLocations([]*sarif.Location{location}),
			)
		}
	}

	run.AttachPropertyBag(sarif.NewPropertyBag())
	run.PropertyBag.Add("run_id", result.RunID)
	run.PropertyBag.Add("duration_ms", result.Duration.Milliseconds())
	report.AddRun(run)
	return report.PrettyWrite(w)
}

func severityToLevel(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return "error"
	case types.SeverityHigh:
		return "warning"
	case types.SeverityMedium, types.SeverityLow:
		return "note"
	default:
		return "none"
	}
}
