// Package output formats scan results for terminal (ANSI), JSON, SARIF,
// Markdown, and HTML output.
package output

import (
	"fmt"
	"io"

	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// ToolVersion is the version reported in SARIF and report footers.
var ToolVersion = "dev"

// Formatter is the interface for outputting scan results.
type Formatter interface {
	Format(w io.Writer, result *types.ScanResult) error
}

// New returns the formatter for a format name.
func New(format string) (Formatter, error) {
	switch format {
	case "", "terminal":
		return &TerminalFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "sarif":
		return &SARIFFormatter{}, nil
	case "markdown", "md":
		return &MarkdownFormatter{}, nil
	case "html":
		return &HTMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

var severityOrder = []types.Severity{
	types.SeverityCritical,
	types.SeverityHigh,
	types.SeverityMedium,
	types.SeverityLow,
	types.SeverityInfo,
}

type categorySection struct {
	Title    string
	Findings []types.Finding
}

func sections(report *types.Report) []categorySection {
	return []categorySection{
		{Title: "SECURITY", Findings: report.Security},
		{Title: "PERFORMANCE", Findings: report.Performance},
		{Title: "QUALITY", Findings: report.Quality},
	}
}
