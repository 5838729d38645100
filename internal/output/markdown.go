package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// MarkdownFormatter outputs the scan result as GitHub-flavored markdown,
// designed for job summaries and PR comments.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(w io.Writer, result *types.ScanResult) error {
	if result.TotalFindings() == 0 {
		f.printClean(w, result)
		return nil
	}

	f.printSummary(w, result)
	for i := range result.Files {
		f.printFile(w, &result.Files[i])
	}
	f.printFooter(w, result)
	return nil
}

func (f *MarkdownFormatter) printClean(w io.Writer, result *types.ScanResult) {
	fmt.Fprintf(w, "### :white_check_mark: Code Analytics — No issues found\n\n")
	fmt.Fprintf(w, "> %d files scanned · %d rules · %.2fs\n",
		result.FilesScanned, result.RulesLoaded, result.Duration.Seconds())
}

func (f *MarkdownFormatter) printSummary(w io.Writer, result *types.ScanResult) {
	fmt.Fprintf(w, "### :bar_chart: Code Analytics — %d findings, worst grade %s\n\n",
		result.TotalFindings(), result.WorstGrade())

	fmt.Fprintf(w, "> **Target:** `%s` · %d files · %d rules · %.2fs\n\n",
		result.Target, result.FilesScanned, result.RulesLoaded, result.Duration.Seconds())

	counts := result.CountBySeverity()
	var badges []string
	for _, sev := range severityOrder {
		c := counts[sev]
		if c == 0 {
			continue
		}
		badges = append(badges, fmt.Sprintf("%s **%d %s**", severityEmoji(sev), c, sev.String()))
	}
	fmt.Fprintf(w, "%s\n\n", strings.Join(badges, " · "))
}

func (f *MarkdownFormatter) printFile(w io.Writer, fr *types.FileReport) {
	report := fr.Report
	fmt.Fprintf(w, "<details%s>\n", openByDefault(report.Score.Grade))
	fmt.Fprintf(w, "<summary>%s <code>%s</code> — <strong>%s (%d/100)</strong> · %s · %d findings</summary>\n\n",
		gradeEmoji(report.Score.Grade), fr.Path, report.Score.Grade, report.Score.Value,
		fr.Language, report.TotalFindings())

	for _, sec := range sections(report) {
		if len(sec.Findings) == 0 {
			continue
		}
		fmt.Fprintf(w, "**%s (%d)**\n\n", sec.Title, len(sec.Findings))
		fmt.Fprintf(w, "| Rule | Severity | Line | Message |\n")
		fmt.Fprintf(w, "|------|----------|------|---------|\n")
		for _, finding := range sec.Findings {
			msg := finding.Message
			if finding.Snippet != "" {
				msg += fmt.Sprintf("<br><code>%s</code>",
					escapeMarkdown(truncate(finding.Snippet, snipWidth)))
			}
			fmt.Fprintf(w, "| `%s` | %s %s | L%d | %s |\n",
				finding.RuleID, severityEmoji(finding.Severity),
				finding.Severity.String(), finding.Line, msg)
		}
		fmt.Fprintf(w, "\n")
	}

	stats := report.Stats
	fmt.Fprintf(w, "*%d lines (%d code, %d comment, %d blank) · %d functions · %d classes · max nesting %d*\n",
		stats.TotalLines, stats.CodeLines, stats.CommentLines, stats.BlankLines,
		stats.Functions, stats.Classes, stats.MaxNesting)

	fmt.Fprintf(w, "\n</details>\n\n")
}

func (f *MarkdownFormatter) printFooter(w io.Writer, result *types.ScanResult) {
	fmt.Fprintf(w, "---\n")
	fmt.Fprintf(w, "*Generated by [CodeAnalytics](%s) %s*\n", informationURI, ToolVersion)
}

func severityEmoji(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return ":red_circle:"
	case types.SeverityHigh:
		return ":orange_circle:"
	case types.SeverityMedium:
		return ":yellow_circle:"
	case types.SeverityLow:
		return ":blue_circle:"
	case types.SeverityInfo:
		return ":white_circle:"
	default:
		return ":black_circle:"
	}
}

func gradeEmoji(g types.Grade) string {
	switch g {
	case types.GradeA:
		return ":green_circle:"
	case types.GradeB:
		return ":large_blue_circle:"
	case types.GradeC:
		return ":yellow_circle:"
	case types.GradeD:
		return ":orange_circle:"
	default:
		return ":red_circle:"
	}
}

func openByDefault(g types.Grade) string {
	if g == types.GradeD || g == types.GradeF {
		return " open"
	}
	return ""
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
