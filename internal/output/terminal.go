package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// ANSI color codes
const (
	reset     = "\033[0m"
	bold      = "\033[1m"
	dim       = "\033[2m"
	underline = "\033[4m"
	red       = "\033[31m"
	green     = "\033[32m"
	yellow    = "\033[33m"
	blue      = "\033[34m"
	cyan      = "\033[36m"
)

const (
	barWidth  = 40
	lineWidth = 72
	snipWidth = 60
)

// TerminalFormatter renders per-file grade reports with category sections.
type TerminalFormatter struct {
	NoColor bool
	Verbose bool
}

func (f *TerminalFormatter) color(code, text string) string {
	if f.NoColor {
		return text
	}
	return code + text + reset
}

func (f *TerminalFormatter) Format(w io.Writer, result *types.ScanResult) error {
	if os.Getenv("NO_COLOR") != "" {
		f.NoColor = true
	}

	f.printHeader(w, result)
	f.printDashboard(w, result.CountBySeverity())

	for i := range result.Files {
		f.printFile(w, &result.Files[i])
	}

	f.printFooter(w, result)
	return nil
}

func (f *TerminalFormatter) separator() string {
	return strings.Repeat("─", lineWidth)
}

func (f *TerminalFormatter) sectionHeader(title string) string {
	prefix := "── " + title + " "
	displayLen := utf8.RuneCountInString(prefix)
	remaining := max(lineWidth-displayLen, 0)
	return prefix + strings.Repeat("─", remaining)
}

func (f *TerminalFormatter) printHeader(w io.Writer, result *types.ScanResult) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))
	fmt.Fprintf(w, "  %s\n", f.color(bold, "CODE ANALYTICS REPORT"))

	parts := []string{}
	if result.Target != "" {
		parts = append(parts, fmt.Sprintf("Target: %s", result.Target))
	}
	parts = append(parts, fmt.Sprintf("%d files", result.FilesScanned))
	parts = append(parts, fmt.Sprintf("%d rules", result.RulesLoaded))
	if result.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%.2fs", result.Duration.Seconds()))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ·  "))
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) printDashboard(w io.Writer, counts map[types.Severity]int) {
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, sev := range severityOrder {
		c := counts[sev]
		if c == 0 {
			continue
		}
		label := fmt.Sprintf("  %-10s", sev.String())
		bar := f.renderBar(c, maxCount, barWidth, sev)
		fmt.Fprintf(w, "%s %s %4d\n", f.color(bold, label), bar, c)
	}
}

func (f *TerminalFormatter) printFile(w io.Writer, fr *types.FileReport) {
	report := fr.Report
	badge := f.gradeBadge(report.Score.Grade)
	header := fmt.Sprintf("%s  %s %d/100  ·  %s", fr.Path, badge, report.Score.Value, fr.Language)
	fmt.Fprintf(w, "\n%s\n", f.color(bold+underline, header))

	if report.TotalFindings() == 0 {
		fmt.Fprintf(w, "  %s No issues found.\n", f.color(green, "✔"))
	}

	for _, sec := range sections(report) {
		if len(sec.Findings) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", f.color(bold, f.sectionHeader(fmt.Sprintf("%s (%d)", sec.Title, len(sec.Findings)))))
		for _, finding := range sec.Findings {
			f.printFinding(w, finding)
		}
	}

	if f.Verbose {
		f.printStats(w, report.Stats)
	}
}

func (f *TerminalFormatter) printFinding(w io.Writer, finding types.Finding) {
	icon := f.severityIcon(finding.Severity)
	loc := fmt.Sprintf("L%d", finding.Line)
	if finding.Column > 0 {
		loc += fmt.Sprintf(":%d", finding.Column)
	}
	fmt.Fprintf(w, "    %s %s %-8s %s\n",
		icon,
		f.color(cyan, fmt.Sprintf("%-8s", loc)),
		f.color(bold, finding.RuleID),
		finding.Message,
	)
	if finding.Snippet != "" {
		fmt.Fprintf(w, "      %s %s\n",
			f.color(dim, "│"),
			f.color(dim, truncate(finding.Snippet, snipWidth)))
	}
}

func (f *TerminalFormatter) printStats(w io.Writer, stats types.StructureStats) {
	fmt.Fprintf(w, "\n  %s\n", f.color(dim, fmt.Sprintf(
		"%d lines (%d code, %d comment, %d blank) · %d functions · %d classes · nesting %d",
		stats.TotalLines, stats.CodeLines, stats.CommentLines, stats.BlankLines,
		stats.Functions, stats.Classes, stats.MaxNesting)))
}

func (f *TerminalFormatter) printFooter(w io.Writer, result *types.ScanResult) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))

	parts := []string{
		fmt.Sprintf("%d files scanned", result.FilesScanned),
		fmt.Sprintf("%d findings", result.TotalFindings()),
		fmt.Sprintf("worst grade %s", result.WorstGrade()),
	}
	if result.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%.2fs", result.Duration.Seconds()))
	}

	fmt.Fprintf(w, "  %s\n", strings.Join(parts, " · "))
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) gradeBadge(g types.Grade) string {
	text := "[" + string(g) + "]"
	switch g {
	case types.GradeA:
		return f.color(green+bold, text)
	case types.GradeB:
		return f.color(cyan+bold, text)
	case types.GradeC:
		return f.color(yellow+bold, text)
	case types.GradeD:
		return f.color(yellow+bold, text)
	default:
		return f.color(red+bold, text)
	}
}

func (f *TerminalFormatter) severityIcon(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return f.color(red+bold, "✖")
	case types.SeverityHigh:
		return f.color(red, "▲")
	case types.SeverityMedium:
		return f.color(yellow, "■")
	case types.SeverityLow:
		return f.color(blue, "●")
	case types.SeverityInfo:
		return f.color(cyan, "○")
	default:
		return "?"
	}
}

func (f *TerminalFormatter) severityColor(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return red + bold
	case types.SeverityHigh:
		return red
	case types.SeverityMedium:
		return yellow
	case types.SeverityLow:
		return blue
	case types.SeverityInfo:
		return cyan
	default:
		return ""
	}
}

func (f *TerminalFormatter) renderBar(count, maxCount, width int, sev types.Severity) string {
	if maxCount == 0 {
		return strings.Repeat("░", width)
	}
	filled := count * width / maxCount
	if filled == 0 && count > 0 {
		filled = 1
	}
	if filled >= width {
		filled = width - 1
	}
	empty := width - filled

	filledStr := strings.Repeat("█", filled)
	emptyStr := strings.Repeat("░", empty)
	return f.color(f.severityColor(sev), filledStr) + f.color(dim, emptyStr)
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
