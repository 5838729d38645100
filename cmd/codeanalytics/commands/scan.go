package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/LetsJonnTV/CodeAnalytics/internal/analyzer"
	"github.com/LetsJonnTV/CodeAnalytics/internal/config"
	"github.com/LetsJonnTV/CodeAnalytics/internal/output"
	"github.com/LetsJonnTV/CodeAnalytics/internal/rules"
	"github.com/LetsJonnTV/CodeAnalytics/internal/rules/builtin"
	"github.com/LetsJonnTV/CodeAnalytics/internal/scanner"
	"github.com/LetsJonnTV/CodeAnalytics/internal/state"
	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
	"github.com/LetsJonnTV/CodeAnalytics/internal/update"
)

var (
	flagFailOn       string
	flagCI           bool
	flagVerbose      bool
	flagChanged      bool
	flagBaseline     bool
	flagBaselinePath string
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a file or directory and grade every source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Exit with code 1 if any file grades at or below this letter (A, B, C, D, F)")
	scanCmd.Flags().BoolVar(&flagCI, "ci", false, "CI mode: equivalent to --fail-on C --no-color")
	scanCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Show per-file structure statistics")
	scanCmd.Flags().BoolVar(&flagChanged, "changed", false, "Only scan git-changed files (staged, unstaged, untracked)")
	scanCmd.Flags().BoolVar(&flagBaseline, "baseline", false, "Compare scores against the baseline and record the new ones")
	scanCmd.Flags().StringVar(&flagBaselinePath, "baseline-path", "", "Path to baseline file for --baseline (default: ~/.codeanalytics/baseline.json)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	cfg := loadScanConfig(cmd, targetPath)
	applyCIDefaults()

	s, err := buildScanner(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	spinner := startSpinner(targetPath)
	result, err := executeScan(ctx, s, targetPath)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if flagBaseline {
		if err := applyBaseline(result, targetPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: baseline: %v\n", err)
		}
	}

	if err := writeOutput(result); err != nil {
		return err
	}

	maybePrintUpdateHint()

	return checkFailOnThreshold(result)
}

func loadScanConfig(cmd *cobra.Command, targetPath string) config.Config {
	cfg, err := config.Load(targetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if !cmd.Flags().Changed("severity") && cfg.Severity != "" {
		flagSeverity = cfg.Severity
	}
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		flagFormat = cfg.Format
	}
	if !cmd.Flags().Changed("fail-on") && cfg.FailOn != "" {
		flagFailOn = cfg.FailOn
	}
	if !cmd.Flags().Changed("rules") && cfg.Rules != "" {
		flagRules = cfg.Rules
	}
	if !cmd.Flags().Changed("workers") && cfg.Workers > 0 {
		flagWorkers = cfg.Workers
	}
	return cfg
}

func applyCIDefaults() {
	if flagCI {
		if flagFailOn == "" {
			flagFailOn = "C"
		}
		if flagFormat == "terminal" {
			flagNoColor = true
		}
	}
	if os.Getenv("NO_COLOR") != "" {
		flagNoColor = true
	}
}

func parseSeverityFlag() (types.Severity, error) {
	if flagSeverity == "" {
		return types.SeverityInfo, nil
	}
	sev, err := types.ParseSeverity(flagSeverity)
	if err != nil {
		return 0, fmt.Errorf("invalid --severity: %w", err)
	}
	return sev, nil
}

func loadAndCompileRules(cfg config.Config) ([]*rules.CompiledRule, error) {
	rawRules, err := rules.LoadFromFS(builtin.FS())
	if err != nil {
		return nil, fmt.Errorf("loading built-in rules: %w", err)
	}

	if flagRules != "" {
		customRules, err := rules.LoadFromDir(flagRules)
		if err != nil {
			return nil, fmt.Errorf("loading custom rules from %s: %w", flagRules, err)
		}
		rawRules = append(rawRules, customRules...)
	}

	compiled, err := rules.CompileAll(rawRules)
	if err != nil {
		return nil, err
	}

	if len(cfg.RuleOverrides) > 0 {
		overrides := make(map[string]rules.RuleOverride, len(cfg.RuleOverrides))
		for id, ovr := range cfg.RuleOverrides {
			overrides[id] = rules.RuleOverride{Severity: ovr.Severity, Disabled: ovr.Disabled}
		}
		var ovrErrs []error
		compiled, ovrErrs = rules.ApplyOverrides(compiled, overrides)
		for _, e := range ovrErrs {
			fmt.Fprintf(os.Stderr, "warning: %v\n", e)
		}
	}

	if len(flagDisableRules) > 0 {
		disabled := make(map[string]bool)
		for _, id := range flagDisableRules {
			disabled[strings.TrimSpace(id)] = true
		}
		compiled = rules.FilterByIDs(compiled, disabled)
	}

	return compiled, nil
}

func buildScanner(cfg config.Config) (*scanner.Scanner, error) {
	minSev, err := parseSeverityFlag()
	if err != nil {
		return nil, err
	}

	compiled, err := loadAndCompileRules(cfg)
	if err != nil {
		return nil, err
	}

	scoreCfg, err := cfg.ScoreConfig()
	if err != nil {
		return nil, err
	}

	engine, err := analyzer.New(analyzer.Options{
		Rules:       compiled,
		Score:       &scoreCfg,
		MinSeverity: minSev,
	})
	if err != nil {
		return nil, err
	}

	s := scanner.New(engine, flagWorkers)
	if len(cfg.Ignore) > 0 {
		s.SetIgnorePatterns(cfg.Ignore)
	}
	if flagVerboseLog {
		s.SetLogger(hclog.New(&hclog.LoggerOptions{
			Name:   "codeanalytics",
			Level:  hclog.Debug,
			Output: os.Stderr,
		}))
	}
	return s, nil
}

func contextWithInterrupt() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func startSpinner(target string) *output.Spinner {
	if strings.ToLower(flagFormat) != "terminal" || flagNoColor {
		return nil
	}
	sp := output.NewSpinner(os.Stderr)
	sp.Start("Scanning " + target)
	return sp
}

func executeScan(ctx context.Context, s *scanner.Scanner, targetPath string) (*types.ScanResult, error) {
	var (
		result *types.ScanResult
		err    error
	)
	if flagChanged {
		result, err = s.ScanChanged(ctx, targetPath)
	} else {
		result, err = s.Scan(ctx, targetPath)
	}
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return result, nil
}

// applyBaseline prints score regressions against the stored baseline and
// records the new scores.
func applyBaseline(result *types.ScanResult, targetPath string) error {
	path := flagBaselinePath
	if path == "" {
		path = state.DefaultPath()
	}
	store := state.New(path)
	if err := store.Load(); err != nil {
		return err
	}

	for _, reg := range store.Regressions(result) {
		fmt.Fprintf(os.Stderr, "regression: %s dropped from %d to %d\n", reg.Path, reg.Previous, reg.Current)
	}

	store.Update(result, func(relPath string) string {
		data, err := os.ReadFile(filepath.Join(targetPath, relPath))
		if err != nil {
			return ""
		}
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:])
	})
	return store.Save()
}

func writeOutput(result *types.ScanResult) error {
	output.ToolVersion = Version

	formatter, err := output.New(flagFormat)
	if err != nil {
		return err
	}
	if tf, ok := formatter.(*output.TerminalFormatter); ok {
		tf.NoColor = flagNoColor
		tf.Verbose = flagVerbose
	}

	w := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	return formatter.Format(w, result)
}

func maybePrintUpdateHint() {
	if strings.ToLower(flagFormat) != "terminal" {
		return
	}
	if r := update.CheckLatest(Version, githubRepo); r != nil && r.NeedsUpdate() {
		fmt.Fprintf(os.Stderr, "\nA newer version is available: %s (%s)\n", r.Latest, r.UpdateURL)
	}
}

var gradeRank = map[types.Grade]int{
	types.GradeA: 0,
	types.GradeB: 1,
	types.GradeC: 2,
	types.GradeD: 3,
	types.GradeF: 4,
}

func checkFailOnThreshold(result *types.ScanResult) error {
	if flagFailOn == "" {
		return nil
	}
	threshold := types.Grade(strings.ToUpper(strings.TrimSpace(flagFailOn)))
	if _, ok := gradeRank[threshold]; !ok {
		return fmt.Errorf("invalid --fail-on grade: %q", flagFailOn)
	}
	if gradeRank[result.WorstGrade()] >= gradeRank[threshold] {
		os.Exit(1)
	}
	return nil
}
