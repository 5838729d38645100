package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/LetsJonnTV/CodeAnalytics/internal/analyzer"
	"github.com/LetsJonnTV/CodeAnalytics/internal/lang"
	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

var flagLanguage string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a single source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&flagLanguage, "language", "", "Override language detection (e.g. python, js)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg := loadScanConfig(cmd, path)
	applyCIDefaults()

	minSev, err := parseSeverityFlag()
	if err != nil {
		return err
	}
	compiled, err := loadAndCompileRules(cfg)
	if err != nil {
		return err
	}
	scoreCfg, err := cfg.ScoreConfig()
	if err != nil {
		return err
	}

	engine, err := analyzer.New(analyzer.Options{
		Rules:       compiled,
		Score:       &scoreCfg,
		MinSeverity: minSev,
	})
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	start := time.Now()
	var report *types.Report
	if flagLanguage != "" {
		l, err := lang.Parse(flagLanguage)
		if err != nil {
			return fmt.Errorf("invalid --language: %w", err)
		}
		report, err = engine.Analyze(ctx, string(data), l)
		if err != nil {
			return wrapAnalyzeErr(path, err)
		}
	} else {
		report, err = engine.AnalyzeAuto(ctx, filepath.Base(path), string(data))
		if err != nil {
			return wrapAnalyzeErr(path, err)
		}
	}

	result := &types.ScanResult{
		RunID: uuid.NewString(),
		Files: []types.FileReport{{
			Path:     filepath.Base(path),
			Language: report.Language,
			Report:   report,
		}},
		FilesScanned: 1,
		RulesLoaded:  len(compiled),
		Duration:     time.Since(start),
		Target:       path,
	}

	if err := writeOutput(result); err != nil {
		return err
	}
	return checkFailOnThreshold(result)
}

func wrapAnalyzeErr(path string, err error) error {
	if errors.Is(err, analyzer.ErrBinaryContent) {
		return fmt.Errorf("%s: not a text file", path)
	}
	return err
}
