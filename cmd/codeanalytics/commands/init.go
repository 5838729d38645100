package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	flagHook   bool
	flagCIOnly bool
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize CodeAnalytics configuration files",
	Long:  `Scaffolds .codeanalytics.yml, .codeanalyticsignore, and a GitHub Actions workflow for CodeAnalytics scanning.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagHook, "hook", false, "Create a git pre-commit hook that runs CodeAnalytics")
	initCmd.Flags().BoolVar(&flagCIOnly, "ci", false, "Only generate GitHub Actions workflow (skip config files)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if flagHook {
		return initHook(dir)
	}

	if flagCIOnly {
		return initCIOnly(dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	files := []struct {
		path    string
		content string
	}{
		{
			path:    filepath.Join(dir, ".codeanalytics.yml"),
			content: configTemplate,
		},
		{
			path:    filepath.Join(dir, ".codeanalyticsignore"),
			content: ignoreTemplate,
		},
		{
			path:    filepath.Join(dir, ".github", "workflows", "codeanalytics.yml"),
			content: workflowTemplate,
		},
	}

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			fmt.Printf("  skip %s (already exists)\n", f.path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		fmt.Printf("  create %s\n", f.path)
	}

	return nil
}

func initHook(dir string) error {
	gitDir := filepath.Join(dir, ".git")
	if _, err := os.Stat(gitDir); os.IsNotExist(err) {
		return fmt.Errorf("no .git directory found in %s (is this a git repository?)", dir)
	}

	hookPath := filepath.Join(gitDir, "hooks", "pre-commit")
	if _, err := os.Stat(hookPath); err == nil {
		fmt.Printf("  skip %s (already exists)\n", hookPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(hookPath), 0755); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := os.WriteFile(hookPath, []byte(preCommitTemplate), 0755); err != nil {
		return fmt.Errorf("writing pre-commit hook: %w", err)
	}
	fmt.Printf("  create %s\n", hookPath)
	return nil
}

func initCIOnly(dir string) error {
	wfPath := filepath.Join(dir, ".github", "workflows", "codeanalytics.yml")
	if _, err := os.Stat(wfPath); err == nil {
		fmt.Printf("  skip %s (already exists)\n", wfPath)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(wfPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", wfPath, err)
	}
	if err := os.WriteFile(wfPath, []byte(workflowTemplate), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", wfPath, err)
	}
	fmt.Printf("  create %s\n", wfPath)
	return nil
}

const configTemplate = `# CodeAnalytics configuration
# https://github.com/LetsJonnTV/CodeAnalytics

# Paths to scan (default: current directory)
# paths:
#   - .

# File patterns to ignore
ignore:
  - "*.log"
  - "vendor/"
  - "node_modules/"
  - ".git/"

# Minimum severity to report: critical, high, medium, low, info
severity: info

# Exit with code 1 if any file grades at or below this letter
# fail_on: C

# Output format: terminal, json, sarif, markdown, html
format: terminal

# Additional rules directory
# rules: custom-rules/

# Per-rule overrides
# rule_overrides:
#   SEC004:
#     severity: high
#   QUAL001:
#     disabled: true

# Scoring adjustments (defaults shown)
# scoring:
#   category_cap: 40
#   weights:
#     critical: 20
#     high: 10
#     medium: 5
#     low: 2
#     info: 0
#   thresholds:
#     a: 90
#     b: 80
#     c: 70
#     d: 60
`

const ignoreTemplate = `# CodeAnalytics ignore patterns
# Files matching these patterns will be skipped during scanning

# Dependencies
vendor/
node_modules/
.venv/
__pycache__/

# Build artifacts
dist/
build/
bin/
*.exe
*.dll
*.so

# Generated code
*.min.js
*.pb.go

# IDE and editor
.idea/
.vscode/
*.swp

# Logs and temp
*.log
tmp/

# Test coverage
coverage/
*.cover
`

const preCommitTemplate = `#!/bin/sh
# CodeAnalytics pre-commit hook
echo "Running CodeAnalytics..."
codeanalytics scan . --changed --fail-on C --no-color
exit $?
`

const workflowTemplate = `name: CodeAnalytics

on:
  push:
    branches: [main]
  pull_request:
    branches: [main]

permissions:
  security-events: write
  contents: read

jobs:
  codeanalytics:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4

      - name: Cache CodeAnalytics binary
        uses: actions/cache@v4
        with:
          path: ./codeanalytics
          key: codeanalytics-linux-amd64

      - name: Install CodeAnalytics
        run: |
          if [ ! -f ./codeanalytics ]; then
            curl -sSL https://github.com/LetsJonnTV/CodeAnalytics/releases/latest/download/codeanalytics-linux-amd64 -o codeanalytics
            chmod +x codeanalytics
          fi

      - name: Run scan
        id: scan
        continue-on-error: true
        run: ./codeanalytics scan . --format sarif --output results.sarif --fail-on C

      - name: Upload SARIF results
        if: always()
        uses: github/codeql-action/upload-sarif@v3
        with:
          sarif_file: results.sarif

      - name: Fail on low grades
        if: steps.scan.outcome == 'failure'
        run: exit 1
`
