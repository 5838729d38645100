package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/LetsJonnTV/CodeAnalytics/internal/scanner"
)

var flagDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Re-scan a directory whenever source files change",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", 300*time.Millisecond, "Delay before re-scanning after a change")
	rootCmd.AddCommand(watchCmd)
}

// watchSkipDirs are directories never worth watching. Mirrors the scanner's
// discovery skip list.
var watchSkipDirs = map[string]bool{
	".git":           true,
	"node_modules":   true,
	"__pycache__":    true,
	".venv":          true,
	"venv":           true,
	".codeanalytics": true,
	"vendor":         true,
	"dist":           true,
	"build":          true,
}

func runWatch(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	cfg := loadScanConfig(cmd, targetPath)
	applyCIDefaults()

	s, err := buildScanner(cfg)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	root, err := filepath.Abs(targetPath)
	if err != nil {
		return err
	}
	if info, err := os.Stat(root); err != nil {
		return err
	} else if !info.IsDir() {
		root = filepath.Dir(root)
	}
	if err := addWatchRecursive(watcher, root); err != nil {
		return err
	}

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl-C to stop)\n", targetPath)

	// Initial scan so the first report doesn't wait for an edit.
	if err := scanAndReport(ctx, s, targetPath); err != nil {
		return err
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, event.Name)
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if pending {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			timer.Reset(flagDebounce)
			pending = true

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := scanAndReport(ctx, s, targetPath); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if watchSkipDirs[entry.Name()] {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// scanAndReport runs one scan and prints the report. The engine's report
// cache makes re-scans of unchanged files cheap.
func scanAndReport(ctx context.Context, s *scanner.Scanner, targetPath string) error {
	result, err := s.Scan(ctx, targetPath)
	if err != nil {
		return err
	}
	return writeOutput(result)
}
