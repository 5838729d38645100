// Package scanner walks a directory tree and runs the analyzer engine over
// every discovered file with a bounded worker pool.
package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/LetsJonnTV/CodeAnalytics/internal/analyzer"
	"github.com/LetsJonnTV/CodeAnalytics/internal/lang"
	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// Scanner orchestrates batch analysis.
type Scanner struct {
	engine         *analyzer.Engine
	workers        int
	ignorePatterns []string
	logger         hclog.Logger
}

// New creates a Scanner around an analyzer engine. If workers <= 0 it
// defaults to runtime.NumCPU().
func New(engine *analyzer.Engine, workers int) *Scanner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Scanner{
		engine:  engine,
		workers: workers,
		logger:  hclog.NewNullLogger(),
	}
}

// SetIgnorePatterns sets additional file ignore patterns from config.
func (s *Scanner) SetIgnorePatterns(patterns []string) {
	s.ignorePatterns = patterns
}

// SetLogger replaces the default no-op logger.
func (s *Scanner) SetLogger(l hclog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Scan analyzes the given path. The path can be a directory (walked
// recursively) or a single file.
func (s *Scanner) Scan(ctx context.Context, root string) (*types.ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		targets := []*Target{{
			Path:    root,
			RelPath: filepath.Base(root),
		}}
		return s.scanTargets(ctx, root, targets)
	}

	discovery := &TargetDiscovery{IgnorePatterns: s.ignorePatterns}
	targets, err := discovery.Discover(root)
	if err != nil {
		return nil, err
	}
	return s.scanTargets(ctx, root, targets)
}

// ScanChanged analyzes only the files git reports as modified, staged, or
// untracked under root. Outside a git repository it scans nothing.
func (s *Scanner) ScanChanged(ctx context.Context, root string) (*types.ScanResult, error) {
	files, err := GitChangedFiles(root)
	if err != nil {
		return nil, err
	}
	var targets []*Target
	for _, f := range files {
		targets = append(targets, &Target{
			Path:    filepath.Join(root, f),
			RelPath: f,
		})
	}
	return s.scanTargets(ctx, root, targets)
}

func (s *Scanner) scanTargets(ctx context.Context, root string, targets []*Target) (*types.ScanResult, error) {
	start := time.Now()
	s.logger.Debug("scan started", "targets", len(targets), "workers", s.workers)

	fileCh := make(chan *Target, len(targets))
	for _, t := range targets {
		fileCh <- t
	}
	close(fileCh)

	var (
		mu      sync.Mutex
		reports []types.FileReport
		wg      sync.WaitGroup
	)

	for range s.workers {
		wg.Go(func() {
			for target := range fileCh {
				if ctx.Err() != nil {
					return
				}
				if err := target.LoadContent(); err != nil {
					s.logger.Warn("unreadable file skipped", "path", target.RelPath, "error", err)
					continue
				}
				language := lang.ClassifyContent(target.RelPath, string(target.Content))
				report, err := s.engine.Analyze(ctx, string(target.Content), language)
				if err != nil {
					if errors.Is(err, analyzer.ErrBinaryContent) {
						s.logger.Debug("binary file skipped", "path", target.RelPath)
						continue
					}
					s.logger.Warn("analysis failed", "path", target.RelPath, "error", err)
					continue
				}
				mu.Lock()
				reports = append(reports, types.FileReport{
					Path:     target.RelPath,
					Language: language.String(),
					Report:   report,
				})
				mu.Unlock()
			}
		})
	}

	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Path < reports[j].Path
	})

	result := &types.ScanResult{
		RunID:        uuid.NewString(),
		Files:        reports,
		FilesScanned: len(reports),
		RulesLoaded:  len(s.engine.Rules()),
		Duration:     time.Since(start),
		Target:       root,
	}
	s.logger.Debug("scan finished",
		"files", result.FilesScanned,
		"findings", result.TotalFindings(),
		"duration", result.Duration)
	return result, nil
}
