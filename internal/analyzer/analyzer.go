// Package analyzer runs the full pipeline for one document: lex, detect,
// post-process, score. The Engine is safe for concurrent use and caches
// reports by content hash, so re-analyzing unchanged text is free.
package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/LetsJonnTV/CodeAnalytics/internal/engine/flow"
	"github.com/LetsJonnTV/CodeAnalytics/internal/engine/pattern"
	"github.com/LetsJonnTV/CodeAnalytics/internal/engine/structure"
	"github.com/LetsJonnTV/CodeAnalytics/internal/lang"
	"github.com/LetsJonnTV/CodeAnalytics/internal/lexer"
	"github.com/LetsJonnTV/CodeAnalytics/internal/meta"
	"github.com/LetsJonnTV/CodeAnalytics/internal/rules"
	"github.com/LetsJonnTV/CodeAnalytics/internal/rules/builtin"
	"github.com/LetsJonnTV/CodeAnalytics/internal/score"
	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// ErrBinaryContent is returned when the input is not analyzable text.
var ErrBinaryContent = errors.New("content is not text")

const defaultCacheSize = 128

// Detector produces findings from a lexed document.
type Detector interface {
	Name() string
	Detect(ctx context.Context, doc *lexer.Document) ([]types.Finding, error)
}

// Options configures an Engine. The zero value works: built-in rules,
// default scoring, default cache.
type Options struct {
	// Rules is the compiled catalog. Nil loads the built-in rules.
	Rules []*rules.CompiledRule
	// Score overrides the scoring configuration when non-zero.
	Score *score.Config
	// MinSeverity drops findings below this level before scoring.
	MinSeverity types.Severity
	// CacheSize is the number of reports kept in the LRU cache.
	// Zero means the default; negative disables caching.
	CacheSize int
}

// Engine analyzes documents. Construct with New; the zero value is not
// usable.
type Engine struct {
	rules       []*rules.CompiledRule
	scoreCfg    score.Config
	minSeverity types.Severity
	detectors   []Detector
	extractor   *structure.Extractor
	cache       *lru.Cache[string, *types.Report]
}

// New builds an Engine from options.
func New(opts Options) (*Engine, error) {
	compiled := opts.Rules
	if compiled == nil {
		raws, err := rules.LoadFromFS(builtin.FS())
		if err != nil {
			return nil, fmt.Errorf("loading built-in rules: %w", err)
		}
		compiled, err = rules.CompileAll(raws)
		if err != nil {
			return nil, fmt.Errorf("compiling built-in rules: %w", err)
		}
	}

	cfg := score.DefaultConfig()
	if opts.Score != nil {
		cfg = *opts.Score
	}

	e := &Engine{
		rules:       compiled,
		scoreCfg:    cfg,
		minSeverity: opts.MinSeverity,
		extractor:   structure.New(),
		detectors: []Detector{
			pattern.NewMatcher(types.CategorySecurity, compiled),
			pattern.NewMatcher(types.CategoryPerformance, compiled),
			pattern.NewMatcher(types.CategoryQuality, compiled),
			flow.New(),
		},
	}

	if opts.CacheSize >= 0 {
		size := opts.CacheSize
		if size == 0 {
			size = defaultCacheSize
		}
		cache, err := lru.New[string, *types.Report](size)
		if err != nil {
			return nil, err
		}
		e.cache = cache
	}
	return e, nil
}

// Rules returns the compiled catalog the engine runs.
func (e *Engine) Rules() []*rules.CompiledRule { return e.rules }

// Analyze runs the pipeline on one document. Empty input is valid and
// yields a clean report. Binary or non-UTF-8 input returns ErrBinaryContent.
func (e *Engine) Analyze(ctx context.Context, text string, language lang.Language) (*types.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !isText(text) {
		return nil, ErrBinaryContent
	}

	key := cacheKey(text, language)
	if e.cache != nil {
		if report, ok := e.cache.Get(key); ok {
			return report, nil
		}
	}

	doc := lexer.Scan(text, language)

	// Detectors run concurrently; results land in fixed slots so the
	// combined order never depends on scheduling.
	results := make([][]types.Finding, len(e.detectors))
	errs := make([]error, len(e.detectors))
	var wg sync.WaitGroup
	for i, d := range e.detectors {
		wg.Add(1)
		go func(i int, d Detector) {
			defer wg.Done()
			results[i], errs[i] = d.Detect(ctx, doc)
		}(i, d)
	}

	stats, structural, err := e.extractor.Extract(ctx, doc)
	wg.Wait()
	if err != nil {
		return nil, err
	}
	for _, derr := range errs {
		if derr != nil {
			return nil, derr
		}
	}

	var all []types.Finding
	for _, r := range results {
		all = append(all, r...)
	}
	all = append(all, structural...)

	all = meta.Deduplicate(all)
	all = meta.FilterMinSeverity(all, e.minSeverity)
	meta.Sort(all)

	security, performance, quality := meta.SplitByCategory(all)
	report := &types.Report{
		Language:    language.String(),
		Security:    security,
		Performance: performance,
		Quality:     quality,
		Stats:       stats,
		Score:       score.Compute(e.scoreCfg, all),
	}

	if e.cache != nil {
		e.cache.Add(key, report)
	}
	return report, nil
}

// AnalyzeAuto classifies the language from the filename and content, then
// analyzes.
func (e *Engine) AnalyzeAuto(ctx context.Context, filename, text string) (*types.Report, error) {
	return e.Analyze(ctx, text, lang.ClassifyContent(filename, text))
}

// isText rejects NUL bytes and invalid UTF-8. This is the whole binary
// heuristic; anything that survives it is analyzed as text.
func isText(s string) bool {
	if strings.IndexByte(s, 0) >= 0 {
		return false
	}
	return utf8.ValidString(s)
}

func cacheKey(text string, language lang.Language) string {
	sum := sha256.Sum256([]byte(text))
	return language.String() + ":" + hex.EncodeToString(sum[:])
}
