// Package filter provides pattern compilation and caching for rule matching and
// output verification.
package filter

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/bebsworthy/codescan/pkg/config"
)

// PatternCache manages compiled regex patterns with thread-safe caching
type PatternCache struct {
	cache map[string]*regexp.Regexp
	mu    sync.RWMutex
	stats *CacheStats
}

// CacheStats tracks pattern cache performance metrics
type CacheStats struct {
	Hits   int64
	Misses int64
	mu     sync.Mutex
}

// NewPatternCache creates a new pattern cache
func NewPatternCache() *PatternCache {
	return &PatternCache{
		cache: make(map[string]*regexp.Regexp),
		stats: &CacheStats{},
	}
}

var sharedCache = NewPatternCache()

// Shared returns the process-wide cache.
func Shared() *PatternCache {
	return sharedCache
}

// GetOrCompile retrieves a compiled pattern from cache or compiles it
func (pc *PatternCache) GetOrCompile(pattern *config.RegexPattern) (*regexp.Regexp, error) {
	if pattern == nil {
		return nil, fmt.Errorf("pattern cannot be nil")
	}
	if pattern.Pattern == "" {
		return nil, fmt.Errorf("pattern cannot be empty")
	}
	return pc.Compile(pattern.Expression())
}

// Compile retrieves a compiled expression from cache or compiles it. The
// expression is used verbatim; flags must already be inlined.
func (pc *PatternCache) Compile(expr string) (*regexp.Regexp, error) {
	pc.mu.RLock()
	if compiled, exists := pc.cache[expr]; exists {
		pc.mu.RUnlock()
		pc.recordHit()
		return compiled, nil
	}
	pc.mu.RUnlock()

	pc.mu.Lock()
	defer pc.mu.Unlock()

	// Double-check in case another goroutine compiled it
	if compiled, exists := pc.cache[expr]; exists {
		pc.recordHit()
		return compiled, nil
	}

	pc.recordMiss()
	compiled, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", expr, err)
	}

	pc.cache[expr] = compiled
	return compiled, nil
}

// Precompile compiles and caches multiple patterns
func (pc *PatternCache) Precompile(patterns []*config.RegexPattern) error {
	var failed int
	for _, pattern := range patterns {
		if _, err := pc.GetOrCompile(pattern); err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to precompile %d patterns", failed)
	}
	return nil
}

// Clear removes all cached patterns
func (pc *PatternCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache = make(map[string]*regexp.Regexp)
}

// Size returns the number of cached patterns
func (pc *PatternCache) Size() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	return len(pc.cache)
}

// GetStats returns cache performance statistics
func (pc *PatternCache) GetStats() CacheStats {
	pc.stats.mu.Lock()
	defer pc.stats.mu.Unlock()

	return CacheStats{
		Hits:   pc.stats.Hits,
		Misses: pc.stats.Misses,
	}
}

func (pc *PatternCache) recordHit() {
	pc.stats.mu.Lock()
	defer pc.stats.mu.Unlock()
	pc.stats.Hits++
}

func (pc *PatternCache) recordMiss() {
	pc.stats.mu.Lock()
	defer pc.stats.mu.Unlock()
	pc.stats.Misses++
}
