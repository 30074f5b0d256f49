// Package debug provides debug logging functionality for codescan.
package debug

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// Logger provides debug logging capabilities
type Logger struct {
	mu      sync.Mutex
	enabled bool
	writer  io.Writer
	start   time.Time
}

// Global debug logger instance. A nil writer means the current os.Stderr,
// looked up on every write so redirected streams receive debug output.
var globalLogger = &Logger{}

// Enable enables debug logging
func Enable() {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.enabled = true
	globalLogger.start = time.Now()
}

// Reset disables logging and drops any custom writer. Each codescan run
// starts from this state.
func Reset() {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.enabled = false
	globalLogger.writer = nil
}

// IsEnabled returns whether debug logging is enabled
func IsEnabled() bool {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	return globalLogger.enabled
}

// SetWriter sets the output writer for debug logs
func SetWriter(w io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.writer = w
}

// Log writes a debug message if debugging is enabled
func Log(format string, args ...interface{}) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	if !globalLogger.enabled {
		return
	}

	elapsed := time.Since(globalLogger.start)
	prefix := fmt.Sprintf("[DEBUG %s] ", formatDuration(elapsed))
	message := fmt.Sprintf(format, args...)

	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}

	w := globalLogger.writer
	if w == nil {
		w = os.Stderr
	}
	_, _ = fmt.Fprint(w, prefix+message)
}

// LogSection writes a section header for better organization
func LogSection(title string) {
	Log("=== %s ===", title)
}

// LogArgs logs the argument vector of a run
func LogArgs(args []string) {
	LogSection("Invocation")
	Log("Arguments: %v", args)
}

// LogTiming logs timing information
func LogTiming(operation string, duration time.Duration) {
	Log("Timing: %s took %s", operation, formatDuration(duration))
}

// LogCollection summarizes collected source files
func LogCollection(files int, totalBytes int64) {
	Log("Collected %s source files (%s)", humanize.Comma(int64(files)), humanize.Bytes(uint64(totalBytes)))
}

// LogPatternMatch logs pattern matching details
func LogPatternMatch(pattern, input string, matched bool) {
	status := "no match"
	if matched {
		status = "matched"
	}

	Log("Pattern: %q against %q - %s", pattern, truncate(input, 80), status)
}

// LogError logs error details
func LogError(err error, context string) {
	Log("Error in %s: %v", context, err)
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// truncate shortens s to maxLen display columns, cutting on rune boundaries
func truncate(s string, maxLen int) string {
	return runewidth.Truncate(s, maxLen, "...")
}
