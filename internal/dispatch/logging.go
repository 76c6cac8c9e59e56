package dispatch

import (
	"time"
	"unicode/utf8"
)

// maxLogLen is the maximum length for logged utterances before truncation.
const maxLogLen = 200

// slowTurnThreshold is the duration above which turns are logged at WARN
// level. Model latency dominates, so the bar is generous.
const slowTurnThreshold = 5 * time.Second

// logTurn logs one completed dispatch path with timing.
func (d *Dispatcher) logTurn(path string, start time.Time, err error, attrs ...any) {
	duration := time.Since(start)

	logAttrs := append([]any{
		"path", path,
		"duration_ms", duration.Milliseconds(),
	}, attrs...)

	switch {
	case err != nil:
		logAttrs = append(logAttrs, "error", err.Error())
		d.logger.Error("turn failed", logAttrs...)
	case duration > slowTurnThreshold:
		d.logger.Warn("slow turn", logAttrs...)
	default:
		d.logger.Debug("turn completed", logAttrs...)
	}
}

// truncate shortens a string to at most maxLen bytes, adding "..." if
// truncated. The cut lands on a rune boundary so logs stay valid UTF-8.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	cut := maxLen
	ellipsis := ""
	if maxLen >= 3 {
		cut = maxLen - 3
		ellipsis = "..."
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}
