package helpers

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// MaxMessageLength is the Telegram limit for a text message, in characters.
const MaxMessageLength = 4096

// FormatCursor renders a unix timestamp together with its age relative to now,
// e.g. "2026-10-15T10:00:00Z (3 minutes ago)".
func FormatCursor(ts int64, now time.Time) string {
	t := time.Unix(ts, 0).UTC()
	return fmt.Sprintf("%s (%s)", t.Format(time.RFC3339), humanize.RelTime(t, now, "ago", "from now"))
}

// TruncateMessage cuts text to at most limit characters, marking the cut
// with an ellipsis.
func TruncateMessage(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-1]) + "…"
}
