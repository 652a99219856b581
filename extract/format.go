package extract

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns the xxhash of text as hex.
func ContentHash(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

// TruncateURL shortens a URL for progress lines, keeping the end.
func TruncateURL(url string, maxLen int) string {
	switch {
	case maxLen <= 0:
		return ""
	case len(url) <= maxLen:
		return url
	case maxLen < 4:
		return url[:maxLen]
	}
	return "..." + url[len(url)-maxLen+3:]
}

// Summary describes an extraction result in one line: site, source kind,
// size and, when tokens is positive, its token count.
func Summary(o *Outcome, tokens int) string {
	r := o.Result
	s := fmt.Sprintf("%s via %s: %d chars, %s", o.Identity, r.SourceKind, r.ContentLength, FormatBytes(len(r.Text)))
	if tokens > 0 {
		s += ", " + FormatTokens(tokens)
	}
	return s
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatTokens formats token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}
