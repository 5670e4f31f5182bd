package history

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/clipkeep/clipkeep/internal/domain"
)

// DefaultPreviewLength is the preview width used by the list output.
const DefaultPreviewLength = 80

// Preview renders a single-line description of a payload for list
// output. Text is flattened to one sanitized line; images are
// summarized by size since their bytes are not printable.
func Preview(p domain.Payload, maxLen int) string {
	if p.Type == domain.KindImage {
		return fmt.Sprintf("[image %s]", formatSize(len(p.Bytes)))
	}
	return TruncatePreview(SanitizePreview(p.Value), maxLen)
}

// TruncatePreview ensures the preview is at most maxLen characters,
// appending "..." when content had to be cut.
func TruncatePreview(preview string, maxLen int) string {
	preview = strings.TrimSpace(preview)

	if len(preview) <= maxLen {
		return preview
	}
	if maxLen < 3 {
		return strings.Repeat(".", maxLen)
	}
	return preview[:maxLen-3] + "..."
}

// SanitizePreview removes control characters and collapses whitespace
// so multi-line clipboard text renders as a single safe line.
func SanitizePreview(preview string) string {
	preview = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, preview)

	fields := strings.Fields(preview)
	return strings.Join(fields, " ")
}

// formatSize renders a byte count with a binary unit suffix.
func formatSize(size int) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
