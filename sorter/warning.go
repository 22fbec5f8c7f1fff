package sorter

import (
	"fmt"
	"strings"
)

// Warning codes for degraded-but-valid sorting conditions.
const (
	// WarnNoAnchors: the page had no anchor elements and was grouped as
	// a single orphan.
	WarnNoAnchors = "no_anchors"

	// WarnUnknownClass: an element's class is outside the known
	// vocabulary and was treated as a generic child.
	WarnUnknownClass = "unknown_class"

	// WarnDegenerateBox: an element with non-positive dimensions slipped
	// past the detection filter; it was ordered as a zero-area box.
	WarnDegenerateBox = "degenerate_box"
)

// Warning reports a non-fatal condition encountered while sorting.
// The sorter always returns a complete result; warnings exist so callers
// can log degraded cases.
type Warning struct {
	// Code is a stable machine-readable identifier.
	Code string

	// Message is a human-readable description.
	Message string
}

// String returns the warning as "code: message".
func (w Warning) String() string {
	return w.Code + ": " + w.Message
}

// FormatWarnings joins warnings into a single log-friendly string.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// warnf appends a formatted warning to a warning list.
func warnf(warnings []Warning, code, format string, args ...any) []Warning {
	return append(warnings, Warning{Code: code, Message: fmt.Sprintf(format, args...)})
}
