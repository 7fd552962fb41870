package enums

import (
	"fmt"
	"strings"
)

// ContentLength is the coarse output-size tier requested for generated copy.
type ContentLength string

const (
	ContentLengthShort  ContentLength = "short"
	ContentLengthMedium ContentLength = "medium"
	ContentLengthLong   ContentLength = "long"
)

var validContentLengths = []ContentLength{
	ContentLengthShort,
	ContentLengthMedium,
	ContentLengthLong,
}

// String implements fmt.Stringer.
func (l ContentLength) String() string {
	return string(l)
}

// IsValid reports whether the length tier is known.
func (l ContentLength) IsValid() bool {
	for _, candidate := range validContentLengths {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseContentLength converts raw input into a ContentLength.
func ParseContentLength(value string) (ContentLength, error) {
	normalized := ContentLength(strings.ToLower(strings.TrimSpace(value)))
	for _, candidate := range validContentLengths {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid content length %q", value)
}

// NormalizeContentLength maps unknown input onto the medium default. Prompt
// word-count guidance and the completion token ceiling share this helper.
func NormalizeContentLength(value ContentLength) ContentLength {
	if value.IsValid() {
		return value
	}
	return ContentLengthMedium
}
