package enums

import "fmt"

// ContentType describes the kind of storefront copy a generation produced.
type ContentType string

const (
	ContentTypeDescription ContentType = "description"
)

var validContentTypes = []ContentType{
	ContentTypeDescription,
}

// String implements fmt.Stringer.
func (c ContentType) String() string {
	return string(c)
}

// IsValid reports whether the content type is known.
func (c ContentType) IsValid() bool {
	for _, candidate := range validContentTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContentType converts raw input into a ContentType.
func ParseContentType(value string) (ContentType, error) {
	for _, candidate := range validContentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid content type %q", value)
}
