package enums

import (
	"fmt"
	"strings"
)

// Tone selects the stylistic template used when prompting the copywriter model.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneLuxury       Tone = "luxury"
	ToneTechnical    Tone = "technical"
)

var validTones = []Tone{
	ToneProfessional,
	ToneCasual,
	ToneLuxury,
	ToneTechnical,
}

// String implements fmt.Stringer.
func (t Tone) String() string {
	return string(t)
}

// IsValid reports whether the tone is known.
func (t Tone) IsValid() bool {
	for _, candidate := range validTones {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTone converts raw input into a Tone.
func ParseTone(value string) (Tone, error) {
	normalized := Tone(strings.ToLower(strings.TrimSpace(value)))
	for _, candidate := range validTones {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tone %q", value)
}

// NormalizeTone maps unknown input onto the professional default. Template
// selection and token budgeting both go through this helper so they can never
// disagree on the active tone.
func NormalizeTone(value Tone) Tone {
	if value.IsValid() {
		return value
	}
	return ToneProfessional
}
