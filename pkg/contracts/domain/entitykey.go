package domain

import (
	"fmt"
	"strings"
)

// EntityKeyWidth is the fixed width of a normalized external entity key.
const EntityKeyWidth = 6

// NormalizeEntityKey normalizes a raw external entity key to a fixed-width
// zero-padded digit string. Raw values arriving as floats ("12345.0") lose
// the decimal suffix; any remaining non-digit characters are stripped. An
// error is returned when nothing usable remains or the value is too wide.
func NormalizeEntityKey(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ".0")

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if digits == "" {
		return "", fmt.Errorf("entity key %q contains no digits", raw)
	}
	if len(digits) > EntityKeyWidth {
		return "", fmt.Errorf("entity key %q exceeds %d digits", raw, EntityKeyWidth)
	}
	return strings.Repeat("0", EntityKeyWidth-len(digits)) + digits, nil
}
