package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBRNumber normalizes a Brazilian-locale decimal ("1.234,56",
// possibly quoted) into a float64. Dot is the thousands separator and
// comma the decimal separator.
func ParseBRNumber(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Trim(cleaned, `"`)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric value %q", s)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	return v, nil
}
