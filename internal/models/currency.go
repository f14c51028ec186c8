package models

import (
	"strings"

	"github.com/dmitrijs2005/valutatrade/internal/common"
)

// NormalizeCode trims and upper-cases a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ParseCode normalizes code and rejects an empty result.
func ParseCode(code string) (string, error) {
	c := NormalizeCode(code)
	if c == "" {
		return "", common.NewValidationError("currency_code", "must not be empty")
	}
	return c, nil
}
