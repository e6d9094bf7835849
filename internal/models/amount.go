package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses s as a decimal amount. Empty or unparsable input yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// AmountFromJSON decodes a JSON number or numeric string. Anything else,
// including null and a missing value, yields zero.
func AmountFromJSON(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseAmount(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return ParseAmount(n.String())
	}
	return decimal.Zero
}
