// Package money renders and parses amounts the way the payslip screens show
// them: whole units with a dot every three digits ("1.234.567").
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// GroupSeparator is placed between every group of three digits.
const GroupSeparator = "."

// Format rounds the absolute value to a whole number, groups its digits and
// puts the minus sign back for negative input. The zero value formats as "0".
func Format(amount decimal.Decimal) string {
	digits := amount.Abs().Round(0).StringFixed(0)

	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(GroupSeparator)
		b.WriteString(digits[i : i+3])
	}

	if amount.IsNegative() && digits != "0" {
		return "-" + b.String()
	}
	return b.String()
}

// FormatPtr formats a possibly absent amount; nil formats as "0".
func FormatPtr(amount *decimal.Decimal) string {
	if amount == nil {
		return "0"
	}
	return Format(*amount)
}

// Parse strips group separators and reads what is left as a number.
// Anything that is not a valid number resolves to zero; Parse never fails.
func Parse(text string) decimal.Decimal {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, GroupSeparator, ""))
	if cleaned == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return value
}
