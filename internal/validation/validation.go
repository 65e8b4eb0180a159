package validation

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Violations maps a field name to an error code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func NonNegative(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v[field] = "must_not_be_negative"
	}
}

func NotEmptyList(field string, values []string, v Violations) {
	if len(values) == 0 {
		v[field] = "required"
	}
}
