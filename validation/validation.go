package validation

import (
	"strings"
	"time"
)

// Violations maps a form field to an i18n message code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// First returns the code of one violation in field-name order, or "".
func (v Violations) First() (field, code string) {
	for f, c := range v {
		if field == "" || f < field {
			field, code = f, c
		}
	}
	return field, code
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

// OneOf records "invalid_choice" when value is not in allowed. An empty
// value is left to Required.
func OneOf(field, value string, allowed []string, v Violations) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "invalid_choice"
}

// NotBefore records "date_in_past" when t is before ref.
func NotBefore(field string, t, ref time.Time, v Violations) {
	if t.Before(ref) {
		v[field] = "date_in_past"
	}
}
