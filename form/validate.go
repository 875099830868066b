package form

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"FunnelBot/model"
)

const minYear = 2020

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlPattern   = regexp.MustCompile(`^https?://.+`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// ValidateEmail returns an error message, or "" when the address is acceptable.
func ValidateEmail(raw string) string {
	if raw == "" || !emailPattern.MatchString(raw) {
		return "Please enter a valid email address"
	}
	if strings.ContainsAny(raw, "`'\"") {
		return "Email address contains invalid characters"
	}
	return ""
}

// ValidatePhone requires exactly ten digits once formatting characters are removed.
func ValidatePhone(raw string) string {
	if len(nonDigits.ReplaceAllString(raw, "")) != 10 {
		return "Please enter a valid 10-digit phone number"
	}
	return ""
}

// FormatPhone drops a leading country code, strips everything but digits and
// keeps at most ten of them.
func FormatPhone(raw string) string {
	return model.PhoneDigits(raw)
}

// ValidateURL accepts an empty value; anything else must be http(s).
func ValidateURL(raw string) string {
	if raw != "" && !urlPattern.MatchString(raw) {
		return "Please enter a valid URL starting with http:// or https://"
	}
	return ""
}

// ValidateYear accepts 2020 through five years after now.
func ValidateYear(year int, now time.Time) string {
	maxYear := now.Year() + 5
	if year < minYear || year > maxYear {
		return fmt.Sprintf("Year must be between %d and %d", minYear, maxYear)
	}
	return ""
}

// ValidateText checks a free-text answer. minLength and maxLength are ignored when zero.
func ValidateText(label, raw string, required bool, minLength, maxLength int) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if required {
			if minLength > 0 {
				return fmt.Sprintf("%s must be at least %d characters long", label, minLength)
			}
			return fmt.Sprintf("Please enter your %s", strings.ToLower(label))
		}
		return ""
	}
	if minLength > 0 && utf8.RuneCountInString(trimmed) < minLength {
		return fmt.Sprintf("%s must be at least %d characters long", label, minLength)
	}
	if maxLength > 0 && utf8.RuneCountInString(trimmed) > maxLength {
		return fmt.Sprintf("%s must be at most %d characters long", label, maxLength)
	}
	return ""
}

// Validator dispatches to the field validators by field type.
type Validator struct {
	Now func() time.Time
}

func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{Now: now}
}

// Field validates one answer against its definition. It never mutates anything.
func (v *Validator) Field(def model.FieldDefinition, value model.Value, present bool) string {
	if !present || value.Blank() {
		if def.Required {
			return requiredMessage(def)
		}
		return ""
	}
	switch def.Type {
	case model.FieldEmail:
		return ValidateEmail(value.Text)
	case model.FieldPhone:
		return ValidatePhone(value.Text)
	case model.FieldURL:
		return ValidateURL(strings.TrimSpace(value.Text))
	case model.FieldYear:
		n, ok := numberValue(value)
		if !ok {
			return "Please enter a valid year"
		}
		return ValidateYear(n, v.Now())
	case model.FieldNumber:
		n, ok := numberValue(value)
		if !ok {
			return "Please enter a whole number"
		}
		if def.Min != nil && n < *def.Min {
			return fmt.Sprintf("%s must be at least %d", def.Label, *def.Min)
		}
		if def.Max != nil && n > *def.Max {
			return fmt.Sprintf("%s must be at most %d", def.Label, *def.Max)
		}
	case model.FieldText:
		return ValidateText(def.Label, value.Text, def.Required, def.MinLength, def.MaxLength)
	}
	return ""
}

func requiredMessage(def model.FieldDefinition) string {
	label := strings.ToLower(def.Label)
	switch def.Type {
	case model.FieldEmail:
		return "Please enter a valid email address"
	case model.FieldPhone:
		return "Please enter a valid 10-digit phone number"
	case model.FieldSelect, model.FieldBool:
		return fmt.Sprintf("Please select a %s", label)
	case model.FieldMultiSelect, model.FieldList:
		return fmt.Sprintf("Please select at least one %s", label)
	case model.FieldText:
		return ValidateText(def.Label, "", true, def.MinLength, 0)
	default:
		return fmt.Sprintf("Please enter your %s", label)
	}
}

func numberValue(v model.Value) (int, bool) {
	switch v.Kind {
	case model.KindNumber:
		return v.Number, true
	case model.KindText:
		n, err := strconv.Atoi(strings.TrimSpace(v.Text))
		return n, err == nil
	}
	return 0, false
}
