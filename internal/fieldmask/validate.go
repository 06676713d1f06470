package fieldmask

import (
	"fmt"
	"strings"
)

// ErrorKind classifies why a value was rejected.
type ErrorKind string

const (
	ReasonInvalidPrefix   ErrorKind = "InvalidPrefix"
	ReasonWrongDigitCount ErrorKind = "WrongDigitCount"
	ReasonWrongFormat     ErrorKind = "WrongFormat"
	ReasonTooShort        ErrorKind = "TooShort"
	ReasonTooLong         ErrorKind = "TooLong"
	ReasonRequired        ErrorKind = "Required"
)

// ValidationResult is the outcome of validating one value. Reason is empty
// when IsValid is true.
type ValidationResult struct {
	IsValid bool      `json:"isValid"`
	Reason  ErrorKind `json:"reason,omitempty"`
	Message string    `json:"message,omitempty"`
}

func valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

func invalid(reason ErrorKind, format string, args ...interface{}) ValidationResult {
	return ValidationResult{
		IsValid: false,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidatePhoneNumber decides whether a completed phone value satisfies rule.
// Malformed input is reported through the result, never as an error.
func ValidatePhoneNumber(value string, rule MaskRule) ValidationResult {
	trimmed := strings.TrimSpace(value)
	subject := phoneSubject(rule)

	if trimmed == "" {
		if !rule.Required && rule.Kind != KindPhoneAlgeria {
			return valid()
		}
		if rule.Template != "" {
			return invalid(ReasonRequired, "%s is required. Expected format: %s", subject, rule.Template)
		}
		return invalid(ReasonRequired, "%s is required.", subject)
	}

	digits := OnlyDigits(trimmed)
	switch rule.Kind {
	case KindPhonePakistan:
		return validatePakistan(digits, rule, subject)
	case KindPhoneAlgeria:
		return validateDialCodePrefix(trimmed, rule, subject)
	case KindPhoneAfghanistan:
		if rule.HasTemplate() {
			return validateTemplate(digits, rule, subject)
		}
		return validateDigitBounds(digits, afghanistanFallbackDigits, subject)
	case KindPhoneGeneric:
		if rule.HasTemplate() {
			return validateTemplate(digits, rule, subject)
		}
	}
	return validateDigitBounds(digits, rule.freeformMax(), subject)
}

func validatePakistan(digits string, rule MaskRule, subject string) ValidationResult {
	prefixes := rule.prefixes()
	prefixRange := prefixes[0] + "-" + prefixes[len(prefixes)-1]

	if strings.HasPrefix(digits, PakistanDialCode) {
		rest := digits[len(PakistanDialCode):]
		if len(rest) != pakistanSubscriberDigits {
			return invalid(ReasonWrongDigitCount,
				"%s must be %d digits after country code (%s).", subject, pakistanSubscriberDigits, PakistanDialCode)
		}
		if !rule.hasValidPrefix(rest) {
			return invalid(ReasonInvalidPrefix, "%s must start with valid mobile prefix (%s).", subject, prefixRange)
		}
		return valid()
	}

	if len(digits) == pakistanSubscriberDigits {
		if !rule.hasValidPrefix(digits) {
			return invalid(ReasonInvalidPrefix, "%s must start with valid mobile prefix (%s).", subject, prefixRange)
		}
		return valid()
	}

	return invalid(ReasonWrongDigitCount,
		"%s must be %d digits and start with valid mobile prefix (%s).", subject, pakistanSubscriberDigits, prefixRange)
}

func validateDialCodePrefix(value string, rule MaskRule, subject string) ValidationResult {
	want := rule.RequiredDigitCount - len(OnlyDigits(rule.DialCode))
	if want <= 0 {
		// nothing to count after the dial code
		return validateDigitBounds(OnlyDigits(value), rule.freeformMax(), subject)
	}

	v := strings.TrimPrefix(value, "+")
	if rule.DialCode == "" || !strings.HasPrefix(v, rule.DialCode) {
		return invalid(ReasonWrongFormat, "%s must be correctly formatted. Expected format: %s", subject, rule.Template)
	}

	rest := OnlyDigits(v[len(rule.DialCode):])
	if len(rest) != want {
		return invalid(ReasonWrongDigitCount,
			"%s must be exactly %d digits after country code. Expected format: %s", subject, want, rule.Template)
	}
	return valid()
}

func validateTemplate(digits string, rule MaskRule, subject string) ValidationResult {
	if len(digits) != rule.RequiredDigitCount {
		return invalid(ReasonWrongDigitCount,
			"%s must be exactly %d digits. Expected format: %s", subject, rule.RequiredDigitCount, rule.Template)
	}

	di := 0
	for _, s := range rule.slots() {
		if !s.digit {
			continue
		}
		if s.fixed && digits[di] != s.char {
			return invalid(ReasonWrongFormat, "%s format is invalid. Expected format: %s", subject, rule.Template)
		}
		di++
	}
	return valid()
}

func validateDigitBounds(digits string, limit int, subject string) ValidationResult {
	switch {
	case len(digits) < MinPhoneDigits:
		return invalid(ReasonTooShort, "%s must be at least %d digits.", subject, MinPhoneDigits)
	case len(digits) > limit:
		return invalid(ReasonTooLong, "%s cannot exceed %d digits.", subject, limit)
	}
	return valid()
}

func phoneSubject(rule MaskRule) string {
	if rule.Country == "" {
		return "Phone number"
	}
	return rule.Country + " phone number"
}
