package fieldmask

import (
	"fmt"
	"regexp"
	"strings"
)

// IdentificationOthers marks a donor who supplied no government identifier.
const IdentificationOthers = "Others"

var identifierPatterns = map[Kind]*regexp.Regexp{
	KindCNIC:     regexp.MustCompile(`^\d{5}-\d{7}-\d{1}$`),
	KindNTN:      regexp.MustCompile(`^\d{6}-\d{1}$`),
	KindPassport: regexp.MustCompile(`^\d{9}$`),
}

// ParseIdentificationType maps a CRM identification type to a Kind.
// Matching is case-insensitive; "Others" and unknown values return false.
func ParseIdentificationType(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	for _, k := range []Kind{KindCNIC, KindNTN, KindPassport} {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return "", false
}

// IdentifierRequired reports whether the identification number is mandatory
// for the given identification type.
func IdentifierRequired(identificationType string) bool {
	t := strings.TrimSpace(identificationType)
	return t != "" && !strings.EqualFold(t, IdentificationOthers)
}

// GetMaskPattern returns the template shown for an identification kind, or
// "" for anything else.
func GetMaskPattern(kind Kind) string {
	return identifierTemplates[kind]
}

// FormatIdentifier strips non-digits from raw and re-inserts the separators
// of kind's template, truncating extra digits.
func FormatIdentifier(raw string, kind Kind) string {
	d := OnlyDigits(raw)
	switch kind {
	case KindCNIC:
		if len(d) > 13 {
			d = d[:13]
		}
		switch {
		case len(d) <= 5:
			return d
		case len(d) <= 12:
			return d[:5] + "-" + d[5:]
		default:
			return d[:5] + "-" + d[5:12] + "-" + d[12:]
		}
	case KindNTN:
		if len(d) > 7 {
			d = d[:7]
		}
		if len(d) <= 6 {
			return d
		}
		return d[:6] + "-" + d[6:]
	case KindPassport:
		if len(d) > 9 {
			d = d[:9]
		}
		return d
	}
	return d
}

// ValidateIdentifierFormat reports whether value exactly matches the
// canonical pattern of kind. Empty values and unknown kinds are invalid.
func ValidateIdentifierFormat(value string, kind Kind) bool {
	re, ok := identifierPatterns[kind]
	if !ok || value == "" {
		return false
	}
	return re.MatchString(value)
}

// ValidateIdentifier wraps ValidateIdentifierFormat in a ValidationResult.
// An empty value is accepted unless required is set.
func ValidateIdentifier(value string, kind Kind, required bool) ValidationResult {
	label := identifierLabel(kind)
	if strings.TrimSpace(value) == "" {
		if required {
			return invalid(ReasonRequired, "%s is required.", label)
		}
		return valid()
	}
	if !ValidateIdentifierFormat(value, kind) {
		if pattern := GetMaskPattern(kind); pattern != "" {
			return invalid(ReasonWrongFormat, "%s must match format %s.", label, pattern)
		}
		return invalid(ReasonWrongFormat, "%s has an unsupported identification type.", label)
	}
	return valid()
}

func identifierLabel(kind Kind) string {
	switch {
	case kind.IsIdentifier():
		return string(kind)
	case kind == "":
		return "Identification number"
	}
	return fmt.Sprintf("Identification number (%s)", kind)
}
