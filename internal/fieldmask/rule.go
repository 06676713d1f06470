// Package fieldmask formats and validates donor identifier and phone fields.
// Everything in this package is pure: no I/O, no shared mutable state.
package fieldmask

import (
	"strings"
)

// Kind identifies the category of value a MaskRule applies to.
type Kind string

const (
	KindCNIC             Kind = "CNIC"
	KindNTN              Kind = "NTN"
	KindPassport         Kind = "Passport"
	KindPhonePakistan    Kind = "PhonePakistan"
	KindPhoneAfghanistan Kind = "PhoneAfghanistan"
	KindPhoneAlgeria     Kind = "PhoneAlgeria"
	KindPhoneGeneric     Kind = "PhoneGeneric"
	KindPhoneFreeform    Kind = "PhoneFreeform"
)

const (
	PakistanDialCode    = "92"
	AfghanistanDialCode = "93"

	// MinPhoneDigits is the lower bound for phones without a template.
	MinPhoneDigits = 7
	// DefaultFreeformMaxDigits and ExtendedFreeformMaxDigits are the two
	// supported caps for phones without a template.
	DefaultFreeformMaxDigits  = 15
	ExtendedFreeformMaxDigits = 20

	pakistanSubscriberDigits   = 10
	afghanistanFallbackDigits  = 10
	afghanistanDefaultTemplate = "93-XXXXXXX"
	pakistanPlaceholder        = "xxx-xxxxxxx"
	freeformPlaceholder        = "Enter phone number"
	freeformMaxInputLength     = 15
)

// IsPhone reports whether k is one of the phone kinds.
func (k Kind) IsPhone() bool {
	switch k {
	case KindPhonePakistan, KindPhoneAfghanistan, KindPhoneAlgeria, KindPhoneGeneric, KindPhoneFreeform:
		return true
	}
	return false
}

// IsIdentifier reports whether k is CNIC, NTN or Passport.
func (k Kind) IsIdentifier() bool {
	return k == KindCNIC || k == KindNTN || k == KindPassport
}

// MaskRule describes how one category of value is formatted and validated.
// Rules are built with the constructors below and never mutated; the With*
// helpers return modified copies.
type MaskRule struct {
	Kind               Kind     `json:"kind"`
	Country            string   `json:"country,omitempty"`
	DialCode           string   `json:"dialCode,omitempty"`
	Template           string   `json:"template,omitempty"`
	RequiredDigitCount int      `json:"requiredDigitCount"`
	ValidPrefixes      []string `json:"validPrefixes,omitempty"`
	PhoneRegex         string   `json:"phoneRegex,omitempty"`
	Required           bool     `json:"required,omitempty"`
	FreeformMaxDigits  int      `json:"freeformMaxDigits,omitempty"`
}

var identifierTemplates = map[Kind]string{
	KindCNIC:     "99999-9999999-9",
	KindNTN:      "999999-9",
	KindPassport: "999999999",
}

// IdentifierRule returns the static rule for CNIC, NTN or Passport.
func IdentifierRule(kind Kind) (MaskRule, bool) {
	tmpl, ok := identifierTemplates[kind]
	if !ok {
		return MaskRule{}, false
	}
	return MaskRule{
		Kind:               kind,
		Template:           tmpl,
		RequiredDigitCount: countDigitSlots(tmpl),
	}, true
}

// PakistanRule returns the static Pakistan mobile rule.
func PakistanRule() MaskRule {
	tmpl := JoinTemplate(PakistanDialCode, "999-9999999")
	return MaskRule{
		Kind:               KindPhonePakistan,
		Country:            "Pakistan",
		DialCode:           PakistanDialCode,
		Template:           tmpl,
		RequiredDigitCount: countDigitSlots(tmpl),
		ValidPrefixes:      pakistanMobilePrefixes(),
		FreeformMaxDigits:  DefaultFreeformMaxDigits,
	}
}

// AfghanistanRule builds the Afghanistan rule. An empty dialCode falls back
// to 93; an empty phoneMask leaves the rule without a template.
func AfghanistanRule(dialCode, phoneMask string) MaskRule {
	if dialCode == "" {
		dialCode = AfghanistanDialCode
	}
	return NewCountryRule(KindPhoneAfghanistan, "Afghanistan", dialCode, phoneMask)
}

// NewCountryRule builds a phone rule whose template is dialCode joined with
// phoneMask. The required digit count is derived from the template.
func NewCountryRule(kind Kind, country, dialCode, phoneMask string) MaskRule {
	r := MaskRule{
		Kind:              kind,
		Country:           country,
		DialCode:          dialCode,
		FreeformMaxDigits: DefaultFreeformMaxDigits,
	}
	if phoneMask != "" {
		r.Template = JoinTemplate(dialCode, phoneMask)
		r.RequiredDigitCount = countDigitSlots(r.Template)
	}
	return r
}

// FreeformRule returns a rule without a template. maxDigits outside the
// supported caps falls back to DefaultFreeformMaxDigits.
func FreeformRule(country string, maxDigits int) MaskRule {
	return MaskRule{
		Kind:              KindPhoneFreeform,
		Country:           country,
		FreeformMaxDigits: normalizeFreeformMax(maxDigits),
	}
}

// WithRequired returns a copy of r with the mandatory flag set.
func (r MaskRule) WithRequired(required bool) MaskRule {
	r.Required = required
	return r
}

// WithFreeformMax returns a copy of r with a different freeform digit cap.
func (r MaskRule) WithFreeformMax(maxDigits int) MaskRule {
	r.FreeformMaxDigits = normalizeFreeformMax(maxDigits)
	return r
}

// WithPhoneRegex returns a copy of r carrying the advisory regex from the
// country record. Validation never reads it.
func (r MaskRule) WithPhoneRegex(expr string) MaskRule {
	r.PhoneRegex = expr
	return r
}

// WithCountry returns a copy of r whose messages name country.
func (r MaskRule) WithCountry(country string) MaskRule {
	r.Country = country
	return r
}

// HasTemplate reports whether the rule carries a digit template.
func (r MaskRule) HasTemplate() bool {
	return r.Template != "" && r.RequiredDigitCount > 0
}

// Placeholder is the hint shown in an empty input bound to r.
func (r MaskRule) Placeholder() string {
	switch r.Kind {
	case KindPhonePakistan:
		return pakistanPlaceholder
	case KindPhoneAfghanistan:
		if r.Template != "" {
			return r.Template
		}
		return afghanistanDefaultTemplate
	case KindCNIC, KindNTN, KindPassport:
		return r.Template
	}
	if r.Template != "" {
		return r.Template
	}
	return freeformPlaceholder
}

// MaxInputLength is the longest display string the rule can produce.
func (r MaskRule) MaxInputLength() int {
	switch r.Kind {
	case KindPhonePakistan:
		return len(pakistanPlaceholder)
	case KindPhoneAfghanistan:
		if !r.HasTemplate() {
			// dial code, separator and subscriber digits
			return afghanistanFallbackDigits + 1
		}
		return len(r.Template)
	case KindPhoneFreeform:
		return r.freeformMax()
	}
	if r.HasTemplate() {
		return len(r.Template)
	}
	return freeformMaxInputLength
}

func (r MaskRule) freeformMax() int {
	return normalizeFreeformMax(r.FreeformMaxDigits)
}

func (r MaskRule) prefixes() []string {
	if len(r.ValidPrefixes) > 0 {
		return r.ValidPrefixes
	}
	return pakistanMobilePrefixes()
}

func (r MaskRule) hasValidPrefix(digits string) bool {
	if len(digits) < 2 {
		return false
	}
	head := digits[:2]
	for _, p := range r.prefixes() {
		if p == head {
			return true
		}
	}
	return false
}

// templateSlot is one character of a template. Digit slots consume one
// input digit; fixed digit slots always render the template character.
type templateSlot struct {
	char  byte
	digit bool
	fixed bool
}

func (r MaskRule) slots() []templateSlot {
	prefix := 0
	if r.DialCode != "" && strings.HasPrefix(r.Template, r.DialCode) {
		prefix = len(r.DialCode)
	}
	out := make([]templateSlot, 0, len(r.Template))
	for i := 0; i < len(r.Template); i++ {
		c := r.Template[i]
		s := templateSlot{char: c}
		if isDigit(c) {
			s.digit = true
			s.fixed = i < prefix || !isPlaceholder(c)
		}
		out = append(out, s)
	}
	return out
}

// fill renders the template using exactly RequiredDigitCount digits.
func (r MaskRule) fill(digits string) string {
	var b strings.Builder
	b.Grow(len(r.Template))
	di := 0
	for _, s := range r.slots() {
		switch {
		case !s.digit:
			b.WriteByte(s.char)
		case s.fixed:
			b.WriteByte(s.char)
			di++
		default:
			b.WriteByte(digits[di])
			di++
		}
	}
	return b.String()
}

// JoinTemplate concatenates a dial code and a phone mask. A separator is
// inserted when the mask starts directly with a placeholder.
func JoinTemplate(dialCode, phoneMask string) string {
	if dialCode == "" {
		return phoneMask
	}
	if phoneMask == "" {
		return dialCode
	}
	if isPlaceholder(phoneMask[0]) {
		return dialCode + "-" + phoneMask
	}
	return dialCode + phoneMask
}

func pakistanMobilePrefixes() []string {
	return []string{"30", "31", "32", "33", "34", "35", "36", "37", "38", "39"}
}

func normalizeFreeformMax(n int) int {
	if n == ExtendedFreeformMaxDigits {
		return ExtendedFreeformMaxDigits
	}
	return DefaultFreeformMaxDigits
}

func countDigitSlots(tmpl string) int {
	n := 0
	for i := 0; i < len(tmpl); i++ {
		if isDigit(tmpl[i]) {
			n++
		}
	}
	return n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isPlaceholder(c byte) bool { return c == '9' || c == '0' }

// OnlyDigits strips every non-ASCII-digit character from s.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
