package fieldmask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unitedStatesRule() MaskRule {
	return NewCountryRule(KindPhoneGeneric, "United States", "1", "99-999-9999")
}

func algeriaRule() MaskRule {
	return NewCountryRule(KindPhoneAlgeria, "Algeria", "213", "-999-99-99-99")
}

// ==========================
// Pakistan
// ==========================

func TestFormatPhone_Pakistan(t *testing.T) {
	rule := PakistanRule()

	tests := []struct {
		name string
		raw  string
		want PhoneResult
	}{
		{"complete valid number", "3001234567", PhoneResult{"300-1234567", "923001234567"}},
		{"invalid prefix keeps text", "2001234567", PhoneResult{"200-1234567", ""}},
		{"three digits ungrouped", "300", PhoneResult{"300", ""}},
		{"fourth digit starts group", "3001", PhoneResult{"300-1", ""}},
		{"country code stripped", "+92 300 1234567", PhoneResult{"300-1234567", "923001234567"}},
		{"extra digits truncated", "30012345678", PhoneResult{"300-1234567", "923001234567"}},
		{"previous display is stable", "300-1234567", PhoneResult{"300-1234567", "923001234567"}},
		{"empty", "", PhoneResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhone(tt.raw, rule))
		})
	}
}

func TestFormatPastedPhone_Pakistan(t *testing.T) {
	rule := PakistanRule()

	assert.Equal(t, PhoneResult{"300-1234567", "923001234567"}, FormatPastedPhone("923001234567", rule))
	assert.Equal(t, PhoneResult{"300", ""}, FormatPastedPhone("92300", rule))
	assert.Equal(t, PhoneResult{}, FormatPastedPhone("92", rule))
}

// ==========================
// Afghanistan
// ==========================

func TestFormatPhone_Afghanistan(t *testing.T) {
	fallback := AfghanistanRule("", "")
	templated := AfghanistanRule("93", "999999999")

	tests := []struct {
		name string
		raw  string
		rule MaskRule
		want PhoneResult
	}{
		{"leading digits keep the typed number", "7012345", fallback, PhoneResult{"93-7012345", "937012345"}},
		{"single digit untouched", "7", fallback, PhoneResult{"7", "7"}},
		{"two digits get the code", "70", fallback, PhoneResult{"93-70", "9370"}},
		{"bare code", "93", fallback, PhoneResult{"93", "93"}},
		{"previous display is stable", "93-70123456", fallback, PhoneResult{"93-70123456", "9370123456"}},
		{"fallback cap counts the code", "7012345678901", fallback, PhoneResult{"93-70123456", "9370123456"}},
		{"fallback cap with typed code", "93123456789012345", fallback, PhoneResult{"93-12345678", "9312345678"}},
		{"template cap", "7012345678", templated, PhoneResult{"93-701234567", "93701234567"}},
		{"template complete", "93701234567", templated, PhoneResult{"93-701234567", "93701234567"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhone(tt.raw, tt.rule))
		})
	}
}

// ==========================
// Generic template
// ==========================

func TestFormatPhone_GenericTemplate(t *testing.T) {
	rule := unitedStatesRule()
	assert.Equal(t, "1-99-999-9999", rule.Template)
	assert.Equal(t, 10, rule.RequiredDigitCount)

	t.Run("exact digit count fills the template", func(t *testing.T) {
		res := FormatPhone("1234567890", rule)
		assert.Equal(t, PhoneResult{"1-23-456-7890", "1-23-456-7890"}, res)
		assert.Regexp(t, `^1-\d{2}-\d{3}-\d{4}$`, res.Display)
	})

	t.Run("partial input stays raw", func(t *testing.T) {
		assert.Equal(t, PhoneResult{"123456789", "123456789"}, FormatPhone("123456789", rule))
	})

	t.Run("extra digits truncated", func(t *testing.T) {
		assert.Equal(t, "1-23-456-7890", FormatPhone("12345678901", rule).Display)
	})

	t.Run("formatted input is stable", func(t *testing.T) {
		assert.Equal(t, "1-23-456-7890", FormatPhone("1-23-456-7890", rule).Display)
	})

	t.Run("dial code digits stay literal", func(t *testing.T) {
		assert.Equal(t, "213-555-12-34-56", FormatPhone("213555123456", algeriaRule()).Display)
	})
}

// ==========================
// Freeform
// ==========================

func TestFormatPhone_Freeform(t *testing.T) {
	rule := FreeformRule("Germany", 0)

	assert.Equal(t, PhoneResult{"491512345678", "491512345678"}, FormatPhone("+49 (151) 234-5678", rule))
	assert.Equal(t, "123456789012345", FormatPhone("12345678901234567890", rule).Display)
	assert.Equal(t, "12345678901234567890",
		FormatPhone("12345678901234567890", rule.WithFreeformMax(ExtendedFreeformMaxDigits)).Display)
	assert.Equal(t, PhoneResult{}, FormatPhone("---", rule))
}

// ==========================
// Round trip
// ==========================

func TestFormatThenValidate_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		rule MaskRule
	}{
		{"pakistan", "3001234567", PakistanRule()},
		{"pakistan with code", "923451234567", PakistanRule()},
		{"afghanistan template", "701234567", AfghanistanRule("93", "999999999")},
		{"generic", "1234567890", unitedStatesRule()},
		{"algeria", "213555123456", algeriaRule()},
		{"algeria default mask", "21311097", NewCountryRule(KindPhoneAlgeria, "Algeria", "213", "11097")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := FormatPhone(tt.raw, tt.rule)
			assert.NotEmpty(t, res.Canonical)
			result := ValidatePhoneNumber(res.Canonical, tt.rule)
			assert.True(t, result.IsValid, "canonical %q: %s", res.Canonical, result.Message)
		})
	}
}

func TestFormatPhone_EmptyInput(t *testing.T) {
	rules := []MaskRule{PakistanRule(), AfghanistanRule("", ""), unitedStatesRule(), algeriaRule(), FreeformRule("", 0), {}}
	for _, r := range rules {
		assert.Equal(t, PhoneResult{}, FormatPhone("", r), "kind %s", r.Kind)
		assert.Equal(t, PhoneResult{}, FormatPastedPhone("", r), "kind %s", r.Kind)
	}
}
