package fieldmask

import "strings"

// PhoneResult is the pair of strings produced for one phone input.
// Display is what the input widget shows; Canonical is what gets stored.
type PhoneResult struct {
	Display   string `json:"display"`
	Canonical string `json:"canonical"`
}

// FormatPhone re-renders raw phone input for rule. It only looks at the
// digits in raw, so formatting a previous display string is a no-op.
func FormatPhone(raw string, rule MaskRule) PhoneResult {
	digits := OnlyDigits(raw)
	if digits == "" {
		return PhoneResult{}
	}

	switch rule.Kind {
	case KindPhonePakistan:
		if len(digits) > pakistanSubscriberDigits && strings.HasPrefix(digits, PakistanDialCode) {
			digits = digits[len(PakistanDialCode):]
		}
		return formatPakistan(digits, rule)
	case KindPhoneAfghanistan:
		return formatAfghanistan(digits, rule)
	case KindPhoneGeneric, KindPhoneAlgeria:
		if rule.HasTemplate() {
			return formatTemplate(digits, rule)
		}
	}
	return formatFreeform(digits, rule)
}

// FormatPastedPhone handles a paste event. Pasted Pakistan numbers often
// carry the country code, so a leading 92 is always dropped.
func FormatPastedPhone(raw string, rule MaskRule) PhoneResult {
	if rule.Kind == KindPhonePakistan {
		digits := strings.TrimPrefix(OnlyDigits(raw), PakistanDialCode)
		if digits == "" {
			return PhoneResult{}
		}
		return formatPakistan(digits, rule)
	}
	return FormatPhone(raw, rule)
}

func formatPakistan(digits string, rule MaskRule) PhoneResult {
	if len(digits) > pakistanSubscriberDigits {
		digits = digits[:pakistanSubscriberDigits]
	}

	display := digits
	if len(digits) > 3 {
		display = digits[:3] + "-" + digits[3:]
	}

	var canonical string
	if len(digits) == pakistanSubscriberDigits && rule.hasValidPrefix(digits) {
		canonical = PakistanDialCode + digits
	}
	return PhoneResult{Display: display, Canonical: canonical}
}

func formatAfghanistan(digits string, rule MaskRule) PhoneResult {
	if len(digits) < 2 {
		return PhoneResult{Display: digits, Canonical: digits}
	}

	dial := rule.DialCode
	if dial == "" {
		dial = AfghanistanDialCode
	}

	subscriber := strings.TrimPrefix(digits, dial)
	// both caps count the dial code
	total := afghanistanFallbackDigits
	if rule.HasTemplate() {
		total = rule.RequiredDigitCount
	}
	limit := total - len(dial)
	if limit < 0 {
		limit = 0
	}
	if len(subscriber) > limit {
		subscriber = subscriber[:limit]
	}

	if subscriber == "" {
		return PhoneResult{Display: dial, Canonical: dial}
	}
	return PhoneResult{Display: dial + "-" + subscriber, Canonical: dial + subscriber}
}

func formatTemplate(digits string, rule MaskRule) PhoneResult {
	if len(digits) > rule.RequiredDigitCount {
		digits = digits[:rule.RequiredDigitCount]
	}
	if len(digits) < rule.RequiredDigitCount {
		return PhoneResult{Display: digits, Canonical: digits}
	}
	formatted := rule.fill(digits)
	return PhoneResult{Display: formatted, Canonical: formatted}
}

func formatFreeform(digits string, rule MaskRule) PhoneResult {
	if limit := rule.freeformMax(); len(digits) > limit {
		digits = digits[:limit]
	}
	return PhoneResult{Display: digits, Canonical: digits}
}
