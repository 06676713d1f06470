package countryrules

import (
	"strings"

	"donor-field-workers/internal/common/config"
	"donor-field-workers/internal/fieldmask"
)

const (
	algeriaDialCode  = "213"
	algeriaPhoneMask = "11097"
)

// Policy carries the deployment's phone validation choices.
type Policy struct {
	RequireGenericPhone     bool
	FreeformMaxDigits       int
	StrictDialCodeCountries []string
}

func DefaultPolicy() Policy {
	return Policy{
		FreeformMaxDigits:       fieldmask.DefaultFreeformMaxDigits,
		StrictDialCodeCountries: []string{"Algeria"},
	}
}

func PolicyFromConfig(cfg config.CountryRulesConfig) Policy {
	p := Policy{
		RequireGenericPhone:     cfg.RequireGenericPhone,
		FreeformMaxDigits:       cfg.FreeformMaxDigits,
		StrictDialCodeCountries: cfg.StrictDialCodeCountries,
	}
	if p.StrictDialCodeCountries == nil {
		p.StrictDialCodeCountries = DefaultPolicy().StrictDialCodeCountries
	}
	return p
}

func (p Policy) isStrict(name string) bool {
	key := NormalizeName(name)
	for _, c := range p.StrictDialCodeCountries {
		if NormalizeName(c) == key {
			return true
		}
	}
	return false
}

// BuildRule turns a Country record into a mask rule.
func (p Policy) BuildRule(name string, rec *CountryRecord) fieldmask.MaskRule {
	if rec == nil {
		rec = &CountryRecord{}
	}
	display := strings.TrimSpace(name)
	if display == "" {
		display = strings.TrimSpace(rec.Name)
	}
	key := NormalizeName(display)

	var rule fieldmask.MaskRule
	switch {
	case key == "afghanistan":
		rule = fieldmask.AfghanistanRule(rec.DialCode, rec.PhoneMask).
			WithRequired(p.RequireGenericPhone)

	case p.isStrict(display):
		dial, mask := rec.DialCode, rec.PhoneMask
		if key == "algeria" {
			if dial == "" {
				dial = algeriaDialCode
			}
			if mask == "" {
				mask = algeriaPhoneMask
			}
		}
		strict := fieldmask.NewCountryRule(fieldmask.KindPhoneAlgeria, display, dial, mask)
		if dial != "" && strict.RequiredDigitCount > len(fieldmask.OnlyDigits(dial)) {
			rule = strict.WithRequired(true)
		} else {
			// no digits to count after the dial code; still mandatory
			rule = p.plainRule(display, dial, mask, true)
		}

	default:
		rule = p.plainRule(display, rec.DialCode, rec.PhoneMask, p.RequireGenericPhone)
	}

	return rule.WithFreeformMax(p.FreeformMaxDigits).WithPhoneRegex(rec.PhoneRegex)
}

func (p Policy) plainRule(display, dial, mask string, required bool) fieldmask.MaskRule {
	kind := fieldmask.KindPhoneFreeform
	if mask != "" {
		kind = fieldmask.KindPhoneGeneric
	}
	rule := fieldmask.NewCountryRule(kind, display, dial, mask)
	if kind == fieldmask.KindPhoneGeneric && !rule.HasTemplate() {
		rule = fieldmask.NewCountryRule(fieldmask.KindPhoneFreeform, display, dial, "")
	}
	return rule.WithRequired(required)
}

// Fallback is the rule used when no Country record could be resolved.
// Strict dial-code countries keep their mandatory rule with built-in defaults.
func (p Policy) Fallback(country string) fieldmask.MaskRule {
	if NormalizeName(country) == "algeria" && p.isStrict(country) {
		return p.BuildRule(country, nil)
	}
	return fieldmask.FreeformRule(strings.TrimSpace(country), p.FreeformMaxDigits).
		WithRequired(p.RequireGenericPhone)
}
