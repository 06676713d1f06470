package countryrules

import (
	"context"
	"testing"

	"donor-field-workers/internal/common/config"
	"donor-field-workers/internal/fieldmask"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_BuildRule(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name         string
		country      string
		rec          *CountryRecord
		wantKind     fieldmask.Kind
		wantTemplate string
		wantRequired bool
	}{
		{
			name:         "afghanistan with mask",
			country:      "Afghanistan",
			rec:          &CountryRecord{DialCode: "93", PhoneMask: "-99-999-9999"},
			wantKind:     fieldmask.KindPhoneAfghanistan,
			wantTemplate: "93-99-999-9999",
		},
		{
			name:     "afghanistan without record fields",
			country:  "Afghanistan",
			rec:      &CountryRecord{},
			wantKind: fieldmask.KindPhoneAfghanistan,
		},
		{
			name:         "algeria keeps record mask",
			country:      "Algeria",
			rec:          &CountryRecord{DialCode: "213", PhoneMask: "-999-99-99-99"},
			wantKind:     fieldmask.KindPhoneAlgeria,
			wantTemplate: "213-999-99-99-99",
			wantRequired: true,
		},
		{
			name:         "generic template",
			country:      "United States",
			rec:          &CountryRecord{DialCode: "1", PhoneMask: "99-999-9999"},
			wantKind:     fieldmask.KindPhoneGeneric,
			wantTemplate: "1-99-999-9999",
		},
		{
			name:     "no mask is freeform",
			country:  "Kenya",
			rec:      &CountryRecord{DialCode: "254"},
			wantKind: fieldmask.KindPhoneFreeform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := p.BuildRule(tt.country, tt.rec)
			assert.Equal(t, tt.wantKind, rule.Kind)
			assert.Equal(t, tt.wantTemplate, rule.Template)
			assert.Equal(t, tt.wantRequired, rule.Required)
			assert.Equal(t, tt.country, rule.Country)
		})
	}
}

func TestPolicy_FromConfig(t *testing.T) {
	p := PolicyFromConfig(config.CountryRulesConfig{
		RequireGenericPhone:     true,
		FreeformMaxDigits:       20,
		StrictDialCodeCountries: []string{"Algeria", "Morocco"},
	})

	rule := p.BuildRule("Morocco", &CountryRecord{DialCode: "212", PhoneMask: "-999999999", PhoneRegex: `^\+212`})
	assert.Equal(t, fieldmask.KindPhoneAlgeria, rule.Kind)
	assert.True(t, rule.Required)
	assert.Equal(t, `^\+212`, rule.PhoneRegex)

	rule = p.BuildRule("Kenya", &CountryRecord{DialCode: "254"})
	assert.True(t, rule.Required)
	assert.Equal(t, 20, rule.FreeformMaxDigits)

	assert.Equal(t, []string{"Algeria"}, PolicyFromConfig(config.CountryRulesConfig{}).StrictDialCodeCountries)
}

func TestPolicy_StrictCountryWithoutMask(t *testing.T) {
	p := PolicyFromConfig(config.CountryRulesConfig{
		StrictDialCodeCountries: []string{"Algeria", "Morocco"},
	})

	tests := []struct {
		name     string
		rec      *CountryRecord
		wantKind fieldmask.Kind
	}{
		{"dial code only", &CountryRecord{DialCode: "212"}, fieldmask.KindPhoneFreeform},
		{"no record fields", &CountryRecord{}, fieldmask.KindPhoneFreeform},
		{"mask without dial code", &CountryRecord{PhoneMask: "999999999"}, fieldmask.KindPhoneGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := p.BuildRule("Morocco", tt.rec)
			assert.Equal(t, tt.wantKind, rule.Kind)
			assert.True(t, rule.Required)
			assert.Equal(t, "Morocco", rule.Country)
		})
	}

	rule := p.BuildRule("Morocco", &CountryRecord{DialCode: "212"})
	assert.True(t, fieldmask.ValidatePhoneNumber("212612345678", rule).IsValid)

	res := fieldmask.ValidatePhoneNumber("", rule)
	assert.Equal(t, fieldmask.ReasonRequired, res.Reason)
	assert.Equal(t, "Morocco phone number is required.", res.Message)
}

func TestStaticSource(t *testing.T) {
	src := StaticSourceFromConfig(map[string]config.StaticCountry{
		"algeria": {DialCode: "213", PhoneMask: "-999-99-99-99"},
	}).With("Kenya", CountryRecord{DialCode: "254"})

	rec, err := src.FetchCountry(context.Background(), "ALGERIA")
	assert.NoError(t, err)
	assert.Equal(t, "213", rec.DialCode)

	rec, err = src.FetchCountry(context.Background(), "kenya")
	assert.NoError(t, err)
	assert.Equal(t, "Kenya", rec.Name)

	_, err = src.FetchCountry(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrCountryNotFound)
}
