// Package countryrules resolves per-country phone mask rules from Country
// records held in the CRM's configuration store.
package countryrules

import (
	"context"
	"errors"
	"strings"
)

// ErrCountryNotFound is returned by a Source when no Country record exists.
var ErrCountryNotFound = errors.New("country record not found")

// CountryRecord is the subset of a Country document the masks depend on.
type CountryRecord struct {
	Name       string `json:"name"`
	DialCode   string `json:"custom_dial_code"`
	PhoneMask  string `json:"custom_phone_mask"`
	PhoneRegex string `json:"custom_phone_regex"`
}

// Source fetches one Country record by name.
type Source interface {
	FetchCountry(ctx context.Context, name string) (*CountryRecord, error)
	Name() string
}

// NormalizeName is the cache key for a country name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
