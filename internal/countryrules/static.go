package countryrules

import (
	"context"

	"donor-field-workers/internal/common/config"
)

// StaticSource serves Country records from memory.
type StaticSource struct {
	records map[string]CountryRecord
}

func NewStaticSource(records map[string]CountryRecord) *StaticSource {
	s := &StaticSource{records: make(map[string]CountryRecord, len(records))}
	for name, rec := range records {
		if rec.Name == "" {
			rec.Name = name
		}
		s.records[NormalizeName(name)] = rec
	}
	return s
}

// StaticSourceFromConfig builds a source from the country_rules.static section.
func StaticSourceFromConfig(countries map[string]config.StaticCountry) *StaticSource {
	records := make(map[string]CountryRecord, len(countries))
	for name, c := range countries {
		records[name] = CountryRecord{
			DialCode:   c.DialCode,
			PhoneMask:  c.PhoneMask,
			PhoneRegex: c.PhoneRegex,
		}
	}
	return NewStaticSource(records)
}

func (s *StaticSource) Name() string { return "static" }

// With returns a copy of s with rec added under name.
func (s *StaticSource) With(name string, rec CountryRecord) *StaticSource {
	records := make(map[string]CountryRecord, len(s.records)+1)
	for k, v := range s.records {
		records[k] = v
	}
	records[name] = rec
	return NewStaticSource(records)
}

func (s *StaticSource) FetchCountry(ctx context.Context, name string) (*CountryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := s.records[NormalizeName(name)]
	if !ok {
		return nil, ErrCountryNotFound
	}
	return &rec, nil
}
