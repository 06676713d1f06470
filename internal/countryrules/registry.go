package countryrules

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	apperrors "donor-field-workers/internal/common/errors"
	"donor-field-workers/internal/common/logger"
	"donor-field-workers/internal/common/metrics"
	"donor-field-workers/internal/fieldmask"

	"golang.org/x/sync/singleflight"
)

const defaultLookupTimeout = 5 * time.Second

// Lookup outcomes recorded in country_rule_lookups_total.
const (
	OutcomeHit      = "hit"
	OutcomeFetched  = "fetched"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

type cacheEntry struct {
	rule  fieldmask.MaskRule
	found bool
}

// forCaller names the rule the way this caller spelled the country. Entries
// are shared across spellings of the same normalized key.
func (e cacheEntry) forCaller(name string) (fieldmask.MaskRule, bool) {
	if !e.found {
		return fieldmask.MaskRule{}, false
	}
	return e.rule.WithCountry(name), true
}

// Registry resolves country names to mask rules. Results are cached for the
// life of the process and at most one fetch per country is in flight.
type Registry struct {
	source        Source
	policy        Policy
	logger        logger.Logger
	lookupTimeout time.Duration

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type Options struct {
	Source        Source
	Policy        Policy
	Logger        logger.Logger
	LookupTimeout time.Duration
}

func NewRegistry(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = defaultLookupTimeout
	}
	if opts.Policy.FreeformMaxDigits == 0 {
		opts.Policy.FreeformMaxDigits = fieldmask.DefaultFreeformMaxDigits
	}
	if opts.Policy.StrictDialCodeCountries == nil {
		opts.Policy.StrictDialCodeCountries = DefaultPolicy().StrictDialCodeCountries
	}
	return &Registry{
		source:        opts.Source,
		policy:        opts.Policy,
		logger:        opts.Logger,
		lookupTimeout: opts.LookupTimeout,
		cache:         make(map[string]cacheEntry),
	}
}

// Policy returns the validation policy applied to resolved rules.
func (r *Registry) Policy() Policy {
	return r.policy
}

// Resolve returns the rule for country. ok is false for an empty name, a
// missing record, a failed lookup, or when ctx ends before the shared fetch
// completes; the fetch itself keeps running for later callers.
func (r *Registry) Resolve(ctx context.Context, country string) (fieldmask.MaskRule, bool) {
	name := strings.TrimSpace(country)
	if name == "" {
		return fieldmask.MaskRule{}, false
	}
	if rule, ok, static := r.static(name); static {
		return rule, ok
	}

	key := NormalizeName(name)
	if entry, ok := r.lookup(key); ok {
		metrics.CountryRuleLookups.WithLabelValues(r.sourceName(), OutcomeHit).Inc()
		return entry.forCaller(name)
	}

	ch := r.group.DoChan(key, func() (interface{}, error) {
		return r.fetch(key, name)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return fieldmask.MaskRule{}, false
		}
		return res.Val.(cacheEntry).forCaller(name)
	case <-ctx.Done():
		metrics.CountryRuleLookups.WithLabelValues(r.sourceName(), OutcomeCanceled).Inc()
		return fieldmask.MaskRule{}, false
	}
}

// Cached returns a previously resolved rule without blocking. It reports
// false while the first fetch for country is still outstanding.
func (r *Registry) Cached(country string) (fieldmask.MaskRule, bool) {
	name := strings.TrimSpace(country)
	if name == "" {
		return fieldmask.MaskRule{}, false
	}
	if rule, ok, static := r.static(name); static {
		return rule, ok
	}
	entry, ok := r.lookup(NormalizeName(name))
	if !ok {
		return fieldmask.MaskRule{}, false
	}
	return entry.forCaller(name)
}

// RuleFor resolves country and falls back to the policy's freeform rule.
func (r *Registry) RuleFor(ctx context.Context, country string) fieldmask.MaskRule {
	if rule, ok := r.Resolve(ctx, country); ok {
		return rule
	}
	return r.policy.Fallback(country)
}

func (r *Registry) static(name string) (fieldmask.MaskRule, bool, bool) {
	if NormalizeName(name) == "pakistan" {
		return fieldmask.PakistanRule(), true, true
	}
	return fieldmask.MaskRule{}, false, false
}

func (r *Registry) lookup(key string) (cacheEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[key]
	return entry, ok
}

func (r *Registry) store(key string, entry cacheEntry) {
	r.mu.Lock()
	r.cache[key] = entry
	r.mu.Unlock()
}

func (r *Registry) sourceName() string {
	if r.source == nil {
		return "none"
	}
	return r.source.Name()
}

func (r *Registry) fetch(key, name string) (interface{}, error) {
	// a fetch that finished between the cache check and DoChan
	if entry, ok := r.lookup(key); ok {
		return entry, nil
	}

	if r.source == nil {
		entry := cacheEntry{}
		r.store(key, entry)
		return entry, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.lookupTimeout)
	defer cancel()

	start := time.Now()
	rec, err := r.source.FetchCountry(ctx, name)
	switch {
	case errors.Is(err, ErrCountryNotFound):
		metrics.CountryRuleLookups.WithLabelValues(r.sourceName(), OutcomeNotFound).Inc()
		r.logger.Debug("No country record", map[string]interface{}{
			"country": name,
			"source":  r.sourceName(),
		})
		entry := cacheEntry{}
		r.store(key, entry)
		return entry, nil

	case err != nil:
		metrics.CountryRuleLookups.WithLabelValues(r.sourceName(), OutcomeError).Inc()
		lookupErr := apperrors.NewCountryRuleLookupFailedError(name, err)
		r.logger.Warn("Country rule lookup failed", map[string]interface{}{
			"country":   name,
			"source":    r.sourceName(),
			"errorCode": string(lookupErr.Code),
			"error":     err.Error(),
			"duration":  time.Since(start).String(),
		})
		return nil, lookupErr
	}

	entry := cacheEntry{rule: r.policy.BuildRule(name, rec), found: true}
	r.store(key, entry)

	metrics.CountryRuleLookups.WithLabelValues(r.sourceName(), OutcomeFetched).Inc()
	r.logger.Debug("Country rule resolved", map[string]interface{}{
		"country":  name,
		"ruleKind": string(entry.rule.Kind),
		"template": entry.rule.Template,
		"duration": time.Since(start).String(),
	})
	return entry, nil
}
