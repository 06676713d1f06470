package countryrules

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"donor-field-workers/internal/common/logger"
	"donor-field-workers/internal/fieldmask"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// ==========================
// Test Helper Functions
// ==========================

// stubSource counts fetches and can hold them until release is closed.
type stubSource struct {
	calls   atomic.Int32
	release chan struct{}
	started chan struct{}
	once    sync.Once
	fetch   func(name string) (*CountryRecord, error)
}

func newStubSource(fetch func(name string) (*CountryRecord, error)) *stubSource {
	return &stubSource{fetch: fetch, started: make(chan struct{})}
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchCountry(ctx context.Context, name string) (*CountryRecord, error) {
	s.calls.Add(1)
	s.once.Do(func() { close(s.started) })
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.fetch(name)
}

func newTestRegistry(t *testing.T, source Source) *Registry {
	return NewRegistry(Options{
		Source:        source,
		Policy:        DefaultPolicy(),
		Logger:        logger.NewTestLogger(t),
		LookupTimeout: 2 * time.Second,
	})
}

func kenya(string) (*CountryRecord, error) {
	return &CountryRecord{Name: "Kenya", DialCode: "254", PhoneMask: "-999-999999"}, nil
}

// ==========================
// Resolve
// ==========================

func TestRegistry_Resolve(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := newStubSource(func(name string) (*CountryRecord, error) {
		switch NormalizeName(name) {
		case "kenya":
			return kenya(name)
		case "algeria":
			return &CountryRecord{Name: "Algeria"}, nil
		}
		return nil, ErrCountryNotFound
	})
	reg := newTestRegistry(t, src)
	ctx := context.Background()

	t.Run("empty name", func(t *testing.T) {
		_, ok := reg.Resolve(ctx, "  ")
		assert.False(t, ok)
	})

	t.Run("pakistan is static", func(t *testing.T) {
		rule, ok := reg.Resolve(ctx, "pakistan")
		require.True(t, ok)
		assert.Equal(t, fieldmask.KindPhonePakistan, rule.Kind)
		assert.Equal(t, int32(0), src.calls.Load())
	})

	t.Run("generic template", func(t *testing.T) {
		rule, ok := reg.Resolve(ctx, "Kenya")
		require.True(t, ok)
		assert.Equal(t, fieldmask.KindPhoneGeneric, rule.Kind)
		assert.Equal(t, "254-999-999999", rule.Template)
		assert.Equal(t, 12, rule.RequiredDigitCount)
	})

	t.Run("cached by normalized name", func(t *testing.T) {
		before := src.calls.Load()
		rule, ok := reg.Resolve(ctx, " KENYA ")
		require.True(t, ok)
		assert.Equal(t, "254-999-999999", rule.Template)
		assert.Equal(t, before, src.calls.Load())
	})

	t.Run("cached rule names the caller's spelling", func(t *testing.T) {
		rule, ok := reg.Resolve(ctx, "kenya")
		require.True(t, ok)
		assert.Equal(t, "kenya", rule.Country)
		assert.Equal(t, "kenya phone number must be exactly 12 digits. Expected format: 254-999-999999",
			fieldmask.ValidatePhoneNumber("2547", rule).Message)

		rule, ok = reg.Cached(" KENYA ")
		require.True(t, ok)
		assert.Equal(t, "KENYA", rule.Country)

		rule, ok = reg.Resolve(ctx, "Kenya")
		require.True(t, ok)
		assert.Equal(t, "Kenya", rule.Country)
	})

	t.Run("algeria defaults", func(t *testing.T) {
		rule, ok := reg.Resolve(ctx, "Algeria")
		require.True(t, ok)
		assert.Equal(t, fieldmask.KindPhoneAlgeria, rule.Kind)
		assert.Equal(t, "21311097", rule.Template)
		assert.True(t, rule.Required)
	})

	t.Run("missing record is cached", func(t *testing.T) {
		_, ok := reg.Resolve(ctx, "Atlantis")
		assert.False(t, ok)
		before := src.calls.Load()
		_, ok = reg.Resolve(ctx, "Atlantis")
		assert.False(t, ok)
		assert.Equal(t, before, src.calls.Load())
	})
}

func TestRegistry_SingleFetchForConcurrentCallers(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := newStubSource(kenya)
	src.release = make(chan struct{})
	reg := newTestRegistry(t, src)

	const callers = 16
	var wg sync.WaitGroup
	results := make([]fieldmask.MaskRule, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rule, ok := reg.Resolve(context.Background(), "Kenya")
			assert.True(t, ok)
			results[i] = rule
		}(i)
	}

	<-src.started
	_, ok := reg.Cached("Kenya")
	assert.False(t, ok, "no rule while the fetch is outstanding")

	// let the remaining callers join the in-flight fetch
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	for _, rule := range results {
		assert.Equal(t, "254-999-999999", rule.Template)
	}

	rule, ok := reg.Cached("kenya")
	require.True(t, ok)
	assert.Equal(t, fieldmask.KindPhoneGeneric, rule.Kind)
}

func TestRegistry_ErrorIsNotCached(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var fail atomic.Bool
	fail.Store(true)
	src := newStubSource(func(name string) (*CountryRecord, error) {
		if fail.Load() {
			return nil, errors.New("connection refused")
		}
		return kenya(name)
	})
	reg := newTestRegistry(t, src)

	_, ok := reg.Resolve(context.Background(), "Kenya")
	assert.False(t, ok)
	_, ok = reg.Cached("Kenya")
	assert.False(t, ok)

	fail.Store(false)
	rule, ok := reg.Resolve(context.Background(), "Kenya")
	require.True(t, ok)
	assert.Equal(t, "254-999-999999", rule.Template)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestRegistry_CallerCancellation(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := newStubSource(kenya)
	src.release = make(chan struct{})
	reg := newTestRegistry(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool)
	go func() {
		_, ok := reg.Resolve(ctx, "Kenya")
		done <- ok
	}()

	<-src.started
	cancel()
	assert.False(t, <-done)

	// the shared fetch still completes and fills the cache
	close(src.release)
	require.Eventually(t, func() bool {
		_, ok := reg.Cached("Kenya")
		return ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestRegistry_RuleFor(t *testing.T) {
	src := newStubSource(func(string) (*CountryRecord, error) { return nil, ErrCountryNotFound })
	reg := NewRegistry(Options{
		Source: src,
		Policy: Policy{RequireGenericPhone: true, FreeformMaxDigits: 20},
	})
	ctx := context.Background()

	rule := reg.RuleFor(ctx, "Germany")
	assert.Equal(t, fieldmask.KindPhoneFreeform, rule.Kind)
	assert.Equal(t, 20, rule.FreeformMaxDigits)
	assert.True(t, rule.Required)

	rule = reg.RuleFor(ctx, "Algeria")
	assert.Equal(t, fieldmask.KindPhoneAlgeria, rule.Kind)
	assert.Equal(t, "21311097", rule.Template)

	rule = reg.RuleFor(ctx, "")
	assert.Equal(t, fieldmask.KindPhoneFreeform, rule.Kind)
	assert.Equal(t, fieldmask.ReasonRequired, fieldmask.ValidatePhoneNumber("", rule).Reason)
}

func TestRegistry_NilSource(t *testing.T) {
	reg := NewRegistry(Options{})
	_, ok := reg.Resolve(context.Background(), "Kenya")
	assert.False(t, ok)
	assert.Equal(t, fieldmask.DefaultFreeformMaxDigits, reg.Policy().FreeformMaxDigits)
}
