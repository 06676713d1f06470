package maskphone

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"donor-field-workers/internal/common/errors"
	"donor-field-workers/internal/common/logger"
	"donor-field-workers/internal/countryrules"
	"donor-field-workers/internal/fieldmask"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Resolver Implementation
// ==========================

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) RuleFor(ctx context.Context, country string) fieldmask.MaskRule {
	args := m.Called(ctx, country)
	return args.Get(0).(fieldmask.MaskRule)
}

// ==========================
// Test Helpers
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "donor-onboarding",
		ElementId:          "Activity_MaskPhone",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func createValidConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       5 * time.Second,
	}
}

func newRegistry() *countryrules.Registry {
	source := countryrules.NewStaticSource(map[string]countryrules.CountryRecord{
		"United States": {DialCode: "1", PhoneMask: "99-999-9999"},
		"Afghanistan":   {DialCode: "93"},
		"Germany":       {DialCode: "49"},
	})
	return countryrules.NewRegistry(countryrules.Options{
		Source: source,
		Policy: countryrules.DefaultPolicy(),
		Logger: logger.NewNoOpLogger(),
	})
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: createValidConfig()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "country rule resolver is required")

	_, err = NewHandler(HandlerOptions{
		CustomConfig: &Config{Enabled: true, MaxJobsActive: 1},
		Rules:        newRegistry(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout must be positive")

	h, err := NewHandler(HandlerOptions{CustomConfig: createValidConfig(), Rules: newRegistry()})
	require.NoError(t, err)
	assert.Equal(t, TaskType, h.TaskType())
	assert.True(t, h.IsEnabled())
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: createValidConfig(),
		Rules:        newRegistry(),
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		variables map[string]interface{}
		want      *Input
		wantErr   bool
	}{
		{
			name:      "all fields",
			variables: map[string]interface{}{"value": "0300", "country": "Pakistan", "fieldName": "mobile_no", "event": "paste"},
			want:      &Input{Value: "0300", Country: "Pakistan", FieldName: "mobile_no", Event: "paste"},
		},
		{
			name:      "required only",
			variables: map[string]interface{}{"value": "", "country": "Kenya"},
			want:      &Input{Country: "Kenya"},
		},
		{
			name:      "unknown field name",
			variables: map[string]interface{}{"value": "1", "country": "Kenya", "fieldName": "fax"},
			wantErr:   true,
		},
		{
			name:      "unknown event",
			variables: map[string]interface{}{"value": "1", "country": "Kenya", "event": "keyup"},
			wantErr:   true,
		},
		{
			name:      "missing country",
			variables: map[string]interface{}{"value": "1"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.parseInput(createMockJob(7, tt.variables))
			if tt.wantErr {
				require.Error(t, err)
				stdErr, ok := errors.AsStandardError(err)
				require.True(t, ok)
				assert.Equal(t, errors.ErrCodeInputValidationFailed, stdErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, input)
		})
	}
}

// ==========================
// Service Tests
// ==========================

func TestService_Execute(t *testing.T) {
	svc := NewService(ServiceDependencies{Rules: newRegistry(), Logger: logger.NewNoOpLogger()}, createValidConfig())

	tests := []struct {
		name  string
		input *Input
		want  *Output
	}{
		{
			name:  "pakistan typed",
			input: &Input{Value: "3001234567", Country: "Pakistan"},
			want: &Output{
				Display:        "300-1234567",
				Canonical:      "923001234567",
				Placeholder:    "xxx-xxxxxxx",
				MaxInputLength: 11,
				RuleKind:       string(fieldmask.KindPhonePakistan),
				IsValid:        true,
			},
		},
		{
			name:  "pakistan paste strips country code",
			input: &Input{Value: "+92 300 1234567", Country: "pakistan", Event: "paste"},
			want: &Output{
				Display:        "300-1234567",
				Canonical:      "923001234567",
				Placeholder:    "xxx-xxxxxxx",
				MaxInputLength: 11,
				RuleKind:       string(fieldmask.KindPhonePakistan),
				IsValid:        true,
			},
		},
		{
			name:  "pakistan delete keeps the typed text",
			input: &Input{Value: "300-12", Country: "Pakistan", Event: "delete"},
			want: &Output{
				Display:        "300-12",
				Placeholder:    "xxx-xxxxxxx",
				MaxInputLength: 11,
				RuleKind:       string(fieldmask.KindPhonePakistan),
				Reason:         string(fieldmask.ReasonWrongDigitCount),
				Message:        "Pakistan phone number must be 10 digits and start with valid mobile prefix (30-39).",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_MatchesLibrary(t *testing.T) {
	reg := newRegistry()
	svc := NewService(ServiceDependencies{Rules: reg, Logger: logger.NewNoOpLogger()}, createValidConfig())
	ctx := context.Background()

	inputs := []*Input{
		{Value: "15551234567", Country: "United States", FieldName: "phone_no"},
		{Value: "1-55-512", Country: "United States", Event: "paste"},
		{Value: "701234567", Country: "Afghanistan"},
		{Value: "3012345678", Country: "Germany"},
		{Value: "12", Country: "Germany"},
		{Value: "2135551234", Country: "Algeria"},
		{Value: "", Country: "Kenya"},
	}

	for _, in := range inputs {
		t.Run(in.Country+"/"+in.Value, func(t *testing.T) {
			rule := reg.RuleFor(ctx, in.Country)
			var want fieldmask.PhoneResult
			if fieldmask.ParseEventKind(in.Event) == fieldmask.EventPaste {
				want = fieldmask.FormatPastedPhone(in.Value, rule)
			} else {
				want = fieldmask.FormatPhone(in.Value, rule)
			}
			stored := want.Canonical
			if stored == "" {
				stored = want.Display
			}
			wantResult := fieldmask.ValidatePhoneNumber(stored, rule)

			got, err := svc.Execute(ctx, in)
			require.NoError(t, err)
			assert.Equal(t, want.Display, got.Display)
			assert.Equal(t, want.Canonical, got.Canonical)
			assert.Equal(t, string(rule.Kind), got.RuleKind)
			assert.Equal(t, wantResult.IsValid, got.IsValid)
			assert.Equal(t, string(wantResult.Reason), got.Reason)
		})
	}
}

func TestService_UsesResolver(t *testing.T) {
	rules := new(MockResolver)
	rules.On("RuleFor", mock.Anything, "Narnia").Return(fieldmask.FreeformRule("Narnia", 20)).Once()

	svc := NewService(ServiceDependencies{Rules: rules, Logger: logger.NewNoOpLogger()}, createValidConfig())
	got, err := svc.Execute(context.Background(), &Input{Value: "123456789012345678", Country: "Narnia"})
	require.NoError(t, err)

	assert.Equal(t, string(fieldmask.KindPhoneFreeform), got.RuleKind)
	assert.Equal(t, "Enter phone number", got.Placeholder)
	assert.True(t, got.IsValid)
	rules.AssertExpectations(t)
}
