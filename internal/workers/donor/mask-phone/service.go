package maskphone

import (
	"context"

	"donor-field-workers/internal/common/logger"
	"donor-field-workers/internal/common/metrics"
	"donor-field-workers/internal/fieldmask"
)

type Service struct {
	config *Config
	rules  RuleResolver
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		rules:  deps.Rules,
		logger: deps.Logger,
	}
}

// Execute applies one edit event to a phone field and validates the result.
// A country without a usable rule is masked freeform, so the call never
// fails on lookup problems.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	rule := s.rules.RuleFor(ctx, input.Country)

	field := input.FieldName
	if field == "" {
		field = "phone"
	}
	state := fieldmask.NewFieldMaskState(field, rule)
	res := state.Apply(fieldmask.ParseEventKind(input.Event), input.Value)
	result := state.Validate()

	metrics.FieldValidations.WithLabelValues(string(rule.Kind), string(result.Reason)).Inc()
	s.logger.Debug("Phone masked", map[string]interface{}{
		"country":  input.Country,
		"field":    field,
		"ruleKind": string(rule.Kind),
		"isValid":  result.IsValid,
	})

	return &Output{
		Display:        res.Display,
		Canonical:      res.Canonical,
		Placeholder:    rule.Placeholder(),
		MaxInputLength: rule.MaxInputLength(),
		RuleKind:       string(rule.Kind),
		IsValid:        result.IsValid,
		Reason:         string(result.Reason),
		Message:        result.Message,
	}, nil
}
