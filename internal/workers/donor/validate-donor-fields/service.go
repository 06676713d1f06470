package validatedonorfields

import (
	"context"
	"fmt"
	"strings"

	"donor-field-workers/internal/common/errors"
	"donor-field-workers/internal/common/logger"
	"donor-field-workers/internal/common/metrics"
	"donor-field-workers/internal/fieldmask"

	"github.com/google/uuid"
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

// Execute validates a donor record as it would be checked on save: the
// identification number against its type and every selected phone field
// against the donor country's rule.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	identifier, err := s.validateIdentifier(input)
	if err != nil {
		return nil, err
	}

	out := &Output{
		CheckID:    uuid.NewString(),
		Identifier: identifier,
		Phones:     make(map[string]FieldResult),
		Errors:     []string{},
	}
	if !identifier.IsValid {
		out.Errors = append(out.Errors, fmt.Sprintf("identificationNumber: %s", identifier.Message))
	}

	fields := fieldmask.SelectPhoneFields(input.FieldFilter)
	explicit := len(input.FieldFilter) > 0

	var rule fieldmask.MaskRule
	if len(fields) > 0 {
		rule = s.rules.RuleFor(ctx, input.Country)
	}

	for _, field := range fields {
		raw, present := input.Phones[field]
		if !present && !explicit {
			continue
		}

		formatted := fieldmask.FormatPastedPhone(raw, rule)
		result := fieldmask.ValidatePhoneNumber(raw, rule)
		metrics.FieldValidations.WithLabelValues(string(rule.Kind), string(result.Reason)).Inc()

		out.Phones[field] = FieldResult{
			Display:   formatted.Display,
			Canonical: formatted.Canonical,
			IsValid:   result.IsValid,
			Reason:    string(result.Reason),
			Message:   result.Message,
		}
		if !result.IsValid {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %s", field, result.Message))
		}
	}

	for field := range input.Phones {
		if !fieldmask.IsPhoneField(field) {
			s.logger.Debug("Ignoring non-phone field", map[string]interface{}{"field": field})
		}
	}

	out.Valid = len(out.Errors) == 0
	s.logger.Info("Donor fields validated", map[string]interface{}{
		"checkId":    out.CheckID,
		"country":    input.Country,
		"ruleKind":   string(rule.Kind),
		"phoneCount": len(out.Phones),
		"valid":      out.Valid,
	})
	return out, nil
}

func (s *Service) validateIdentifier(input *Input) (FieldResult, error) {
	idType := strings.TrimSpace(input.IdentificationType)
	if !fieldmask.IdentifierRequired(idType) {
		return FieldResult{Display: input.IdentificationNumber, IsValid: true}, nil
	}

	kind, ok := fieldmask.ParseIdentificationType(idType)
	if !ok {
		return FieldResult{}, errors.NewUnsupportedIdentificationTypeError(idType)
	}

	// the stored value is judged as is; the display is only a rendering of it
	display := fieldmask.FormatIdentifier(input.IdentificationNumber, kind)
	result := fieldmask.ValidateIdentifier(strings.TrimSpace(input.IdentificationNumber), kind, true)
	metrics.FieldValidations.WithLabelValues(string(kind), string(result.Reason)).Inc()

	return FieldResult{
		Display:   display,
		Canonical: display,
		IsValid:   result.IsValid,
		Reason:    string(result.Reason),
		Message:   result.Message,
	}, nil
}
