package maskidentifier

import (
	"context"
	"strings"

	"donor-field-workers/internal/common/errors"
	"donor-field-workers/internal/common/logger"
	"donor-field-workers/internal/common/metrics"
	"donor-field-workers/internal/fieldmask"
)

type Service struct {
	config *Config
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
	}
}

// Execute formats the identification number for its type and validates it.
// Type "Others" (or no type) leaves the value untouched and optional.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	idType := strings.TrimSpace(input.IdentificationType)
	if !fieldmask.IdentifierRequired(idType) {
		return &Output{Display: input.Value, IsValid: true}, nil
	}

	kind, ok := fieldmask.ParseIdentificationType(idType)
	if !ok {
		return nil, errors.NewUnsupportedIdentificationTypeError(idType)
	}

	display := fieldmask.FormatIdentifier(input.Value, kind)
	result := fieldmask.ValidateIdentifier(display, kind, true)
	metrics.FieldValidations.WithLabelValues(string(kind), string(result.Reason)).Inc()

	s.logger.Debug("Identifier masked", map[string]interface{}{
		"identificationType": string(kind),
		"isValid":            result.IsValid,
		"reason":             string(result.Reason),
	})

	return &Output{
		Display:     display,
		MaskPattern: fieldmask.GetMaskPattern(kind),
		IsValid:     result.IsValid,
		Required:    true,
		Reason:      string(result.Reason),
		Message:     result.Message,
	}, nil
}
