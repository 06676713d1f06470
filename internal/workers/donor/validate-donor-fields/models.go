package validatedonorfields

import (
	"context"

	"donor-field-workers/internal/common/logger"
	"donor-field-workers/internal/fieldmask"
)

type Input struct {
	IdentificationType   string            `json:"identificationType,omitempty"`
	IdentificationNumber string            `json:"identificationNumber,omitempty"`
	Country              string            `json:"country,omitempty"`
	Phones               map[string]string `json:"phones"`
	FieldFilter          []string          `json:"fieldFilter,omitempty"`
}

// FieldResult is the outcome for one donor field.
type FieldResult struct {
	Display   string `json:"display"`
	Canonical string `json:"canonical,omitempty"`
	IsValid   bool   `json:"isValid"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
}

type Output struct {
	CheckID    string                 `json:"checkId"`
	Valid      bool                   `json:"valid"`
	Identifier FieldResult            `json:"identifier"`
	Phones     map[string]FieldResult `json:"phones"`
	Errors     []string               `json:"errors"`
}

type RuleResolver interface {
	RuleFor(ctx context.Context, country string) fieldmask.MaskRule
}

type ServiceDependencies struct {
	Rules  RuleResolver
	Logger logger.Logger
}

type Executor interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}
