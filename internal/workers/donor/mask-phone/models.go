package maskphone

import (
	"context"

	"donor-field-workers/internal/common/logger"
	"donor-field-workers/internal/fieldmask"
)

type Input struct {
	Value     string `json:"value"`
	Country   string `json:"country"`
	FieldName string `json:"fieldName,omitempty"`
	Event     string `json:"event,omitempty"`
}

type Output struct {
	Display        string `json:"display"`
	Canonical      string `json:"canonical"`
	Placeholder    string `json:"placeholder"`
	MaxInputLength int    `json:"maxInputLength"`
	RuleKind       string `json:"ruleKind"`
	IsValid        bool   `json:"isValid"`
	Reason         string `json:"reason,omitempty"`
	Message        string `json:"message,omitempty"`
}

// RuleResolver returns the phone rule for a country, never failing.
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
