package maskidentifier

import (
	"context"

	"donor-field-workers/internal/common/logger"
)

type Input struct {
	Value              string `json:"value"`
	IdentificationType string `json:"identificationType"`
}

type Output struct {
	Display     string `json:"display"`
	MaskPattern string `json:"maskPattern"`
	IsValid     bool   `json:"isValid"`
	Required    bool   `json:"required"`
	Reason      string `json:"reason,omitempty"`
	Message     string `json:"message,omitempty"`
}

type ServiceDependencies struct {
	Logger logger.Logger
}

// Executor is the business logic behind the handler.
type Executor interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}
