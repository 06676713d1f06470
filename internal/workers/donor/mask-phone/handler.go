package maskphone

import (
	"context"
	"fmt"
	"time"

	"donor-field-workers/internal/common/camunda"
	"donor-field-workers/internal/common/config"
	"donor-field-workers/internal/common/errors"
	"donor-field-workers/internal/common/logger"
	"donor-field-workers/internal/common/metrics"
	"donor-field-workers/internal/common/observability"
	"donor-field-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

const (
	TaskType   = "donor-phone-mask"
	workerName = "mask-phone"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	service      Executor
	validator    *validation.Validator
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	jobWorker    *camunda.Worker
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Rules         RuleResolver
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", workerName, err)
	}

	if opts.Rules == nil {
		return nil, fmt.Errorf("%s: country rule resolver is required", workerName)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}

	validator, err := validation.NewValidator(GetInputSchema())
	if err != nil {
		return nil, fmt.Errorf("input schema for %s: %w", workerName, err)
	}

	return &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		service:      NewService(ServiceDependencies{
			Rules:  opts.Rules,
			Logger: loggerInstance,
		}, workerConfig),
		validator:    validator,
		errorHandler: errors.NewErrorHandler(loggerInstance),
		obs:          opts.Observability,
	}, nil
}

func (h *Handler) TaskType() string {
	return TaskType
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Debug("Processing phone mask request", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"worker":             TaskType,
	})

	input, err := h.parseInput(job)
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			h.completeJob(ctx, client, job, output)
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
			h.obs.RecordJobProcessed(ctx, TaskType, "completed")
			h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "completed")
			return
		}
	}

	stdErr := errors.NormalizeError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	result := h.validator.Validate(variables)
	if !result.Valid {
		return nil, errors.NewInputValidationFailedError(fmt.Sprintf("%v", result.GetErrorMessages()))
	}

	input := &Input{
		Value:   variables["value"].(string),
		Country: variables["country"].(string),
	}
	if fieldName, ok := variables["fieldName"].(string); ok {
		input.FieldName = fieldName
	}
	if event, ok := variables["event"].(string); ok {
		input.Event = event
	}
	return input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
			"worker": TaskType,
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
			"worker": TaskType,
		})
		return
	}

	h.logger.Info("Phone masked", map[string]interface{}{
		"jobKey":   job.GetKey(),
		"ruleKind": output.RuleKind,
		"isValid":  output.IsValid,
		"worker":   TaskType,
	})
}

// Register opens the job subscription. It is a no-op for a disabled worker.
func (h *Handler) Register(client zbc.Client) error {
	if !h.config.Enabled {
		h.logger.Info("Worker is disabled, skipping registration", map[string]interface{}{
			"worker": TaskType,
		})
		return nil
	}
	if client == nil {
		return fmt.Errorf("%s: zeebe client is nil", workerName)
	}

	h.jobWorker = camunda.StartWorker(client, h, camunda.WorkerOptions{
		MaxJobsActive:  h.config.MaxJobsActive,
		Timeout:        h.config.Timeout,
		FetchVariables: GetInputSchema().PropertyNames(),
	}, h.logger)
	return nil
}

func (h *Handler) Close() {
	if h.jobWorker != nil {
		h.jobWorker.Stop()
		h.jobWorker = nil
	}
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

// Execute runs the service directly, bypassing the job client.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	if workerCfg, exists := appConfig.Workers[workerName]; exists {
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = time.Duration(workerCfg.Timeout) * time.Millisecond
		}
	}
	return cfg
}
