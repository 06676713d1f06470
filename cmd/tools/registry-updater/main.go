// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"donor-field-workers/internal/common/errors"
	"donor-field-workers/internal/common/validation"
	mi "donor-field-workers/internal/workers/donor/mask-identifier"
	mp "donor-field-workers/internal/workers/donor/mask-phone"
	vdf "donor-field-workers/internal/workers/donor/validate-donor-fields"
	"donor-field-workers/pkg/registry"

	"github.com/spf13/cobra"
)

const activityVersion = "1.0.0"

type workerSpec struct {
	id          string
	displayName string
	description string
	taskType    string
	schema      validation.JSONSchema
	output      interface{}
	timeout     time.Duration
	errorCodes  []errors.ErrorCode
}

func workerSpecs() []workerSpec {
	inputErrors := []errors.ErrorCode{errors.ErrCodeInputParsingFailed, errors.ErrCodeInputValidationFailed}

	return []workerSpec{
		{
			id:          "mask-identifier",
			displayName: "Mask Identifier",
			description: "Formats a CNIC, NTN or Passport number and validates it against its pattern",
			taskType:    mi.TaskType,
			schema:      mi.GetInputSchema(),
			output:      mi.Output{},
			timeout:     mi.DefaultConfig().Timeout,
			errorCodes:  append(inputErrors, errors.ErrCodeUnsupportedIdentificationType),
		},
		{
			id:          "mask-phone",
			displayName: "Mask Phone",
			description: "Applies one edit to a donor phone field using the country's mask rule",
			taskType:    mp.TaskType,
			schema:      mp.GetInputSchema(),
			output:      mp.Output{},
			timeout:     mp.DefaultConfig().Timeout,
			errorCodes:  inputErrors,
		},
		{
			id:          "validate-donor-fields",
			displayName: "Validate Donor Fields",
			description: "Validates the identification number and every phone field of a donor record",
			taskType:    vdf.TaskType,
			schema:      vdf.GetInputSchema(),
			output:      vdf.Output{},
			timeout:     vdf.DefaultConfig().Timeout,
			errorCodes:  append(inputErrors, errors.ErrCodeUnsupportedIdentificationType),
		},
	}
}

func (w workerSpec) activity() (registry.Activity, error) {
	raw, err := json.Marshal(w.schema)
	if err != nil {
		return registry.Activity{}, fmt.Errorf("%s: encode schema: %w", w.id, err)
	}
	var schema map[string]interface{}
	if err := json.Unmarshal(raw, &schema); err != nil {
		return registry.Activity{}, fmt.Errorf("%s: decode schema: %w", w.id, err)
	}
	schema["additionalProperties"] = w.schema.AdditionalProperties

	codes := make([]string, 0, len(w.errorCodes))
	retries := 0
	for _, code := range w.errorCodes {
		codes = append(codes, errors.ConvertToBPMNError(&errors.StandardError{Code: code, Retryable: true}).Code)
		if r := errors.GetRetryCount(code); r > retries {
			retries = r
		}
	}

	return registry.Activity{
		ID:                   w.id,
		DisplayName:          w.displayName,
		Description:          w.description,
		Category:             "donor",
		Version:              activityVersion,
		TaskType:             w.taskType,
		ImplementationStatus: registry.StatusCompleted,
		InputSchema:          schema,
		OutputVariables:      jsonFieldNames(w.output),
		ErrorCodes:           codes,
		Timeout:              w.timeout.String(),
		Retries:              retries,
		Tags:                 []string{"donor", "field-masking"},
	}, nil
}

// jsonFieldNames lists the JSON names of v's exported fields.
func jsonFieldNames(v interface{}) []string {
	t := reflect.TypeOf(v)
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name := strings.Split(tag, ",")[0]
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func loadOrCreate(path string) (*registry.ActivityRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err == nil {
		return reg, nil
	}
	if os.IsNotExist(err) {
		return &registry.ActivityRegistry{Version: activityVersion}, nil
	}
	return nil, fmt.Errorf("failed to load registry: %w", err)
}

// generate refreshes every donor worker entry. Statuses set by hand are kept.
func generate(path string) (*registry.ActivityRegistry, error) {
	reg, err := loadOrCreate(path)
	if err != nil {
		return nil, err
	}

	for _, w := range workerSpecs() {
		a, err := w.activity()
		if err != nil {
			return nil, err
		}
		if existing, ok := reg.Find(a.ID); ok && existing.ImplementationStatus != "" {
			a.ImplementationStatus = existing.ImplementationStatus
		}
		reg.Upsert(a)
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return reg, reg.Save(path)
}

func setStatus(path, id, status string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	a, ok := reg.Find(id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}
	a.ImplementationStatus = status
	if err := reg.Validate(); err != nil {
		return err
	}
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return reg.Save(path)
}

func newRootCmd() *cobra.Command {
	var registryPath string

	root := &cobra.Command{
		Use:           "registry-updater",
		Short:         "Maintain the activity registry of donor field workers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write registry entries for every donor worker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := generate(registryPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d activities to %s\n", len(reg.Activities), registryPath)
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the registry for missing fields and duplicates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registry validation passed.")
			return nil
		},
	}

	var id, status string
	statusCmd := &cobra.Command{
		Use:   "set-status --id <activity> --status <status>",
		Short: "Update the implementation status of one activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := setStatus(registryPath, id, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s status to %s\n", id, status)
			return nil
		},
	}
	statusCmd.Flags().StringVar(&id, "id", "", "Activity ID to update")
	statusCmd.Flags().StringVar(&status, "status", "", "planned, in-progress, completed or verified")
	_ = statusCmd.MarkFlagRequired("id")
	_ = statusCmd.MarkFlagRequired("status")

	root.AddCommand(generateCmd, validateCmd, statusCmd)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
