// cmd/tools/fieldcheck/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"donor-field-workers/internal/common/logger"
	"donor-field-workers/internal/countryrules"
	"donor-field-workers/internal/fieldmask"

	"github.com/spf13/cobra"
)

type identifierResult struct {
	Type        string `json:"type"`
	Display     string `json:"display"`
	MaskPattern string `json:"maskPattern"`
	fieldmask.ValidationResult
}

type phoneResult struct {
	Country     string             `json:"country"`
	Rule        fieldmask.MaskRule `json:"rule"`
	Placeholder string             `json:"placeholder"`
	fieldmask.PhoneResult
	Validation fieldmask.ValidationResult `json:"validation"`
}

// defaultCountries seeds the offline source so the Afghanistan and Algeria
// special cases work without any flags.
func defaultCountries() map[string]countryrules.CountryRecord {
	return map[string]countryrules.CountryRecord{
		"Afghanistan": {DialCode: fieldmask.AfghanistanDialCode},
		"Algeria":     {DialCode: "213", PhoneMask: "11097"},
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fieldcheck",
		Short:         "Format and validate donor identifier and phone values",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newIdentifierCmd(), newPhoneCmd())
	return root
}

func newIdentifierCmd() *cobra.Command {
	var idType string

	cmd := &cobra.Command{
		Use:   "identifier --type CNIC|NTN|Passport <value>",
		Short: "Mask and validate an identification number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := fieldmask.ParseIdentificationType(idType)
			if !ok {
				return fmt.Errorf("unsupported identification type %q", idType)
			}
			display := fieldmask.FormatIdentifier(args[0], kind)
			return writeJSON(cmd.OutOrStdout(), identifierResult{
				Type:             string(kind),
				Display:          display,
				MaskPattern:      fieldmask.GetMaskPattern(kind),
				ValidationResult: fieldmask.ValidateIdentifier(display, kind, true),
			})
		},
	}
	cmd.Flags().StringVar(&idType, "type", "", "identification type (CNIC, NTN, Passport)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newPhoneCmd() *cobra.Command {
	var (
		country   string
		dialCode  string
		phoneMask string
		event     string
		maxDigits int
	)

	cmd := &cobra.Command{
		Use:   "phone --country <name> <value>",
		Short: "Mask and validate a phone number for a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := countryrules.NewStaticSource(defaultCountries())
			if dialCode != "" || phoneMask != "" {
				source = source.With(country, countryrules.CountryRecord{DialCode: dialCode, PhoneMask: phoneMask})
			}

			policy := countryrules.DefaultPolicy()
			policy.FreeformMaxDigits = maxDigits
			registry := countryrules.NewRegistry(countryrules.Options{
				Source: source,
				Policy: policy,
				Logger: logger.NewNoOpLogger(),
			})

			rule := registry.RuleFor(cmd.Context(), country)
			state := fieldmask.NewFieldMaskState("phone", rule)
			formatted := state.Apply(fieldmask.ParseEventKind(event), args[0])

			return writeJSON(cmd.OutOrStdout(), phoneResult{
				Country:     strings.TrimSpace(country),
				Rule:        rule,
				Placeholder: rule.Placeholder(),
				PhoneResult: formatted,
				Validation:  state.Validate(),
			})
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "donor country name")
	cmd.Flags().StringVar(&dialCode, "dial-code", "", "dial code for a country not built in")
	cmd.Flags().StringVar(&phoneMask, "mask", "", "phone mask for a country not built in")
	cmd.Flags().StringVar(&event, "event", string(fieldmask.EventInput), "edit event: input, paste or delete")
	cmd.Flags().IntVar(&maxDigits, "max-digits", fieldmask.DefaultFreeformMaxDigits, "digit cap for countries without a mask (15 or 20)")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "fieldcheck:", err)
		os.Exit(1)
	}
}
