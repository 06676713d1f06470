package maskidentifier

import "donor-field-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"identificationType"},
		Properties: map[string]validation.Property{
			"value": {
				Type:        "string",
				Description: "Identification number as typed",
				MaxLength:   validation.IntPtr(64),
			},
			"identificationType": {
				Type:        "string",
				Description: "CNIC, NTN, Passport or Others",
				MaxLength:   validation.IntPtr(32),
			},
		},
		AdditionalProperties: false,
	}
}
