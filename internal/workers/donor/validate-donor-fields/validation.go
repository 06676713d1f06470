package validatedonorfields

import (
	"donor-field-workers/internal/common/validation"
	"donor-field-workers/internal/fieldmask"
)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"phones"},
		Properties: map[string]validation.Property{
			"identificationType": {
				Type:      "string",
				MaxLength: validation.IntPtr(32),
			},
			"identificationNumber": {
				Type:      "string",
				MaxLength: validation.IntPtr(64),
			},
			"country": {
				Type:      "string",
				MaxLength: validation.IntPtr(140),
			},
			"phones": {
				Type:        "object",
				Description: "Donor phone fields keyed by field name",
				Values:      &validation.Property{Type: "string", MaxLength: validation.IntPtr(64)},
			},
			"fieldFilter": {
				Type:        "array",
				Description: "Restricts validation to these phone fields",
				Items:       &validation.Property{Type: "string", Enum: fieldmask.PhoneFieldNames},
			},
		},
		AdditionalProperties: false,
	}
}
