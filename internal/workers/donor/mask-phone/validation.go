package maskphone

import (
	"donor-field-workers/internal/common/validation"
	"donor-field-workers/internal/fieldmask"
)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"value", "country"},
		Properties: map[string]validation.Property{
			"value": {
				Type:        "string",
				Description: "Raw phone input after the edit",
				MaxLength:   validation.IntPtr(64),
			},
			"country": {
				Type:        "string",
				Description: "Donor country name as stored in the CRM",
				MaxLength:   validation.IntPtr(140),
			},
			"fieldName": {
				Type:        "string",
				Description: "Donor form field being edited",
				Enum:        fieldmask.PhoneFieldNames,
			},
			"event": {
				Type: "string",
				Enum: []string{
					string(fieldmask.EventInput),
					string(fieldmask.EventPaste),
					string(fieldmask.EventDelete),
				},
			},
		},
		AdditionalProperties: false,
	}
}
