package fieldmask

import "strings"

// EventKind is the kind of edit that produced a new raw value.
type EventKind string

const (
	EventInput  EventKind = "input"
	EventPaste  EventKind = "paste"
	EventDelete EventKind = "delete"
)

// ParseEventKind maps an event name to an EventKind. Unknown names are
// treated as plain input.
func ParseEventKind(s string) EventKind {
	switch EventKind(strings.ToLower(strings.TrimSpace(s))) {
	case EventPaste:
		return EventPaste
	case EventDelete:
		return EventDelete
	}
	return EventInput
}

// FieldMaskState is the per-field state owned by the caller. The library
// never keeps a reference to it between calls.
type FieldMaskState struct {
	Field     string   `json:"field"`
	Rule      MaskRule `json:"rule"`
	Display   string   `json:"display"`
	Canonical string   `json:"canonical"`
}

// NewFieldMaskState returns an empty state for field bound to rule.
func NewFieldMaskState(field string, rule MaskRule) *FieldMaskState {
	return &FieldMaskState{Field: field, Rule: rule}
}

// Apply recomputes the state from a new raw value.
//
// Deletions in a Pakistan field keep the text exactly as typed so the cursor
// is not disturbed; only the canonical value is recomputed.
func (s *FieldMaskState) Apply(event EventKind, raw string) PhoneResult {
	var res PhoneResult
	switch {
	case s.Rule.Kind.IsIdentifier():
		formatted := FormatIdentifier(raw, s.Rule.Kind)
		res = PhoneResult{Display: formatted, Canonical: formatted}
	case event == EventDelete && s.Rule.Kind == KindPhonePakistan:
		res = PhoneResult{Display: raw, Canonical: FormatPhone(raw, s.Rule).Canonical}
	case event == EventPaste:
		res = FormatPastedPhone(raw, s.Rule)
	default:
		res = FormatPhone(raw, s.Rule)
	}
	s.Display, s.Canonical = res.Display, res.Canonical
	return res
}

// SwitchRule rebinds the field to a new rule, typically after the donor's
// country changed, and re-renders the stored value under it. A Pakistan
// country code is dropped when leaving Pakistan.
func (s *FieldMaskState) SwitchRule(rule MaskRule) PhoneResult {
	stored := s.Canonical
	if stored == "" {
		stored = s.Display
	}
	if s.Rule.Kind == KindPhonePakistan && rule.Kind != KindPhonePakistan {
		stored = strings.TrimPrefix(OnlyDigits(stored), PakistanDialCode)
	}
	s.Rule = rule
	return s.Apply(EventInput, stored)
}

// Validate checks the stored value, falling back to the display text when
// the value has no canonical form yet.
func (s *FieldMaskState) Validate() ValidationResult {
	value := s.Canonical
	if value == "" {
		value = s.Display
	}
	if s.Rule.Kind.IsIdentifier() {
		return ValidateIdentifier(value, s.Rule.Kind, s.Rule.Required)
	}
	return ValidatePhoneNumber(value, s.Rule)
}

// FieldStates holds the FieldMaskState of every masked field on one form.
type FieldStates map[string]*FieldMaskState

// Bind returns the state for field, creating it or rebinding it to rule.
func (f FieldStates) Bind(field string, rule MaskRule) *FieldMaskState {
	st, ok := f[field]
	if !ok {
		st = NewFieldMaskState(field, rule)
		f[field] = st
		return st
	}
	if st.Rule.Kind != rule.Kind || st.Rule.Template != rule.Template || st.Rule.Country != rule.Country {
		st.SwitchRule(rule)
	}
	return st
}
