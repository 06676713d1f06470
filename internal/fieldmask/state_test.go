package fieldmask

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMaskState_Pakistan(t *testing.T) {
	st := NewFieldMaskState("mobile_no", PakistanRule())

	st.Apply(EventInput, "3001234567")
	want := &FieldMaskState{
		Field:     "mobile_no",
		Rule:      PakistanRule(),
		Display:   "300-1234567",
		Canonical: "923001234567",
	}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}

	t.Run("delete keeps the typed text", func(t *testing.T) {
		res := st.Apply(EventDelete, "300-123456")
		assert.Equal(t, PhoneResult{Display: "300-123456", Canonical: ""}, res)
		assert.Equal(t, ReasonWrongDigitCount, st.Validate().Reason)
	})

	t.Run("paste drops the country code", func(t *testing.T) {
		res := st.Apply(EventPaste, "+923001234567")
		assert.Equal(t, "300-1234567", res.Display)
		assert.True(t, st.Validate().IsValid)
	})

	t.Run("invalid prefix validated from display", func(t *testing.T) {
		st.Apply(EventInput, "2001234567")
		assert.Empty(t, st.Canonical)
		assert.Equal(t, ReasonInvalidPrefix, st.Validate().Reason)
	})
}

func TestFieldMaskState_SwitchRule(t *testing.T) {
	st := NewFieldMaskState("contact_no", PakistanRule())
	st.Apply(EventInput, "3001234567")

	res := st.SwitchRule(FreeformRule("Germany", 0))
	assert.Equal(t, PhoneResult{Display: "3001234567", Canonical: "3001234567"}, res)
	assert.Equal(t, KindPhoneFreeform, st.Rule.Kind)

	res = st.SwitchRule(PakistanRule())
	assert.Equal(t, "923001234567", res.Canonical)
}

func TestFieldMaskState_Identifier(t *testing.T) {
	rule, ok := IdentifierRule(KindCNIC)
	require.True(t, ok)

	st := NewFieldMaskState("cnic", rule.WithRequired(true))
	assert.Equal(t, ReasonRequired, st.Validate().Reason)

	res := st.Apply(EventDelete, "1234512345671")
	assert.Equal(t, "12345-1234567-1", res.Display)
	assert.True(t, st.Validate().IsValid)
}

func TestFieldStates_Bind(t *testing.T) {
	states := FieldStates{}

	a := states.Bind("phone_no", PakistanRule())
	a.Apply(EventInput, "3001234567")
	assert.Same(t, a, states.Bind("phone_no", PakistanRule()))
	assert.Equal(t, "300-1234567", states["phone_no"].Display)

	b := states.Bind("phone_no", FreeformRule("Germany", 0))
	assert.Same(t, a, b)
	assert.Equal(t, "3001234567", b.Display)
	assert.Len(t, states, 1)
}

func TestParseEventKind(t *testing.T) {
	assert.Equal(t, EventPaste, ParseEventKind("Paste"))
	assert.Equal(t, EventDelete, ParseEventKind(" delete "))
	assert.Equal(t, EventInput, ParseEventKind(""))
	assert.Equal(t, EventInput, ParseEventKind("keyup"))
}
