package fieldmask

// PhoneFieldNames lists the donor form fields that carry phone numbers and
// receive the country phone mask. Misspellings match the CRM schema.
var PhoneFieldNames = []string{
	"contact_no",
	"co_contact_no",
	"company_contact_number",
	"organization_contact_person",
	"representative_mobile",
	"phone_no",
	"mobile_no",
	"org_representative_contact_number",
	"org_contact",
	"company_ownerceo_conatct",
	"custom_company_ownerceo_conatct",
	"custom_representative_mobile",
	"custom_phone_no",
	"custom_org_contact",
	"custom_org_representative_contact_number",
}

var phoneFieldSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(PhoneFieldNames))
	for _, f := range PhoneFieldNames {
		m[f] = struct{}{}
	}
	return m
}()

// IsPhoneField reports whether name is one of PhoneFieldNames.
func IsPhoneField(name string) bool {
	_, ok := phoneFieldSet[name]
	return ok
}

// SelectPhoneFields returns the phone fields named in filter, in
// PhoneFieldNames order. An empty filter selects every phone field.
func SelectPhoneFields(filter []string) []string {
	if len(filter) == 0 {
		out := make([]string, len(PhoneFieldNames))
		copy(out, PhoneFieldNames)
		return out
	}
	want := make(map[string]struct{}, len(filter))
	for _, f := range filter {
		want[f] = struct{}{}
	}
	out := make([]string, 0, len(filter))
	for _, f := range PhoneFieldNames {
		if _, ok := want[f]; ok {
			out = append(out, f)
		}
	}
	return out
}
