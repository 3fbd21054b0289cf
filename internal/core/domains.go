package core

// domains.go defines the closed value domains for enum-typed canonical
// fields. Domains are plain values injected into the Coercer so tests can
// substitute their own tables; nothing in this file is mutable at runtime.

// Domain is the closed set of valid values for one canonical field, plus the
// fallback substituted when a raw value matches none of them. OtherField
// names the companion field that keeps the original text after a fallback;
// domains without a companion (e.g. edtLevel) leave it empty.
type Domain struct {
	Field      Field
	Label      string
	Values     []string
	Fallback   string
	OtherField Field
}

// Contains reports whether v is a member of the domain. Matching is exact:
// coercion trims whitespace first but is otherwise strict, so near-misses
// fall back and keep their original text.
func (d Domain) Contains(v string) bool {
	for _, m := range d.Values {
		if m == v {
			return true
		}
	}
	return false
}

// FallbackOther is the conventional fallback member for domains that carry a
// companion free-text field.
const FallbackOther = "Others"

// EDTNotApplicable is the edtLevel fallback; that domain has no companion
// field, unmatched values simply collapse here (the original still lands in
// rawData).
const EDTNotApplicable = "Not Applicable"

// Months are the twelve month literals used for the derived month field.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// DefaultDomains returns the standard domain tables for assistance records.
func DefaultDomains() []Domain {
	return []Domain{
		{
			Field:      FieldGender,
			Label:      "gender",
			Values:     []string{"Male", "Female", "Prefer not to say", "Others"},
			Fallback:   FallbackOther,
			OtherField: FieldGenderOther,
		},
		{
			Field: FieldPriorityIndustry,
			Label: "priority industry",
			Values: []string{
				"Agribusiness",
				"Food Processing",
				"Wearables and Homestyle",
				"Furniture",
				"Construction",
				"Creative Industries",
				"Tourism",
				"IT-BPM",
				"Electronics Manufacturing",
				"Chemicals",
				"Shipbuilding",
				"Mining and Minerals",
				"Transport and Logistics",
				"Others",
			},
			Fallback:   FallbackOther,
			OtherField: FieldPriorityIndustryOther,
		},
		{
			Field:    FieldEDTLevel,
			Label:    "EDT level",
			Values:   []string{"Level 1", "Level 2", "Level 3", "Not Applicable"},
			Fallback: EDTNotApplicable,
		},
		{
			Field: FieldTypeOfAssistance,
			Label: "type of assistance",
			Values: []string{
				"Business Registration",
				"Business Advisory",
				"Business Information and Advocacy",
				"Market Access",
				"Financing Facilitation",
				"Training",
				"Others",
			},
			Fallback:   FallbackOther,
			OtherField: FieldTypeOfAssistanceOther,
		},
		{
			Field: FieldStrategicMeasure,
			Label: "strategic measure",
			Values: []string{
				"Ease of Doing Business",
				"Access to Finance",
				"Access to Market",
				"Access to Technology",
				"Entrepreneurial Capability Building",
				"Others",
			},
			Fallback:   FallbackOther,
			OtherField: FieldStrategicMeasureOther,
		},
		{
			Field:    FieldMonth,
			Label:    "month",
			Values:   Months,
			Fallback: "", // month falls back to date derivation, not a literal
		},
	}
}
