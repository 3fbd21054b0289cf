package core

// mapper.go maps raw spreadsheet headers onto canonical fields. Source files
// come from many offices and form revisions, so the alias table is a
// many-to-one map over normalized header text. An unrecognized header is not
// an error: its values ride along in rawData under the literal header.

import (
	"strings"
)

// Mapper resolves raw column headers to canonical fields. Matching is
// case-insensitive and ignores punctuation and repeated whitespace, so
// "E-Commerce (Y/N)?" and "ecommerce y n" resolve identically.
type Mapper struct {
	aliases map[string]Field
}

// NewMapper builds a Mapper from an alias table keyed by raw header variant.
// Keys are normalized on construction, so callers may supply them in any
// casing or punctuation style.
func NewMapper(aliases map[string]Field) *Mapper {
	m := &Mapper{aliases: make(map[string]Field, len(aliases))}
	for k, f := range aliases {
		m.aliases[normalizeHeader(k)] = f
	}
	return m
}

// Map returns the canonical field for a raw header, or false when the header
// is unrecognized.
func (m *Mapper) Map(header string) (Field, bool) {
	f, ok := m.aliases[normalizeHeader(header)]
	return f, ok
}

// normalizeHeader lowercases a header and collapses punctuation and runs of
// whitespace to single spaces.
func normalizeHeader(h string) string {
	var b strings.Builder
	b.Grow(len(h))
	lastSpace := true
	for _, r := range strings.ToLower(h) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// DefaultAliases returns the standard header alias table, grouped by concept.
func DefaultAliases() map[string]Field {
	return map[string]Field{
		// Timestamps
		"timestamp":      FieldTimestamp,
		"time stamp":     FieldTimestamp,
		"date encoded":   FieldTimestamp,
		"encoded date":   FieldTimestamp,
		"date submitted": FieldTimestamp,

		// Assistance date
		"date of assistance": FieldAssistanceDate,
		"assistance date":    FieldAssistanceDate,
		"date assisted":      FieldAssistanceDate,
		"date":               FieldAssistanceDate,
		"transaction date":   FieldAssistanceDate,

		// Period
		"month": FieldMonth,
		"year":  FieldYear,

		// Personnel
		"unit":               FieldUnit,
		"office unit":        FieldUnit,
		"division":           FieldUnit,
		"assisted by":        FieldAssistedBy,
		"name of staff":      FieldAssistedBy,
		"staff":              FieldAssistedBy,
		"business counselor": FieldAssistedBy,

		// Client
		"owner name":       FieldOwnerName,
		"name of owner":    FieldOwnerName,
		"owner":            FieldOwnerName,
		"proprietor":       FieldOwnerName,
		"client name":      FieldOwnerName,
		"gender":           FieldGender,
		"sex":              FieldGender,
		"gender others":    FieldGenderOther,
		"gender if others": FieldGenderOther,

		// Business
		"business name":     FieldBusinessName,
		"name of business":  FieldBusinessName,
		"establishment":     FieldBusinessName,
		"enterprise name":   FieldBusinessName,
		"city municipality": FieldCityMunicipality,
		"city":              FieldCityMunicipality,
		"municipality":      FieldCityMunicipality,
		"address":           FieldCityMunicipality,

		// Assistance
		"assistance title":          FieldAssistanceTitle,
		"title of assistance":       FieldAssistanceTitle,
		"activity title":            FieldAssistanceTitle,
		"type of assistance":        FieldTypeOfAssistance,
		"assistance type":           FieldTypeOfAssistance,
		"type of assistance others": FieldTypeOfAssistanceOther,
		"strategic measure":         FieldStrategicMeasure,
		"strategic measures":        FieldStrategicMeasure,
		"strategic measure others":  FieldStrategicMeasureOther,

		// Classification
		"priority industry":         FieldPriorityIndustry,
		"priority industry cluster": FieldPriorityIndustry,
		"industry":                  FieldPriorityIndustry,
		"sector":                    FieldPriorityIndustry,
		"priority industry others":  FieldPriorityIndustryOther,
		"edt level":                 FieldEDTLevel,
		"edt":                       FieldEDTLevel,
		"level of edt":              FieldEDTLevel,

		// E-commerce
		"e commerce":            FieldEcommerce,
		"ecommerce":             FieldEcommerce,
		"e commerce y n":        FieldEcommerce,
		"ecommerce y n":         FieldEcommerce,
		"with e commerce":       FieldEcommerce,
		"e commerce link":       FieldEcommerceLinkOrNo,
		"ecommerce link":        FieldEcommerceLinkOrNo,
		"e commerce link or no": FieldEcommerceLinkOrNo,
		"link":                  FieldEcommerceLinkOrNo,
		"online store link":     FieldEcommerceLinkOrNo,
	}
}
