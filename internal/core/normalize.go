package core

// normalize.go assembles one raw row into one canonical Record. The
// normalizer is a pure function of (row, row number, alias table, domain
// tables): no clock reads beyond the injected now func, no storage access.

import (
	"strconv"
	"strings"
)

// NoLinkProvided is the sentinel stored in ecommerceLinkOrNo when a record
// claims e-commerce presence but supplies no link.
const NoLinkProvided = "no link provided"

// Normalizer turns raw rows into canonical records using an injected Mapper
// and Coercer.
type Normalizer struct {
	mapper  *Mapper
	coercer *Coercer
}

// NewNormalizer builds a Normalizer. Nil mapper or coercer fall back to the
// default alias and domain tables.
func NewNormalizer(mapper *Mapper, coercer *Coercer) *Normalizer {
	if mapper == nil {
		mapper = NewMapper(DefaultAliases())
	}
	if coercer == nil {
		coercer = NewCoercer(DefaultDomains(), nil)
	}
	return &Normalizer{mapper: mapper, coercer: coercer}
}

// NormalizeRow produces the preview record for one raw row. rowNum is the
// row's 1-based position in the source file. The record is always accepted:
// warnings accumulate in ValidationErrors and IsValidated is set
// unconditionally.
func (n *Normalizer) NormalizeRow(row RawRow, rowNum int) Record {
	rec := Record{
		RowNumber:   rowNum,
		IsValidated: true,
		RawData:     map[string]string{},
	}

	// Split the row into canonical values and unmapped leftovers.
	canonical := make(map[Field]string, len(row))
	for header, value := range row {
		f, ok := n.mapper.Map(header)
		if !ok {
			if strings.TrimSpace(value) != "" {
				rec.RawData[header] = value
			}
			continue
		}
		// First non-empty value wins when two headers map to one field.
		if existing, dup := canonical[f]; dup && strings.TrimSpace(existing) != "" {
			continue
		}
		canonical[f] = value
	}

	// Free-text fields: trimmed, default empty.
	rec.Unit = strings.TrimSpace(canonical[FieldUnit])
	rec.AssistedBy = strings.TrimSpace(canonical[FieldAssistedBy])
	rec.OwnerName = strings.TrimSpace(canonical[FieldOwnerName])
	rec.BusinessName = strings.TrimSpace(canonical[FieldBusinessName])
	rec.CityMunicipality = strings.TrimSpace(canonical[FieldCityMunicipality])
	rec.AssistanceTitle = strings.TrimSpace(canonical[FieldAssistanceTitle])

	// Dates: unparsable or missing values default to now, silently.
	rec.Timestamp, _ = n.coercer.CoerceDate(canonical[FieldTimestamp])
	if raw, ok := canonical[FieldAssistanceDate]; ok {
		rec.AssistanceDate, _ = n.coercer.CoerceDate(raw)
	} else {
		rec.AssistanceDate = rec.Timestamp
	}

	// Closed domains with "Others" companions.
	rec.Gender, rec.GenderOther = n.applyEnum(&rec, FieldGender, canonical[FieldGender])
	rec.PriorityIndustry, rec.PriorityIndustryOther = n.applyEnum(&rec, FieldPriorityIndustry, canonical[FieldPriorityIndustry])
	rec.TypeOfAssistance, rec.TypeOfAssistanceOther = n.applyEnum(&rec, FieldTypeOfAssistance, canonical[FieldTypeOfAssistance])
	rec.StrategicMeasure, rec.StrategicMeasureOther = n.applyEnum(&rec, FieldStrategicMeasure, canonical[FieldStrategicMeasure])
	rec.EDTLevel, _ = n.applyEnum(&rec, FieldEDTLevel, canonical[FieldEDTLevel])

	// Operator-supplied "-Other" columns only count when the base field
	// resolved to Others; otherwise they are forced empty.
	if rec.Gender == FallbackOther && rec.GenderOther == "" {
		rec.GenderOther = strings.TrimSpace(canonical[FieldGenderOther])
	}
	if rec.PriorityIndustry == FallbackOther && rec.PriorityIndustryOther == "" {
		rec.PriorityIndustryOther = strings.TrimSpace(canonical[FieldPriorityIndustryOther])
	}
	if rec.TypeOfAssistance == FallbackOther && rec.TypeOfAssistanceOther == "" {
		rec.TypeOfAssistanceOther = strings.TrimSpace(canonical[FieldTypeOfAssistanceOther])
	}
	if rec.StrategicMeasure == FallbackOther && rec.StrategicMeasureOther == "" {
		rec.StrategicMeasureOther = strings.TrimSpace(canonical[FieldStrategicMeasureOther])
	}

	// Month and year derive from the assistance date when absent or invalid.
	rec.Month, rec.Year = n.resolvePeriod(&rec, canonical)

	// E-commerce flag plus link sentinel.
	rec.Ecommerce = CoerceEcommerce(canonical[FieldEcommerce])
	rec.EcommerceLinkOrNo = strings.TrimSpace(canonical[FieldEcommerceLinkOrNo])
	if rec.Ecommerce == "Y" && rec.EcommerceLinkOrNo == "" {
		rec.EcommerceLinkOrNo = NoLinkProvided
		rec.ValidationErrors = append(rec.ValidationErrors, ValidationError{
			Field:   string(FieldEcommerceLinkOrNo),
			Message: "e-commerce is Y but no link was provided",
		})
	}

	if len(rec.RawData) == 0 {
		rec.RawData = nil
	}
	return rec
}

// applyEnum coerces one closed-domain value and folds warnings and raw
// leftovers into the record.
func (n *Normalizer) applyEnum(rec *Record, f Field, raw string) (value, other string) {
	res := n.coercer.CoerceEnum(f, raw)
	if res.Raw != "" {
		rec.RawData[string(f)] = res.Raw
	}
	rec.ValidationErrors = append(rec.ValidationErrors, res.Warnings...)
	return res.Value, res.Other
}

// resolvePeriod resolves month and year, preferring explicit valid values
// and deriving the rest from the assistance date.
func (n *Normalizer) resolvePeriod(rec *Record, canonical map[Field]string) (string, int) {
	month := ""
	if raw := strings.TrimSpace(canonical[FieldMonth]); raw != "" {
		if d, ok := n.coercer.Domain(FieldMonth); ok && d.Contains(raw) {
			month = raw
		} else {
			rec.RawData[string(FieldMonth)] = raw
			rec.ValidationErrors = append(rec.ValidationErrors, ValidationError{
				Field:   string(FieldMonth),
				Message: raw + " is not a valid month",
				Value:   raw,
			})
		}
	}
	if month == "" {
		month = Months[rec.AssistanceDate.Month()-1]
	}

	year := 0
	if raw := strings.TrimSpace(canonical[FieldYear]); raw != "" {
		if y, err := strconv.Atoi(raw); err == nil && y > 0 {
			year = y
		} else {
			rec.RawData[string(FieldYear)] = raw
		}
	}
	if year == 0 {
		year = rec.AssistanceDate.Year()
	}

	return month, year
}
