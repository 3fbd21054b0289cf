// Package core implements the assistance-record import pipeline: header
// mapping, field coercion, row normalization, and the two-phase
// preview/confirm batch protocol. This package has no transport or storage
// dependencies beyond the RecordStore boundary and can be driven by any
// frontend.
package core

import (
	"time"
)

// Field is a canonical field name. Every recognized spreadsheet column is
// normalized to exactly one Field regardless of its original header text.
type Field string

const (
	FieldTimestamp             Field = "timestamp"
	FieldAssistanceDate        Field = "assistanceDate"
	FieldMonth                 Field = "month"
	FieldYear                  Field = "year"
	FieldUnit                  Field = "unit"
	FieldAssistedBy            Field = "assistedBy"
	FieldOwnerName             Field = "ownerName"
	FieldBusinessName          Field = "businessName"
	FieldCityMunicipality      Field = "cityMunicipality"
	FieldAssistanceTitle       Field = "assistanceTitle"
	FieldGender                Field = "gender"
	FieldGenderOther           Field = "genderOther"
	FieldPriorityIndustry      Field = "priorityIndustry"
	FieldPriorityIndustryOther Field = "priorityIndustryOther"
	FieldEDTLevel              Field = "edtLevel"
	FieldTypeOfAssistance      Field = "typeOfAssistance"
	FieldTypeOfAssistanceOther Field = "typeOfAssistanceOther"
	FieldStrategicMeasure      Field = "strategicMeasure"
	FieldStrategicMeasureOther Field = "strategicMeasureOther"
	FieldEcommerce             Field = "ecommerce"
	FieldEcommerceLinkOrNo     Field = "ecommerceLinkOrNo"
)

// RawRow is one already-tabularized spreadsheet row: original header text to
// cell value. File parsing happens upstream; the pipeline starts here.
type RawRow map[string]string

// ValidationError records one normalization warning for a field. Warnings
// never block a record; they travel with it so the operator can review what
// was substituted during preview.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value"`
}

// Record is one imported business-assistance transaction in canonical form.
//
// Closed-domain fields (Gender, PriorityIndustry, EDTLevel, TypeOfAssistance,
// StrategicMeasure, Ecommerce, Month) always hold a member of their domain;
// when coercion had to fall back, the original text lives in the companion
// "-Other" field and in RawData.
type Record struct {
	ID string `json:"id,omitempty"`

	Timestamp      time.Time `json:"timestamp"`
	AssistanceDate time.Time `json:"assistanceDate"`
	Month          string    `json:"month"`
	Year           int       `json:"year"`

	Unit             string `json:"unit"`
	AssistedBy       string `json:"assistedBy"`
	OwnerName        string `json:"ownerName"`
	BusinessName     string `json:"businessName"`
	CityMunicipality string `json:"cityMunicipality"`
	AssistanceTitle  string `json:"assistanceTitle"`

	Gender                string `json:"gender"`
	GenderOther           string `json:"genderOther,omitempty"`
	PriorityIndustry      string `json:"priorityIndustry"`
	PriorityIndustryOther string `json:"priorityIndustryOther,omitempty"`
	EDTLevel              string `json:"edtLevel"`
	TypeOfAssistance      string `json:"typeOfAssistance"`
	TypeOfAssistanceOther string `json:"typeOfAssistanceOther,omitempty"`
	StrategicMeasure      string `json:"strategicMeasure"`
	StrategicMeasureOther string `json:"strategicMeasureOther,omitempty"`

	Ecommerce         string `json:"ecommerce"`
	EcommerceLinkOrNo string `json:"ecommerceLinkOrNo"`

	// RawData preserves every value that failed to match a closed domain or
	// arrived under an unrecognized header, keyed by canonical field name or
	// literal header respectively. Original evidence is never dropped.
	RawData map[string]string `json:"rawData,omitempty"`

	ImportBatchID  string `json:"importBatchId"`
	ImportFileName string `json:"importFileName"`
	RowNumber      int    `json:"rowNumber"`

	ValidationErrors []ValidationError `json:"validationErrors,omitempty"`

	// IsValidated is true for every imported record: acceptance is
	// unconditional, warnings notwithstanding.
	IsValidated bool `json:"isValidated"`

	CreatedBy string    `json:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// HasWarnings reports whether any field was substituted or defaulted with a
// recorded warning during normalization.
func (r *Record) HasWarnings() bool {
	return len(r.ValidationErrors) > 0
}

// PreviewResult is the outcome of the preview phase: every row normalized,
// nothing persisted.
type PreviewResult struct {
	BatchID  string   `json:"batchId"`
	FileName string   `json:"fileName"`
	Records  []Record `json:"records"`
}

// WarningCount returns the total number of warnings across all previewed
// records.
func (p *PreviewResult) WarningCount() int {
	n := 0
	for i := range p.Records {
		n += len(p.Records[i].ValidationErrors)
	}
	return n
}

// ConfirmResult is the outcome of the confirm phase. Partial success is an
// expected state: SavedCount and ErrorCount are reported together and the
// caller decides what to do about the difference.
type ConfirmResult struct {
	SavedCount int `json:"savedCount"`
	ErrorCount int `json:"errorCount"`
}

// Summary holds read-side aggregate counts over persisted records for one
// year. No coercion happens here; the data is already normalized.
type Summary struct {
	Year               int     `json:"year"`
	TotalRecords       int     `json:"totalRecords"`
	DistinctBusinesses int     `json:"distinctBusinesses"`
	DistinctCities     int     `json:"distinctCities"`
	EcommerceRate      float64 `json:"ecommerceRate"`
}
