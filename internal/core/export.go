package core

// export.go flattens persisted records back to tabular form and computes
// read-side aggregates. No coercion happens on this path; records are
// already normalized.

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
)

// exportColumns is the column order for flattened tabular output.
var exportColumns = []string{
	"Row", "Timestamp", "Date of Assistance", "Month", "Year",
	"Unit", "Assisted By", "Owner Name", "Business Name",
	"City/Municipality", "Assistance Title", "Gender",
	"Priority Industry", "EDT Level", "Type of Assistance",
	"Strategic Measure", "E-Commerce", "E-Commerce Link",
	"Import Batch", "Import File",
}

// FlatRecord is one record flattened for display: each Others-pattern pair
// collapses to its free-text value when the base field is "Others".
type FlatRecord struct {
	RowNumber        int    `json:"rowNumber"`
	Timestamp        string `json:"timestamp"`
	AssistanceDate   string `json:"assistanceDate"`
	Month            string `json:"month"`
	Year             int    `json:"year"`
	Unit             string `json:"unit"`
	AssistedBy       string `json:"assistedBy"`
	OwnerName        string `json:"ownerName"`
	BusinessName     string `json:"businessName"`
	CityMunicipality string `json:"cityMunicipality"`
	AssistanceTitle  string `json:"assistanceTitle"`
	Gender           string `json:"gender"`
	PriorityIndustry string `json:"priorityIndustry"`
	EDTLevel         string `json:"edtLevel"`
	TypeOfAssistance string `json:"typeOfAssistance"`
	StrategicMeasure string `json:"strategicMeasure"`
	Ecommerce        string `json:"ecommerce"`
	EcommerceLink    string `json:"ecommerceLink"`
	ImportBatchID    string `json:"importBatchId"`
	ImportFileName   string `json:"importFileName"`
}

// flattenOther collapses a domain/"-Other" pair to a single display value.
func flattenOther(value, other string) string {
	if value == FallbackOther && other != "" {
		return other
	}
	return value
}

// Flatten converts a canonical record to its flattened display form.
func Flatten(rec *Record) FlatRecord {
	return FlatRecord{
		RowNumber:        rec.RowNumber,
		Timestamp:        rec.Timestamp.Format("2006-01-02 15:04:05"),
		AssistanceDate:   rec.AssistanceDate.Format("2006-01-02"),
		Month:            rec.Month,
		Year:             rec.Year,
		Unit:             rec.Unit,
		AssistedBy:       rec.AssistedBy,
		OwnerName:        rec.OwnerName,
		BusinessName:     rec.BusinessName,
		CityMunicipality: rec.CityMunicipality,
		AssistanceTitle:  rec.AssistanceTitle,
		Gender:           flattenOther(rec.Gender, rec.GenderOther),
		PriorityIndustry: flattenOther(rec.PriorityIndustry, rec.PriorityIndustryOther),
		EDTLevel:         rec.EDTLevel,
		TypeOfAssistance: flattenOther(rec.TypeOfAssistance, rec.TypeOfAssistanceOther),
		StrategicMeasure: flattenOther(rec.StrategicMeasure, rec.StrategicMeasureOther),
		Ecommerce:        rec.Ecommerce,
		EcommerceLink:    rec.EcommerceLinkOrNo,
		ImportBatchID:    rec.ImportBatchID,
		ImportFileName:   rec.ImportFileName,
	}
}

// Exporter reads persisted records and serializes them for download.
type Exporter struct {
	store RecordStore
}

// NewExporter creates an Exporter over the given store.
func NewExporter(store RecordStore) *Exporter {
	return &Exporter{store: store}
}

// ExportYear returns all records for a year, flattened, in creation order.
func (e *Exporter) ExportYear(ctx context.Context, year int) ([]FlatRecord, error) {
	records, err := e.store.ListRecordsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list records for %d: %w", year, err)
	}
	flat := make([]FlatRecord, len(records))
	for i := range records {
		flat[i] = Flatten(&records[i])
	}
	return flat, nil
}

// ExportYearCSV renders a year's records as a delimited-text payload with a
// header row.
func (e *Exporter) ExportYearCSV(ctx context.Context, year int) ([]byte, error) {
	flat, err := e.ExportYear(ctx, year)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i := range flat {
		f := &flat[i]
		row := []string{
			strconv.Itoa(f.RowNumber), f.Timestamp, f.AssistanceDate,
			f.Month, strconv.Itoa(f.Year), f.Unit, f.AssistedBy,
			f.OwnerName, f.BusinessName, f.CityMunicipality,
			f.AssistanceTitle, f.Gender, f.PriorityIndustry, f.EDTLevel,
			f.TypeOfAssistance, f.StrategicMeasure, f.Ecommerce,
			f.EcommerceLink, f.ImportBatchID, f.ImportFileName,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", f.RowNumber, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Summarize computes aggregate counts for a year: total records, distinct
// businesses and cities, and the share of records with e-commerce presence.
func (e *Exporter) Summarize(ctx context.Context, year int) (Summary, error) {
	records, err := e.store.ListRecordsByYear(ctx, year)
	if err != nil {
		return Summary{}, fmt.Errorf("list records for %d: %w", year, err)
	}

	businesses := make(map[string]struct{})
	cities := make(map[string]struct{})
	ecommerce := 0
	for i := range records {
		rec := &records[i]
		if rec.BusinessName != "" {
			businesses[rec.BusinessName] = struct{}{}
		}
		if rec.CityMunicipality != "" {
			cities[rec.CityMunicipality] = struct{}{}
		}
		if rec.Ecommerce == "Y" {
			ecommerce++
		}
	}

	s := Summary{
		Year:               year,
		TotalRecords:       len(records),
		DistinctBusinesses: len(businesses),
		DistinctCities:     len(cities),
	}
	if s.TotalRecords > 0 {
		s.EcommerceRate = float64(ecommerce) / float64(s.TotalRecords)
	}
	return s, nil
}
