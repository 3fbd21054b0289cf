package core

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func testCoercer() *Coercer {
	return NewCoercer(DefaultDomains(), func() time.Time { return testNow })
}

// ----------------------------------------------------------------------------
// CoerceEnum Tests
// ----------------------------------------------------------------------------

func TestCoerceEnum_ExactMatch(t *testing.T) {
	c := testCoercer()

	tests := []struct {
		field Field
		raw   string
		want  string
	}{
		{FieldGender, "Male", "Male"},
		{FieldGender, "  Female  ", "Female"},
		{FieldGender, "Prefer not to say", "Prefer not to say"},
		{FieldPriorityIndustry, "Tourism", "Tourism"},
		{FieldEDTLevel, "Level 2", "Level 2"},
		{FieldTypeOfAssistance, "Training", "Training"},
		{FieldStrategicMeasure, "Access to Finance", "Access to Finance"},
	}

	for _, tt := range tests {
		res := c.CoerceEnum(tt.field, tt.raw)
		if res.Value != tt.want {
			t.Errorf("CoerceEnum(%s, %q).Value = %q, want %q", tt.field, tt.raw, res.Value, tt.want)
		}
		if len(res.Warnings) != 0 {
			t.Errorf("CoerceEnum(%s, %q) warnings = %v, want none", tt.field, tt.raw, res.Warnings)
		}
		if res.Other != "" || res.Raw != "" {
			t.Errorf("CoerceEnum(%s, %q) Other=%q Raw=%q, want empty", tt.field, tt.raw, res.Other, res.Raw)
		}
	}
}

func TestCoerceEnum_Fallback(t *testing.T) {
	c := testCoercer()

	res := c.CoerceEnum(FieldPriorityIndustry, "Sari-Sari")

	if res.Value != "Others" {
		t.Errorf("Value = %q, want %q", res.Value, "Others")
	}
	if res.Other != "Sari-Sari" {
		t.Errorf("Other = %q, want original raw value", res.Other)
	}
	if res.Raw != "Sari-Sari" {
		t.Errorf("Raw = %q, want original raw value", res.Raw)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(res.Warnings))
	}
	w := res.Warnings[0]
	if w.Field != "priorityIndustry" || w.Value != "Sari-Sari" {
		t.Errorf("warning = %+v, want field/value preserved", w)
	}
	if w.Message != "Sari-Sari is not a valid priority industry" {
		t.Errorf("warning message = %q", w.Message)
	}
}

// Case matters: coercion is strict after trimming, near-misses fall back.
func TestCoerceEnum_CaseSensitive(t *testing.T) {
	c := testCoercer()

	res := c.CoerceEnum(FieldGender, "male")
	if res.Value != "Others" {
		t.Errorf("Value = %q, want fallback %q", res.Value, "Others")
	}
	if res.Other != "male" {
		t.Errorf("Other = %q, want %q", res.Other, "male")
	}
}

// edtLevel has no companion field; unmatched values collapse to
// "Not Applicable" and the original survives only in Raw.
func TestCoerceEnum_EDTLevelNoCompanion(t *testing.T) {
	c := testCoercer()

	res := c.CoerceEnum(FieldEDTLevel, "Advanced")
	if res.Value != EDTNotApplicable {
		t.Errorf("Value = %q, want %q", res.Value, EDTNotApplicable)
	}
	if res.Other != "" {
		t.Errorf("Other = %q, want empty (no companion field)", res.Other)
	}
	if res.Raw != "Advanced" {
		t.Errorf("Raw = %q, want %q", res.Raw, "Advanced")
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %d, want 1", len(res.Warnings))
	}
}

// Empty input falls back silently: no warning, nothing to preserve.
func TestCoerceEnum_Empty(t *testing.T) {
	c := testCoercer()

	res := c.CoerceEnum(FieldGender, "   ")
	if res.Value != "Others" {
		t.Errorf("Value = %q, want fallback", res.Value)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v, want none for empty input", res.Warnings)
	}
	if res.Other != "" || res.Raw != "" {
		t.Errorf("Other=%q Raw=%q, want empty", res.Other, res.Raw)
	}
}

// ----------------------------------------------------------------------------
// CoerceDate Tests
// ----------------------------------------------------------------------------

func TestCoerceDate(t *testing.T) {
	c := testCoercer()

	tests := []struct {
		name     string
		input    string
		wantOK   bool
		wantDate time.Time
	}{
		{"ISO date", "2024-06-01", true, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"US slash", "6/1/2024", true, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"month name", "Jan 2, 2024", true, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"datetime", "2024-06-01 08:15:00", true, time.Date(2024, 6, 1, 8, 15, 0, 0, time.UTC)},
		{"empty defaults to now", "", false, testNow},
		{"garbage defaults to now", "not a date", false, testNow},
		{"whitespace defaults to now", "   ", false, testNow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.CoerceDate(tt.input)
			if ok != tt.wantOK {
				t.Errorf("CoerceDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !got.Equal(tt.wantDate) {
				t.Errorf("CoerceDate(%q) = %v, want %v", tt.input, got, tt.wantDate)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// CoerceEcommerce Tests
// ----------------------------------------------------------------------------

func TestCoerceEcommerce(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Y", "Y"},
		{"y", "Y"},
		{"Yes", "Y"},
		{"YES", "Y"},
		{" yes ", "Y"},
		{"N", "N"},
		{"no", "N"},
		{"NO", "N"},
		{"", "N"},
		{"maybe", "N"},
		{"1", "N"},
		{"true", "N"},
	}

	for _, tt := range tests {
		if got := CoerceEcommerce(tt.input); got != tt.want {
			t.Errorf("CoerceEcommerce(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
