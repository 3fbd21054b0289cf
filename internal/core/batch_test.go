package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory RecordStore and FundStore. failRow, when set,
// makes SaveRecord fail for records with that row number.
type memStore struct {
	records []Record
	funds   []FundReport
	failRow int
}

func (m *memStore) SaveRecord(_ context.Context, rec *Record) error {
	if m.failRow != 0 && rec.RowNumber == m.failRow {
		return fmt.Errorf("duplicate key value violates unique constraint")
	}
	m.records = append(m.records, *rec)
	return nil
}

func (m *memStore) ListRecordsByBatch(_ context.Context, batchID string) ([]Record, error) {
	var out []Record
	for _, r := range m.records {
		if r.ImportBatchID == batchID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListRecordsByYear(_ context.Context, year int) ([]Record, error) {
	var out []Record
	for _, r := range m.records {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) DeleteRecord(_ context.Context, id string) error {
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("record %s not found", id)
}

func (m *memStore) DeleteRecordsByBatch(_ context.Context, batchID string) (int64, error) {
	var kept []Record
	var n int64
	for _, r := range m.records {
		if r.ImportBatchID == batchID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return n, nil
}

func (m *memStore) SaveFundReport(_ context.Context, r *FundReport) error {
	m.funds = append(m.funds, *r)
	return nil
}

func (m *memStore) ListFundReports(_ context.Context, year int) ([]FundReport, error) {
	var out []FundReport
	for _, r := range m.funds {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func testImporter(store RecordStore) *Importer {
	return NewImporter(store, testNormalizer())
}

func TestPreview_PersistsNothing(t *testing.T) {
	store := &memStore{}
	imp := testImporter(store)

	rows := []RawRow{
		{"Business Name": "A", "Gender": "Male"},
		{"Business Name": "B", "Gender": "mystery"},
	}

	result := imp.Preview(rows, "assist.xlsx", "")

	require.Len(t, result.Records, 2)
	assert.NotEmpty(t, result.BatchID, "a batch ID is generated when none is supplied")
	assert.Equal(t, "assist.xlsx", result.FileName)
	assert.Empty(t, store.records, "preview must not persist")

	for i, rec := range result.Records {
		assert.Equal(t, i+1, rec.RowNumber)
		assert.True(t, rec.IsValidated)
		assert.Equal(t, result.BatchID, rec.ImportBatchID)
		assert.Equal(t, "assist.xlsx", rec.ImportFileName)
	}
}

func TestPreview_KeepsSuppliedBatchID(t *testing.T) {
	imp := testImporter(&memStore{})

	result := imp.Preview([]RawRow{{"Business Name": "A"}}, "f.csv", "batch-123")
	assert.Equal(t, "batch-123", result.BatchID)
}

// One bad row never affects its neighbors.
func TestPreview_RowIsolation(t *testing.T) {
	imp := testImporter(&memStore{})

	rows := []RawRow{
		{"Business Name": "Clean", "Gender": "Female"},
		{"Gender": "???", "Priority Industry": "???", "Month": "???"},
		{"Business Name": "Also Clean", "Gender": "Male"},
	}

	result := imp.Preview(rows, "f.csv", "b1")

	require.Len(t, result.Records, 3)
	assert.Empty(t, result.Records[0].ValidationErrors)
	assert.NotEmpty(t, result.Records[1].ValidationErrors)
	assert.Empty(t, result.Records[2].ValidationErrors)
}

func TestConfirm_PartialFailure(t *testing.T) {
	store := &memStore{failRow: 4}
	imp := testImporter(store)

	var records []Record
	for i := 1; i <= 10; i++ {
		records = append(records, Record{RowNumber: i, BusinessName: fmt.Sprintf("biz-%d", i)})
	}

	result := imp.Confirm(context.Background(), records, "batch-x", "ops@dti")

	assert.Equal(t, 9, result.SavedCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, store.records, 9)

	// Rows before and after the failure are durably stored.
	saved := map[int]bool{}
	for _, r := range store.records {
		saved[r.RowNumber] = true
	}
	for i := 1; i <= 10; i++ {
		assert.Equal(t, i != 4, saved[i], "row %d", i)
	}
}

func TestConfirm_StampsProvenance(t *testing.T) {
	store := &memStore{}
	imp := testImporter(store)

	result := imp.Confirm(context.Background(), []Record{{RowNumber: 1}}, "batch-7", "ops@dti")

	require.Equal(t, 1, result.SavedCount)
	rec := store.records[0]
	assert.Equal(t, "batch-7", rec.ImportBatchID)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "ops@dti", rec.CreatedBy)
	assert.Equal(t, "ops@dti", rec.UpdatedBy)
	assert.True(t, rec.IsValidated)
	assert.False(t, rec.CreatedAt.IsZero())
}

// Confirm is not idempotent: repeating it duplicates rows. This is current
// behavior that batch audit history depends on, not an accident to fix in a
// test.
func TestConfirm_RepeatDuplicates(t *testing.T) {
	store := &memStore{}
	imp := testImporter(store)

	records := []Record{{RowNumber: 1}, {RowNumber: 2}}

	first := imp.Confirm(context.Background(), records, "batch-dup", "")
	second := imp.Confirm(context.Background(), records, "batch-dup", "")

	assert.Equal(t, 2, first.SavedCount)
	assert.Equal(t, 2, second.SavedCount)
	assert.Len(t, store.records, 4, "no deduplication across confirms")
}
