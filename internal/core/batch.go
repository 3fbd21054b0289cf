package core

// batch.go drives the two-phase import protocol. Preview normalizes every
// row and persists nothing; Confirm persists the operator-selected subset
// under a shared batch ID, isolating per-record persistence failures.
//
// Confirm is neither idempotent nor transactional: calling it twice with
// overlapping records persists duplicates, and a mid-batch failure leaves
// earlier records saved. Both are long-standing behaviors that audit tooling
// relies on; see DESIGN.md before changing them.

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lmcabrera/assistimport/internal/logging"
	"github.com/lmcabrera/assistimport/internal/metrics"
)

// RecordStore is the persistence boundary for the import pipeline.
// Implemented by internal/store; tests use in-memory fakes.
type RecordStore interface {
	SaveRecord(ctx context.Context, rec *Record) error
	ListRecordsByBatch(ctx context.Context, batchID string) ([]Record, error)
	ListRecordsByYear(ctx context.Context, year int) ([]Record, error)
	DeleteRecord(ctx context.Context, id string) error
	DeleteRecordsByBatch(ctx context.Context, batchID string) (int64, error)
}

// Importer coordinates preview and confirm over a RecordStore.
type Importer struct {
	store      RecordStore
	normalizer *Normalizer
	now        func() time.Time
}

// NewImporter creates an Importer. A nil normalizer gets the default alias
// and domain tables.
func NewImporter(store RecordStore, normalizer *Normalizer) *Importer {
	if normalizer == nil {
		normalizer = NewNormalizer(nil, nil)
	}
	return &Importer{
		store:      store,
		normalizer: normalizer,
		now:        time.Now,
	}
}

// Preview normalizes every row in order and returns the full preview set.
// Nothing is persisted and rows are independent: one row's coercion outcome
// never affects another. A retried preview is free. When batchID is empty a
// new one is generated.
func (imp *Importer) Preview(rows []RawRow, fileName, batchID string) *PreviewResult {
	if batchID == "" {
		batchID = uuid.New().String()
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec := imp.normalizer.NormalizeRow(row, i+1)
		rec.ImportBatchID = batchID
		rec.ImportFileName = fileName
		records = append(records, rec)
	}

	metrics.RowsPreviewed.Add(float64(len(records)))
	return &PreviewResult{
		BatchID:  batchID,
		FileName: fileName,
		Records:  records,
	}
}

// Confirm persists the operator-selected records one at a time. A failed
// save is logged and counted, and processing continues with the next record;
// partial success is an expected outcome that the caller must surface.
func (imp *Importer) Confirm(ctx context.Context, records []Record, batchID, createdBy string) ConfirmResult {
	log := logging.FromContext(ctx).With("batch_id", batchID, "records", len(records))
	log.Info("confirming import batch")

	var result ConfirmResult
	now := imp.now()

	for i := range records {
		rec := records[i]
		if rec.ImportBatchID == "" {
			rec.ImportBatchID = batchID
		}
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		rec.IsValidated = true
		rec.CreatedBy = createdBy
		rec.UpdatedBy = createdBy
		rec.CreatedAt = now
		rec.UpdatedAt = now

		if err := imp.store.SaveRecord(ctx, &rec); err != nil {
			result.ErrorCount++
			metrics.RowsFailed.Inc()
			log.Error("record save failed",
				"row_number", rec.RowNumber,
				"error", err,
			)
			continue
		}
		result.SavedCount++
		metrics.RowsSaved.Inc()
	}

	metrics.BatchesConfirmed.Inc()
	log.Info("import batch confirmed",
		"saved", result.SavedCount,
		"errors", result.ErrorCount,
	)
	return result
}
