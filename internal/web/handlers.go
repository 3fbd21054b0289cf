package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lmcabrera/assistimport/internal/core"
	"github.com/lmcabrera/assistimport/internal/logging"
	"github.com/lmcabrera/assistimport/internal/store"
	"github.com/lmcabrera/assistimport/internal/web/middleware"
)

// previewRequest is the payload for POST /api/import/preview. Records are
// header->value maps produced by the client-side file parser.
type previewRequest struct {
	Records       []core.RawRow `json:"records"`
	ImportBatchID string        `json:"importBatchId"`
	FileName      string        `json:"fileName"`
}

// confirmRequest is the payload for POST /api/import/confirm: the
// operator-selected, possibly hand-edited subset of the preview output.
type confirmRequest struct {
	Records       []core.Record `json:"records"`
	ImportBatchID string        `json:"importBatchId"`
}

// handlePreview normalizes every submitted row and returns the preview set.
// Nothing is persisted; the operator reviews and edits before confirming.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if len(req.Records) == 0 {
		s.respondError(w, r, fmt.Errorf("malformed request: no records"), http.StatusBadRequest)
		return
	}
	if len(req.Records) > s.cfg.Import.MaxRows {
		s.respondError(w, r,
			fmt.Errorf("too many rows: %d exceeds limit %d", len(req.Records), s.cfg.Import.MaxRows),
			http.StatusRequestEntityTooLarge)
		return
	}

	result := s.importer.Preview(req.Records, req.FileName, req.ImportBatchID)

	logging.FromContext(r.Context()).Info("preview complete",
		"batch_id", result.BatchID,
		"file_name", result.FileName,
		"rows", len(result.Records),
		"warnings", result.WarningCount(),
	)
	s.respondJSON(w, http.StatusOK, result)
}

// handleConfirm persists the selected records under the shared batch ID.
// Partial success is reported, not hidden: savedCount and errorCount always
// arrive together.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if len(req.Records) == 0 {
		s.respondError(w, r, fmt.Errorf("malformed request: no records"), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.ConfirmTimeout)
	defer cancel()

	createdBy := middleware.UserFromContext(r.Context())
	result := s.importer.Confirm(ctx, req.Records, req.ImportBatchID, createdBy)
	s.respondJSON(w, http.StatusOK, result)
}

// handleListRecords serves audit/history views: records by batch ID or by
// year, in creation order.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	if batchID := r.URL.Query().Get("batchId"); batchID != "" {
		records, err := s.store.ListRecordsByBatch(r.Context(), batchID)
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		s.respondJSON(w, http.StatusOK, records)
		return
	}

	year := parseYearParam(r)
	records, err := s.store.ListRecordsByYear(r.Context(), year)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.respondJSON(w, http.StatusOK, records)
}

// handleDeleteRecord hard-deletes one record.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteRecord(r.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		s.respondError(w, r, err, status)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// handleDeleteBatch hard-deletes every record of one import batch.
func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	n, err := s.store.DeleteRecordsByBatch(r.Context(), batchID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	logging.FromContext(r.Context()).Info("batch deleted",
		"batch_id", batchID,
		"records", n,
	)
	s.respondJSON(w, http.StatusOK, map[string]int64{"deletedCount": n})
}

// handleExport serves a year's records as JSON or CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	year := parseYearParam(r)

	if r.URL.Query().Get("format") == "csv" {
		payload, err := s.exporter.ExportYearCSV(r.Context(), year)
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="assistance-%d.csv"`, year))
		w.Write(payload)
		return
	}

	flat, err := s.exporter.ExportYear(r.Context(), year)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.respondJSON(w, http.StatusOK, flat)
}

// handleSummary serves aggregate counts for a year.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.exporter.Summarize(r.Context(), parseYearParam(r))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

// handleSaveFundReport normalizes and persists one fund report.
func (s *Server) handleSaveFundReport(w http.ResponseWriter, r *http.Request) {
	var report core.FundReport
	if err := s.decodeBody(w, r, &report); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	saved, err := s.funds.Save(r.Context(), report, middleware.UserFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.respondJSON(w, http.StatusCreated, saved)
}

// handleListFundReports serves fund reports for a year.
func (s *Server) handleListFundReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.funds.List(r.Context(), parseYearParam(r))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.respondJSON(w, http.StatusOK, reports)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody decodes a JSON request body with the configured size limit.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("malformed request: %w", err)
	}
	return nil
}

// parseYearParam returns the year query parameter, defaulting to the current
// year.
func parseYearParam(r *http.Request) int {
	if v := r.URL.Query().Get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y > 0 {
			return y
		}
	}
	return time.Now().Year()
}

// isNotFound reports whether err wraps store.ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
