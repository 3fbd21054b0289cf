package web

// errors.go provides unified error response handling for the web layer.
// Technical errors are logged with the request ID for correlation; clients
// get a sanitized message with a support code.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lmcabrera/assistimport/internal/core"
	"github.com/lmcabrera/assistimport/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", chimw.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// dataResponse is the standard success envelope.
type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// respondJSON writes v inside the success envelope.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dataResponse{Success: true, Data: v}); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
