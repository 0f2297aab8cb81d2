package handlers

import (
	"encoding/json"
	"net/http"

	"revix/internal/contextutil"
	"revix/internal/service"
)

// NextDateHandler computes next due dates without touching stored records.
type NextDateHandler struct {
	records service.RecordService
}

// NewNextDateHandler creates a new NextDateHandler.
func NewNextDateHandler(records service.RecordService) *NextDateHandler {
	return &NextDateHandler{records: records}
}

// NextDateRequest represents the HTTP request payload for a next date query.
//
// swagger:model NextDateRequest
type NextDateRequest struct {
	// Start date, yyyy-MM-dd
	StartDate string `json:"start_date"`
	// Frequency table name, "Custom" or "No Repetition"
	Frequency string `json:"frequency"`
	// Custom recurrence parameters as a JSON string
	RecurrenceData string `json:"recurrence_data,omitempty"`
	// Completions so far; -1 disables recurrence
	CompletionCount int `json:"completion_count"`
}

// NextDateResponse carries the computed date.
//
// swagger:model NextDateResponse
type NextDateResponse struct {
	// Next due date, yyyy-MM-dd; null when recurrence is disabled
	NextDate *string `json:"next_date"`
}

// ServeHTTP handles HTTP requests for next date queries.
//
// swagger:route POST /api/next-date nextDate
//
// # Compute the next due date
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Next date (possibly null)
//	  schema:
//	    "$ref": "#/definitions/NextDateResponse"
//	'400':
//	  description: Invalid request
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *NextDateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	var req NextDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.records.NextDate(ctx, service.NextDateRequest{
		StartDate:       req.StartDate,
		Frequency:       req.Frequency,
		RecurrenceData:  req.RecurrenceData,
		CompletionCount: req.CompletionCount,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to compute next date")
		return
	}

	writeJSON(w, ctx, http.StatusOK, NextDateResponse{NextDate: resp.NextDate})
}
