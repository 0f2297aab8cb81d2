package handlers

import (
	"encoding/json"
	"net/http"

	"revix/internal/contextutil"
	"revix/internal/service"
)

// CompleteHandler marks one completion of a record.
type CompleteHandler struct {
	records service.RecordService
}

// NewCompleteHandler creates a new CompleteHandler.
func NewCompleteHandler(records service.RecordService) *CompleteHandler {
	return &CompleteHandler{records: records}
}

// CompleteRequest identifies the completed record.
//
// swagger:model CompleteRequest
type CompleteRequest struct {
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	Title       string `json:"title"`
}

// CompleteResponse is the updated record, or a retired marker.
//
// swagger:model CompleteResponse
type CompleteResponse struct {
	Retired     bool           `json:"retired,omitempty"`
	AlreadyDone bool           `json:"already_done,omitempty"`
	Record      *RecordPayload `json:"record,omitempty"`
}

// ServeHTTP handles HTTP requests for record completion.
//
// swagger:route POST /api/records/complete completeRecord
//
// # Complete a record
//
// Advances the record to its next due date, or retires one-off records.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Completion applied
//	  schema:
//	    "$ref": "#/definitions/CompleteResponse"
//	'404':
//	  description: Record not found
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *CompleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.records.Complete(ctx, service.RecordID{
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Title:       req.Title,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to complete record")
		return
	}

	resp := CompleteResponse{Retired: result.Retired, AlreadyDone: result.AlreadyDone}
	if result.Record != nil {
		payload := toPayload(*result.Record)
		resp.Record = &payload
	}
	writeJSON(w, ctx, http.StatusOK, resp)
}
