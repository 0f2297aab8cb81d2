package handlers

import (
	"bytes"
	"net/http"
	"time"

	"revix/internal/alarm"
	"revix/internal/calendarfeed"
	"revix/internal/contextutil"
	"revix/internal/service"
)

// ReconcileHandler triggers a reconcile pass.
type ReconcileHandler struct {
	records service.RecordService
}

// NewReconcileHandler creates a new ReconcileHandler.
func NewReconcileHandler(records service.RecordService) *ReconcileHandler {
	return &ReconcileHandler{records: records}
}

// ReconcileResponse summarizes one pass.
//
// swagger:model ReconcileResponse
type ReconcileResponse struct {
	RunID     string `json:"run_id"`
	Scheduled int    `json:"scheduled"`
	Cancelled int    `json:"cancelled"`
	Failed    int    `json:"failed"`
	Active    int    `json:"active"`
}

// ServeHTTP handles HTTP requests for reconcile passes.
//
// swagger:route POST /api/reconcile reconcileAlarms
//
// # Reconcile installed alarms with the records
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Pass completed
//	  schema:
//	    "$ref": "#/definitions/ReconcileResponse"
//	'502':
//	  description: Snapshot could not be committed
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ReconcileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	result, err := h.records.Reconcile(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to reconcile alarms")
		return
	}

	writeJSON(w, ctx, http.StatusOK, ReconcileResponse{
		RunID:     result.RunID,
		Scheduled: result.Scheduled,
		Cancelled: result.Cancelled,
		Failed:    result.Failed,
		Active:    result.Active,
	})
}

// AlarmsHandler serves the installed alarm snapshot.
type AlarmsHandler struct {
	records service.RecordService
}

// NewAlarmsHandler creates a new AlarmsHandler.
func NewAlarmsHandler(records service.RecordService) *AlarmsHandler {
	return &AlarmsHandler{records: records}
}

// ServeHTTP returns the snapshot as a JSON array ordered by trigger time.
func (h *AlarmsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	alarms, err := h.records.Alarms(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load alarms")
		return
	}
	if alarms == nil {
		alarms = []alarm.Metadata{}
	}
	writeJSON(w, ctx, http.StatusOK, alarms)
}

// CalendarHandler serves the installed alarms as an iCalendar feed.
type CalendarHandler struct {
	records service.RecordService
	now     func() time.Time
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(records service.RecordService) *CalendarHandler {
	return &CalendarHandler{records: records, now: time.Now}
}

// ServeHTTP writes the feed.
func (h *CalendarHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	alarms, err := h.records.Alarms(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load alarms")
		return
	}

	var buf bytes.Buffer
	if err := calendarfeed.Encode(&buf, alarms, h.now()); err != nil {
		logger.ErrorContext(ctx, "failed to encode calendar feed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode calendar feed")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="revix.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.ErrorContext(ctx, "failed to write calendar feed", "error", err)
	}
}
