package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"revix/internal/contextutil"
	"revix/internal/service"
	"revix/internal/storage"
)

// RecordsHandler lists, stores and deletes records.
type RecordsHandler struct {
	records service.RecordService
}

// NewRecordsHandler creates a new RecordsHandler.
func NewRecordsHandler(records service.RecordService) *RecordsHandler {
	return &RecordsHandler{records: records}
}

// DurationPayload limits how long a record keeps recurring.
type DurationPayload struct {
	Type          string `json:"type,omitempty"`
	NumberOfTimes int    `json:"numberOfTimes,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
}

// RecordPayload is the HTTP representation of a record.
//
// swagger:model RecordPayload
type RecordPayload struct {
	Category        string          `json:"category"`
	SubCategory     string          `json:"sub_category"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	ReminderTime    string          `json:"reminder_time,omitempty"`
	AlarmType       int             `json:"alarm_type"`
	DateInitiated   string          `json:"date_initiated,omitempty"`
	ScheduledDate   string          `json:"scheduled_date,omitempty"`
	Status          string          `json:"status,omitempty"`
	Frequency       string          `json:"frequency,omitempty"`
	RecurrenceData  string          `json:"recurrence_data,omitempty"`
	CompletionCount int             `json:"completion_count"`
	MissedCount     int             `json:"missed_count"`
	DatesMissed     []string        `json:"dates_missed,omitempty"`
	DatesUpdated    []string        `json:"dates_updated,omitempty"`
	Duration        DurationPayload `json:"duration"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
}

func toPayload(rec storage.Record) RecordPayload {
	p := RecordPayload{
		Category:        rec.Category,
		SubCategory:     rec.SubCategory,
		Title:           rec.Title,
		Description:     rec.Description,
		ReminderTime:    rec.ReminderTime,
		AlarmType:       rec.AlarmType,
		DateInitiated:   rec.DateInitiated,
		ScheduledDate:   rec.ScheduledDate,
		Status:          rec.Status,
		Frequency:       rec.Frequency,
		RecurrenceData:  rec.RecurrenceData,
		CompletionCount: rec.CompletionCount,
		MissedCount:     rec.MissedCount,
		DatesMissed:     rec.DatesMissed,
		DatesUpdated:    rec.DatesUpdated,
		Duration: DurationPayload{
			Type:          rec.Duration.Type,
			NumberOfTimes: rec.Duration.NumberOfTimes,
			EndDate:       rec.Duration.EndDate,
		},
	}
	if !rec.UpdatedAt.IsZero() {
		updated := rec.UpdatedAt.UTC()
		p.UpdatedAt = &updated
	}
	return p
}

func (p RecordPayload) record() storage.Record {
	return storage.Record{
		Category:        p.Category,
		SubCategory:     p.SubCategory,
		Title:           p.Title,
		Description:     p.Description,
		ReminderTime:    p.ReminderTime,
		AlarmType:       p.AlarmType,
		DateInitiated:   p.DateInitiated,
		ScheduledDate:   p.ScheduledDate,
		Status:          p.Status,
		Frequency:       p.Frequency,
		RecurrenceData:  p.RecurrenceData,
		CompletionCount: p.CompletionCount,
		MissedCount:     p.MissedCount,
		DatesMissed:     p.DatesMissed,
		DatesUpdated:    p.DatesUpdated,
		Duration: storage.Duration{
			Type:          p.Duration.Type,
			NumberOfTimes: p.Duration.NumberOfTimes,
			EndDate:       p.Duration.EndDate,
		},
	}
}

// ServeHTTP handles GET (list), POST (upsert) and DELETE on /api/records.
func (h *RecordsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.upsert(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

func (h *RecordsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.records.List(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list records")
		return
	}

	payloads := make([]RecordPayload, 0, len(records))
	for _, rec := range records {
		payloads = append(payloads, toPayload(rec))
	}
	writeJSON(w, ctx, http.StatusOK, payloads)
}

func (h *RecordsHandler) upsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req RecordPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stored, err := h.records.Upsert(ctx, req.record())
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to store record")
		return
	}
	writeJSON(w, ctx, http.StatusOK, toPayload(*stored))
}

func (h *RecordsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	id := service.RecordID{
		Category:    q.Get("category"),
		SubCategory: q.Get("sub_category"),
		Title:       q.Get("title"),
	}
	if err := h.records.Delete(ctx, id); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
