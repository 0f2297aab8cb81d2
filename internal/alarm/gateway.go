package alarm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_gateway.go -package=mocks revix/internal/alarm Gateway,SnapshotStore,RunRecorder

import (
	"context"
	"time"
)

// Payload carries enough of an alarm for the fire callback to rebuild the
// metadata without reading the store.
type Payload struct {
	Key           string `json:"key"`
	Category      string `json:"category"`
	SubCategory   string `json:"subCategory"`
	RecordTitle   string `json:"recordTitle"`
	ScheduledDate string `json:"scheduledDate"`
	AlarmType     Type   `json:"alarmType"`
	ReminderTime  string `json:"reminderTime"`
	Precheck      bool   `json:"precheck,omitempty"`
}

// Gateway is the alarm delivery service alarms are installed into.
type Gateway interface {
	// ScheduleExactAt installs an alarm firing at the given instant.
	// Scheduling an existing key replaces it.
	ScheduleExactAt(ctx context.Context, at time.Time, payload Payload) error
	// Cancel removes the alarm with the given key. Unknown keys are not an error.
	Cancel(ctx context.Context, key string) error
}

// SnapshotStore persists the installed alarm set as a whole.
type SnapshotStore interface {
	// Load returns the stored snapshot. An empty store yields an empty map.
	Load(ctx context.Context) (map[string]Metadata, error)
	// Save replaces the stored snapshot in a single operation.
	Save(ctx context.Context, snapshot map[string]Metadata) error
}

// RunRecorder keeps a history of reconcile runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, run Run) error
}
