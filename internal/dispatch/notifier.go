package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"revix/internal/alarm"
)

// Notifier delivers a fired alarm to the user.
type Notifier interface {
	Notify(ctx context.Context, payload alarm.Payload) error
}

// LogNotifier writes fired alarms to a logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a LogNotifier. A nil logger uses slog.Default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the alarm.
func (n *LogNotifier) Notify(ctx context.Context, payload alarm.Payload) error {
	msg := "alarm fired"
	if payload.Precheck {
		msg = "precheck warning fired"
	}
	n.logger.InfoContext(ctx, msg,
		"key", payload.Key,
		"title", payload.RecordTitle,
		"scheduled_date", payload.ScheduledDate,
		"reminder_time", payload.ReminderTime,
		"alarm_type", payload.AlarmType.String(),
	)
	return nil
}

// MultiNotifier fans a fired alarm out to several notifiers.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier constructs a MultiNotifier. Nil notifiers are skipped.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	m := &MultiNotifier{}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Notify forwards the alarm to every notifier and joins their errors.
func (m *MultiNotifier) Notify(ctx context.Context, payload alarm.Payload) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WebhookNotifier posts fired alarms as JSON to a URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
	now    func() time.Time
}

type webhookPayload struct {
	Event   string        `json:"event"`
	FiredAt time.Time     `json:"firedAt"`
	Alarm   alarm.Payload `json:"alarm"`
}

// NewWebhookNotifier constructs a notifier.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		now:    time.Now,
	}
}

// Notify sends the alarm to the webhook.
func (n *WebhookNotifier) Notify(ctx context.Context, payload alarm.Payload) error {
	if n == nil || n.url == "" {
		return errors.New("webhook notifier: empty url")
	}
	event := "alarm.fired"
	if payload.Precheck {
		event = "alarm.precheck"
	}
	body, err := json.Marshal(webhookPayload{
		Event:   event,
		FiredAt: n.now().UTC(),
		Alarm:   payload,
	})
	if err != nil {
		return fmt.Errorf("webhook notifier: failed to encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook notifier: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook notifier: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook notifier: unexpected status %d", resp.StatusCode)
	}
	return nil
}
