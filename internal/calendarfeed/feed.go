// Package calendarfeed renders installed alarms as an iCalendar feed.
package calendarfeed

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"revix/internal/alarm"
)

const (
	productID = "-//revix//Alarm Feed//EN"
	uidDomain = "revix"
	// eventLength is the nominal length of a reminder event.
	eventLength = 15 * time.Minute
)

const emptyCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:" + productID + "\r\n" +
	"CALSCALE:GREGORIAN\r\n" +
	"END:VCALENDAR\r\n"

// Build returns a calendar with one VEVENT per main alarm. Each event carries
// a VALARM that fires at the event start and, when the record has a precheck
// warning, a second VALARM PrecheckLead earlier. stamp is used as DTSTAMP.
func Build(alarms []alarm.Metadata, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	prechecks := make(map[string]bool)
	for _, m := range alarms {
		if m.Precheck {
			prechecks[alarm.Key(m.Category, m.SubCategory, m.RecordTitle, m.ScheduledDate)] = true
		}
	}

	for _, m := range alarms {
		if !m.HasAlarm() || m.Precheck {
			continue
		}
		cal.Children = append(cal.Children, event(m, stamp.UTC(), prechecks[m.Key]))
	}
	return cal
}

// Encode writes the feed for alarms to w.
func Encode(w io.Writer, alarms []alarm.Metadata, stamp time.Time) error {
	cal := Build(alarms, stamp)
	if len(cal.Children) == 0 {
		// the encoder rejects a calendar without components
		_, err := io.WriteString(w, emptyCalendar)
		return err
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar feed: %w", err)
	}
	return nil
}

func event(m alarm.Metadata, stamp time.Time, precheck bool) *ical.Component {
	start := m.Trigger().UTC()

	ev := ical.NewComponent(ical.CompEvent)
	ev.Props.SetText(ical.PropUID, m.Key+"@"+uidDomain)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ev.Props.SetDateTime(ical.PropDateTimeStart, start)
	ev.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(eventLength))
	ev.Props.SetText(ical.PropSummary, m.RecordTitle)
	ev.Props.SetText(ical.PropDescription, fmt.Sprintf("%s / %s (%s)", m.Category, m.SubCategory, m.AlarmType))
	ev.Props.SetText(ical.PropCategories, m.Category)

	ev.Children = append(ev.Children, displayAlarm(m.RecordTitle, "-PT0M"))
	if precheck {
		lead := fmt.Sprintf("-PT%dM", int(alarm.PrecheckLead.Minutes()))
		ev.Children = append(ev.Children, displayAlarm("Coming up: "+m.RecordTitle, lead))
	}
	return ev
}

func displayAlarm(description, offset string) *ical.Component {
	valarm := ical.NewComponent(ical.CompAlarm)
	valarm.Props.SetText(ical.PropAction, "DISPLAY")
	valarm.Props.SetText(ical.PropDescription, description)
	trigger := ical.NewProp(ical.PropTrigger)
	trigger.Value = offset
	valarm.Props.Set(trigger)
	return valarm
}
