package google

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/dosely/pkg/colors"
	"github.com/harrisonrobin/dosely/pkg/model"
)

const (
	// PropertyKey is the private extended property carrying an event's stable key.
	PropertyKey = "dosely_id"
	// PropertyEase carries the effective ease label.
	PropertyEase = "dosely_ease"

	// ReminderMinutes is the lead time of the popup reminder attached to every event.
	ReminderMinutes = 10
)

var keyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/harrisonrobin/dosely/events"))

// EventKey derives a stable id for the slot a task occupies on day.
func EventKey(owner, day string, ev model.ScheduledEvent) string {
	id := ev.TaskID
	if id == "" {
		id = ev.Title + "@" + ev.StartClock()
	}
	return uuid.NewSHA1(keyNamespace, []byte(owner+"/"+day+"/"+id)).String()
}

// ConvertEvent builds the Google Calendar representation of ev.
func ConvertEvent(ev model.ScheduledEvent, key string, palette colors.Palette) (*calendar.Event, error) {
	if ev.End.Before(ev.Start) {
		return nil, fmt.Errorf("event %q ends before it starts", ev.Title)
	}

	var desc strings.Builder
	if ev.Description != "" {
		desc.WriteString(ev.Description)
		desc.WriteString("\n\n")
	}
	desc.WriteString(fmt.Sprintf("Focus: %s\n", ev.Ease))
	desc.WriteString(fmt.Sprintf("Bucket: %s\n", ev.Bucket))

	return &calendar.Event{
		Summary:     ev.Title,
		Description: desc.String(),
		ColorId:     palette.ColorID(ev.Ease),
		Start:       eventTime(ev.Start),
		End:         eventTime(ev.End),
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: ReminderMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				PropertyKey:  key,
				PropertyEase: string(ev.Ease),
			},
		},
	}, nil
}

func eventTime(t time.Time) *calendar.EventDateTime {
	edt := &calendar.EventDateTime{DateTime: t.Format(time.RFC3339)}
	if name := t.Location().String(); name != "Local" {
		edt.TimeZone = name
	}
	return edt
}

// EventNeedsUpdate returns a patch event if the fields we own differ between
// the existing calendar event and the freshly converted target.
func EventNeedsUpdate(existingEvent *calendar.Event, targetEvent *calendar.Event) (*calendar.Event, error) {
	patch := &calendar.Event{}
	needsUpdate := false

	if existingEvent.Summary != targetEvent.Summary {
		patch.Summary = targetEvent.Summary
		needsUpdate = true
	}
	if existingEvent.Description != targetEvent.Description {
		patch.Description = targetEvent.Description
		needsUpdate = true
	}
	if existingEvent.ColorId != targetEvent.ColorId {
		patch.ColorId = targetEvent.ColorId
		needsUpdate = true
	}
	if existingEvent.ExtendedProperties == nil ||
		existingEvent.ExtendedProperties.Private[PropertyEase] != targetEvent.ExtendedProperties.Private[PropertyEase] {
		patch.ExtendedProperties = targetEvent.ExtendedProperties
		needsUpdate = true
	}

	targetStartTime, err := time.Parse(time.RFC3339, targetEvent.Start.DateTime)
	if err != nil {
		return nil, err
	}
	targetEndTime, err := time.Parse(time.RFC3339, targetEvent.End.DateTime)
	if err != nil {
		return nil, err
	}
	existingStartTime, startOK := parseEventTime(existingEvent.Start)
	existingEndTime, endOK := parseEventTime(existingEvent.End)
	if !startOK || !endOK {
		// All-day or otherwise untimed: replace the date with our times.
		patch.Start = clearDate(targetEvent.Start)
		patch.End = clearDate(targetEvent.End)
		return patch, nil
	}
	if !existingStartTime.Equal(targetStartTime) || !existingEndTime.Equal(targetEndTime) {
		patch.Start = targetEvent.Start
		patch.End = targetEvent.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch, nil
	}
	return nil, nil
}

func parseEventTime(edt *calendar.EventDateTime) (time.Time, bool) {
	if edt == nil || edt.DateTime == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, edt.DateTime)
	return t, err == nil
}

func clearDate(edt *calendar.EventDateTime) *calendar.EventDateTime {
	cp := *edt
	cp.NullFields = append(cp.NullFields[:len(cp.NullFields):len(cp.NullFields)], "Date")
	return &cp
}
