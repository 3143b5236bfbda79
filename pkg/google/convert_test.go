package google

import (
	"strings"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/dosely/pkg/colors"
	"github.com/harrisonrobin/dosely/pkg/model"
)

func testEvent() model.ScheduledEvent {
	return model.ScheduledEvent{
		TaskID:      "12345678-1234-1234-1234-123456789012",
		Title:       "Write report",
		Description: "Quarterly numbers",
		Start:       time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		Ease:        model.LabelHard,
		Bucket:      model.BucketMedium,
	}
}

func TestConvertEvent(t *testing.T) {
	ev := testEvent()
	key := EventKey("ana", "2026-10-19", ev)

	event, err := ConvertEvent(ev, key, colors.Default())
	if err != nil {
		t.Fatalf("ConvertEvent failed: %v", err)
	}

	if event.ExtendedProperties == nil || event.ExtendedProperties.Private == nil {
		t.Fatal("ExtendedProperties or Private map is nil")
	}
	if val, ok := event.ExtendedProperties.Private[PropertyKey]; !ok || val != key {
		t.Errorf("Expected %s %s, got %v", PropertyKey, key, val)
	}
	if event.ColorId != colors.Tomato {
		t.Errorf("Expected hard slot to be colored %s, got %s", colors.Tomato, event.ColorId)
	}
	if event.Start.DateTime != "2026-10-19T10:00:00Z" || event.Start.TimeZone != "UTC" {
		t.Errorf("unexpected start %+v", event.Start)
	}
	if event.Reminders == nil || event.Reminders.UseDefault || len(event.Reminders.Overrides) != 1 ||
		event.Reminders.Overrides[0].Minutes != ReminderMinutes {
		t.Errorf("Expected one %d minute popup reminder, got %+v", ReminderMinutes, event.Reminders)
	}
	if !strings.Contains(event.Description, "Quarterly numbers") || !strings.Contains(event.Description, "Focus: hard") {
		t.Errorf("Expected description to carry notes and focus label, got: %s", event.Description)
	}
}

func TestConvertEventRejectsInvertedSlot(t *testing.T) {
	ev := testEvent()
	ev.End = ev.Start.Add(-time.Hour)
	if _, err := ConvertEvent(ev, "k", colors.Default()); err == nil {
		t.Error("expected an error for an event ending before it starts")
	}
}

func TestEventKeyIsStable(t *testing.T) {
	ev := testEvent()
	a := EventKey("ana", "2026-10-19", ev)
	if a != EventKey("ana", "2026-10-19", ev) {
		t.Error("EventKey is not deterministic")
	}
	if a == EventKey("ana", "2026-10-20", ev) || a == EventKey("ben", "2026-10-19", ev) {
		t.Error("EventKey must differ across days and owners")
	}
}

func TestEventNeedsUpdate(t *testing.T) {
	ev := testEvent()
	target, _ := ConvertEvent(ev, "k", colors.Default())
	existing, _ := ConvertEvent(ev, "k", colors.Default())

	patch, err := EventNeedsUpdate(existing, target)
	if err != nil {
		t.Fatalf("EventNeedsUpdate failed: %v", err)
	}
	if patch != nil {
		t.Fatalf("expected no patch for identical events, got %+v", patch)
	}

	moved := ev
	moved.Start = ev.Start.Add(time.Hour)
	moved.End = ev.End.Add(time.Hour)
	moved.Ease = model.LabelMedium
	target, _ = ConvertEvent(moved, "k", colors.Default())

	patch, err = EventNeedsUpdate(existing, target)
	if err != nil {
		t.Fatalf("EventNeedsUpdate failed: %v", err)
	}
	if patch == nil || patch.Start == nil || patch.ColorId != colors.Banana || patch.Summary != "" {
		t.Errorf("unexpected patch %+v", patch)
	}
}

func TestEventNeedsUpdateUntimedEvent(t *testing.T) {
	target, _ := ConvertEvent(testEvent(), "k", colors.Default())

	cases := map[string]*calendar.Event{
		"all-day":    {Start: &calendar.EventDateTime{Date: "2026-10-19"}, End: &calendar.EventDateTime{Date: "2026-10-20"}},
		"unparsable": {Start: &calendar.EventDateTime{DateTime: "10am"}, End: &calendar.EventDateTime{DateTime: "noon"}},
		"no start":   {},
	}
	for name, existing := range cases {
		cp := *target
		cp.Start, cp.End = existing.Start, existing.End

		patch, err := EventNeedsUpdate(&cp, target)
		if err != nil {
			t.Fatalf("%s: EventNeedsUpdate failed: %v", name, err)
		}
		if patch == nil || patch.Start == nil || patch.End == nil {
			t.Fatalf("%s: expected a time patch, got %+v", name, patch)
		}
		if patch.Start.DateTime != target.Start.DateTime || patch.End.DateTime != target.End.DateTime {
			t.Errorf("%s: patch times %s-%s", name, patch.Start.DateTime, patch.End.DateTime)
		}
		if len(patch.Start.NullFields) != 1 || patch.Start.NullFields[0] != "Date" {
			t.Errorf("%s: expected the all-day date to be cleared, got %v", name, patch.Start.NullFields)
		}
	}
	if len(target.Start.NullFields) != 0 {
		t.Error("target event was modified")
	}
}
