package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/harrisonrobin/dosely/pkg/colors"
	"github.com/harrisonrobin/dosely/pkg/index"
	"github.com/harrisonrobin/dosely/pkg/model"
)

// EventsAPI is the slice of the Calendar events resource the client uses.
type EventsAPI interface {
	Get(ctx context.Context, calendarID, eventID string) (*calendar.Event, error)
	Insert(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error)
	Patch(ctx context.Context, calendarID, eventID string, patch *calendar.Event) (*calendar.Event, error)
	Delete(ctx context.Context, calendarID, eventID string) error
	FindByProperty(ctx context.Context, calendarID, key, value string) ([]*calendar.Event, error)
	List(ctx context.Context, calendarID string, timeMin time.Time) ([]*calendar.Event, error)
}

// IndexRetentionDays is how long index mappings outlive their day.
const IndexRetentionDays = 14

// CalendarClient pushes schedules into one Google calendar.
type CalendarClient struct {
	api        EventsAPI
	calendarID string
	index      *index.EventIndex
	palette    colors.Palette
	now        func() time.Time
}

// NewCalendarClient creates a new Google Calendar client. idx may be nil.
func NewCalendarClient(api EventsAPI, calendarID string, idx *index.EventIndex, palette colors.Palette) *CalendarClient {
	if palette == nil {
		palette = colors.Default()
	}
	return &CalendarClient{api: api, calendarID: calendarID, index: idx, palette: palette, now: time.Now}
}

// SyncOutcome says what SyncEvent did.
type SyncOutcome int

const (
	Unchanged SyncOutcome = iota
	Created
	Updated
)

// SyncEvent creates the calendar event for ev or patches the one pushed earlier.
func (c *CalendarClient) SyncEvent(ctx context.Context, owner, day string, ev model.ScheduledEvent) (*calendar.Event, SyncOutcome, error) {
	key := EventKey(owner, day, ev)
	target, err := ConvertEvent(ev, key, c.palette)
	if err != nil {
		return nil, Unchanged, err
	}
	idxKey := index.Key(day, owner, key)

	var existing *calendar.Event
	if c.index != nil {
		if eventID := c.index.Get(idxKey); eventID != "" {
			existing, err = c.api.Get(ctx, c.calendarID, eventID)
			if err != nil || existing.Status == "cancelled" {
				existing = nil
			}
		}
	}
	if existing == nil {
		existing, err = c.GetEventByKey(ctx, key)
		if err != nil {
			return nil, Unchanged, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existing != nil {
		patch, err := EventNeedsUpdate(existing, target)
		if err != nil {
			log.Error().Err(err).Str("event_id", existing.Id).Msg("could not compare scheduled slot with its calendar event")
			return nil, Unchanged, err
		}
		if c.index != nil {
			c.index.Set(idxKey, existing.Id)
		}
		if patch == nil {
			return existing, Unchanged, nil
		}
		updated, err := c.api.Patch(ctx, c.calendarID, existing.Id, patch)
		if err != nil {
			return nil, Unchanged, err
		}
		return updated, Updated, nil
	}

	created, err := c.api.Insert(ctx, c.calendarID, target)
	if err != nil {
		return nil, Unchanged, err
	}
	if c.index != nil {
		c.index.Set(idxKey, created.Id)
	}
	return created, Created, nil
}

// SyncResult counts what SyncSchedule changed.
type SyncResult struct {
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
}

// SyncSchedule pushes every event of a day's schedule and deletes the events
// pushed earlier for that owner and day that the schedule no longer contains.
// Mappings older than IndexRetentionDays before the current day are pruned.
func (c *CalendarClient) SyncSchedule(ctx context.Context, owner string, day time.Time, events []model.ScheduledEvent) (SyncResult, error) {
	var res SyncResult
	dayKey := model.DayKey(day)
	keep := make(map[string]bool, len(events))

	for _, ev := range events {
		_, outcome, err := c.SyncEvent(ctx, owner, dayKey, ev)
		if err != nil {
			return res, fmt.Errorf("sync %q: %w", ev.Title, err)
		}
		keep[index.Key(dayKey, owner, EventKey(owner, dayKey, ev))] = true
		switch outcome {
		case Created:
			res.Created++
		case Updated:
			res.Updated++
		default:
			res.Unchanged++
		}
	}

	if c.index == nil {
		return res, nil
	}
	for _, k := range c.index.KeysFor(dayKey, owner) {
		if keep[k] {
			continue
		}
		if err := c.DeleteEvent(ctx, c.index.Get(k)); err != nil {
			return res, err
		}
		c.index.Remove(k)
		res.Deleted++
	}
	cutoff := model.DayKey(c.now().In(day.Location()).AddDate(0, 0, -IndexRetentionDays))
	if n := c.index.PruneBefore(cutoff); n > 0 {
		log.Debug().Int("mappings", n).Msg("pruned event index")
	}
	return res, nil
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.api.Patch(ctx, c.calendarID, eventID, patch)
}

// DeleteEvent deletes an event from the calendar. Events that are already gone are not an error.
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.api.Delete(ctx, c.calendarID, eventID)
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone) {
		return nil
	}
	return err
}

// ListEvents fetches events from the calendar starting at timeMin.
func (c *CalendarClient) ListEvents(ctx context.Context, timeMin time.Time) ([]*calendar.Event, error) {
	events, err := c.api.List(ctx, c.calendarID, timeMin)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}
	return events, nil
}

// GetEventByKey searches for an event carrying key in its private extended properties.
func (c *CalendarClient) GetEventByKey(ctx context.Context, key string) (*calendar.Event, error) {
	events, err := c.api.FindByProperty(ctx, c.calendarID, PropertyKey, key)
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		if ev.Status != "cancelled" {
			return ev, nil
		}
	}
	return nil, nil
}
