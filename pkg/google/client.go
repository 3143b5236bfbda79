package google

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/dosely/pkg/auth"
	"github.com/harrisonrobin/dosely/pkg/colors"
	"github.com/harrisonrobin/dosely/pkg/index"
)

// PrimaryCalendar selects the account's primary calendar without a lookup.
const PrimaryCalendar = "primary"

// NewClient authenticates against Google and resolves calendarName to its id.
func NewClient(ctx context.Context, dir, calendarName string, idx *index.EventIndex, palette colors.Palette) (*CalendarClient, error) {
	srv, err := auth.GetCalendarService(ctx, dir)
	if err != nil {
		return nil, err
	}

	calendarID, err := resolveCalendar(ctx, srv, calendarName)
	if err != nil {
		return nil, err
	}
	return NewCalendarClient(serviceAPI{srv: srv}, calendarID, idx, palette), nil
}

func resolveCalendar(ctx context.Context, srv *calendar.Service, name string) (string, error) {
	if name == "" || name == PrimaryCalendar {
		return PrimaryCalendar, nil
	}
	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	for _, item := range calendarList.Items {
		if item.Summary == name {
			return item.Id, nil
		}
	}
	return "", fmt.Errorf("calendar '%s' not found", name)
}

// serviceAPI adapts *calendar.Service to EventsAPI.
type serviceAPI struct {
	srv *calendar.Service
}

func (s serviceAPI) Get(ctx context.Context, calendarID, eventID string) (*calendar.Event, error) {
	return s.srv.Events.Get(calendarID, eventID).Context(ctx).Do()
}

func (s serviceAPI) Insert(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	return s.srv.Events.Insert(calendarID, event).Context(ctx).Do()
}

func (s serviceAPI) Patch(ctx context.Context, calendarID, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return s.srv.Events.Patch(calendarID, eventID, patch).Context(ctx).Do()
}

func (s serviceAPI) Delete(ctx context.Context, calendarID, eventID string) error {
	return s.srv.Events.Delete(calendarID, eventID).Context(ctx).Do()
}

func (s serviceAPI) FindByProperty(ctx context.Context, calendarID, key, value string) ([]*calendar.Event, error) {
	events, err := s.srv.Events.List(calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", key, value)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return events.Items, nil
}

func (s serviceAPI) List(ctx context.Context, calendarID string, timeMin time.Time) ([]*calendar.Event, error) {
	events, err := s.srv.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return events.Items, nil
}
