// Package google delivers notices as Google Calendar events with a popup reminder.
package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/systasks/pkg/index"
	"github.com/harrisonrobin/systasks/pkg/notify"
	"github.com/harrisonrobin/systasks/pkg/util"
)

const (
	eventDuration = 15 * time.Minute
	taskIDKey     = "systasks_id"
)

// CalendarNotifier creates one event per notice.
type CalendarNotifier struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
	now        func() time.Time
}

// NewCalendarNotifier records created events in idx, stamped with now (time.Now when nil).
func NewCalendarNotifier(srv *calendar.Service, calendarID string, idx *index.EventIndex, now func() time.Time) *CalendarNotifier {
	if now == nil {
		now = time.Now
	}
	return &CalendarNotifier{srv: srv, calendarID: calendarID, index: idx, now: now}
}

func (c *CalendarNotifier) Name() string { return "calendar" }

// Notify inserts the event for n, or patches the one already recorded in the index.
func (c *CalendarNotifier) Notify(ctx context.Context, n notify.Notice) error {
	event := ConvertNoticeToEvent(n)
	key := NoticeKey(n)

	if c.index != nil {
		if eventID := c.index.Get(key); eventID != "" {
			if _, err := c.srv.Events.Patch(c.calendarID, eventID, event).Context(ctx).Do(); err == nil {
				return nil
			}
			// Deleted on the calendar side; fall through and recreate it.
			c.index.Remove(key)
		}
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("insert calendar event: %w", err)
	}
	if c.index != nil {
		c.index.Set(key, created.Id, c.now())
	}
	return nil
}

// NoticeKey identifies a notice per task, day and pass.
func NoticeKey(n notify.Notice) string {
	key := n.Task.ID + "@" + util.DateKey(n.At)
	if n.Evening {
		key += "#evening"
	}
	return key
}

// ConvertNoticeToEvent builds a short event starting at the notice trigger time.
func ConvertNoticeToEvent(n notify.Notice) *calendar.Event {
	var desc strings.Builder
	if n.Task.Category != "" {
		desc.WriteString(fmt.Sprintf("Category: %s\n", n.Task.Category))
	}
	if !n.Task.Next.IsZero() {
		desc.WriteString(fmt.Sprintf("Due: %s\n", n.Task.Next.Format("02/01/2006")))
	}
	if n.Task.Actions != "" {
		desc.WriteString(fmt.Sprintf("\nActions:\n‣ %s\n", n.Task.Actions))
	}
	if n.Task.Comment != "" {
		desc.WriteString(fmt.Sprintf("\nNotes:\n‣ %s\n", n.Task.Comment))
	}
	if n.Task.URL != "" {
		desc.WriteString("\n" + n.Task.URL + "\n")
	}

	return &calendar.Event{
		Summary:     n.Title + " " + n.Body,
		Description: desc.String(),
		Source:      sourceFor(n),
		Start: &calendar.EventDateTime{
			DateTime: n.At.UTC().Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: n.At.Add(eventDuration).UTC().Format(time.RFC3339),
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: 0, ForceSendFields: []string{"Minutes"}},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				taskIDKey: n.Task.ID,
			},
		},
	}
}

func sourceFor(n notify.Notice) *calendar.EventSource {
	if n.Task.URL == "" {
		return nil
	}
	return &calendar.EventSource{Title: n.Task.Name, Url: n.Task.URL}
}
