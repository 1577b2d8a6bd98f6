package google

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/systasks/pkg/auth"
	"github.com/harrisonrobin/systasks/pkg/index"
)

// NewClient authorizes against Google and resolves calendarName to its id.
// Index entries are stamped with now.
func NewClient(ctx context.Context, dir, calendarName string, idx *index.EventIndex, now func() time.Time, log *zap.Logger) (*CalendarNotifier, error) {
	var srv *calendar.Service
	srv, err := auth.GetCalendarService(ctx, dir, log)
	if err != nil {
		return nil, err
	}

	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}

	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			return NewCalendarNotifier(srv, item.Id, idx, now), nil
		}
	}
	return nil, fmt.Errorf("calendar '%s' not found", calendarName)
}
