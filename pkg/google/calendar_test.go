package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/harrisonrobin/systasks/pkg/index"
	"github.com/harrisonrobin/systasks/pkg/model"
	"github.com/harrisonrobin/systasks/pkg/notify"
)

func sampleNotice() notify.Notice {
	at := time.Date(2025, 3, 14, 8, 0, 3, 0, time.UTC)
	return notify.Notice{
		Task: model.Task{
			ID:       "page-plants",
			Name:     "Plantes",
			Category: "🌿 Maison",
			URL:      "https://www.notion.so/plantes",
			Next:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			Actions:  "Arroser",
		},
		Title: notify.MorningTitle,
		Body:  "🌿 Plantes",
		At:    at,
	}
}

func TestConvertNoticeToEvent(t *testing.T) {
	event := ConvertNoticeToEvent(sampleNotice())

	assert.Equal(t, "🔔 New quest! 🌿 Plantes", event.Summary)
	assert.Equal(t, "2025-03-14T08:00:03Z", event.Start.DateTime)
	assert.Equal(t, "2025-03-14T08:15:03Z", event.End.DateTime)
	assert.Equal(t, "page-plants", event.ExtendedProperties.Private[taskIDKey])
	require.Len(t, event.Reminders.Overrides, 1)
	assert.Equal(t, "popup", event.Reminders.Overrides[0].Method)
	assert.Contains(t, event.Description, "Category: 🌿 Maison")
	assert.Contains(t, event.Description, "Due: 14/03/2025")
	assert.Contains(t, event.Description, "‣ Arroser")
	assert.Equal(t, "https://www.notion.so/plantes", event.Source.Url)
}

func TestNoticeKey(t *testing.T) {
	n := sampleNotice()
	assert.Equal(t, "page-plants@2025-03-14", NoticeKey(n))
	n.Evening = true
	assert.Equal(t, "page-plants@2025-03-14#evening", NoticeKey(n))
}

func TestCalendarNotifierInsertsThenPatches(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+strings.TrimPrefix(r.URL.Path, "/calendar/v3"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "evt-1"})
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(srv.Client()), option.WithEndpoint(srv.URL+"/calendar/v3/"))
	require.NoError(t, err)

	idx, err := index.NewEventIndex(filepath.Join(t.TempDir(), "events.json"))
	require.NoError(t, err)

	n := NewCalendarNotifier(svc, "cal-1", idx, nil)
	require.NoError(t, n.Notify(ctx, sampleNotice()))
	assert.Equal(t, "evt-1", idx.Get("page-plants@2025-03-14"))

	require.NoError(t, n.Notify(ctx, sampleNotice()))
	assert.Equal(t, []string{
		"POST /calendars/cal-1/events",
		"PATCH /calendars/cal-1/events/evt-1",
	}, methods)
}

func TestCalendarNotifierStampsIndexWithClock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "evt-9"})
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(srv.Client()), option.WithEndpoint(srv.URL+"/calendar/v3/"))
	require.NoError(t, err)

	idx, err := index.NewEventIndex(filepath.Join(t.TempDir(), "events.json"))
	require.NoError(t, err)

	future := time.Date(2030, 1, 2, 9, 0, 0, 0, time.UTC)
	n := NewCalendarNotifier(svc, "cal-1", idx, func() time.Time { return future })
	require.NoError(t, n.Notify(ctx, sampleNotice()))

	key := NoticeKey(sampleNotice())
	assert.Equal(t, future, idx.Mappings[key].Created)
	assert.Zero(t, idx.Prune(future, index.DefaultRetention))
	assert.Equal(t, "evt-9", idx.Get(key))
}
