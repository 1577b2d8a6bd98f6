package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-14", time.Date(2025, 3, 14, 0, 0, 0, 0, paris)},
		{"2025-03-14T08:30:00.000+01:00", time.Date(2025, 3, 14, 8, 30, 0, 0, time.FixedZone("", 3600))},
		{"2025-03-14T08:30:00Z", time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC)},
		{"March 14, 2025", time.Date(2025, 3, 14, 0, 0, 0, 0, paris)},
	}
	for _, c := range cases {
		got, err := ParseDate(c.in, paris)
		if err != nil {
			t.Errorf("ParseDate(%q) failed: %v", c.in, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "32/13/2025"} {
		if _, err := ParseDate(in, time.UTC); err == nil {
			t.Errorf("ParseDate(%q) expected an error", in)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 3, 14, 21, 0, 0, 0, time.UTC)

	if got := DaysUntil(now, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)); got != 0 {
		t.Errorf("same day: expected 0, got %d", got)
	}
	if got := DaysUntil(now, time.Date(2025, 3, 19, 6, 0, 0, 0, time.UTC)); got != 5 {
		t.Errorf("five days ahead: expected 5, got %d", got)
	}
	if got := DaysUntil(now, time.Date(2025, 3, 12, 23, 0, 0, 0, time.UTC)); got != -2 {
		t.Errorf("two days late: expected -2, got %d", got)
	}
}

func TestSameDayAndDateKey(t *testing.T) {
	a := time.Date(2025, 3, 14, 0, 1, 0, 0, time.UTC)
	b := time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("expected same day")
	}
	if SameDay(a, b.Add(2*time.Minute)) {
		t.Error("expected different days")
	}
	if DateKey(a) != "2025-03-14" {
		t.Errorf("unexpected date key %s", DateKey(a))
	}
}
