// Package tasks reshapes Notion database rows into widget tasks.
package tasks

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/harrisonrobin/systasks/pkg/model"
	"github.com/harrisonrobin/systasks/pkg/notion"
	"github.com/harrisonrobin/systasks/pkg/util"
)

// UnknownDays marks a row that has neither a days count nor a next date.
// Such rows are listed but never due.
const UnknownDays = math.MaxInt32

var leadingEmoji = regexp.MustCompile(`^[\x{1F300}-\x{1F9FF}]`)

// FromPages builds one task per page, sorted by ascending next date.
func FromPages(pages []notion.Page, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(pages))
	for _, p := range pages {
		out = append(out, FromPage(p, now))
	}
	Sort(out)
	return out
}

// FromPage maps a single row. Missing properties leave the matching fields empty.
func FromPage(p notion.Page, now time.Time) model.Task {
	loc := now.Location()
	t := model.Task{ID: p.ID, URL: p.URL}

	if title, ok := p.Properties[notion.PropSystem].FirstTitle(); ok {
		t.Name = title.PlainText
		if title.Href != nil && *title.Href != "" {
			t.URL = *title.Href
		}
		if title.Mention != nil && title.Mention.Page != nil && title.Mention.Page.ID != "" {
			t.ID = title.Mention.Page.ID
		}
	}

	if prev, err := util.ParseDate(p.Properties[notion.PropPrevious].Formula.Text(), loc); err == nil {
		t.Previous = prev
	}
	if next, err := util.ParseDate(p.Properties[notion.PropNext].Formula.DateStart(), loc); err == nil {
		t.Next = next
	}

	if sel := p.Properties[notion.PropCategory].Select; sel != nil {
		t.Category = sel.Name
	}

	switch f := p.Properties[notion.PropDays].Formula; {
	case f != nil && f.Number != nil:
		t.Days = int(math.Round(*f.Number))
	case !t.Next.IsZero():
		t.Days = util.DaysUntil(now, t.Next)
	default:
		t.Days = UnknownDays
	}

	t.Actions = p.Properties[notion.PropActions].Formula.Text()
	t.Comment = p.Properties[notion.PropComment].Formula.Text()
	t.Icon = resolveIcon(p, t.Name)
	return t
}

// resolveIcon prefers the page emoji, then an emoji heading a property key that
// mentions the task name.
func resolveIcon(p notion.Page, name string) string {
	if p.Icon != nil && p.Icon.Emoji != "" {
		return p.Icon.Emoji
	}
	if name != "" {
		keys := make([]string, 0, len(p.Properties))
		for k := range p.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !strings.Contains(k, name) {
				continue
			}
			if m := leadingEmoji.FindString(k); m != "" {
				return m
			}
		}
	}
	return model.DefaultIcon
}

// Sort orders tasks by ascending next date; tasks without one go last.
// Equal dates keep their input order.
func Sort(ts []model.Task) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := ts[i].Next, ts[j].Next
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.Before(b)
	})
}

// DueToday returns the tasks whose days remaining is zero or negative.
func DueToday(ts []model.Task) []model.Task {
	var due []model.Task
	for _, t := range ts {
		if t.IsDue() {
			due = append(due, t)
		}
	}
	return due
}

// Upcoming returns at most n tasks from the head of the list.
func Upcoming(ts []model.Task, n int) []model.Task {
	if n < 0 || n >= len(ts) {
		return ts
	}
	return ts[:n]
}
