package model

import (
	"strings"
	"time"
)

// DefaultIcon is used when neither the page nor its properties carry an emoji.
const DefaultIcon = "📝"

// Task is one row of the systems database, reshaped for the widgets.
type Task struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	URL      string    `json:"url,omitempty" yaml:"url,omitempty"`
	Category string    `json:"category,omitempty" yaml:"category,omitempty"`
	Icon     string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Previous time.Time `json:"previous" yaml:"previous"`
	Next     time.Time `json:"next" yaml:"next"`
	Days     int       `json:"days" yaml:"days"`
	Actions  string    `json:"actions,omitempty" yaml:"actions,omitempty"`
	Comment  string    `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Glyph returns the first word of the category (usually an emoji),
// or the icon when the task has no category.
func (t Task) Glyph() string {
	if fields := strings.Fields(t.Category); len(fields) > 0 {
		return fields[0]
	}
	if t.Icon != "" {
		return t.Icon
	}
	return DefaultIcon
}

// Label is the name prefixed with the category glyph.
func (t Task) Label() string {
	return t.Glyph() + " " + t.Name
}

// IsDue reports whether the task is due today or overdue.
func (t Task) IsDue() bool {
	return t.Days <= 0
}

// LedgerEntry is the trimmed copy of a task kept to de-duplicate notifications.
type LedgerEntry struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	LastNotifiedDate string `json:"lastNotifiedDate"`
	EveningNotified  bool   `json:"eveningNotified,omitempty"`
}
