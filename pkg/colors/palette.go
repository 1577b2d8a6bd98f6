// Package colors holds the widget palette and the days-remaining tiers.
package colors

import "github.com/charmbracelet/lipgloss"

var (
	Today    = lipgloss.Color("#004dcf")
	Muted    = lipgloss.AdaptiveColor{Light: "#6b6b6b", Dark: "#8a8a8a"}
	Error    = lipgloss.Color("#d0342c")
	Chill    = lipgloss.Color("#8f00ff")
	ChillSub = lipgloss.Color("#bb63ff")
	ChillDim = lipgloss.Color("#d9a8ff")
	TaskList = lipgloss.Color("#4377cf")
)

// Tier is how urgent a task looks in the overview.
type Tier int

const (
	TierDue Tier = iota
	TierSoon
	TierWeek
	TierLater
)

// TierFor buckets days remaining: due (≤0), soon (1-3), week (4-10), later (>10).
func TierFor(days int) Tier {
	switch {
	case days > 10:
		return TierLater
	case days > 3:
		return TierWeek
	case days > 0:
		return TierSoon
	default:
		return TierDue
	}
}

// Color of the days-remaining line for the tier.
func (t Tier) Color() lipgloss.Color {
	switch t {
	case TierLater:
		return lipgloss.Color("#A7C7E7")
	case TierWeek:
		return lipgloss.Color("#5C89B3")
	case TierSoon:
		return lipgloss.Color("#3371A1")
	default:
		return Today
	}
}

// Bold reports whether the tier is rendered in bold.
func (t Tier) Bold() bool {
	return t == TierSoon || t == TierDue
}
