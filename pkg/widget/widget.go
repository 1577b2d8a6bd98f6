// Package widget draws the overview and daily widgets as terminal boxes.
package widget

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/harrisonrobin/systasks/pkg/colors"
	"github.com/harrisonrobin/systasks/pkg/model"
	"github.com/harrisonrobin/systasks/pkg/tasks"
	"github.com/harrisonrobin/systasks/pkg/util"
)

const (
	LargeWidth = 44
	SmallWidth = 24
	padding    = 1

	markerFresh  = "🔄"
	markerCached = "📱"
	dateLayout   = "02/01/2006"
)

// View is what a widget shows: the task list and where it came from.
type View struct {
	Tasks   []model.Task
	Cached  bool
	SavedAt time.Time
	Now     time.Time
}

type Renderer struct {
	r          *lipgloss.Renderer
	MaxItems   int
	Width      int
	Hyperlinks bool
	// URL is opened from the widget header, usually the Notion database.
	URL string
}

type Option func(*Renderer)

func WithMaxItems(n int) Option { return func(w *Renderer) { w.MaxItems = n } }
func WithWidth(n int) Option    { return func(w *Renderer) { w.Width = n } }
func WithURL(u string) Option   { return func(w *Renderer) { w.URL = u } }

// WithHyperlinks overrides terminal detection for OSC 8 links.
func WithHyperlinks(on bool) Option { return func(w *Renderer) { w.Hyperlinks = on } }

// WithProfile forces a color profile; termenv.Ascii disables styling and links.
func WithProfile(p termenv.Profile) Option {
	return func(w *Renderer) {
		w.r.SetColorProfile(p)
		w.Hyperlinks = p != termenv.Ascii
	}
}

// New returns a renderer for out. Styling and hyperlinks follow what out supports.
func New(out io.Writer, opts ...Option) *Renderer {
	r := lipgloss.NewRenderer(out)
	w := &Renderer{
		r:          r,
		MaxItems:   6,
		Width:      LargeWidth,
		Hyperlinks: r.ColorProfile() != termenv.Ascii,
	}
	if f, ok := out.(*os.File); ok {
		w.Width = fitWidth(f, LargeWidth)
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// LipglossRenderer exposes the renderer so notifiers can share its profile.
func (w *Renderer) LipglossRenderer() *lipgloss.Renderer { return w.r }

// fitWidth shrinks the large widget on narrow terminals.
func fitWidth(f *os.File, want int) int {
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 || cols >= want {
		return want
	}
	if cols < SmallWidth {
		return SmallWidth
	}
	return cols
}

func (w *Renderer) box(width int) lipgloss.Style {
	return w.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, padding).
		Width(width - 2)
}

func (w *Renderer) link(url, text string) string {
	if !w.Hyperlinks || url == "" {
		return text
	}
	return termenv.Hyperlink(url, text)
}

func marker(cached bool) string {
	if cached {
		return markerCached
	}
	return markerFresh
}

// Overview renders the large widget: the next MaxItems tasks with their due state.
func (w *Renderer) Overview(v View) string {
	header := w.r.NewStyle().Bold(true).Render(w.link(w.URL, "🚀 Upcoming actions") + " " + marker(v.Cached))

	var items []string
	for _, t := range tasks.Upcoming(v.Tasks, w.MaxItems) {
		items = append(items, w.item(t))
	}
	if len(items) == 0 {
		items = append(items, w.r.NewStyle().Foreground(colors.Muted).Render("Nothing scheduled"))
	}

	inner := w.Width - 2 - 2*padding
	footer := w.r.NewStyle().
		Foreground(colors.Muted).
		Width(inner).
		Align(lipgloss.Right).
		Render(w.footer(v))

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		strings.Join(items, "\n\n"),
		"",
		footer,
	)
	return w.box(w.Width).Render(body)
}

func (w *Renderer) item(t model.Task) string {
	name := w.r.NewStyle().Bold(true)
	date := w.r.NewStyle().Foreground(colors.Muted)

	if t.IsDue() {
		hl := w.r.NewStyle().Bold(true).Italic(true).Foreground(colors.Today)
		return lipgloss.JoinVertical(lipgloss.Left,
			hl.Render(w.link(t.URL, t.Label())),
			w.r.NewStyle().Bold(true).Foreground(colors.Today).Render("📆 Today"),
		)
	}

	lines := []string{name.Render(w.link(t.URL, t.Label()))}
	if t.Next.IsZero() || t.Days == tasks.UnknownDays {
		lines = append(lines, date.Render("no date"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	lines = append(lines, date.Render(t.Next.Format(dateLayout)))

	tier := colors.TierFor(t.Days)
	remaining := fmt.Sprintf("%d day%s remaining", t.Days, util.Plural(t.Days, "s"))
	lines = append(lines, w.r.NewStyle().Bold(tier.Bold()).Foreground(tier.Color()).Render(remaining))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (w *Renderer) footer(v View) string {
	if v.Cached && !v.SavedAt.IsZero() {
		return fmt.Sprintf("%s • saved %s", markerCached, humanize.RelTime(v.SavedAt, v.Now, "ago", "from now"))
	}
	return fmt.Sprintf("%s • %s", marker(v.Cached), v.Now.Format("15:04"))
}

// Daily renders the small widget: CHILL with a countdown when nothing is due,
// otherwise the count and labels of today's tasks.
func (w *Renderer) Daily(v View) string {
	due := tasks.DueToday(v.Tasks)
	inner := SmallWidth - 2 - 2*padding
	center := w.r.NewStyle().Width(inner).Align(lipgloss.Center)

	var lines []string
	if len(due) == 0 {
		lines = append(lines, center.Bold(true).Italic(true).Foreground(colors.Chill).Render(w.link(w.URL, "CHILL")))
		if len(v.Tasks) > 0 {
			next := v.Tasks[0]
			countdown := "J-?"
			if next.Days != tasks.UnknownDays {
				countdown = fmt.Sprintf("J-%d", next.Days)
			}
			lines = append(lines, center.Bold(true).Foreground(colors.ChillSub).Render(countdown))
			if !next.Next.IsZero() {
				lines = append(lines, "", center.Italic(true).Faint(true).Foreground(colors.ChillDim).Render(next.Next.Format(dateLayout)))
			}
		}
	} else {
		header := fmt.Sprintf("%d TASK%s", len(due), util.Plural(len(due), "S"))
		lines = append(lines,
			center.Bold(true).Italic(true).Foreground(colors.Today).Render(w.link(w.URL, header)),
			center.Render("🔔"),
			"",
		)
		label := center.MaxHeight(1).Foreground(colors.TaskList)
		for _, t := range due {
			lines = append(lines, label.Render(truncate(t.Label(), inner)))
		}
	}
	if v.Cached {
		lines = append(lines, "", center.Foreground(colors.Muted).Render(markerCached))
	}
	return w.box(SmallWidth).Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// Error renders the placeholder shown when neither fresh data nor a snapshot exists.
func (w *Renderer) Error() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		w.r.NewStyle().Bold(true).Render("⚠️ Connection error"),
		"",
		w.r.NewStyle().Foreground(colors.Error).Render("Unable to load data"),
	)
	return w.box(w.Width).Render(body)
}

// truncate keeps labels on one line, like the widget's line limit.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
