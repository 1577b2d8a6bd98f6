package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Notifier delivers a notice through one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, n Notice) error
}

// Deliver sends every notice of the plan through all notifiers. A notice that no
// notifier accepted has its ledger stamps reverted so the next run retries it.
// It returns the number of notices delivered at least once.
func Deliver(ctx context.Context, notifiers []Notifier, plan *Plan, log *zap.Logger) int {
	if log == nil {
		log = zap.NewNop()
	}
	delivered := 0
	for _, n := range plan.Notices {
		ok := false
		for _, nt := range notifiers {
			if err := nt.Notify(ctx, n); err != nil {
				log.Warn("notification failed",
					zap.String("notifier", nt.Name()),
					zap.String("task", n.Task.ID),
					zap.Error(err))
				continue
			}
			ok = true
		}
		if !ok {
			plan.revert(n.Task.ID)
			continue
		}
		delivered++
		log.Info("notified",
			zap.String("task", n.Task.ID),
			zap.String("name", n.Task.Name),
			zap.Bool("evening", n.Evening))
	}
	return delivered
}

// Terminal prints notices as a styled line and rings the terminal bell.
type Terminal struct {
	Out   io.Writer
	Bell  bool
	title lipgloss.Style
}

func NewTerminal(out io.Writer, r *lipgloss.Renderer, bell bool) *Terminal {
	if r == nil {
		r = lipgloss.NewRenderer(out)
	}
	return &Terminal{
		Out:   out,
		Bell:  bell,
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#004dcf")),
	}
}

func (t *Terminal) Name() string { return "terminal" }

func (t *Terminal) Notify(_ context.Context, n Notice) error {
	bell := ""
	if t.Bell {
		bell = "\a"
	}
	_, err := fmt.Fprintf(t.Out, "%s%s %s\n", bell, t.title.Render(n.Title), n.Body)
	return err
}
