package notify

import (
	"time"

	"github.com/harrisonrobin/systasks/pkg/model"
	"github.com/harrisonrobin/systasks/pkg/util"
)

const (
	DefaultEveningHour = 19
	// TriggerDelay is how far after the run a notification is scheduled.
	TriggerDelay = 3 * time.Second

	MorningTitle = "🔔 New quest!"
	EveningTitle = "🌙 Quest still open"
)

// Notice is a notification to deliver for one due task.
type Notice struct {
	Task    model.Task
	Title   string
	Body    string
	Evening bool
	At      time.Time
}

// Plan is the outcome of comparing today's due tasks with the previous ledger.
type Plan struct {
	Notices []Notice
	// Ledger is the new ledger: one entry per task of the current list, carrying
	// forward earlier stamps and holding the stamps of Notices.
	Ledger []model.LedgerEntry

	previous map[string]model.LedgerEntry
	index    map[string]int
}

// Build decides which due tasks to notify. A task fires once per day in the morning
// pass (its last-notified date differs from today) and once more in the evening pass
// when the local hour reaches eveningHour. A first notification at or after
// eveningHour counts for both passes.
func Build(due, all []model.Task, previous []model.LedgerEntry, now time.Time, eveningHour int) *Plan {
	p := &Plan{
		previous: make(map[string]model.LedgerEntry, len(previous)),
		index:    make(map[string]int, len(all)),
	}
	for _, e := range previous {
		p.previous[e.ID] = e
	}
	for _, t := range all {
		p.entry(t)
	}

	today := util.DateKey(now)
	evening := now.Hour() >= eveningHour
	at := now.Add(TriggerDelay)

	for _, t := range due {
		e := p.entry(t)
		switch {
		case e.LastNotifiedDate != today:
			e.LastNotifiedDate = today
			e.EveningNotified = evening
			p.Notices = append(p.Notices, Notice{Task: t, Title: MorningTitle, Body: t.Label(), At: at})
		case evening && !e.EveningNotified:
			e.EveningNotified = true
			p.Notices = append(p.Notices, Notice{Task: t, Title: EveningTitle, Body: t.Label(), Evening: true, At: at})
		}
	}
	return p
}

// entry returns the ledger slot for t, creating it from the previous ledger.
func (p *Plan) entry(t model.Task) *model.LedgerEntry {
	if i, ok := p.index[t.ID]; ok {
		return &p.Ledger[i]
	}
	prev := p.previous[t.ID]
	p.Ledger = append(p.Ledger, model.LedgerEntry{
		ID:               t.ID,
		Name:             t.Name,
		LastNotifiedDate: prev.LastNotifiedDate,
		EveningNotified:  prev.EveningNotified,
	})
	p.index[t.ID] = len(p.Ledger) - 1
	return &p.Ledger[len(p.Ledger)-1]
}

// revert restores the previous stamps of a task whose notice could not be delivered.
func (p *Plan) revert(id string) {
	i, ok := p.index[id]
	if !ok {
		return
	}
	prev := p.previous[id]
	p.Ledger[i].LastNotifiedDate = prev.LastNotifiedDate
	p.Ledger[i].EveningNotified = prev.EveningNotified
}
