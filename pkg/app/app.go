// Package app runs one widget refresh: fetch, reshape, fall back to the snapshot,
// render, then notify.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/harrisonrobin/systasks/pkg/model"
	"github.com/harrisonrobin/systasks/pkg/notify"
	"github.com/harrisonrobin/systasks/pkg/notion"
	"github.com/harrisonrobin/systasks/pkg/store"
	"github.com/harrisonrobin/systasks/pkg/tasks"
	"github.com/harrisonrobin/systasks/pkg/widget"
)

var (
	// ErrNoData is returned by Load when the fetch failed and no snapshot exists.
	ErrNoData = errors.New("no data: fetch failed and no snapshot is saved")
	// ErrNoSource stands in for the fetch error when no credentials were configured.
	ErrNoSource = errors.New("notion source is not configured")
)

// Source is anything that can list the rows of a Notion database.
type Source interface {
	QueryDatabase(ctx context.Context, databaseID string) ([]notion.Page, error)
}

// Origin tells where a Result's tasks came from.
type Origin int

const (
	Fresh Origin = iota
	Cached
	Unavailable
)

func (o Origin) String() string {
	switch o {
	case Fresh:
		return "fresh"
	case Cached:
		return "cached"
	default:
		return "unavailable"
	}
}

type Result struct {
	Tasks   []model.Task
	Origin  Origin
	SavedAt time.Time
	// FetchErr is the error that forced a fallback, if any.
	FetchErr error
}

type App struct {
	Source      Source
	DatabaseID  string
	Store       store.Store
	Notifiers   []notify.Notifier
	Renderer    *widget.Renderer
	Log         *zap.Logger
	EveningHour int
	// Now is the clock; tests and --at replace it.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) log() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// Load fetches the database and saves a snapshot. When the fetch fails for any
// reason it returns the last snapshot instead, or ErrNoData when there is none.
func (a *App) Load(ctx context.Context) (*Result, error) {
	now := a.now()
	log := a.log()

	fetchErr := ErrNoSource
	if a.Source != nil {
		pages, err := a.Source.QueryDatabase(ctx, a.DatabaseID)
		if err == nil {
			ts := tasks.FromPages(pages, now)
			log.Debug("fetched tasks", zap.Int("count", len(ts)))
			if err := a.Store.SaveSnapshot(ts, now); err != nil {
				log.Warn("could not save snapshot", zap.String("path", a.Store.Location()), zap.Error(err))
			}
			return &Result{Tasks: ts, Origin: Fresh, SavedAt: now}, nil
		}
		fetchErr = err
	}
	log.Warn("fetch failed, using snapshot", zap.Error(fetchErr))

	snap, err := a.Store.LoadSnapshot()
	if err != nil {
		if !errors.Is(err, store.ErrNoSnapshot) {
			log.Warn("could not read snapshot", zap.String("path", a.Store.Location()), zap.Error(err))
		}
		return &Result{Origin: Unavailable, FetchErr: fetchErr}, fmt.Errorf("%w: %v", ErrNoData, fetchErr)
	}
	return &Result{Tasks: snap.Tasks, Origin: Cached, SavedAt: snap.SavedAt, FetchErr: fetchErr}, nil
}

func (a *App) view(res *Result) widget.View {
	return widget.View{
		Tasks:   res.Tasks,
		Cached:  res.Origin == Cached,
		SavedAt: res.SavedAt,
		Now:     a.now(),
	}
}

// Daily renders the small widget and, on fresh data, notifies newly due tasks.
func (a *App) Daily(ctx context.Context, w io.Writer) error {
	res, err := a.Load(ctx)
	if err != nil {
		a.log().Error("no data to render", zap.Error(err))
		_, werr := fmt.Fprintln(w, a.Renderer.Error())
		return werr
	}
	if _, err := fmt.Fprintln(w, a.Renderer.Daily(a.view(res))); err != nil {
		return err
	}
	if res.Origin == Fresh {
		a.Notify(ctx, res.Tasks)
	}
	return nil
}

// Overview renders the large widget.
func (a *App) Overview(ctx context.Context, w io.Writer) error {
	res, err := a.Load(ctx)
	if err != nil {
		a.log().Error("no data to render", zap.Error(err))
		_, werr := fmt.Fprintln(w, a.Renderer.Error())
		return werr
	}
	_, err = fmt.Fprintln(w, a.Renderer.Overview(a.view(res)))
	return err
}

// Notify runs the de-duplication plan over the due tasks of ts, delivers it and
// persists the ledger. It returns how many notices were delivered.
func (a *App) Notify(ctx context.Context, ts []model.Task) int {
	due := tasks.DueToday(ts)
	if len(due) == 0 {
		return 0
	}
	log := a.log()

	previous, err := a.Store.LoadLedger()
	if err != nil {
		log.Warn("could not read notification ledger", zap.Error(err))
	}
	hour := a.EveningHour
	if hour <= 0 {
		hour = notify.DefaultEveningHour
	}
	plan := notify.Build(due, ts, previous, a.now(), hour)
	if len(plan.Notices) == 0 {
		log.Debug("nothing new to notify", zap.Int("due", len(due)))
	}

	n := notify.Deliver(ctx, a.Notifiers, plan, log)
	if err := a.Store.SaveLedger(plan.Ledger); err != nil {
		log.Warn("could not save notification ledger", zap.Error(err))
	}
	return n
}

// Snapshot returns the saved task list without contacting Notion.
func (a *App) Snapshot() (*Result, error) {
	snap, err := a.Store.LoadSnapshot()
	if err != nil {
		return &Result{Origin: Unavailable}, err
	}
	return &Result{Tasks: snap.Tasks, Origin: Cached, SavedAt: snap.SavedAt}, nil
}

// SnapshotOverview renders the overview from the snapshot only. The watch
// command redraws with it whenever another run refreshes the snapshot.
func (a *App) SnapshotOverview(w io.Writer) error {
	res, err := a.Snapshot()
	if err != nil {
		a.log().Warn("no snapshot to render", zap.Error(err))
		_, werr := fmt.Fprintln(w, a.Renderer.Error())
		return werr
	}
	_, err = fmt.Fprintln(w, a.Renderer.Overview(a.view(res)))
	return err
}
