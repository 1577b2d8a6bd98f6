package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/systasks/pkg/app"
	"github.com/harrisonrobin/systasks/pkg/auth"
	"github.com/harrisonrobin/systasks/pkg/google"
	"github.com/harrisonrobin/systasks/pkg/index"
	"github.com/harrisonrobin/systasks/pkg/keychain"
	"github.com/harrisonrobin/systasks/pkg/model"
	"github.com/harrisonrobin/systasks/pkg/notify"
	"github.com/harrisonrobin/systasks/pkg/notion"
	"github.com/harrisonrobin/systasks/pkg/store"
	"github.com/harrisonrobin/systasks/pkg/watch"
	"github.com/harrisonrobin/systasks/pkg/widget"
)

const eventIndexFile = "events.json"

var (
	listFormat    string
	watchInterval time.Duration
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show the small widget and notify tasks that became due",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, cleanup, err := buildApp(ctx, os.Stdout, true)
		if err != nil {
			return err
		}
		defer cleanup()
		return a.Daily(ctx, os.Stdout)
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the upcoming actions",
	RunE:  runOverview,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the reshaped tasks as JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, cleanup, err := buildApp(ctx, os.Stdout, false)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := a.Load(ctx)
		if err != nil {
			return err
		}
		logger.Debug("loaded tasks", zap.Stringer("origin", res.Origin), zap.Int("count", len(res.Tasks)))
		return writeTasks(os.Stdout, listFormat, res)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Redraw the overview whenever the snapshot changes",
	Long: `watch redraws the overview from the local snapshot each time it is rewritten,
for example by a scheduled "systasks daily". With --interval it also refreshes
from Notion on its own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, cleanup, err := buildApp(ctx, os.Stdout, false)
		if err != nil {
			return err
		}
		defer cleanup()

		if watchInterval > 0 {
			if _, err := a.Load(ctx); err != nil {
				logger.Warn("initial refresh failed", zap.Error(err))
			}
			go refreshLoop(ctx, a, watchInterval)
		}

		redraw := func() {
			fmt.Fprint(os.Stdout, "\033[H\033[2J")
			if err := a.SnapshotOverview(os.Stdout); err != nil {
				logger.Warn("redraw failed", zap.Error(err))
			}
		}
		onError := func(err error) { logger.Warn("watch error", zap.Error(err)) }
		return watch.Run(ctx, a.Store.Location(), redraw, onError)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "json", "Output format: json or yaml")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Also refresh from Notion at this interval (0 disables)")

	rootCmd.AddCommand(dailyCmd, overviewCmd, listCmd, watchCmd)
}

func runOverview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, cleanup, err := buildApp(ctx, os.Stdout, false)
	if err != nil {
		return err
	}
	defer cleanup()
	return a.Overview(ctx, os.Stdout)
}

func refreshLoop(ctx context.Context, a *app.App, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := a.Load(ctx)
			if err != nil {
				logger.Warn("refresh failed", zap.Error(err))
				continue
			}
			logger.Debug("refreshed", zap.Stringer("origin", res.Origin))
		}
	}
}

type listing struct {
	Source  string       `json:"source" yaml:"source"`
	SavedAt time.Time    `json:"savedAt" yaml:"savedAt"`
	Tasks   []model.Task `json:"tasks" yaml:"tasks"`
}

func writeTasks(w io.Writer, format string, res *app.Result) error {
	out := listing{Source: res.Origin.String(), SavedAt: res.SavedAt, Tasks: res.Tasks}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

// buildApp wires the Notion client, store, renderer and notifiers from the loaded
// configuration. Missing credentials leave the source unset so runs fall back to
// the snapshot.
func buildApp(ctx context.Context, out io.Writer, withNotifiers bool) (*app.App, func(), error) {
	st, err := store.Open(cfg.Store, cfgDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	a := &app.App{
		Store:       st,
		Renderer:    widget.New(out, widget.WithMaxItems(cfg.MaxItems), widget.WithURL(cfg.WidgetURL)),
		Log:         logger,
		EveningHour: cfg.EveningHour,
		Now:         now,
	}

	token, dbID := credentials()
	a.DatabaseID = dbID
	client, err := notion.NewClient(ctx, token,
		notion.WithVersion(cfg.NotionVersion),
		notion.WithTimeout(cfg.Timeout()),
	)
	if err != nil {
		logger.Warn("notion client unavailable, run `systasks setup`", zap.Error(err))
	} else {
		a.Source = client
	}

	var idx *index.EventIndex
	if withNotifiers {
		a.Notifiers, idx = buildNotifiers(ctx)
	}

	cleanup := func() {
		if idx != nil {
			if n := idx.Prune(now(), index.DefaultRetention); n > 0 {
				logger.Debug("pruned event index", zap.Int("removed", n))
			}
			if err := idx.Save(); err != nil {
				logger.Warn("failed to save event index", zap.Error(err))
			}
		}
		if err := st.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}
	return a, cleanup, nil
}

// credentials prefers the environment over the keychain.
func credentials() (token, dbID string) {
	token, dbID = cfg.NotionToken, cfg.DatabaseID
	if token != "" && dbID != "" {
		return token, dbID
	}
	kc, err := keychain.Open(cfgDir)
	if err != nil {
		logger.Warn("failed to open keychain", zap.Error(err))
		return token, dbID
	}
	if token == "" {
		token = kc.Get(keychain.TokenKey)
	}
	if dbID == "" {
		dbID = kc.Get(keychain.DatabaseKey)
	}
	return token, dbID
}

func buildNotifiers(ctx context.Context) ([]notify.Notifier, *index.EventIndex) {
	var (
		out []notify.Notifier
		idx *index.EventIndex
	)
	for _, name := range cfg.Notifiers {
		switch name {
		case "terminal":
			out = append(out, notify.NewTerminal(os.Stderr, nil, cfg.Bell))
		case "calendar":
			if _, err := os.Stat(filepath.Join(cfgDir, auth.TokenFile)); errors.Is(err, os.ErrNotExist) {
				logger.Warn("calendar notifier needs authorization, run `systasks auth`")
				continue
			}
			var err error
			idx, err = index.NewEventIndex(filepath.Join(cfgDir, eventIndexFile))
			if err != nil {
				logger.Warn("failed to load event index", zap.Error(err))
				continue
			}
			cal, err := google.NewClient(ctx, cfgDir, cfg.Calendar, idx, now, logger)
			if err != nil {
				logger.Warn("calendar notifier disabled", zap.Error(err))
				idx = nil
				continue
			}
			out = append(out, cal)
		default:
			logger.Warn("unknown notifier", zap.String("name", name))
		}
	}
	return out, idx
}
