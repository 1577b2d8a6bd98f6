package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/systasks/pkg/config"
	"github.com/harrisonrobin/systasks/pkg/logging"
	"github.com/harrisonrobin/systasks/pkg/util"
)

var (
	verbose bool
	atFlag  string
	envFile string

	cfg    *config.Config
	cfgDir string
	logger *zap.Logger
	// now is fixed when --at is given.
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "systasks",
	Short: "Maintenance tasks from a Notion systems database, as terminal widgets",
	Long: `systasks reads the systems database in Notion and shows what is due.

  systasks daily      small widget: CHILL, or the tasks due today
  systasks overview   large widget: the next upcoming actions

Each successful fetch is saved locally and shown when Notion cannot be reached.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}

		var err error
		cfgDir, err = config.Dir()
		if err != nil {
			return fmt.Errorf("could not find configuration directory: %w", err)
		}
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ApplyEnv()

		logger = logging.New(logging.Options{
			Dir:     cfgDir,
			Level:   cfg.LogLevel,
			Verbose: verbose,
			Console: os.Stderr,
		})

		if atFlag != "" {
			at, err := util.ParseAt(atFlag, time.Now())
			if err != nil {
				return err
			}
			logger.Debug("using simulated clock", zap.Time("at", at))
			now = func() time.Time { return at }
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOverview(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&atFlag, "at", "", `Run as if it were this time ("tomorrow 8am", "2025-03-14")`)
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Dotenv file with NOTION_TOKEN and NOTION_DB_ID")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
